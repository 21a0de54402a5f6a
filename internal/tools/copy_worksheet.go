package tools

import (
	"context"
	"fmt"
	"html"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type CopyWorksheetArguments struct {
	FilePath    string `zog:"filePath"`
	SourceSheet string `zog:"sourceSheet"`
	TargetSheet string `zog:"targetSheet"`
}

var copyWorksheetArgumentsSchema = z.Struct(z.Shape{
	"filePath":    z.String().Required(),
	"sourceSheet": z.String().Required(),
	"targetSheet": z.String().Required(),
})

func AddCopyWorksheetTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("copy_worksheet",
		mcp.WithDescription("Copy a worksheet within a workbook, including values, styles, dimensions and merged regions"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sourceSheet",
			mcp.Required(),
			mcp.Description("Sheet to copy"),
		),
		mcp.WithString("targetSheet",
			mcp.Required(),
			mcp.Description("Name for the copy; must not collide with an existing sheet"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := CopyWorksheetArguments{}
		if issues := copyWorksheetArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return copyWorksheet(cache, args)
	}))
}

func copyWorksheet(cache *excel.Cache, args CopyWorksheetArguments) (*mcp.CallToolResult, error) {
	workbook, err := cache.Load(args.FilePath)
	if err != nil {
		return errorResult(err)
	}
	if err := workbook.CopySheet(args.SourceSheet, args.TargetSheet); err != nil {
		return errorResult(err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Sheet [%s] copied to [%s].\n", html.EscapeString(args.SourceSheet), html.EscapeString(args.TargetSheet))
	return mcp.NewToolResultText(result), nil
}
