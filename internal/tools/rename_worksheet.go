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

type RenameWorksheetArguments struct {
	FilePath string `zog:"filePath"`
	OldName  string `zog:"oldName"`
	NewName  string `zog:"newName"`
}

var renameWorksheetArgumentsSchema = z.Struct(z.Shape{
	"filePath": z.String().Required(),
	"oldName":  z.String().Required(),
	"newName":  z.String().Required(),
})

func AddRenameWorksheetTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("rename_worksheet",
		mcp.WithDescription("Rename a worksheet"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("oldName",
			mcp.Required(),
			mcp.Description("Current sheet name"),
		),
		mcp.WithString("newName",
			mcp.Required(),
			mcp.Description("New sheet name; must not collide with an existing one"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := RenameWorksheetArguments{}
		if issues := renameWorksheetArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return renameWorksheet(cache, args)
	}))
}

func renameWorksheet(cache *excel.Cache, args RenameWorksheetArguments) (*mcp.CallToolResult, error) {
	workbook, err := cache.Load(args.FilePath)
	if err != nil {
		return errorResult(err)
	}
	if err := workbook.RenameSheet(args.OldName, args.NewName); err != nil {
		return errorResult(err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Sheet [%s] renamed to [%s].\n", html.EscapeString(args.OldName), html.EscapeString(args.NewName))
	return mcp.NewToolResultText(result), nil
}
