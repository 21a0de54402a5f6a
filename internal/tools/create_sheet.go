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

type CreateSheetArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
}

var createSheetArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Required(),
})

func AddCreateSheetTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("create_sheet",
		mcp.WithDescription("Create a new worksheet in an existing workbook"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Required(),
			mcp.Description("Name of the new sheet; must not collide with an existing one"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := CreateSheetArguments{}
		if issues := createSheetArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return createSheet(cache, args)
	}))
}

func createSheet(cache *excel.Cache, args CreateSheetArguments) (*mcp.CallToolResult, error) {
	workbook, err := cache.Load(args.FilePath)
	if err != nil {
		return errorResult(err)
	}
	if err := workbook.CreateSheet(args.SheetName); err != nil {
		return errorResult(err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Sheet [%s] created.\n", html.EscapeString(args.SheetName))
	return mcp.NewToolResultText(result), nil
}
