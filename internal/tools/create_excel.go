package tools

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type CreateExcelArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
}

var createExcelArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Default("Sheet1"),
})

func AddCreateExcelTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("create_excel",
		mcp.WithDescription("Create a new Excel workbook. Fails if the file already exists"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path for the new Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Name of the initial sheet [default: \"Sheet1\"]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := CreateExcelArguments{}
		if issues := createExcelArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return createExcel(cache, args)
	}))
}

func createExcel(cache *excel.Cache, args CreateExcelArguments) (*mcp.CallToolResult, error) {
	workbook, err := cache.Create(args.FilePath, args.SheetName)
	if err != nil {
		return errorResult(err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("New workbook created at: %s\n", workbook.Path())
	result += fmt.Sprintf("Initial sheet: [%s]\n", args.SheetName)
	return mcp.NewToolResultText(result), nil
}
