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

type InsertRowsArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	StartRow  int    `zog:"startRow"`
	Count     int    `zog:"count"`
}

var insertRowsArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"startRow":  z.Int().Required(),
	"count":     z.Int().Default(1),
})

func AddInsertRowsTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("insert_rows",
		mcp.WithDescription("Insert blank rows before a row, shifting existing rows down"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithNumber("startRow",
			mcp.Required(),
			mcp.Description("1-based row number to insert before"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of rows to insert [default: 1]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := InsertRowsArguments{}
		if issues := insertRowsArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return insertRows(cache, args)
	}))
}

func insertRows(cache *excel.Cache, args InsertRowsArguments) (*mcp.CallToolResult, error) {
	if args.StartRow < 1 {
		return imcp.NewToolResultInvalidArgumentError("startRow must be 1 or greater"), nil
	}
	if args.Count < 1 {
		return imcp.NewToolResultInvalidArgumentError("count must be 1 or greater"), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.InsertRows(args.StartRow, args.Count); err != nil {
		return nil, fmt.Errorf("failed to insert rows: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Inserted %d row(s) before row %d on sheet [%s].\n",
		args.Count, args.StartRow, html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
