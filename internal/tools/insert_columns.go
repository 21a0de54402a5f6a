package tools

import (
	"context"
	"fmt"
	"html"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type InsertColumnsArguments struct {
	FilePath    string `zog:"filePath"`
	SheetName   string `zog:"sheetName"`
	StartColumn string `zog:"startColumn"`
	Count       int    `zog:"count"`
}

var insertColumnsArgumentsSchema = z.Struct(z.Shape{
	"filePath":    z.String().Required(),
	"sheetName":   z.String().Optional(),
	"startColumn": z.String().Required(),
	"count":       z.Int().Default(1),
})

func AddInsertColumnsTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("insert_columns",
		mcp.WithDescription("Insert blank columns before a column, shifting existing columns right"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithString("startColumn",
			mcp.Required(),
			mcp.Description("Column letter to insert before (e.g. \"C\")"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of columns to insert [default: 1]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := InsertColumnsArguments{}
		if issues := insertColumnsArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return insertColumns(cache, args)
	}))
}

func insertColumns(cache *excel.Cache, args InsertColumnsArguments) (*mcp.CallToolResult, error) {
	col, err := excel.ColumnNumber(args.StartColumn)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if args.Count < 1 {
		return imcp.NewToolResultInvalidArgumentError("count must be 1 or greater"), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.InsertColumns(col, args.Count); err != nil {
		return nil, fmt.Errorf("failed to insert columns: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Inserted %d column(s) before column %s on sheet [%s].\n",
		args.Count, strings.ToUpper(args.StartColumn), html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
