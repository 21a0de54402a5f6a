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

type DeleteColumnsArguments struct {
	FilePath    string `zog:"filePath"`
	SheetName   string `zog:"sheetName"`
	StartColumn string `zog:"startColumn"`
	Count       int    `zog:"count"`
}

var deleteColumnsArgumentsSchema = z.Struct(z.Shape{
	"filePath":    z.String().Required(),
	"sheetName":   z.String().Optional(),
	"startColumn": z.String().Required(),
	"count":       z.Int().Default(1),
})

func AddDeleteColumnsTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("delete_columns",
		mcp.WithDescription("Delete columns, shifting the columns right of them left"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithString("startColumn",
			mcp.Required(),
			mcp.Description("Letter of the first column to delete (e.g. \"C\")"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of columns to delete [default: 1]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := DeleteColumnsArguments{}
		if issues := deleteColumnsArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return deleteColumns(cache, args)
	}))
}

func deleteColumns(cache *excel.Cache, args DeleteColumnsArguments) (*mcp.CallToolResult, error) {
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
	if err := worksheet.DeleteColumns(col, args.Count); err != nil {
		return nil, fmt.Errorf("failed to delete columns: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Deleted %d column(s) starting at column %s on sheet [%s].\n",
		args.Count, strings.ToUpper(args.StartColumn), html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
