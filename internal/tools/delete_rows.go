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

type DeleteRowsArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	StartRow  int    `zog:"startRow"`
	Count     int    `zog:"count"`
}

var deleteRowsArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"startRow":  z.Int().Required(),
	"count":     z.Int().Default(1),
})

func AddDeleteRowsTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("delete_rows",
		mcp.WithDescription("Delete rows, shifting the rows below them up"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithNumber("startRow",
			mcp.Required(),
			mcp.Description("1-based number of the first row to delete"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of rows to delete [default: 1]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := DeleteRowsArguments{}
		if issues := deleteRowsArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return deleteRows(cache, args)
	}))
}

func deleteRows(cache *excel.Cache, args DeleteRowsArguments) (*mcp.CallToolResult, error) {
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
	if err := worksheet.DeleteRows(args.StartRow, args.Count); err != nil {
		return nil, fmt.Errorf("failed to delete rows: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Deleted %d row(s) starting at row %d on sheet [%s].\n",
		args.Count, args.StartRow, html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
