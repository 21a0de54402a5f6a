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

type SetColumnWidthArguments struct {
	FilePath  string  `zog:"filePath"`
	SheetName string  `zog:"sheetName"`
	Column    string  `zog:"column"`
	Width     float64 `zog:"width"`
}

var setColumnWidthArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"column":    z.String().Required(),
	"width":     z.Float64().Required(),
})

func AddSetColumnWidthTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("set_column_width",
		mcp.WithDescription("Set the width of a column or a span of columns"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column letter (e.g. \"C\") or span (e.g. \"B:D\")"),
		),
		mcp.WithNumber("width",
			mcp.Required(),
			mcp.Description("Width in characters of the default font"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := SetColumnWidthArguments{}
		if issues := setColumnWidthArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return setColumnWidth(cache, args)
	}))
}

func setColumnWidth(cache *excel.Cache, args SetColumnWidthArguments) (*mcp.CallToolResult, error) {
	startName, endName, found := strings.Cut(args.Column, ":")
	if !found {
		endName = startName
	}
	startCol, err := excel.ColumnNumber(startName)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	endCol, err := excel.ColumnNumber(endName)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if endCol < startCol {
		return imcp.NewToolResultInvalidArgumentError(
			fmt.Sprintf("column span end %s precedes start %s",
				strings.ToUpper(endName), strings.ToUpper(startName))), nil
	}
	if args.Width <= 0 {
		return imcp.NewToolResultInvalidArgumentError("width must be greater than zero"), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.SetColumnWidth(startCol, endCol, args.Width); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	span := strings.ToUpper(startName)
	if endCol != startCol {
		span += ":" + strings.ToUpper(endName)
	}
	result := "# Notice\n"
	result += fmt.Sprintf("Column width of [%s] set to %g on sheet [%s].\n",
		span, args.Width, html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
