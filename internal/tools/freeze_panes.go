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

type FreezePanesArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	Cell      string `zog:"cell"`
}

var freezePanesArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"cell":      z.String().Required(),
})

func AddFreezePanesTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("freeze_panes",
		mcp.WithDescription("Freeze every row above and every column left of a cell (e.g. \"A2\" freezes the first row)"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithString("cell",
			mcp.Required(),
			mcp.Description("Top-left cell of the scrollable area (e.g. \"B2\")"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := FreezePanesArguments{}
		if issues := freezePanesArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return freezePanes(cache, args)
	}))
}

func freezePanes(cache *excel.Cache, args FreezePanesArguments) (*mcp.CallToolResult, error) {
	addr, err := excel.ParseAddress(args.Cell)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if addr.Row == 1 && addr.Col == 1 {
		return imcp.NewToolResultInvalidArgumentError("freezing at A1 would freeze nothing"), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.FreezePanes(addr); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Panes frozen above and left of [%s] on sheet [%s].\n",
		addr.String(), html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
