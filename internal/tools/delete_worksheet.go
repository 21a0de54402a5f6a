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

type DeleteWorksheetArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
}

var deleteWorksheetArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Required(),
})

func AddDeleteWorksheetTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("delete_worksheet",
		mcp.WithDescription("Delete a worksheet. The last remaining sheet of a workbook cannot be deleted"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Required(),
			mcp.Description("Sheet to delete"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := DeleteWorksheetArguments{}
		if issues := deleteWorksheetArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return deleteWorksheet(cache, args)
	}))
}

func deleteWorksheet(cache *excel.Cache, args DeleteWorksheetArguments) (*mcp.CallToolResult, error) {
	workbook, err := cache.Load(args.FilePath)
	if err != nil {
		return errorResult(err)
	}
	if !workbook.HasSheet(args.SheetName) {
		return imcp.NewToolResultNotFoundError(fmt.Sprintf("sheet %q not found", args.SheetName)), nil
	}
	if len(workbook.SheetNames()) == 1 {
		return imcp.NewToolResultInvalidArgumentError("cannot delete the only sheet in the workbook"), nil
	}
	if err := workbook.DeleteSheet(args.SheetName); err != nil {
		return errorResult(err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Sheet [%s] deleted.\n", html.EscapeString(args.SheetName))
	return mcp.NewToolResultText(result), nil
}
