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

type SetRowHeightArguments struct {
	FilePath  string  `zog:"filePath"`
	SheetName string  `zog:"sheetName"`
	Row       int     `zog:"row"`
	Height    float64 `zog:"height"`
}

var setRowHeightArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"row":       z.Int().Required(),
	"height":    z.Float64().Required(),
})

func AddSetRowHeightTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("set_row_height",
		mcp.WithDescription("Set the height of a row"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithNumber("row",
			mcp.Required(),
			mcp.Description("1-based row number"),
		),
		mcp.WithNumber("height",
			mcp.Required(),
			mcp.Description("Height in points"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := SetRowHeightArguments{}
		if issues := setRowHeightArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return setRowHeight(cache, args)
	}))
}

func setRowHeight(cache *excel.Cache, args SetRowHeightArguments) (*mcp.CallToolResult, error) {
	if args.Row < 1 {
		return imcp.NewToolResultInvalidArgumentError("row must be 1 or greater"), nil
	}
	if args.Height <= 0 {
		return imcp.NewToolResultInvalidArgumentError("height must be greater than zero"), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.SetRowHeight(args.Row, args.Height); err != nil {
		return nil, fmt.Errorf("failed to set row height: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Row %d height set to %g on sheet [%s].\n",
		args.Row, args.Height, html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
