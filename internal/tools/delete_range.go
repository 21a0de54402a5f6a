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

type DeleteRangeArguments struct {
	FilePath       string `zog:"filePath"`
	SheetName      string `zog:"sheetName"`
	Range          string `zog:"range"`
	ShiftDirection string `zog:"shiftDirection"`
}

var deleteRangeArgumentsSchema = z.Struct(z.Shape{
	"filePath":       z.String().Required(),
	"sheetName":      z.String().Optional(),
	"range":          z.String().Required(),
	"shiftDirection": z.String().Default("up"),
})

func AddDeleteRangeTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("delete_range",
		mcp.WithDescription("Delete a range and shift the remaining cells up or left to fill the gap"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("Range to delete (e.g. \"A1:C3\")"),
		),
		mcp.WithString("shiftDirection",
			mcp.Description("Direction to shift remaining cells: \"up\" or \"left\" [default: up]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := DeleteRangeArguments{}
		if issues := deleteRangeArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return deleteRange(cache, args)
	}))
}

func deleteRange(cache *excel.Cache, args DeleteRangeArguments) (*mcp.CallToolResult, error) {
	rng, err := excel.ParseCellOrRange(args.Range)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	var direction excel.ShiftDirection
	switch args.ShiftDirection {
	case "up":
		direction = excel.ShiftUp
	case "left":
		direction = excel.ShiftLeft
	default:
		return imcp.NewToolResultInvalidArgumentError(
			fmt.Sprintf("shiftDirection must be \"up\" or \"left\", got %q", args.ShiftDirection)), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.DeleteRangeShift(rng, direction); err != nil {
		return nil, fmt.Errorf("failed to delete range: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Range [%s] deleted on sheet [%s] (cells shifted %s).\n",
		rng.String(), html.EscapeString(worksheet.Name()), args.ShiftDirection)
	return mcp.NewToolResultText(result), nil
}
