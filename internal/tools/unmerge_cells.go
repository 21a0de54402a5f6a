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

type UnmergeCellsArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	Range     string `zog:"range"`
}

var unmergeCellsArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"range":     z.String().Required(),
})

func AddUnmergeCellsTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("unmerge_cells",
		mcp.WithDescription("Split previously merged cells inside a range back into individual cells"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to modify [default: first sheet]"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("Range covering the merged region(s) (e.g. \"A1:C3\")"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := UnmergeCellsArguments{}
		if issues := unmergeCellsArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return unmergeCells(cache, args)
	}))
}

func unmergeCells(cache *excel.Cache, args UnmergeCellsArguments) (*mcp.CallToolResult, error) {
	rng, err := excel.ParseRange(args.Range)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.Unmerge(rng); err != nil {
		return nil, fmt.Errorf("failed to unmerge range: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Merged cells within [%s] on sheet [%s] unmerged.\n", rng.String(), html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
