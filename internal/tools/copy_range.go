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

type CopyRangeArguments struct {
	FilePath    string `zog:"filePath"`
	SourceSheet string `zog:"sourceSheet"`
	SourceRange string `zog:"sourceRange"`
	TargetSheet string `zog:"targetSheet"`
	TargetCell  string `zog:"targetCell"`
}

var copyRangeArgumentsSchema = z.Struct(z.Shape{
	"filePath":    z.String().Required(),
	"sourceSheet": z.String().Optional(),
	"sourceRange": z.String().Required(),
	"targetSheet": z.String().Optional(),
	"targetCell":  z.String().Required(),
})

func AddCopyRangeTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("copy_range",
		mcp.WithDescription("Copy the values, formulas and styles of a range to another anchor, possibly on a different sheet"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sourceSheet",
			mcp.Description("Sheet to copy from [default: first sheet]"),
		),
		mcp.WithString("sourceRange",
			mcp.Required(),
			mcp.Description("Range to copy (e.g. \"A1:C3\")"),
		),
		mcp.WithString("targetSheet",
			mcp.Description("Sheet to copy to [default: same as sourceSheet]"),
		),
		mcp.WithString("targetCell",
			mcp.Required(),
			mcp.Description("Top-left anchor of the destination (e.g. \"E1\")"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := CopyRangeArguments{}
		if issues := copyRangeArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return copyRange(cache, args)
	}))
}

func copyRange(cache *excel.Cache, args CopyRangeArguments) (*mcp.CallToolResult, error) {
	source, err := excel.ParseCellOrRange(args.SourceRange)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	anchor, err := excel.ParseAddress(args.TargetCell)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	workbook, sourceSheet, errResult, err := openSheet(cache, args.FilePath, args.SourceSheet)
	if errResult != nil || err != nil {
		return errResult, err
	}
	targetSheet := sourceSheet
	if args.TargetSheet != "" && args.TargetSheet != sourceSheet.Name() {
		targetSheet, err = workbook.Sheet(args.TargetSheet)
		if err != nil {
			return errorResult(err)
		}
	}
	if err := sourceSheet.CopyRange(source, targetSheet, anchor); err != nil {
		return nil, fmt.Errorf("failed to copy range: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	target := excel.Range{
		StartRow: anchor.Row,
		StartCol: anchor.Col,
		EndRow:   anchor.Row + source.Rows() - 1,
		EndCol:   anchor.Col + source.Cols() - 1,
	}
	result := "# Notice\n"
	result += fmt.Sprintf("Range [%s] on sheet [%s] copied to [%s] on sheet [%s].\n",
		source.String(), html.EscapeString(sourceSheet.Name()),
		target.String(), html.EscapeString(targetSheet.Name()))
	return mcp.NewToolResultText(result), nil
}
