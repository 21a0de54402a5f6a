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

type FindReplaceArguments struct {
	FilePath        string `zog:"filePath"`
	SheetName       string `zog:"sheetName"`
	Find            string `zog:"find"`
	Replace         string `zog:"replace"`
	Range           string `zog:"range"`
	MatchCase       bool   `zog:"matchCase"`
	MatchEntireCell bool   `zog:"matchEntireCell"`
}

var findReplaceArgumentsSchema = z.Struct(z.Shape{
	"filePath":        z.String().Required(),
	"sheetName":       z.String().Optional(),
	"find":            z.String().Required(),
	"replace":         z.String().Optional(),
	"range":           z.String().Optional(),
	"matchCase":       z.Bool().Default(false),
	"matchEntireCell": z.Bool().Default(false),
})

func AddFindReplaceTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("find_replace",
		mcp.WithDescription("Replace occurrences of a text in cell values, optionally restricted to a range"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to search [default: first sheet]"),
		),
		mcp.WithString("find",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithString("replace",
			mcp.Description("Replacement text [default: empty string]"),
		),
		mcp.WithString("range",
			mcp.Description("Range to restrict the search to (e.g. \"A1:C10\") [default: used range]"),
		),
		mcp.WithBoolean("matchCase",
			mcp.Description("Case-sensitive matching [default: false]"),
		),
		mcp.WithBoolean("matchEntireCell",
			mcp.Description("Replace only cells whose whole value matches [default: false]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := FindReplaceArguments{}
		if issues := findReplaceArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return findReplace(cache, args)
	}))
}

func findReplace(cache *excel.Cache, args FindReplaceArguments) (*mcp.CallToolResult, error) {
	var scope *excel.Range
	if args.Range != "" {
		rng, err := excel.ParseCellOrRange(args.Range)
		if err != nil {
			return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
		}
		scope = &rng
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	replaced, err := worksheet.FindReplace(scope, args.Find, args.Replace, args.MatchCase, args.MatchEntireCell)
	if err != nil {
		return nil, fmt.Errorf("failed to replace: %w", err)
	}
	if replaced > 0 {
		if err := workbook.Save(); err != nil {
			return nil, fmt.Errorf("failed to save workbook: %w", err)
		}
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Replaced %d occurrence(s) of [%s] on sheet [%s].\n",
		replaced, html.EscapeString(args.Find), html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}
