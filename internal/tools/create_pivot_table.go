package tools

import (
	"context"
	"fmt"
	"html"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type CreatePivotTableArguments struct {
	FilePath  string   `zog:"filePath"`
	SheetName string   `zog:"sheetName"`
	DataRange string   `zog:"dataRange"`
	Rows      []string `zog:"rows"`
	Columns   []string `zog:"columns"`
	Values    []string `zog:"values"`
	AggFunc   string   `zog:"aggFunc"`
}

var createPivotTableArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"dataRange": z.String().Required(),
	"rows":      z.Slice(z.String()).Optional(),
	"columns":   z.Slice(z.String()).Optional(),
	"values":    z.Slice(z.String()).Required().Min(1),
	"aggFunc":   z.String().Default("sum"),
})

func AddCreatePivotTableTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("create_pivot_table",
		mcp.WithDescription("Build a pivot table from a data range onto a dedicated \"<sheet>_pivot\" sheet"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet holding the source data [default: first sheet]"),
		),
		mcp.WithString("dataRange",
			mcp.Required(),
			mcp.Description("Source data range including the header row (e.g. \"A1:D20\")"),
		),
		mcp.WithArray("rows",
			mcp.Description("Header names to group into pivot rows"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("columns",
			mcp.Description("Header names to group into pivot columns"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("values",
			mcp.Required(),
			mcp.Description("Header names to aggregate"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("aggFunc",
			mcp.Description("Aggregation: sum, count, average, max, min, product, stdev or var [default: sum]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := CreatePivotTableArguments{}
		if issues := createPivotTableArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return createPivotTable(cache, args)
	}))
}

func createPivotTable(cache *excel.Cache, args CreatePivotTableArguments) (*mcp.CallToolResult, error) {
	rng, err := excel.ParseRange(args.DataRange)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	subtotal, canonical, fuzzy, err := excel.ResolveAggFunc(args.AggFunc)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if fuzzy {
		log.Warn().Str("requested", args.AggFunc).Str("resolved", canonical).Msg("aggregation function resolved by fuzzy match")
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	pivotSheet, err := workbook.AddPivotTable(worksheet.Name(), rng.String(), args.Rows, args.Columns, args.Values, subtotal)
	if err != nil {
		return nil, fmt.Errorf("failed to create pivot table: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Pivot table created on sheet [%s] from [%s!%s].\n",
		html.EscapeString(pivotSheet), html.EscapeString(worksheet.Name()), rng.String())
	result += fmt.Sprintf("Aggregating [%s] by %s.\n", html.EscapeString(strings.Join(args.Values, ", ")), canonical)
	return mcp.NewToolResultText(result), nil
}
