package tools

import (
	"context"
	"fmt"
	"html"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type CreateChartArguments struct {
	FilePath   string `zog:"filePath"`
	SheetName  string `zog:"sheetName"`
	DataRange  string `zog:"dataRange"`
	ChartType  string `zog:"chartType"`
	TargetCell string `zog:"targetCell"`
	Title      string `zog:"title"`
	XAxisTitle string `zog:"xAxisTitle"`
	YAxisTitle string `zog:"yAxisTitle"`
}

var createChartArgumentsSchema = z.Struct(z.Shape{
	"filePath":   z.String().Required(),
	"sheetName":  z.String().Optional(),
	"dataRange":  z.String().Required(),
	"chartType":  z.String().Required(),
	"targetCell": z.String().Required(),
	"title":      z.String().Optional(),
	"xAxisTitle": z.String().Optional(),
	"yAxisTitle": z.String().Optional(),
})

func AddCreateChartTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("create_chart",
		mcp.WithDescription("Insert a chart anchored at a cell, built from a data range on the same sheet"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet holding the data [default: first sheet]"),
		),
		mcp.WithString("dataRange",
			mcp.Required(),
			mcp.Description("Range with the chart data, first row treated as series headers (e.g. \"A1:B10\")"),
		),
		mcp.WithString("chartType",
			mcp.Required(),
			mcp.Description("Chart type: area, bar, col, doughnut, line, pie, radar or scatter"),
		),
		mcp.WithString("targetCell",
			mcp.Required(),
			mcp.Description("Cell anchoring the chart's top-left corner (e.g. \"E1\")"),
		),
		mcp.WithString("title", mcp.Description("Chart title")),
		mcp.WithString("xAxisTitle", mcp.Description("X axis title")),
		mcp.WithString("yAxisTitle", mcp.Description("Y axis title")),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := CreateChartArguments{}
		if issues := createChartArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return createChart(cache, args)
	}))
}

func createChart(cache *excel.Cache, args CreateChartArguments) (*mcp.CallToolResult, error) {
	rng, err := excel.ParseRange(args.DataRange)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	anchor, err := excel.ParseAddress(args.TargetCell)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	chartType, canonical, fuzzy, err := excel.ResolveChartType(args.ChartType)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if fuzzy {
		log.Warn().Str("requested", args.ChartType).Str("resolved", canonical).Msg("chart type resolved by fuzzy match")
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.AddChart(anchor, chartType, rng.String(), args.Title, args.XAxisTitle, args.YAxisTitle); err != nil {
		return nil, fmt.Errorf("failed to add chart: %w", err)
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Chart [%s] created at [%s] on sheet [%s] from data range [%s].\n",
		canonical, anchor.String(), html.EscapeString(worksheet.Name()), rng.String())
	return mcp.NewToolResultText(result), nil
}
