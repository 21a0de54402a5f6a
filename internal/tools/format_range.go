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

type FormatRangeArguments struct {
	FilePath     string  `zog:"filePath"`
	SheetName    string  `zog:"sheetName"`
	Range        string  `zog:"range"`
	Bold         bool    `zog:"bold"`
	Italic       bool    `zog:"italic"`
	Underline    bool    `zog:"underline"`
	FontSize     float64 `zog:"fontSize"`
	FontColor    string  `zog:"fontColor"`
	BgColor      string  `zog:"bgColor"`
	BorderStyle  string  `zog:"borderStyle"`
	BorderColor  string  `zog:"borderColor"`
	NumberFormat string  `zog:"numberFormat"`
	Alignment    string  `zog:"alignment"`
	WrapText     bool    `zog:"wrapText"`
	MergeCells   bool    `zog:"mergeCells"`
}

var formatRangeArgumentsSchema = z.Struct(z.Shape{
	"filePath":     z.String().Required(),
	"sheetName":    z.String().Optional(),
	"range":        z.String().Required(),
	"bold":         z.Bool().Default(false),
	"italic":       z.Bool().Default(false),
	"underline":    z.Bool().Default(false),
	"fontSize":     z.Float64().Optional(),
	"fontColor":    z.String().Optional(),
	"bgColor":      z.String().Optional(),
	"borderStyle":  z.String().Optional(),
	"borderColor":  z.String().Optional(),
	"numberFormat": z.String().Optional(),
	"alignment":    z.String().Optional(),
	"wrapText":     z.Bool().Default(false),
	"mergeCells":   z.Bool().Default(false),
})

func AddFormatRangeTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("format_range",
		mcp.WithDescription("Apply cell formatting (font, fill, border, number format, alignment) to a range, optionally merging it"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to format [default: first sheet]"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("Target range (e.g. \"A1:C3\") or a single cell"),
		),
		mcp.WithBoolean("bold", mcp.Description("Bold font [default: false]")),
		mcp.WithBoolean("italic", mcp.Description("Italic font [default: false]")),
		mcp.WithBoolean("underline", mcp.Description("Underlined font [default: false]")),
		mcp.WithNumber("fontSize", mcp.Description("Font size in points")),
		mcp.WithString("fontColor", mcp.Description("Font color as RRGGBB hex")),
		mcp.WithString("bgColor", mcp.Description("Fill color as RRGGBB hex")),
		mcp.WithString("borderStyle",
			mcp.Description("Border style: none, thin, medium, dashed, dotted, thick, double or hair"),
		),
		mcp.WithString("borderColor", mcp.Description("Border color as RRGGBB hex")),
		mcp.WithString("numberFormat", mcp.Description("Custom number format code (e.g. \"0.00%\")")),
		mcp.WithString("alignment",
			mcp.Description("Horizontal alignment: left, center, right, fill, justify, centerContinuous or distributed"),
		),
		mcp.WithBoolean("wrapText", mcp.Description("Wrap text in cells [default: false]")),
		mcp.WithBoolean("mergeCells", mcp.Description("Merge the range after formatting [default: false]")),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := FormatRangeArguments{}
		if issues := formatRangeArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return formatRange(cache, args)
	}))
}

func formatRange(cache *excel.Cache, args FormatRangeArguments) (*mcp.CallToolResult, error) {
	rng, err := excel.ParseCellOrRange(args.Range)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	style, err := excel.BuildStyle(excel.Format{
		Bold:         args.Bold,
		Italic:       args.Italic,
		Underline:    args.Underline,
		FontSize:     int(args.FontSize),
		FontColor:    args.FontColor,
		BgColor:      args.BgColor,
		BorderStyle:  args.BorderStyle,
		BorderColor:  args.BorderColor,
		NumberFormat: args.NumberFormat,
		Alignment:    args.Alignment,
		WrapText:     args.WrapText,
	})
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.ApplyStyle(rng, style); err != nil {
		return nil, fmt.Errorf("failed to apply style: %w", err)
	}
	if args.MergeCells {
		if err := worksheet.Merge(rng); err != nil {
			return nil, fmt.Errorf("failed to merge range: %w", err)
		}
	}
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Formatting applied to [%s] on sheet [%s].\n", rng.String(), html.EscapeString(worksheet.Name()))
	if args.MergeCells {
		result += fmt.Sprintf("Range [%s] merged.\n", rng.String())
	}
	return mcp.NewToolResultText(result), nil
}
