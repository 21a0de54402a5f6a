package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

// Fallback read window for sheets that cannot report their own bounds.
var defaultReadRange = excel.Range{StartRow: 1, StartCol: 1, EndRow: 100, EndCol: 26}

const (
	previewRows = 10
	previewCols = 10
)

type ReadExcelArguments struct {
	FilePath    string `zog:"filePath"`
	SheetName   string `zog:"sheetName"`
	Range       string `zog:"range"`
	PreviewOnly bool   `zog:"previewOnly"`
}

var readExcelArgumentsSchema = z.Struct(z.Shape{
	"filePath":    z.String().Required(),
	"sheetName":   z.String(),
	"range":       z.String(),
	"previewOnly": z.Bool().Default(false),
})

func AddReadExcelTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("read_excel",
		mcp.WithDescription("Read data from an Excel worksheet. The first row of the range is treated as headers; rows whose cells are all empty are omitted"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet name [default: first sheet]"),
		),
		mcp.WithString("range",
			mcp.Description("Range to read (e.g. \"A1:C10\") [default: the sheet's used range]"),
		),
		mcp.WithBoolean("previewOnly",
			mcp.Description("Clamp the range to at most 10 rows x 10 columns from its start [default: false]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ReadExcelArguments{}
		if issues := readExcelArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return readExcel(cache, args)
	}))
}

func readExcel(cache *excel.Cache, args ReadExcelArguments) (*mcp.CallToolResult, error) {
	_, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}

	var readRange excel.Range
	if args.Range != "" {
		readRange, err = excel.ParseCellOrRange(args.Range)
		if err != nil {
			return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
		}
	} else if dim, ok := worksheet.Dimension(); ok {
		readRange = dim
	} else {
		readRange = defaultReadRange
	}

	if args.PreviewOnly {
		readRange.EndRow = min(readRange.EndRow, readRange.StartRow+previewRows-1)
		readRange.EndCol = min(readRange.EndCol, readRange.StartCol+previewCols-1)
	}

	headers := make([]string, readRange.Cols())
	for i := range headers {
		value, err := worksheet.Value(excel.Address{Row: readRange.StartRow, Col: readRange.StartCol + i})
		if err != nil {
			return nil, err
		}
		if value == "" {
			value = fmt.Sprintf("Column%d", i+1)
		}
		headers[i] = value
	}

	records := make([]map[string]any, 0)
	for row := readRange.StartRow + 1; row <= readRange.EndRow; row++ {
		record := make(map[string]any, len(headers))
		empty := true
		for i := range headers {
			value, err := worksheet.Value(excel.Address{Row: row, Col: readRange.StartCol + i})
			if err != nil {
				return nil, err
			}
			if value == "" {
				record[headers[i]] = nil
				continue
			}
			empty = false
			record[headers[i]] = cellJSONValue(value)
		}
		// Rows with no populated cells never round-trip back out.
		if empty {
			continue
		}
		records = append(records, record)
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// cellJSONValue restores numeric typing of a rendered cell value for
// JSON output.
func cellJSONValue(value string) any {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
