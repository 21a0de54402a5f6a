package tools

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type WriteExcelArguments struct {
	FilePath     string `zog:"filePath"`
	SheetName    string `zog:"sheetName"`
	StartCell    string `zog:"startCell"`
	WriteHeaders bool   `zog:"writeHeaders"`
}

var writeExcelArgumentsSchema = z.Struct(z.Shape{
	"filePath":     z.String().Required(),
	"sheetName":    z.String(),
	"startCell":    z.String().Default("A1"),
	"writeHeaders": z.Bool().Default(true),
})

func AddWriteExcelTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("write_excel",
		mcp.WithDescription("Write data to an Excel worksheet. Accepts an array of row arrays, or an array of objects whose keys become a header row"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithArray("data",
			mcp.Required(),
			mcp.Description("Rows to write: either arrays of cell values, or objects keyed by column name"),
			mcp.Items(map[string]any{}),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet name [default: first sheet]"),
		),
		mcp.WithString("startCell",
			mcp.Description("Top-left cell of the written block [default: \"A1\"]"),
		),
		mcp.WithBoolean("writeHeaders",
			mcp.Description("For object rows, write the column names as a header row [default: true]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := WriteExcelArguments{}
		if issues := writeExcelArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		// Cell values may be any JSON scalar, which zog's typed schemas
		// cannot express; the data argument is validated by hand.
		data, ok := request.GetArguments()["data"].([]any)
		if !ok || len(data) == 0 {
			return imcp.NewToolResultInvalidArgumentError("data must be a non-empty array of rows"), nil
		}
		return writeExcel(cache, args, data)
	}))
}

func writeExcel(cache *excel.Cache, args WriteExcelArguments, data []any) (*mcp.CallToolResult, error) {
	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}

	start, err := excel.ParseAddress(args.StartCell)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	var written excel.Range
	switch data[0].(type) {
	case []any:
		written, err = writePositionalRows(worksheet, start, data)
	case map[string]any:
		written, err = writeObjectRows(worksheet, start, data, args.WriteHeaders)
	default:
		return imcp.NewToolResultInvalidArgumentError("data rows must all be arrays or all be objects"), nil
	}
	if err != nil {
		var invalid *invalidRowError
		if errors.As(err, &invalid) {
			return imcp.NewToolResultInvalidArgumentError(invalid.Error()), nil
		}
		return nil, err
	}

	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Wrote %d row(s) to range [%s] in sheet [%s].\n", len(data), written, html.EscapeString(worksheet.Name()))
	return mcp.NewToolResultText(result), nil
}

type invalidRowError struct {
	index int
	kind  string
}

func (e *invalidRowError) Error() string {
	return fmt.Sprintf("row %d is not %s; rows must be uniform", e.index, e.kind)
}

func writePositionalRows(worksheet *excel.Worksheet, start excel.Address, data []any) (excel.Range, error) {
	maxCols := 1
	for i, raw := range data {
		row, ok := raw.([]any)
		if !ok {
			return excel.Range{}, &invalidRowError{index: i, kind: "an array"}
		}
		if len(row) > maxCols {
			maxCols = len(row)
		}
		for j, value := range row {
			if value == nil {
				continue
			}
			if err := worksheet.SetValue(excel.Address{Row: start.Row + i, Col: start.Col + j}, value); err != nil {
				return excel.Range{}, err
			}
		}
	}
	return excel.Range{
		StartRow: start.Row,
		StartCol: start.Col,
		EndRow:   start.Row + len(data) - 1,
		EndCol:   start.Col + maxCols - 1,
	}, nil
}

// writeObjectRows writes keyed rows. The first row's keys, sorted, define
// the column order for every row; rows missing a key leave that cell blank.
func writeObjectRows(worksheet *excel.Worksheet, start excel.Address, data []any, writeHeaders bool) (excel.Range, error) {
	first, ok := data[0].(map[string]any)
	if !ok {
		return excel.Range{}, &invalidRowError{index: 0, kind: "an object"}
	}
	headers := make([]string, 0, len(first))
	for key := range first {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	offset := 0
	if writeHeaders {
		for j, header := range headers {
			if err := worksheet.SetValue(excel.Address{Row: start.Row, Col: start.Col + j}, header); err != nil {
				return excel.Range{}, err
			}
		}
		offset = 1
	}

	for i, raw := range data {
		row, ok := raw.(map[string]any)
		if !ok {
			return excel.Range{}, &invalidRowError{index: i, kind: "an object"}
		}
		for j, header := range headers {
			value, present := row[header]
			if !present || value == nil {
				continue
			}
			if err := worksheet.SetValue(excel.Address{Row: start.Row + offset + i, Col: start.Col + j}, value); err != nil {
				return excel.Range{}, err
			}
		}
	}
	return excel.Range{
		StartRow: start.Row,
		StartCol: start.Col,
		EndRow:   start.Row + offset + len(data) - 1,
		EndCol:   start.Col + len(headers) - 1,
	}, nil
}
