package tools

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/isoittech/excel-mcp-server/internal/excel"
)

func newTestCache(t *testing.T) *excel.Cache {
	t.Helper()
	return excel.NewCache(t.TempDir())
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("tool returned an empty result")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("tool result content is %T, want text", result.Content[0])
	}
	return text.Text
}

func mustSucceed(t *testing.T, result *mcp.CallToolResult, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("tool failed: %s", text)
	}
	return text
}

func mustFail(t *testing.T, result *mcp.CallToolResult, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !result.IsError {
		t.Fatalf("tool unexpectedly succeeded: %s", text)
	}
	return text
}

func newTestBook(t *testing.T, cache *excel.Cache, sheetName string) {
	t.Helper()
	result, err := createExcel(cache, CreateExcelArguments{FilePath: "book.xlsx", SheetName: sheetName})
	mustSucceed(t, result, err)
}

func writeRows(t *testing.T, cache *excel.Cache, sheetName, startCell string, data []any) {
	t.Helper()
	result, err := writeExcel(cache, WriteExcelArguments{
		FilePath: "book.xlsx", SheetName: sheetName, StartCell: startCell,
	}, data)
	mustSucceed(t, result, err)
}

func readRecords(t *testing.T, cache *excel.Cache, args ReadExcelArguments) []map[string]any {
	t.Helper()
	result, err := readExcel(cache, args)
	text := mustSucceed(t, result, err)
	var records []map[string]any
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		t.Fatalf("read_excel produced invalid JSON: %v\n%s", err, text)
	}
	return records
}

func TestCreateWriteReadRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	result, err := writeExcel(cache, WriteExcelArguments{
		FilePath: "book.xlsx", SheetName: "Data", StartCell: "A1", WriteHeaders: true,
	}, []any{map[string]any{"x": float64(1), "y": float64(2)}})
	mustSucceed(t, result, err)

	records := readRecords(t, cache, ReadExcelArguments{FilePath: "book.xlsx", SheetName: "Data"})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["x"] != float64(1) || records[0]["y"] != float64(2) {
		t.Errorf("round trip mismatch: %v", records[0])
	}
}

func TestCreateExcelRejectsExistingFile(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Sheet1")

	result, err := createExcel(cache, CreateExcelArguments{FilePath: "book.xlsx", SheetName: "Sheet1"})
	if text := mustFail(t, result, err); !strings.Contains(text, "[invalid argument]") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestReadExcelMissingFile(t *testing.T) {
	cache := newTestCache(t)
	result, err := readExcel(cache, ReadExcelArguments{FilePath: "nope.xlsx"})
	if text := mustFail(t, result, err); !strings.Contains(text, "[not found]") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestReadExcelSkipsEmptyRowsAndSynthesizesHeaders(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	// Header in A only; B header is synthesized. Row 3 is entirely empty.
	writeRows(t, cache, "Data", "A1", []any{
		[]any{"name", nil},
		[]any{"alpha", float64(10)},
		[]any{nil, nil},
		[]any{"beta", float64(20)},
	})

	records := readRecords(t, cache, ReadExcelArguments{
		FilePath: "book.xlsx", SheetName: "Data", Range: "A1:B4",
	})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (empty row dropped)", len(records))
	}
	if records[0]["name"] != "alpha" {
		t.Errorf("name = %v, want alpha", records[0]["name"])
	}
	if records[0]["Column2"] != float64(10) {
		t.Errorf("Column2 = %v, want 10", records[0]["Column2"])
	}
}

func TestReadExcelPreviewClampsRange(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	rows := make([]any, 30)
	for i := range rows {
		rows[i] = []any{float64(i)}
	}
	writeRows(t, cache, "Data", "A1", rows)

	records := readRecords(t, cache, ReadExcelArguments{
		FilePath: "book.xlsx", SheetName: "Data", Range: "A1:A30", PreviewOnly: true,
	})
	// 10 preview rows, minus the header row.
	if len(records) != 9 {
		t.Errorf("got %d records, want 9", len(records))
	}
}

func TestWriteExcelRejectsMixedRows(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	result, err := writeExcel(cache, WriteExcelArguments{
		FilePath: "book.xlsx", SheetName: "Data", StartCell: "A1",
	}, []any{
		[]any{"a", "b"},
		map[string]any{"a": float64(1)},
	})
	if text := mustFail(t, result, err); !strings.Contains(text, "[invalid argument]") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestDeleteWorksheetRefusesLastSheet(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Only")

	result, err := deleteWorksheet(cache, DeleteWorksheetArguments{FilePath: "book.xlsx", SheetName: "Only"})
	if text := mustFail(t, result, err); !strings.Contains(text, "only sheet") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestDeleteWorksheetMissingSheet(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Only")

	result, err := deleteWorksheet(cache, DeleteWorksheetArguments{FilePath: "book.xlsx", SheetName: "Ghost"})
	if text := mustFail(t, result, err); !strings.Contains(text, "[not found]") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestValidateExcelRangeReportsMalformedRangeAsText(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	result, err := validateExcelRange(cache, ValidateExcelRangeArguments{
		FilePath: "book.xlsx", Range: "A1-C3",
	})
	if text := mustSucceed(t, result, err); !strings.Contains(text, "invalid") {
		t.Errorf("malformed range should be reported in the text: %s", text)
	}
}

func TestValidateExcelRangeReportsCellCounts(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")
	writeRows(t, cache, "Data", "A1", []any{
		[]any{"a", "b"},
		[]any{"c", nil},
	})

	result, err := validateExcelRange(cache, ValidateExcelRangeArguments{
		FilePath: "book.xlsx", SheetName: "Data", Range: "A1:B3",
	})
	text := mustSucceed(t, result, err)
	if !strings.Contains(text, "Cells: 6 total, 3 non-empty.") {
		t.Errorf("expected cell counts in report, got: %s", text)
	}
}

func TestBoundsReportFallbackMaxima(t *testing.T) {
	tests := []struct {
		name string
		rng  excel.Range
		want string
	}{
		{
			name: "within limits",
			rng:  excel.Range{StartRow: 1, StartCol: 1, EndRow: 100, EndCol: 26},
			want: "no used range",
		},
		{
			name: "too many columns",
			rng:  excel.Range{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 16385},
			want: "exceeds the sheet size limit",
		},
		{
			name: "too many rows",
			rng:  excel.Range{StartRow: 1, StartCol: 1, EndRow: 1048577, EndCol: 1},
			want: "exceeds the sheet size limit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := boundsReport(tt.rng, excel.Range{}, false)
			if !strings.Contains(report, tt.want) {
				t.Errorf("boundsReport = %q, want it to contain %q", report, tt.want)
			}
		})
	}
}

func TestValidateFormulaSyntaxTool(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	tests := []struct {
		formula string
		want    string
	}{
		{"=SUM(A1:A10)", "is valid"},
		{"SUM(A1:A10", "is invalid"},
		{"=NOSUCHFUNC(A1)", "unrecognized function"},
	}
	for _, tt := range tests {
		result, err := validateFormulaSyntax(cache, ValidateFormulaSyntaxArguments{
			FilePath: "book.xlsx", SheetName: "Data", Cell: "B2", Formula: tt.formula,
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.formula, err)
		}
		if text := resultText(t, result); !strings.Contains(text, tt.want) {
			t.Errorf("%s: got %q, want it to contain %q", tt.formula, text, tt.want)
		}
	}
}

func TestValidateFormulaSyntaxRejectsBadCell(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	result, err := validateFormulaSyntax(cache, ValidateFormulaSyntaxArguments{
		FilePath: "book.xlsx", Cell: "12B", Formula: "=SUM(A1)",
	})
	if text := mustFail(t, result, err); !strings.Contains(text, "[invalid argument]") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestApplyFormulaWritesAndReportsResult(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")
	writeRows(t, cache, "Data", "A1", []any{[]any{float64(1)}, []any{float64(2)}, []any{float64(3)}})

	result, err := applyFormula(cache, ApplyFormulaArguments{
		FilePath: "book.xlsx", SheetName: "Data", Cell: "B1", Formula: "=SUM(A1:A3)",
	})
	if text := mustSucceed(t, result, err); !strings.Contains(text, "SUM(A1:A3)") {
		t.Errorf("unexpected notice: %s", text)
	}
}

func TestApplyFormulaRejectsMalformedFormula(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	result, err := applyFormula(cache, ApplyFormulaArguments{
		FilePath: "book.xlsx", Cell: "A1", Formula: "=SUM(A1",
	})
	if text := mustFail(t, result, err); !strings.Contains(text, "[invalid argument]") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestDeleteRangeRejectsBadDirection(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")

	result, err := deleteRange(cache, DeleteRangeArguments{
		FilePath: "book.xlsx", Range: "A1:B2", ShiftDirection: "down",
	})
	if text := mustFail(t, result, err); !strings.Contains(text, "shiftDirection") {
		t.Errorf("unexpected failure text: %s", text)
	}
}

func TestGetWorkbookMetadata(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "First")

	result, err := createSheet(cache, CreateSheetArguments{FilePath: "book.xlsx", SheetName: "Second"})
	mustSucceed(t, result, err)
	writeRows(t, cache, "First", "A1", []any{[]any{"a", "b"}})

	result, err = getWorkbookMetadata(cache, GetWorkbookMetadataArguments{
		FilePath: "book.xlsx", IncludeRanges: true,
	})
	text := mustSucceed(t, result, err)
	var meta workbookMetadata
	if err := json.Unmarshal([]byte(text), &meta); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if meta.SheetCount != 2 {
		t.Errorf("sheetCount = %d, want 2", meta.SheetCount)
	}
	if meta.Sheets[0].Name != "First" || meta.Sheets[0].UsedRange != "A1:B1" {
		t.Errorf("unexpected first sheet metadata: %+v", meta.Sheets[0])
	}
}

func TestCopyRangeAcrossSheets(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Src")

	result, err := createSheet(cache, CreateSheetArguments{FilePath: "book.xlsx", SheetName: "Dst"})
	mustSucceed(t, result, err)
	writeRows(t, cache, "Src", "A1", []any{[]any{"h"}, []any{"v"}})

	result, err = copyRange(cache, CopyRangeArguments{
		FilePath: "book.xlsx", SourceSheet: "Src", SourceRange: "A1:A2",
		TargetSheet: "Dst", TargetCell: "C1",
	})
	mustSucceed(t, result, err)

	records := readRecords(t, cache, ReadExcelArguments{
		FilePath: "book.xlsx", SheetName: "Dst", Range: "C1:C2",
	})
	if len(records) != 1 || records[0]["h"] != "v" {
		t.Errorf("unexpected copied data: %v", records)
	}
}

func TestFindReplaceCountsReplacements(t *testing.T) {
	cache := newTestCache(t)
	newTestBook(t, cache, "Data")
	writeRows(t, cache, "Data", "A1", []any{
		[]any{"foo", "foobar"},
		[]any{"bar", "foo"},
	})

	result, err := findReplace(cache, FindReplaceArguments{
		FilePath: "book.xlsx", SheetName: "Data", Find: "foo", Replace: "baz",
	})
	if text := mustSucceed(t, result, err); !strings.Contains(text, "Replaced 3 occurrence(s)") {
		t.Errorf("unexpected notice: %s", text)
	}
}
