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

type ValidateExcelRangeArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	Range     string `zog:"range"`
}

var validateExcelRangeArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"range":     z.String().Required(),
})

// Bounds used when a sheet cannot report its own dimension.
const (
	maxSheetRows = 1048576
	maxSheetCols = 16384
)

func AddValidateExcelRangeTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("validate_excel_range",
		mcp.WithDescription("Check whether a range string is well-formed, how it relates to a sheet's used range, and how many of its cells are populated"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to check against [default: first sheet]"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("Range string to validate (e.g. \"A1:C3\")"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ValidateExcelRangeArguments{}
		if issues := validateExcelRangeArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return validateExcelRange(cache, args)
	}))
}

// Validation failures are reported as ordinary text so that a caller can
// inspect a range string without the call itself being treated as an error.
func validateExcelRange(cache *excel.Cache, args ValidateExcelRangeArguments) (*mcp.CallToolResult, error) {
	_, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}

	result := "# Notice\n"
	rng, parseErr := excel.ParseCellOrRange(args.Range)
	if parseErr != nil {
		result += fmt.Sprintf("Range [%s] is invalid: %s\n", html.EscapeString(args.Range), parseErr.Error())
		return mcp.NewToolResultText(result), nil
	}

	result += fmt.Sprintf("Range [%s] on sheet [%s] is valid.\n", rng.String(), html.EscapeString(worksheet.Name()))

	dim, hasDim := worksheet.Dimension()
	result += boundsReport(rng, dim, hasDim)

	nonEmpty := 0
	if hasDim {
		// Cells outside the used range are empty by definition, so only
		// the overlap needs scanning.
		overlap := excel.Range{
			StartRow: max(rng.StartRow, dim.StartRow),
			StartCol: max(rng.StartCol, dim.StartCol),
			EndRow:   min(rng.EndRow, dim.EndRow),
			EndCol:   min(rng.EndCol, dim.EndCol),
		}
		if excel.IsValidRange(overlap) {
			nonEmpty, err = worksheet.NonEmptyCount(overlap)
			if err != nil {
				return nil, err
			}
		}
	}
	result += fmt.Sprintf("Cells: %d total, %d non-empty.\n", rng.Rows()*rng.Cols(), nonEmpty)
	return mcp.NewToolResultText(result), nil
}

// boundsReport relates rng to the sheet's reported bounds, falling back
// to the conventional worksheet maxima when the sheet has none.
func boundsReport(rng, dim excel.Range, hasDim bool) string {
	if !hasDim {
		report := "The sheet has no used range yet.\n"
		if rng.EndRow > maxSheetRows || rng.EndCol > maxSheetCols {
			report += fmt.Sprintf("The range exceeds the sheet size limit of %d rows x %d columns.\n",
				maxSheetRows, maxSheetCols)
		}
		return report
	}
	report := fmt.Sprintf("Used range is [%s].\n", dim.String())
	if rng.StartRow > dim.EndRow || rng.StartCol > dim.EndCol {
		report += "The range lies entirely outside the used range.\n"
	} else if rng.EndRow > dim.EndRow || rng.EndCol > dim.EndCol {
		report += "The range extends beyond the used range.\n"
	}
	return report
}
