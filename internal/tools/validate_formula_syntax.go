package tools

import (
	"context"
	"fmt"
	"html"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type ValidateFormulaSyntaxArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	Cell      string `zog:"cell"`
	Formula   string `zog:"formula"`
}

var validateFormulaSyntaxArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"cell":      z.String().Required(),
	"formula":   z.String().Required(),
})

func AddValidateFormulaSyntaxTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("validate_formula_syntax",
		mcp.WithDescription("Check a formula for syntax problems against a target cell, without modifying the workbook"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet the formula is intended for [default: first sheet]"),
		),
		mcp.WithString("cell",
			mcp.Required(),
			mcp.Description("Cell the formula is intended for (e.g. \"B2\")"),
		),
		mcp.WithString("formula",
			mcp.Required(),
			mcp.Description("Formula text, with or without a leading \"=\""),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ValidateFormulaSyntaxArguments{}
		if issues := validateFormulaSyntaxArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return validateFormulaSyntax(cache, args)
	}))
}

// Syntax problems are reported as ordinary text, not error results, so a
// caller can probe a formula and read why it failed.
func validateFormulaSyntax(cache *excel.Cache, args ValidateFormulaSyntaxArguments) (*mcp.CallToolResult, error) {
	_, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	addr, err := excel.ParseAddress(args.Cell)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	formula := excel.NormalizeFormula(args.Formula)
	result := "# Notice\n"
	if err := excel.ValidateFormula(formula); err != nil {
		result += fmt.Sprintf("Formula [=%s] for [%s] on sheet [%s] is invalid: %s\n",
			html.EscapeString(formula), addr.String(), html.EscapeString(worksheet.Name()), err.Error())
		return mcp.NewToolResultText(result), nil
	}
	result += fmt.Sprintf("Formula [=%s] for [%s] on sheet [%s] is valid.\n",
		html.EscapeString(formula), addr.String(), html.EscapeString(worksheet.Name()))
	if unknown := excel.UnknownFunctions(formula); len(unknown) > 0 {
		result += fmt.Sprintf("Warning: unrecognized function(s): %s\n", html.EscapeString(strings.Join(unknown, ", ")))
	}
	return mcp.NewToolResultText(result), nil
}
