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

type ApplyFormulaArguments struct {
	FilePath  string `zog:"filePath"`
	SheetName string `zog:"sheetName"`
	Cell      string `zog:"cell"`
	Formula   string `zog:"formula"`
}

var applyFormulaArgumentsSchema = z.Struct(z.Shape{
	"filePath":  z.String().Required(),
	"sheetName": z.String().Optional(),
	"cell":      z.String().Required(),
	"formula":   z.String().Required(),
})

func AddApplyFormulaTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("apply_formula",
		mcp.WithDescription("Validate a formula and write it into a single cell, reporting the calculated result"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Sheet to write to [default: first sheet]"),
		),
		mcp.WithString("cell",
			mcp.Required(),
			mcp.Description("Target cell address (e.g. \"B2\")"),
		),
		mcp.WithString("formula",
			mcp.Required(),
			mcp.Description("Formula text, with or without a leading \"=\""),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ApplyFormulaArguments{}
		if issues := applyFormulaArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return applyFormula(cache, args)
	}))
}

func applyFormula(cache *excel.Cache, args ApplyFormulaArguments) (*mcp.CallToolResult, error) {
	addr, err := excel.ParseAddress(args.Cell)
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	formula := excel.NormalizeFormula(args.Formula)
	if err := excel.ValidateFormula(formula); err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	if unknown := excel.UnknownFunctions(formula); len(unknown) > 0 {
		log.Warn().Strs("functions", unknown).Msg("formula references functions outside the known set")
	}

	workbook, worksheet, errResult, err := openSheet(cache, args.FilePath, args.SheetName)
	if errResult != nil || err != nil {
		return errResult, err
	}
	if err := worksheet.SetFormula(addr, formula); err != nil {
		return nil, fmt.Errorf("failed to set formula: %w", err)
	}
	calculated, calcErr := worksheet.Value(addr)
	if err := workbook.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}

	result := "# Notice\n"
	result += fmt.Sprintf("Formula [=%s] applied to [%s] on sheet [%s].\n",
		html.EscapeString(formula), addr.String(), html.EscapeString(worksheet.Name()))
	if calcErr != nil || strings.TrimSpace(calculated) == "" {
		result += "Calculated result is not available.\n"
	} else {
		result += fmt.Sprintf("Calculated result: %s\n", html.EscapeString(calculated))
	}
	return mcp.NewToolResultText(result), nil
}
