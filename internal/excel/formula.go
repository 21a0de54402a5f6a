package excel

import (
	"fmt"
	"regexp"
	"strings"
)

// The formula checks here are deliberately shallow: they catch lexical
// mistakes (unbalanced delimiters, dangling operators) before a formula is
// stored, and leave evaluation entirely to the spreadsheet library.

var (
	functionCallRegexp = regexp.MustCompile(`([A-Za-z][A-Za-z0-9.]*)\s*\(`)
	doubledOpRegexp    = regexp.MustCompile(`[+\-*/^&]{2,}`)
)

// Common spreadsheet function names. The list is advisory: formulas
// calling functions outside it are accepted, the caller may warn.
var knownFunctions = map[string]struct{}{
	"SUM": {}, "AVERAGE": {}, "COUNT": {}, "COUNTA": {}, "MAX": {}, "MIN": {},
	"IF": {}, "IFS": {}, "IFERROR": {}, "AND": {}, "OR": {}, "NOT": {},
	"SUMIF": {}, "SUMIFS": {}, "COUNTIF": {}, "COUNTIFS": {}, "AVERAGEIF": {}, "AVERAGEIFS": {},
	"VLOOKUP": {}, "HLOOKUP": {}, "XLOOKUP": {}, "INDEX": {}, "MATCH": {}, "INDIRECT": {}, "OFFSET": {},
	"CONCAT": {}, "CONCATENATE": {}, "TEXT": {}, "TEXTJOIN": {},
	"LEFT": {}, "RIGHT": {}, "MID": {}, "LEN": {}, "TRIM": {}, "UPPER": {}, "LOWER": {}, "PROPER": {},
	"SUBSTITUTE": {}, "REPLACE": {}, "FIND": {}, "SEARCH": {}, "VALUE": {},
	"ROUND": {}, "ROUNDUP": {}, "ROUNDDOWN": {}, "INT": {}, "ABS": {}, "SQRT": {}, "POWER": {}, "MOD": {},
	"TODAY": {}, "NOW": {}, "DATE": {}, "YEAR": {}, "MONTH": {}, "DAY": {}, "WEEKDAY": {}, "EOMONTH": {},
	"ISBLANK": {}, "ISNUMBER": {}, "ISTEXT": {}, "ISERROR": {}, "ROW": {}, "COLUMN": {},
}

// NormalizeFormula strips the leading "=" of a formula, if present.
func NormalizeFormula(formula string) string {
	return strings.TrimPrefix(strings.TrimSpace(formula), "=")
}

// ValidateFormula checks the lexical shape of a formula (without its
// leading "="): balanced parentheses outside string literals, an even
// number of double quotes, no trailing operator and no doubled operator.
func ValidateFormula(formula string) error {
	if strings.TrimSpace(formula) == "" {
		return fmt.Errorf("formula is empty")
	}

	if strings.Count(formula, `"`)%2 != 0 {
		return fmt.Errorf("unbalanced double quotes")
	}

	depth := 0
	inString := false
	for _, r := range formula {
		switch {
		case r == '"':
			inString = !inString
		case inString:
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced parentheses")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced parentheses")
	}

	stripped := stripStrings(formula)
	trimmed := strings.TrimSpace(stripped)
	if trimmed != "" && strings.ContainsRune("+-*/^&=<>", rune(trimmed[len(trimmed)-1])) {
		return fmt.Errorf("formula ends with an operator")
	}
	if match := doubledOpRegexp.FindString(stripped); match != "" {
		return fmt.Errorf("doubled operator %q", match)
	}
	return nil
}

// UnknownFunctions returns the function names called by the formula that
// are not in the advisory allow-list.
func UnknownFunctions(formula string) []string {
	var unknown []string
	seen := map[string]struct{}{}
	for _, match := range functionCallRegexp.FindAllStringSubmatch(stripStrings(formula), -1) {
		name := strings.ToUpper(match[1])
		if _, ok := knownFunctions[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unknown = append(unknown, name)
	}
	return unknown
}

// stripStrings blanks out string literals so operator and function checks
// do not trip on quoted text.
func stripStrings(formula string) string {
	var b strings.Builder
	inString := false
	for _, r := range formula {
		if r == '"' {
			inString = !inString
			b.WriteRune(' ')
			continue
		}
		if inString {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
