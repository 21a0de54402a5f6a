package excel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Categorical tool arguments (chart types, aggregation functions) accept a
// closed vocabulary plus an explicit alias table. A prefix/substring match
// is kept only as a last resort; Fuzzy is true when it fired so the caller
// can log it.

type chartTypeEntry struct {
	name string
	typ  excelize.ChartType
}

var chartTypes = []chartTypeEntry{
	{"area", excelize.Area},
	{"bar", excelize.Bar},
	{"col", excelize.Col},
	{"doughnut", excelize.Doughnut},
	{"line", excelize.Line},
	{"pie", excelize.Pie},
	{"radar", excelize.Radar},
	{"scatter", excelize.Scatter},
}

var chartTypeAliases = map[string]string{
	"column": "col",
	"donut":  "doughnut",
	"ring":   "doughnut",
	"xy":     "scatter",
}

// ResolveChartType maps a user-supplied chart type to an excelize chart
// type. Returns the canonical name and whether a fuzzy match was used.
func ResolveChartType(input string) (excelize.ChartType, string, bool, error) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if alias, ok := chartTypeAliases[needle]; ok {
		needle = alias
	}
	for _, entry := range chartTypes {
		if entry.name == needle {
			return entry.typ, entry.name, false, nil
		}
	}
	if needle != "" {
		for _, entry := range chartTypes {
			if strings.HasPrefix(needle, entry.name) || strings.Contains(entry.name, needle) {
				return entry.typ, entry.name, true, nil
			}
		}
	}
	return 0, "", false, fmt.Errorf("unsupported chart type: %q (expected one of %s)", input, chartTypeNames())
}

func chartTypeNames() string {
	names := make([]string, len(chartTypes))
	for i, entry := range chartTypes {
		names[i] = entry.name
	}
	return strings.Join(names, ", ")
}

// Excelize pivot subtotal names keyed by the canonical tool vocabulary.
var aggFuncs = map[string]string{
	"sum":     "Sum",
	"count":   "Count",
	"average": "Average",
	"max":     "Max",
	"min":     "Min",
	"product": "Product",
	"stdev":   "StdDev",
	"var":     "Var",
}

var aggFuncAliases = map[string]string{
	"avg":       "average",
	"mean":      "average",
	"total":     "sum",
	"maximum":   "max",
	"minimum":   "min",
	"stddev":    "stdev",
	"deviation": "stdev",
	"variance":  "var",
}

// ResolveAggFunc maps a user-supplied aggregation function name to the
// excelize pivot subtotal vocabulary. Returns the canonical name and
// whether a fuzzy match was used.
func ResolveAggFunc(input string) (string, string, bool, error) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if alias, ok := aggFuncAliases[needle]; ok {
		needle = alias
	}
	if subtotal, ok := aggFuncs[needle]; ok {
		return subtotal, needle, false, nil
	}
	for _, name := range aggFuncNames() {
		if needle != "" && (strings.HasPrefix(needle, name) || strings.Contains(name, needle)) {
			return aggFuncs[name], name, true, nil
		}
	}
	return "", "", false, fmt.Errorf("unsupported aggregation function: %q (expected one of %s)", input, strings.Join(aggFuncNames(), ", "))
}

func aggFuncNames() []string {
	names := make([]string, 0, len(aggFuncs))
	for name := range aggFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
