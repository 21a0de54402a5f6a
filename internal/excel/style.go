package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format carries the flat formatting arguments of a format_range call.
// Zero values mean "leave unset".
type Format struct {
	Bold         bool
	Italic       bool
	Underline    bool
	FontSize     int
	FontColor    string
	BgColor      string
	BorderStyle  string
	BorderColor  string
	NumberFormat string
	Alignment    string
	WrapText     bool
}

// Excelize border style IDs keyed by the names the tool surface accepts.
var borderStyles = map[string]int{
	"none":   0,
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
	"hair":   7,
}

// Horizontal alignment names accepted by the tool surface, keyed by
// their lowercased form.
var alignments = map[string]string{
	"left":             "left",
	"center":           "center",
	"right":            "right",
	"justify":          "justify",
	"fill":             "fill",
	"centercontinuous": "centerContinuous",
	"distributed":      "distributed",
}

// BuildStyle translates a Format into an excelize style definition.
func BuildStyle(f Format) (*excelize.Style, error) {
	style := &excelize.Style{}

	if f.Bold || f.Italic || f.Underline || f.FontSize > 0 || f.FontColor != "" {
		font := &excelize.Font{
			Bold:   f.Bold,
			Italic: f.Italic,
		}
		if f.Underline {
			font.Underline = "single"
		}
		if f.FontSize > 0 {
			font.Size = float64(f.FontSize)
		}
		if f.FontColor != "" {
			font.Color = strings.TrimPrefix(f.FontColor, "#")
		}
		style.Font = font
	}

	if f.BgColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(f.BgColor, "#")},
		}
	}

	if f.BorderStyle != "" {
		styleID, ok := borderStyles[strings.ToLower(f.BorderStyle)]
		if !ok {
			return nil, fmt.Errorf("unsupported border style: %q", f.BorderStyle)
		}
		color := "000000"
		if f.BorderColor != "" {
			color = strings.TrimPrefix(f.BorderColor, "#")
		}
		for _, side := range []string{"left", "right", "top", "bottom"} {
			style.Border = append(style.Border, excelize.Border{
				Type:  side,
				Style: styleID,
				Color: color,
			})
		}
	}

	if f.NumberFormat != "" {
		numFmt := f.NumberFormat
		style.CustomNumFmt = &numFmt
	}

	if f.Alignment != "" || f.WrapText {
		alignment := &excelize.Alignment{WrapText: f.WrapText}
		if f.Alignment != "" {
			horizontal, ok := alignments[strings.ToLower(f.Alignment)]
			if !ok {
				return nil, fmt.Errorf("unsupported alignment: %q", f.Alignment)
			}
			alignment.Horizontal = horizontal
		}
		style.Alignment = alignment
	}

	return style, nil
}
