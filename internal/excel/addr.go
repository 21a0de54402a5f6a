package excel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Address is a single cell location. Rows and columns are 1-based.
type Address struct {
	Row int
	Col int
}

// Range is a rectangular span of cells. A single cell is a degenerate
// range where start == end.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

var addressRegexp = regexp.MustCompile(`^\$?([A-Za-z]+)\$?([0-9]+)$`)

// ColumnNumber converts column letters to a 1-based column number.
// The encoding is bijective base-26: A=1 ... Z=26, AA=27. Case-insensitive.
func ColumnNumber(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("invalid column name: %q", letters)
	}
	n := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", letters)
		}
		n = n*26 + int(r-'A') + 1
	}
	return n, nil
}

// ColumnName is the inverse of ColumnNumber.
func ColumnName(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("invalid column number: %d", n)
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b), nil
}

// ParseAddress parses a cell address like "B12" or "$AA$3".
func ParseAddress(text string) (Address, error) {
	matches := addressRegexp.FindStringSubmatch(text)
	if matches == nil {
		return Address{}, fmt.Errorf("invalid cell address: %q", text)
	}
	col, err := ColumnNumber(matches[1])
	if err != nil {
		return Address{}, err
	}
	row, err := strconv.Atoi(matches[2])
	if err != nil || row < 1 {
		return Address{}, fmt.Errorf("invalid cell address: %q", text)
	}
	return Address{Row: row, Col: col}, nil
}

// FormatAddress renders an address back to letters+digits form.
func FormatAddress(a Address) (string, error) {
	if a.Row < 1 {
		return "", fmt.Errorf("invalid row number: %d", a.Row)
	}
	col, err := ColumnName(a.Col)
	if err != nil {
		return "", err
	}
	return col + strconv.Itoa(a.Row), nil
}

// String renders the address, or "?" when it is malformed.
func (a Address) String() string {
	s, err := FormatAddress(a)
	if err != nil {
		return "?"
	}
	return s
}

// ParseRange parses a range like "A1:C10". Reversed ranges (end before
// start) are rejected rather than swapped, so callers never see an
// unnormalized rectangle.
func ParseRange(text string) (Range, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("invalid range format: %q", text)
	}
	start, err := ParseAddress(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range format: %q: %w", text, err)
	}
	end, err := ParseAddress(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range format: %q: %w", text, err)
	}
	if end.Row < start.Row || end.Col < start.Col {
		return Range{}, fmt.Errorf("invalid range %q: end %s precedes start %s", text, end, start)
	}
	return Range{StartRow: start.Row, StartCol: start.Col, EndRow: end.Row, EndCol: end.Col}, nil
}

// ParseCellOrRange accepts either a single address or a range.
func ParseCellOrRange(text string) (Range, error) {
	if strings.Contains(text, ":") {
		return ParseRange(text)
	}
	a, err := ParseAddress(text)
	if err != nil {
		return Range{}, err
	}
	return Range{StartRow: a.Row, StartCol: a.Col, EndRow: a.Row, EndCol: a.Col}, nil
}

// IsValidRange reports whether r is a normalized rectangle with
// 1-based coordinates.
func IsValidRange(r Range) bool {
	return r.StartRow >= 1 && r.StartCol >= 1 && r.EndRow >= r.StartRow && r.EndCol >= r.StartCol
}

// Start returns the top-left address of the range.
func (r Range) Start() Address {
	return Address{Row: r.StartRow, Col: r.StartCol}
}

// End returns the bottom-right address of the range.
func (r Range) End() Address {
	return Address{Row: r.EndRow, Col: r.EndCol}
}

// Rows returns the height of the range in rows.
func (r Range) Rows() int {
	return r.EndRow - r.StartRow + 1
}

// Cols returns the width of the range in columns.
func (r Range) Cols() int {
	return r.EndCol - r.StartCol + 1
}

// String renders the range as "A1:C10".
func (r Range) String() string {
	return r.Start().String() + ":" + r.End().String()
}

// QualifiedRange prefixes a range string with its sheet name, quoting
// the name when it needs escaping inside a reference.
func QualifiedRange(sheetName, rangeStr string) string {
	if strings.ContainsAny(sheetName, " '!") {
		return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + rangeStr
	}
	return sheetName + "!" + rangeStr
}
