package excel

import (
	"testing"
)

func TestColumnNumber(t *testing.T) {
	tests := []struct {
		input     string
		want      int
		wantError bool
	}{
		{input: "A", want: 1},
		{input: "Z", want: 26},
		{input: "AA", want: 27},
		{input: "AZ", want: 52},
		{input: "ZZ", want: 702},
		{input: "AAA", want: 703},
		{input: "b", want: 2},
		{input: "", wantError: true},
		{input: "A1", wantError: true},
		{input: "-", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ColumnNumber(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ColumnNumber(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ColumnNumber(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ColumnNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestColumnNameRoundTrip(t *testing.T) {
	for n := 1; n <= 20000; n++ {
		name, err := ColumnName(n)
		if err != nil {
			t.Fatalf("ColumnName(%d) unexpected error: %v", n, err)
		}
		back, err := ColumnNumber(name)
		if err != nil {
			t.Fatalf("ColumnNumber(%q) unexpected error: %v", name, err)
		}
		if back != n {
			t.Fatalf("round trip %d -> %q -> %d", n, name, back)
		}
	}
}

func TestColumnNameInvalid(t *testing.T) {
	for _, n := range []int{0, -1, -26} {
		if _, err := ColumnName(n); err == nil {
			t.Errorf("ColumnName(%d) expected error", n)
		}
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input     string
		want      Address
		wantError bool
	}{
		{input: "A1", want: Address{Row: 1, Col: 1}},
		{input: "b12", want: Address{Row: 12, Col: 2}},
		{input: "AA12", want: Address{Row: 12, Col: 27}},
		{input: "$C$7", want: Address{Row: 7, Col: 3}},
		{input: "A0", wantError: true},
		{input: "A", wantError: true},
		{input: "12", wantError: true},
		{input: "", wantError: true},
		{input: "A-1", wantError: true},
		{input: "1A", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseAddress(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseAddress(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseAddress(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatAddressRoundTrip(t *testing.T) {
	for _, input := range []string{"A1", "b12", "AA12", "ZZ100", "AAA1048576"} {
		addr, err := ParseAddress(input)
		if err != nil {
			t.Fatalf("ParseAddress(%q) unexpected error: %v", input, err)
		}
		formatted, err := FormatAddress(addr)
		if err != nil {
			t.Fatalf("FormatAddress(%+v) unexpected error: %v", addr, err)
		}
		back, err := ParseAddress(formatted)
		if err != nil {
			t.Fatalf("ParseAddress(%q) unexpected error: %v", formatted, err)
		}
		if back != addr {
			t.Errorf("round trip %q -> %+v -> %q -> %+v", input, addr, formatted, back)
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input     string
		want      Range
		wantError bool
	}{
		{input: "A1:C10", want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3}},
		{input: "$A$1:$C$10", want: Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3}},
		{input: "B2:B2", want: Range{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 2}},
		{input: "C3:A1", wantError: true},
		{input: "A1", wantError: true},
		{input: "A1:B2:C3", wantError: true},
		{input: "A1-C3", wantError: true},
		{input: "A:C", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseRange(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseRange(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if !IsValidRange(got) {
				t.Errorf("ParseRange(%q) produced invalid range %+v", tt.input, got)
			}
		})
	}
}

func TestParseCellOrRange(t *testing.T) {
	got, err := ParseCellOrRange("B2")
	if err != nil {
		t.Fatalf("ParseCellOrRange(\"B2\") unexpected error: %v", err)
	}
	want := Range{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 2}
	if got != want {
		t.Errorf("ParseCellOrRange(\"B2\") = %+v, want %+v", got, want)
	}

	got, err = ParseCellOrRange("A1:C10")
	if err != nil {
		t.Fatalf("ParseCellOrRange(\"A1:C10\") unexpected error: %v", err)
	}
	want = Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3}
	if got != want {
		t.Errorf("ParseCellOrRange(\"A1:C10\") = %+v, want %+v", got, want)
	}

	if _, err := ParseCellOrRange("not-a-cell"); err == nil {
		t.Error("ParseCellOrRange(\"not-a-cell\") expected error")
	}
}

func TestIsValidRange(t *testing.T) {
	tests := []struct {
		name  string
		input Range
		want  bool
	}{
		{name: "valid", input: Range{1, 1, 10, 3}, want: true},
		{name: "degenerate", input: Range{2, 2, 2, 2}, want: true},
		{name: "zero row", input: Range{0, 1, 10, 3}, want: false},
		{name: "zero col", input: Range{1, 0, 10, 3}, want: false},
		{name: "reversed rows", input: Range{10, 1, 1, 3}, want: false},
		{name: "reversed cols", input: Range{1, 3, 10, 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidRange(tt.input); got != tt.want {
				t.Errorf("IsValidRange(%+v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRangeString(t *testing.T) {
	r := Range{StartRow: 1, StartCol: 1, EndRow: 10, EndCol: 3}
	if got := r.String(); got != "A1:C10" {
		t.Errorf("Range.String() = %q, want %q", got, "A1:C10")
	}
}

func TestQualifiedRange(t *testing.T) {
	tests := []struct {
		sheet string
		rng   string
		want  string
	}{
		{sheet: "Sheet1", rng: "A1:B2", want: "Sheet1!A1:B2"},
		{sheet: "My Sheet", rng: "A1:B2", want: "'My Sheet'!A1:B2"},
		{sheet: "It's", rng: "A1", want: "'It''s'!A1"},
	}
	for _, tt := range tests {
		if got := QualifiedRange(tt.sheet, tt.rng); got != tt.want {
			t.Errorf("QualifiedRange(%q, %q) = %q, want %q", tt.sheet, tt.rng, got, tt.want)
		}
	}
}
