package excel

import (
	"reflect"
	"testing"
)

func TestNormalizeFormula(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "=SUM(A1:A10)", want: "SUM(A1:A10)"},
		{input: "SUM(A1:A10)", want: "SUM(A1:A10)"},
		{input: "  =A1+B1", want: "A1+B1"},
	}
	for _, tt := range tests {
		if got := NormalizeFormula(tt.input); got != tt.want {
			t.Errorf("NormalizeFormula(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateFormula(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "simple sum", input: "SUM(A1:A10)"},
		{name: "nested calls", input: "IF(SUM(A1:A10)>0, \"yes\", \"no\")"},
		{name: "quoted parens", input: "CONCAT(\"(\", A1, \")\")"},
		{name: "arithmetic", input: "A1*B1+C1"},
		{name: "comparison", input: "A1>=B1"},
		{name: "empty", input: "", wantError: true},
		{name: "unbalanced open", input: "SUM(A1:A10", wantError: true},
		{name: "unbalanced close", input: "SUM(A1:A10))", wantError: true},
		{name: "odd quotes", input: "CONCAT(\"a, A1)", wantError: true},
		{name: "trailing operator", input: "A1+", wantError: true},
		{name: "doubled operator", input: "A1++B1", wantError: true},
		{name: "doubled operator in middle", input: "SUM(A1)*/2", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormula(tt.input)
			if tt.wantError && err == nil {
				t.Errorf("ValidateFormula(%q) expected error", tt.input)
			}
			if !tt.wantError && err != nil {
				t.Errorf("ValidateFormula(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestUnknownFunctions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "all known", input: "SUM(A1:A10)+AVERAGE(B1:B10)", want: nil},
		{name: "case insensitive", input: "sum(A1:A10)", want: nil},
		{name: "one unknown", input: "FROBNICATE(A1)", want: []string{"FROBNICATE"}},
		{name: "mixed and deduplicated", input: "MYFN(A1)+MYFN(A2)+SUM(A3)", want: []string{"MYFN"}},
		{name: "quoted call ignored", input: "CONCAT(\"NOTAFN(\", A1)", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnknownFunctions(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnknownFunctions(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
