package excel

import "testing"

func TestBuildStyleAlignments(t *testing.T) {
	accepted := []string{"left", "center", "right", "justify", "fill", "centerContinuous", "distributed"}
	for _, name := range accepted {
		style, err := BuildStyle(Format{Alignment: name})
		if err != nil {
			t.Errorf("BuildStyle(alignment=%q): %v", name, err)
			continue
		}
		if style.Alignment == nil || style.Alignment.Horizontal == "" {
			t.Errorf("BuildStyle(alignment=%q): horizontal alignment not set", name)
		}
	}

	if _, err := BuildStyle(Format{Alignment: "diagonal"}); err == nil {
		t.Error("BuildStyle accepted an unsupported alignment")
	}
}

func TestBuildStyleBorders(t *testing.T) {
	style, err := BuildStyle(Format{BorderStyle: "thin", BorderColor: "#FF0000"})
	if err != nil {
		t.Fatalf("BuildStyle: %v", err)
	}
	if len(style.Border) != 4 {
		t.Fatalf("got %d border sides, want 4", len(style.Border))
	}
	for _, border := range style.Border {
		if border.Style != 1 || border.Color != "FF0000" {
			t.Errorf("border %s = style %d color %s", border.Type, border.Style, border.Color)
		}
	}

	if _, err := BuildStyle(Format{BorderStyle: "wavy"}); err == nil {
		t.Error("BuildStyle accepted an unsupported border style")
	}
}
