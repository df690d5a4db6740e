package main

import (
	"strings"
	"testing"
)

func TestRenderSceneRows(t *testing.T) {
	out := renderSceneRows([]tableColumn{
		{Title: "ID"},
		{Title: "#", Numeric: true},
		{Title: "Description", MaxWidth: 16},
	}, [][]string{
		{"s1", "3", "a very long description that should wrap"},
		{"s2"},
	})
	if !strings.Contains(out, "ID") || !strings.Contains(out, "s1") {
		t.Errorf("table missing header or row: %s", out)
	}
	if strings.Contains(out, "<nil>") {
		t.Errorf("short rows must render as empty cells, got: %s", out)
	}
}

func TestRenderSceneRowsEmptyColumns(t *testing.T) {
	if out := renderSceneRows(nil, nil); out != "" {
		t.Errorf("no columns must render nothing, got %q", out)
	}
}
