package display

import (
	"bytes"
	"strings"
	"testing"
)

const start = "---------------------------XO------OX--------------------------- b"

func TestRenderPosition(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPosition(&buf, start, []string{"e3", "f4", "c5", "d6"}); err != nil {
		t.Fatalf("RenderPosition: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "*"); got != 4 {
		t.Errorf("marked %d legal cells, want 4", got)
	}
	if strings.Count(out, "X") != 2 || strings.Count(out, "O") != 2 {
		t.Errorf("unexpected disks:\n%s", out)
	}

	if err := RenderPosition(&buf, "XO b", nil); err == nil {
		t.Error("short position accepted")
	}
}

func TestFormatHistory(t *testing.T) {
	tests := []struct {
		moves []string
		want  string
	}{
		{nil, ""},
		{[]string{"e3"}, "1.e3"},
		{[]string{"e3", "f5", "f6", "pass"}, "1.e3 f5 2.f6 pass"},
	}
	for _, tt := range tests {
		if got := FormatHistory(tt.moves); got != tt.want {
			t.Errorf("FormatHistory(%v) = %q, want %q", tt.moves, got, tt.want)
		}
	}
}
