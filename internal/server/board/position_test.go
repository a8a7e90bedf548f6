package board

import (
	"errors"
	"strings"
	"testing"

	"othello/internal/server/core"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    Point
		wantErr bool
	}{
		{"a1", Point{0, 0}, false},
		{"h8", Point{7, 7}, false},
		{"D3", Point{2, 3}, false},
		{" e6 ", Point{5, 4}, false},
		{"i1", Point{}, true},
		{"a9", Point{}, true},
		{"a", Point{}, true},
		{"pass", Point{}, true},
	}

	for _, tt := range tests {
		got, err := ParsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePoint(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePoint(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != strings.ToLower(strings.TrimSpace(tt.in)) {
			t.Errorf("String() = %s, want %s", got, tt.in)
		}
	}
}

func TestPositionRoundTrip(t *testing.T) {
	b := New()
	m, _ := b.MoveAt(Point{2, 4}, core.ColorBlack)
	b = b.Successor(m, core.ColorBlack)

	s := EncodePosition(b, core.ColorWhite)
	if len(s) != Size*Size+2 {
		t.Fatalf("encoded length = %d", len(s))
	}

	got, turn, err := ParsePosition(s)
	if err != nil {
		t.Fatalf("ParsePosition: %v", err)
	}
	if got != b || turn != core.ColorWhite {
		t.Fatalf("round trip mismatch: turn %s\n%s", turn, got)
	}
}

func TestParsePositionErrors(t *testing.T) {
	valid := strings.Repeat("-", 64)
	tests := []string{
		"",
		valid,
		valid + " x",
		valid[:63] + " b",
		valid[:63] + "?" + " b",
	}
	for _, in := range tests {
		if _, _, err := ParsePosition(in); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("ParsePosition(%q) err = %v", in, err)
		}
	}
}

func TestToASCII(t *testing.T) {
	lines := strings.Split(New().ToASCII(), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[4] != "4 . . . X O . . .  4" {
		t.Errorf("row 4 = %q", lines[4])
	}
}
