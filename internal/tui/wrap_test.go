package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("Hinge at hips, grip bar outside knees.", 14)
	want := []string{"Hinge at hips,", "grip bar", "outside knees."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	got := wrapText("深蹲 深蹲 深蹲", 9)
	for _, line := range got {
		if w := runewidth.StringWidth(line); w > 9 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %q", got)
	}
}

func TestWrapTextFoldsNewlines(t *testing.T) {
	got := wrapText("Brace core.\nBreathe out on the way up.", 0)
	if len(got) != 1 || got[0] != "Brace core. Breathe out on the way up." {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if got := wrapText("   ", 10); got != nil {
		t.Fatalf("expected nil, got %q", got)
	}
}
