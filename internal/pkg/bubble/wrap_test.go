package bubble

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	w := NewWrapper()
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{name: "fits on one line", text: "Hello there", maxWidth: 200, want: []string{"Hello there"}},
		{name: "wraps at word boundary", text: "Hello there friend", maxWidth: 120, want: []string{"Hello there", "friend"}},
		{name: "collapses whitespace", text: "  a   b  ", maxWidth: 200, want: []string{"a b"}},
		{name: "overlong word keeps its own line", text: "a supercalifragilistic b", maxWidth: 50, want: []string{"a", "supercalifragilistic", "b"}},
		{name: "empty text", text: "   ", maxWidth: 100, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Wrap(tt.text, tt.maxWidth, measure)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap_CJK(t *testing.T) {
	w := NewWrapper()
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }

	text := "我们一起去森林里找狐狸吧"
	lines := w.Wrap(text, 40, measure)
	if strings.Join(lines, "") != text {
		t.Errorf("Wrap() lost characters: %q", lines)
	}
	for _, line := range lines {
		if measure(line) > 40 {
			t.Errorf("line %q wider than limit", line)
		}
	}
}

func TestHasCJK(t *testing.T) {
	if HasCJK("hello") {
		t.Error("HasCJK(hello) = true")
	}
	if !HasCJK("hello 狐狸") {
		t.Error("HasCJK(mixed) = false")
	}
}

func TestWrapper_LoadsSegmenter(t *testing.T) {
	w := NewWrapper()
	text := "狐狸在森林里遇见了熊"

	tokens := w.Tokens(text)
	if w.segmenter == nil {
		t.Fatal("gse segmenter was not loaded for CJK text")
	}
	if strings.Join(tokens, "") != text {
		t.Errorf("Tokens() = %q, lost characters", tokens)
	}
}
