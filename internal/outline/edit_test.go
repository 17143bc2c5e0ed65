package outline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndentRange(t *testing.T) {
	t.Parallel()

	lines := []string{"Intro 1", "\tChapter 5", "Appendix 90"}
	IndentRange(lines, 0, 1)
	want := []string{"\tIntro 1", "\t\tChapter 5", "Appendix 90"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("indent mismatch (-want +got):\n%s", diff)
	}
}

func TestIndentRangeClampsIndices(t *testing.T) {
	t.Parallel()

	lines := []string{"a", "b"}
	IndentRange(lines, -3, 10)
	want := []string{"\ta", "\tb"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("clamped indent mismatch (-want +got):\n%s", diff)
	}
}

func TestUnindentLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"\tChapter 5", "Chapter 5"},
		{"\t\tChapter 5", "\tChapter 5"},
		{"    Chapter 5", "Chapter 5"},
		{"        Chapter 5", "    Chapter 5"},
		{"  Chapter 5", "  Chapter 5"}, // fewer than 4 spaces: unchanged
		{"Chapter 5", "Chapter 5"},
		{" \tChapter 5", " \tChapter 5"}, // space before tab: unchanged
	}
	for _, tc := range cases {
		if got := UnindentLine(tc.in); got != tc.want {
			t.Errorf("UnindentLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnindentRangeMixed(t *testing.T) {
	t.Parallel()

	lines := []string{"\ta", "    b", "  c", "d"}
	UnindentRange(lines, 0, 3)
	want := []string{"a", "b", "  c", "d"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("unindent mismatch (-want +got):\n%s", diff)
	}
}
