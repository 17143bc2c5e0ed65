package preview

import (
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize("  Chapter   One\n\tstarts\t here \n")
	want := "Chapter One starts here"
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten!", 0, "exactly ten!"},
		{"a longer sentence", 8, "a longer…"},
		{"héllo wörld", 5, "héllo…"},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestSnippetsMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.pdf")
	if _, err := Snippets(path, []int{1}, 80); err == nil {
		t.Fatal("expected error for missing file")
	}
}
