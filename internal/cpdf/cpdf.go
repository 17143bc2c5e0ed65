// Package cpdf wraps the external cpdf command-line toolkit, the sole
// reader and writer of PDF bookmark tables. The toolkit is located once at
// startup and passed around as a dependency; a missing binary degrades the
// features that need it instead of crashing.
package cpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tocmark/tocmark/internal/outline"
)

// DefaultBinary is the toolkit name looked up in PATH when no override is
// given.
const DefaultBinary = "cpdf"

// ErrNotFound reports that the toolkit binary is not installed.
var ErrNotFound = errors.New("cpdf not found in PATH")

// RunError is returned when the toolkit exits non-zero. Stderr holds the
// toolkit's own diagnostics verbatim, for surfacing to the user.
type RunError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("cpdf %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *RunError) Unwrap() error { return e.Err }

// Tool is a located cpdf binary.
type Tool struct {
	path string
}

// Find locates the toolkit binary. An empty name means DefaultBinary.
func Find(binary string) (*Tool, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return &Tool{path: path}, nil
}

// Path returns the resolved binary path.
func (t *Tool) Path() string { return t.path }

// ListBookmarks reads the bookmark outline of source. A PDF without
// bookmarks yields an empty slice.
func (t *Tool) ListBookmarks(ctx context.Context, source string) ([]outline.Entry, error) {
	out, err := t.run(ctx, "-list-bookmarks", "-utf8", source)
	if err != nil {
		return nil, err
	}
	return outline.UnmarshalList(out), nil
}

// AddBookmarks writes a copy of source to dest with the given bookmark
// outline. The bookmark-list temp file is removed on every exit path.
func (t *Tool) AddBookmarks(ctx context.Context, entries []outline.Entry, source, dest string) error {
	return withBookmarkFile(entries, func(listPath string) error {
		_, err := t.run(ctx, "-add-bookmarks", listPath, source, "-o", dest, "-utf8")
		return err
	})
}

// AddBookmarksTemp writes the bookmarked copy to a temporary PDF and returns
// its path together with a cleanup function. cleanup must be called exactly
// once, on every exit path of the caller.
func (t *Tool) AddBookmarksTemp(ctx context.Context, entries []outline.Entry, source string) (string, func(), error) {
	f, err := os.CreateTemp("", "tocmark-preview-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create preview file: %w", err)
	}
	dest := f.Name()
	f.Close()
	cleanup := func() { os.Remove(dest) }

	if err := t.AddBookmarks(ctx, entries, source, dest); err != nil {
		cleanup()
		return "", nil, err
	}
	return dest, cleanup, nil
}

func (t *Tool) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &RunError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

func withBookmarkFile(entries []outline.Entry, fn func(path string) error) error {
	f, err := os.CreateTemp("", "tocmark-bookmarks-*.txt")
	if err != nil {
		return fmt.Errorf("create bookmark file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(outline.MarshalList(entries)); err != nil {
		f.Close()
		return fmt.Errorf("write bookmark file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close bookmark file: %w", err)
	}
	return fn(path)
}
