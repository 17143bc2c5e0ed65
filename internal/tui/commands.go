package tui

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tocmark/tocmark/internal/cpdf"
	"github.com/tocmark/tocmark/internal/outline"
	"github.com/tocmark/tocmark/internal/preview"
)

type listResultMsg struct {
	source  string
	entries []outline.Entry
	err     error
}

type previewResultMsg struct {
	entries  []outline.Entry
	snippets []preview.Snippet
	err      error
}

type saveResultMsg struct {
	dest string
	err  error
}

func listBookmarksJob(tool *cpdf.Tool, source string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, toolkitTimeout)
		defer cancel()
		entries, err := tool.ListBookmarks(ctx, source)
		if err != nil {
			return listResultMsg{source: source, err: err}, err
		}
		return listResultMsg{source: source, entries: entries}, nil
	}
}

// previewJob writes the outline into a temporary copy of source, re-lists
// that copy to show exactly what the toolkit recorded, and extracts a text
// snippet for every target page. The temporary PDF lives only for the
// duration of the job.
func previewJob(tool *cpdf.Tool, entries []outline.Entry, source string) jobRunner {
	toWrite := append([]outline.Entry(nil), entries...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, toolkitTimeout)
		defer cancel()

		dest, cleanup, err := tool.AddBookmarksTemp(ctx, toWrite, source)
		if err != nil {
			return previewResultMsg{err: err}, err
		}
		defer cleanup()

		written, err := tool.ListBookmarks(ctx, dest)
		if err != nil {
			return previewResultMsg{err: err}, err
		}

		snippets, err := preview.Snippets(dest, uniquePages(written), snippetRunes)
		if err != nil {
			// Snippets are best effort; the bookmark listing alone is a
			// usable preview.
			log.Printf("[preview] snippet extraction failed: %v", err)
			snippets = nil
		}
		return previewResultMsg{entries: written, snippets: snippets}, nil
	}
}

func saveJob(tool *cpdf.Tool, entries []outline.Entry, source, dest string) jobRunner {
	toWrite := append([]outline.Entry(nil), entries...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, toolkitTimeout)
		defer cancel()
		if err := tool.AddBookmarks(ctx, toWrite, source, dest); err != nil {
			return saveResultMsg{dest: dest, err: err}, err
		}
		return saveResultMsg{dest: dest}, nil
	}
}

// uniquePages returns the distinct target pages in first-seen order.
func uniquePages(entries []outline.Entry) []int {
	seen := map[int]bool{}
	var pages []int
	for _, e := range entries {
		if seen[e.Page] {
			continue
		}
		seen[e.Page] = true
		pages = append(pages, e.Page)
	}
	return pages
}
