// Package preview extracts page-text snippets from a generated PDF so the
// TUI can show what each bookmark points at. It tries the pure-Go reader
// first and falls back to pdftotext when the PDF defeats it.
package preview

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Snippet is the leading text of a single page.
type Snippet struct {
	Page int
	Text string
}

var collapseWhitespace = regexp.MustCompile(`\s+`)

// Snippets returns one snippet per requested page, in the order given,
// each capped at maxRunes runes. Pages beyond the document or with
// unextractable text yield empty snippets rather than errors.
func Snippets(path string, pages []int, maxRunes int) ([]Snippet, error) {
	texts, err := pageTexts(path)
	if err != nil {
		texts, err = pdftotextPages(path)
	}
	if err != nil {
		return nil, err
	}

	snippets := make([]Snippet, 0, len(pages))
	for _, p := range pages {
		text := ""
		if p >= 1 && p <= len(texts) {
			text = Truncate(Normalize(texts[p-1]), maxRunes)
		}
		snippets = append(snippets, Snippet{Page: p, Text: text})
	}
	return snippets, nil
}

func pageTexts(path string) (texts []string, err error) {
	// The reader panics on some malformed content streams; treat that the
	// same as a parse error so the pdftotext fallback gets a chance.
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("read pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	texts = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		texts[i-1] = text
	}
	return texts, nil
}

// pdftotextPages shells out to pdftotext, splitting its output on the form
// feeds it emits between pages.
func pdftotextPages(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(string(out), "\f"), nil
}

// Normalize collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	return collapseWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Truncate caps s at limit runes, appending an ellipsis when cut. A limit
// of zero or less leaves s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
