// Package outline converts between the editable indented-text form of a PDF
// bookmark outline and the flat level/title/page records understood by the
// cpdf command-line toolkit.
package outline

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entry is a single bookmark: a nesting level, a title, and a 1-based
// physical page number. Document order carries the tree shape; sibling and
// child relationships are implied by level deltas between consecutive
// entries.
type Entry struct {
	Level int
	Title string
	Page  int
}

// Skip records a line the parser dropped, for diagnostics.
type Skip struct {
	Line   int
	Text   string
	Reason string
}

const spacesPerLevel = 4

var (
	// A line is indent, title, at least one space, then a trailing page
	// number. The lazy title means a title whose last word is a bare number
	// cannot be told apart from a page number; that ambiguity is inherited
	// from the text format itself.
	lineRe = regexp.MustCompile(`^(\s*)(.*?)\s+(\d+)\s*$`)

	// cpdf -list-bookmarks output: LEVEL "TITLE" PAGE, quotes escaped.
	listRe = regexp.MustCompile(`^(\d+)\s+"(.*)"\s+(\d+)`)
)

// ParseText parses editable outline text into entries. offset is added to
// every page number, clamping the result to a minimum of 1. Blank lines are
// ignored; lines without a trailing page number are dropped and reported in
// the skip list. Parsing never fails outright: the returned entries are
// whatever valid lines were found.
func ParseText(text string, offset int) ([]Entry, []Skip) {
	var entries []Entry
	var skips []Skip
	for i, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		// Collapse full-width digits and spaces to their ASCII forms so
		// CJK-style input still parses.
		line := norm.NFKC.String(raw)
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			skips = append(skips, Skip{Line: i + 1, Text: raw, Reason: "no trailing page number"})
			continue
		}
		page, err := strconv.Atoi(m[3])
		if err != nil {
			skips = append(skips, Skip{Line: i + 1, Text: raw, Reason: "page number out of range"})
			continue
		}
		page += offset
		if page < 1 {
			page = 1
		}
		entries = append(entries, Entry{
			Level: indentLevel(m[1]),
			Title: m[2],
			Page:  page,
		})
	}
	return entries, skips
}

// indentLevel maps an indent string to a nesting level: one tab or four
// spaces per level, contributions summed when mixed.
func indentLevel(indent string) int {
	tabs := strings.Count(indent, "\t")
	spaces := strings.Count(indent, " ")
	return tabs + spaces/spacesPerLevel
}

// Render is the inverse of ParseText at offset zero: one line per entry,
// Level tab characters, the title, a single space, and the page number.
func Render(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, strings.Repeat("\t", e.Level)+e.Title+" "+strconv.Itoa(e.Page))
	}
	return strings.Join(lines, "\n")
}

// MarshalList encodes entries in the cpdf bookmark-list wire format, one
// `LEVEL "TITLE" PAGE` line per entry with embedded quotes backslash-escaped.
func MarshalList(entries []Entry) []byte {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(e.Level))
		b.WriteString(` "`)
		b.WriteString(escapeTitle(e.Title))
		b.WriteString(`" `)
		b.WriteString(strconv.Itoa(e.Page))
	}
	return []byte(b.String())
}

// UnmarshalList parses cpdf -list-bookmarks output. Lines that do not match
// the wire shape are silently dropped: a PDF with no recognizable bookmarks
// yields an empty slice, not an error.
func UnmarshalList(data []byte) []Entry {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		m := listRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		page, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Level: level,
			Title: unescapeTitle(m[2]),
			Page:  page,
		})
	}
	return entries
}

func escapeTitle(title string) string {
	return strings.ReplaceAll(title, `"`, `\"`)
}

func unescapeTitle(title string) string {
	return strings.ReplaceAll(title, `\"`, `"`)
}
