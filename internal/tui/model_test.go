package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tocmark/tocmark/internal/outline"
	"github.com/tocmark/tocmark/internal/preview"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	teaModel, ok := New(Config{}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Init()
	teaModel.stage = stageEdit
	teaModel.editor.Focus()
	return teaModel
}

func pressKey(t *testing.T, m *model, key tea.KeyMsg) {
	t.Helper()
	next, _ := m.handleKey(key)
	if _, ok := next.(*model); !ok {
		t.Fatalf("handleKey returned %T", next)
	}
}

func TestTabIndentsCurrentLine(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.setEditorValue("Introduction 1\nChapter 5", 0)

	m.shiftCurrentLine(true)

	want := "\tIntroduction 1\nChapter 5"
	if got := m.editor.Value(); got != want {
		t.Fatalf("editor value = %q, want %q", got, want)
	}
	if row := m.editor.Line(); row != 0 {
		t.Fatalf("cursor moved to row %d, want 0", row)
	}
}

func TestShiftTabRemovesLeadingTab(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.setEditorValue("Introduction 1\n\tChapter 5", 1)

	m.shiftCurrentLine(false)

	want := "Introduction 1\nChapter 5"
	if got := m.editor.Value(); got != want {
		t.Fatalf("editor value = %q, want %q", got, want)
	}
	if row := m.editor.Line(); row != 1 {
		t.Fatalf("cursor moved to row %d, want 1", row)
	}
}

func TestShiftTabLeavesShortIndentAlone(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.setEditorValue("  Chapter 5", 0)

	m.shiftCurrentLine(false)

	if got := m.editor.Value(); got != "  Chapter 5" {
		t.Fatalf("two-space indent should be untouched, got %q", got)
	}
}

func TestTabKeyRoutesToIndent(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.setEditorValue("Chapter 5", 0)

	pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if got := m.editor.Value(); got != "\tChapter 5" {
		t.Fatalf("tab key did not indent, got %q", got)
	}
}

func TestParseEditorEmptyOutline(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.editor.SetValue("   \n\t\n")

	entries, ok := m.parseEditor()
	if ok || entries != nil {
		t.Fatalf("empty outline should not parse, got %v", entries)
	}
	if !strings.Contains(m.infoMessage, "empty") {
		t.Fatalf("expected empty-outline notice, got %q", m.infoMessage)
	}
}

func TestParseEditorNoValidLines(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.editor.SetValue("this line has no trailing number\nneither does this one")

	if _, ok := m.parseEditor(); ok {
		t.Fatal("parse should fail when no line carries a page number")
	}
	if m.errorMessage == "" {
		t.Fatal("expected a correctable error message")
	}
}

func TestParseEditorAppliesSessionOffset(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.offset = 10
	m.editor.SetValue("Introduction 1")

	entries, ok := m.parseEditor()
	if !ok || len(entries) != 1 {
		t.Fatalf("parse failed: entries=%v ok=%v", entries, ok)
	}
	if entries[0].Page != 11 {
		t.Fatalf("offset not applied, page = %d", entries[0].Page)
	}
}

func TestCommitOffsetClampsToRange(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.focusOffset()
	m.offsetInput.SetValue("5000")

	m.commitOffset()

	if m.offset != offsetMax {
		t.Fatalf("offset = %d, want clamp to %d", m.offset, offsetMax)
	}
	if m.offsetFocused {
		t.Fatal("offset input should blur after commit")
	}
}

func TestCommitOffsetRejectsNonInteger(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.focusOffset()
	m.offsetInput.SetValue("ten")

	m.commitOffset()

	if m.errorMessage == "" {
		t.Fatal("non-integer offset should surface an error")
	}
	if !m.offsetFocused {
		t.Fatal("offset input should stay focused for correction")
	}
	if m.offset != 0 {
		t.Fatalf("offset changed to %d on invalid input", m.offset)
	}
}

func TestPreviewWithoutToolkitDegrades(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.editor.SetValue("Introduction 1")

	_, cmd := m.startPreview()

	if cmd != nil {
		t.Fatal("preview without cpdf should not start a job")
	}
	if m.infoMessage != toolMissingNotice {
		t.Fatalf("expected toolkit notice, got %q", m.infoMessage)
	}
}

func TestSaveAsRequiresDestination(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageSaveAs
	m.destInput.SetValue("   ")

	pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.stage != stageSaveAs {
		t.Fatalf("stage = %v, want to stay in save-as", m.stage)
	}
	if m.errorMessage == "" {
		t.Fatal("blank destination should surface an error")
	}
}

func TestListResultSeedsEditor(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageLoading
	entries := []outline.Entry{
		{Level: 0, Title: "Introduction", Page: 1},
		{Level: 1, Title: "Details", Page: 5},
	}

	m.Update(listResultMsg{source: "/tmp/book.pdf", entries: entries})

	if m.stage != stageEdit {
		t.Fatalf("stage = %v, want edit", m.stage)
	}
	if got := m.editor.Value(); got != outline.Render(entries) {
		t.Fatalf("editor seeded with %q", got)
	}
	if !strings.Contains(m.infoMessage, "2 bookmark") {
		t.Fatalf("expected load notice, got %q", m.infoMessage)
	}
}

func TestListResultFailureFallsBackToEmptyEditor(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageLoading

	m.Update(listResultMsg{source: "/tmp/book.pdf", err: errors.New("cpdf exploded")})

	if m.stage != stageEdit {
		t.Fatalf("stage = %v, want edit", m.stage)
	}
	if m.errorMessage != "cpdf exploded" {
		t.Fatalf("toolkit stderr not surfaced verbatim: %q", m.errorMessage)
	}
	if m.editor.Value() != "" {
		t.Fatalf("editor should start empty after a failed listing, got %q", m.editor.Value())
	}
}

func TestPreviewResultRendersEntriesAndSnippets(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.applyWindowSize(100, 40)
	m.previewPending = true

	m.Update(previewResultMsg{
		entries:  []outline.Entry{{Level: 0, Title: "Introduction", Page: 1}},
		snippets: []preview.Snippet{{Page: 1, Text: "It was a dark and stormy night."}},
	})

	if m.stage != stagePreview {
		t.Fatalf("stage = %v, want preview", m.stage)
	}
	if m.previewPending {
		t.Fatal("previewPending should clear on result")
	}
	content := m.buildPreviewContent()
	if !strings.Contains(content, "Introduction") || !strings.Contains(content, "p.1") {
		t.Fatalf("preview content missing entry: %q", content)
	}
	if !strings.Contains(content, "stormy") {
		t.Fatalf("preview content missing snippet: %q", content)
	}
}

func TestSaveResultReturnsToEditor(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageSaving

	m.Update(saveResultMsg{dest: "/tmp/book-bookmarked.pdf"})

	if m.stage != stageEdit {
		t.Fatalf("stage = %v, want edit", m.stage)
	}
	if !strings.Contains(m.infoMessage, "book-bookmarked.pdf") {
		t.Fatalf("expected save confirmation, got %q", m.infoMessage)
	}
}

func TestSaveResultFailureReturnsToSaveAs(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageSaving

	m.Update(saveResultMsg{dest: "/nope/out.pdf", err: errors.New("permission denied")})

	if m.stage != stageSaveAs {
		t.Fatalf("stage = %v, want save-as for retry", m.stage)
	}
	if m.errorMessage != "permission denied" {
		t.Fatalf("error not surfaced: %q", m.errorMessage)
	}
}

func TestJobDoneRedispatchesPayload(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageSaving
	ticket := jobTicket{Seq: m.jobs.seq.Add(1), Kind: jobKindSave}

	m.Update(jobDoneMsg{Ticket: ticket, Payload: saveResultMsg{dest: "/tmp/out.pdf"}})

	if m.stage != stageEdit {
		t.Fatalf("payload not redispatched, stage = %v", m.stage)
	}
	if m.lastJob.Ticket != ticket {
		t.Fatalf("job ticket not recorded: %+v", m.lastJob)
	}
}

func TestStaleJobResultIsDropped(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.stage = stageSaving
	stale := jobTicket{Seq: m.jobs.seq.Add(1), Kind: jobKindPreview}
	m.jobs.seq.Add(1)

	m.Update(jobDoneMsg{Ticket: stale, Payload: saveResultMsg{dest: "/tmp/out.pdf"}})

	if m.stage != stageSaving {
		t.Fatalf("stale result changed stage to %v", m.stage)
	}
}

func TestDefaultDest(t *testing.T) {
	t.Parallel()
	if got := defaultDest("/books/guide.pdf"); got != "/books/guide-bookmarked.pdf" {
		t.Fatalf("defaultDest = %q", got)
	}
}
