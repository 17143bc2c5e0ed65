package tui

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/tocmark/tocmark/internal/cpdf"
	"github.com/tocmark/tocmark/internal/outline"
	"github.com/tocmark/tocmark/internal/preview"
)

// Config wires runtime options into the TUI program.
type Config struct {
	// Tool is the located cpdf toolkit, or nil when it is missing from the
	// system. Editing works without it; listing, preview, and save degrade
	// to no-ops with a notice.
	Tool *cpdf.Tool

	// Source optionally preselects the PDF to edit, skipping the picker.
	Source string

	// Offset is the initial page offset.
	Offset int

	// StartDir is the file picker's starting directory.
	StartDir string
}

const toolMissingNotice = "cpdf not found on this system: editing works, but listing, preview, and save are disabled."

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	editor := textarea.New()
	editor.Placeholder = editorPlaceholder
	editor.CharLimit = 0
	editor.ShowLineNumbers = true
	editor.SetWidth(76)
	editor.SetHeight(14)

	offsetInput := textinput.New()
	offsetInput.Placeholder = offsetPlaceholder
	offsetInput.CharLimit = 5
	offsetInput.Width = 8
	offsetInput.SetValue(strconv.Itoa(clampOffset(config.Offset)))

	destInput := textinput.New()
	destInput.Placeholder = destPlaceholder
	destInput.CharLimit = 250
	destInput.Width = 60

	picker := filepicker.New()
	picker.AllowedTypes = []string{".pdf"}
	picker.CurrentDirectory = config.StartDir

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:      config,
		stage:       stagePick,
		picker:      picker,
		editor:      editor,
		offsetInput: offsetInput,
		destInput:   destInput,
		spinner:     spin,
		viewport:    vp,
		offset:      clampOffset(config.Offset),
		infoMessage: "Pick a PDF to edit its bookmark outline.",
	}
	if config.Tool == nil {
		m.infoMessage = toolMissingNotice
	}
	return m
}

type model struct {
	config Config
	stage  stage

	picker      filepicker.Model
	editor      textarea.Model
	offsetInput textinput.Model
	destInput   textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	jobs    *jobBus
	watcher *fsnotify.Watcher

	source         string
	offset         int
	offsetFocused  bool
	pendingEntries []outline.Entry
	previewPending bool

	previewEntries  []outline.Entry
	previewSnippets []preview.Snippet

	infoMessage  string
	errorMessage string
	helpVisible  bool
	lastJob      jobDoneMsg

	width  int
	height int
}

func (m *model) Init() tea.Cmd {
	m.jobs = newJobBus()
	cmds := []tea.Cmd{textarea.Blink}
	if m.config.Source != "" {
		cmds = append(cmds, m.selectSource(m.config.Source))
	} else {
		cmds = append(cmds, m.picker.Init())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading || m.stage == stageSaving || m.previewPending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.closeWatcher()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.stage == stagePreview {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)
		return m, nil

	case jobDoneMsg:
		if !m.jobs.Current(msg.Ticket) {
			log.Printf("[jobs] dropping stale %s #%d result", msg.Ticket.Kind, msg.Ticket.Seq)
			return m, nil
		}
		m.lastJob = msg
		if msg.Payload != nil {
			return m.Update(msg.Payload)
		}
		return m, nil

	case listResultMsg:
		return m.handleListResult(msg)

	case previewResultMsg:
		return m.handlePreviewResult(msg)

	case saveResultMsg:
		return m.handleSaveResult(msg)

	case sourceChangedMsg:
		m.infoMessage = fmt.Sprintf("%s changed on disk. Ctrl+R reloads its bookmarks.", filepath.Base(msg.path))
		if m.watcher != nil {
			return m, waitForSourceChange(m.watcher)
		}
		return m, nil
	}

	if m.stage == stagePick {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			return m, m.selectSource(path)
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stagePick:
		if key.Type == tea.KeyEsc {
			m.closeWatcher()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(key)
		if ok, path := m.picker.DidSelectFile(key); ok {
			return m, m.selectSource(path)
		}
		return m, cmd
	case stageLoading, stageSaving:
		return m, nil
	case stageEdit:
		return m.handleEditKey(key)
	case stagePreview:
		return m.handlePreviewKey(key)
	case stageSaveAs:
		return m.handleSaveAsKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleEditKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.offsetFocused {
		switch key.Type {
		case tea.KeyEnter:
			m.commitOffset()
			return m, nil
		case tea.KeyEsc:
			m.offsetInput.SetValue(strconv.Itoa(m.offset))
			m.blurOffset()
			return m, nil
		}
		var cmd tea.Cmd
		m.offsetInput, cmd = m.offsetInput.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "tab":
		m.shiftCurrentLine(true)
		return m, nil
	case "shift+tab":
		m.shiftCurrentLine(false)
		return m, nil
	case "ctrl+o":
		m.focusOffset()
		return m, nil
	case "ctrl+p":
		return m.startPreview()
	case "ctrl+s":
		return m.startSaveAs()
	case "ctrl+r":
		return m.reloadFromSource()
	case "ctrl+g":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "esc":
		m.infoMessage = "Ctrl+C quits. The outline lives only in this session."
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(key)
	return m, cmd
}

func (m *model) handlePreviewKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "e":
		m.stage = stageEdit
		m.editor.Focus()
		m.infoMessage = "Back to editing."
		return m, nil
	case "ctrl+s":
		return m.startSaveAs()
	case "ctrl+g":
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handleSaveAsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.stage = stageEdit
		m.destInput.Blur()
		m.editor.Focus()
		m.infoMessage = "Save canceled."
		return m, nil
	case tea.KeyEnter:
		dest := strings.TrimSpace(m.destInput.Value())
		if dest == "" {
			m.errorMessage = "Enter a destination path."
			return m, nil
		}
		m.errorMessage = ""
		m.stage = stageSaving
		m.destInput.Blur()
		m.infoMessage = fmt.Sprintf("Writing %s…", filepath.Base(dest))
		return m, tea.Batch(
			m.spinner.Tick,
			m.jobs.Start(jobKindSave, saveJob(m.config.Tool, m.pendingEntries, m.source, dest)),
		)
	}
	var cmd tea.Cmd
	m.destInput, cmd = m.destInput.Update(key)
	return m, cmd
}

func (m *model) handleListResult(msg listResultMsg) (tea.Model, tea.Cmd) {
	m.stage = stageEdit
	m.editor.Focus()
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Starting with an empty outline."
		return m, textarea.Blink
	}
	m.errorMessage = ""
	if len(msg.entries) == 0 {
		m.infoMessage = fmt.Sprintf("%s has no bookmarks yet. Type the outline below.", filepath.Base(msg.source))
		return m, textarea.Blink
	}
	m.editor.SetValue(outline.Render(msg.entries))
	m.infoMessage = fmt.Sprintf("Loaded %d bookmark(s) from %s.", len(msg.entries), filepath.Base(msg.source))
	return m, textarea.Blink
}

func (m *model) handlePreviewResult(msg previewResultMsg) (tea.Model, tea.Cmd) {
	m.previewPending = false
	if msg.err != nil {
		m.stage = stageEdit
		m.editor.Focus()
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Preview failed. Fix the outline and try Ctrl+P again."
		return m, nil
	}
	m.previewEntries = msg.entries
	m.previewSnippets = msg.snippets
	m.viewport.SetContent(m.buildPreviewContent())
	m.viewport.SetYOffset(0)
	m.stage = stagePreview
	m.editor.Blur()
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Previewing %d bookmark(s). Esc edits, Ctrl+S saves.", len(msg.entries))
	return m, nil
}

func (m *model) handleSaveResult(msg saveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.stage = stageSaveAs
		m.destInput.Focus()
		m.errorMessage = msg.err.Error()
		m.infoMessage = "Saving failed. Adjust the destination and press Enter to retry."
		return m, nil
	}
	m.stage = stageEdit
	m.editor.Focus()
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Saved bookmarked PDF to %s.", msg.dest)
	return m, nil
}

// selectSource records the chosen PDF, starts watching it, and seeds the
// editor from its existing bookmark table when the toolkit is available.
func (m *model) selectSource(path string) tea.Cmd {
	m.source = path
	m.errorMessage = ""
	var cmds []tea.Cmd
	if watch := m.watchSource(path); watch != nil {
		cmds = append(cmds, watch)
	}
	if m.config.Tool == nil {
		m.stage = stageEdit
		m.editor.Focus()
		m.infoMessage = toolMissingNotice
		return tea.Batch(cmds...)
	}
	m.stage = stageLoading
	m.infoMessage = fmt.Sprintf("Reading bookmarks from %s…", filepath.Base(path))
	cmds = append(cmds,
		m.spinner.Tick,
		m.jobs.Start(jobKindList, listBookmarksJob(m.config.Tool, path)),
	)
	return tea.Batch(cmds...)
}

func (m *model) startPreview() (tea.Model, tea.Cmd) {
	if m.config.Tool == nil {
		m.infoMessage = toolMissingNotice
		return m, nil
	}
	entries, ok := m.parseEditor()
	if !ok {
		return m, nil
	}
	m.pendingEntries = entries
	m.previewPending = true
	m.infoMessage = "Generating preview…"
	return m, tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindPreview, previewJob(m.config.Tool, entries, m.source)),
	)
}

func (m *model) startSaveAs() (tea.Model, tea.Cmd) {
	if m.config.Tool == nil {
		m.infoMessage = toolMissingNotice
		return m, nil
	}
	entries, ok := m.parseEditor()
	if !ok {
		return m, nil
	}
	m.pendingEntries = entries
	m.stage = stageSaveAs
	if strings.TrimSpace(m.destInput.Value()) == "" {
		m.destInput.SetValue(defaultDest(m.source))
	}
	m.editor.Blur()
	m.destInput.Focus()
	m.infoMessage = "Enter the destination path and press Enter."
	return m, textinput.Blink
}

func (m *model) reloadFromSource() (tea.Model, tea.Cmd) {
	if m.config.Tool == nil {
		m.infoMessage = toolMissingNotice
		return m, nil
	}
	if m.source == "" {
		return m, nil
	}
	m.stage = stageLoading
	m.infoMessage = fmt.Sprintf("Reloading bookmarks from %s…", filepath.Base(m.source))
	return m, tea.Batch(
		m.spinner.Tick,
		m.jobs.Start(jobKindList, listBookmarksJob(m.config.Tool, m.source)),
	)
}

// parseEditor parses the editor text with the session offset. Skipped lines
// are logged; an empty parse of non-empty text is a correctable input error
// surfaced to the user, never a crash.
func (m *model) parseEditor() ([]outline.Entry, bool) {
	text := m.editor.Value()
	if strings.TrimSpace(text) == "" {
		m.infoMessage = "The outline is empty. One bookmark per line: Title PageNum."
		return nil, false
	}
	entries, skips := outline.ParseText(text, m.offset)
	for _, s := range skips {
		log.Printf("[outline] skipped line %d (%s): %q", s.Line, s.Reason, s.Text)
	}
	if len(entries) == 0 {
		m.errorMessage = "No valid bookmarks found. Every line needs a trailing page number."
		return nil, false
	}
	m.errorMessage = ""
	if len(skips) > 0 {
		m.infoMessage = fmt.Sprintf("%d line(s) skipped: no trailing page number.", len(skips))
	}
	return entries, true
}

// shiftCurrentLine indents or unindents the line under the cursor by one
// step, preserving the cursor row.
func (m *model) shiftCurrentLine(indent bool) {
	row := m.editor.Line()
	lines := strings.Split(m.editor.Value(), "\n")
	if row < 0 || row >= len(lines) {
		return
	}
	before := lines[row]
	if indent {
		outline.IndentRange(lines, row, row)
	} else {
		outline.UnindentRange(lines, row, row)
	}
	if lines[row] == before {
		return
	}
	m.setEditorValue(strings.Join(lines, "\n"), row)
}

func (m *model) setEditorValue(value string, row int) {
	m.editor.SetValue(value)
	// SetValue leaves the cursor at the end of the content.
	for m.editor.Line() > row {
		m.editor.CursorUp()
	}
	m.editor.CursorEnd()
}

func (m *model) focusOffset() {
	m.offsetFocused = true
	m.editor.Blur()
	m.offsetInput.Focus()
	m.infoMessage = "Offset = physical page − TOC page. Enter applies, Esc cancels."
}

func (m *model) blurOffset() {
	m.offsetFocused = false
	m.offsetInput.Blur()
	m.editor.Focus()
}

func (m *model) commitOffset() {
	value := strings.TrimSpace(m.offsetInput.Value())
	if value == "" {
		value = "0"
	}
	offset, err := strconv.Atoi(value)
	if err != nil {
		m.errorMessage = "The offset must be an integer."
		return
	}
	m.errorMessage = ""
	m.offset = clampOffset(offset)
	m.offsetInput.SetValue(strconv.Itoa(m.offset))
	m.blurOffset()
	m.infoMessage = fmt.Sprintf("Page offset set to %+d.", m.offset)
}

func (m *model) applyWindowSize(width, height int) {
	m.width = width
	m.height = height
	innerWidth := width - horizontalPadding
	if innerWidth < minEditorWidth {
		innerWidth = minEditorWidth
	}
	m.editor.SetWidth(innerWidth)
	editorHeight := height - 12
	if editorHeight < 5 {
		editorHeight = 5
	}
	m.editor.SetHeight(editorHeight)

	m.viewport.Width = innerWidth
	viewportHeight := height - 8
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.viewport.Height = viewportHeight

	pickerHeight := height - 10
	if pickerHeight < 5 {
		pickerHeight = 5
	}
	m.picker.Height = pickerHeight
}

func clampOffset(offset int) int {
	if offset < offsetMin {
		return offsetMin
	}
	if offset > offsetMax {
		return offsetMax
	}
	return offset
}

func defaultDest(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + "-bookmarked" + ext
}
