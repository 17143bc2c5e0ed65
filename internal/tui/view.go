package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	switch m.stage {
	case stagePick:
		return m.viewPick()
	case stageLoading:
		return m.viewLoading()
	case stageEdit:
		return m.viewEdit()
	case stagePreview:
		return m.viewPreview()
	case stageSaveAs, stageSaving:
		return m.viewSaveAs()
	default:
		return ""
	}
}

func (m *model) viewPick() string {
	return joinNonEmpty([]string{
		m.headerView(),
		sectionHeaderStyle.Render("Pick a PDF"),
		m.picker.View(),
		m.noticeView(),
		helperStyle.Render("Enter selects, Esc quits."),
	})
}

func (m *model) viewLoading() string {
	return joinNonEmpty([]string{
		m.headerView(),
		fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage),
	})
}

func (m *model) viewEdit() string {
	parts := []string{
		m.headerView(),
		sectionHeaderStyle.Render("Outline"),
		m.editor.View(),
		m.offsetPanel(),
		m.noticeView(),
		m.statusBarView(),
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	} else {
		parts = append(parts, helperStyle.Render("Tab/Shift+Tab indent • Ctrl+O offset • Ctrl+P preview • Ctrl+S save • Ctrl+G help"))
	}
	return joinNonEmpty(parts)
}

func (m *model) viewPreview() string {
	header := sectionHeaderStyle.Render("Preview")
	if m.previewPending {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}
	return joinNonEmpty([]string{
		m.headerView(),
		header,
		m.viewport.View(),
		m.noticeView(),
		m.statusBarView(),
		helperStyle.Render("↑/↓ scroll • Esc edit • Ctrl+S save • Ctrl+C quit"),
	})
}

func (m *model) viewSaveAs() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Save As"))
	b.WriteRune('\n')
	b.WriteString(m.destInput.View())
	b.WriteRune('\n')
	if m.stage == stageSaving {
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage))
	} else {
		b.WriteString(helperStyle.Render("Enter writes the bookmarked copy, Esc cancels."))
	}
	return joinNonEmpty([]string{
		m.headerView(),
		b.String(),
		m.noticeView(),
		m.statusBarView(),
	})
}

func (m *model) headerView() string {
	title := titleStyle.Render("tocmark")
	tagline := taglineStyle.Render(appTagline)
	if m.source == "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, tagline)
	}
	source := subtitleStyle.Render(filepath.Base(m.source))
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", source), tagline)
}

func (m *model) offsetPanel() string {
	label := "Page offset"
	if m.offsetFocused {
		label = sectionHeaderStyle.Render(label)
	} else {
		label = helperStyle.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", m.offsetInput.View())
}

func (m *model) noticeView() string {
	parts := []string{}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.previewPending {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	return strings.Join(parts, "\n")
}

func (m *model) statusBarView() string {
	lineCount := 0
	if value := m.editor.Value(); strings.TrimSpace(value) != "" {
		lineCount = strings.Count(value, "\n") + 1
	}
	stats := []string{
		fmt.Sprintf("Lines %d", lineCount),
		fmt.Sprintf("Offset %+d", m.offset),
	}
	if m.config.Tool == nil {
		stats = append(stats, "cpdf missing")
	} else {
		stats = append(stats, "cpdf ready")
	}
	if m.lastJob.Ticket.Seq > 0 {
		outcome := "ok"
		if m.lastJob.Err != "" {
			outcome = "failed"
		}
		stats = append(stats, fmt.Sprintf("%s %s", m.lastJob.Ticket.Kind, outcome))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Tab / Shift+Tab", "Indent or unindent the current line"},
		{"Ctrl+O", "Edit the page offset"},
		{"Ctrl+P", "Preview the outline against a temporary copy"},
		{"Ctrl+S", "Save a bookmarked copy"},
		{"Ctrl+R", "Reload bookmarks from the source PDF"},
		{"Ctrl+G", "Toggle this cheatsheet"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	for _, hint := range hints {
		rows = append(rows, keyStyle.Render(hint.Key)+keyDescStyle.Render(" "+hint.Description))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

// buildPreviewContent renders the written bookmark table with a text
// snippet from every target page underneath its first bookmark.
func (m *model) buildPreviewContent() string {
	wrapWidth := m.viewport.Width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	snippetByPage := map[int]string{}
	for _, s := range m.previewSnippets {
		snippetByPage[s.Page] = s.Text
	}
	var b strings.Builder
	for i, e := range m.previewEntries {
		if i > 0 {
			b.WriteRune('\n')
		}
		indent := strings.Repeat("  ", e.Level)
		b.WriteString(indent)
		b.WriteString(entryTitleStyle.Render(e.Title))
		b.WriteString(helperStyle.Render(fmt.Sprintf("  ·  p.%d", e.Page)))
		if text, ok := snippetByPage[e.Page]; ok && text != "" {
			delete(snippetByPage, e.Page)
			wrapped := wordwrap.String(text, wrapWidth)
			for _, line := range strings.Split(wrapped, "\n") {
				b.WriteRune('\n')
				b.WriteString(indent)
				b.WriteString(snippetStyle.Render("  " + line))
			}
		}
	}
	return b.String()
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	entryTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8c00"))
	snippetStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true)
)
