package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/potui/potui/editor"
	"github.com/potui/potui/i18n"
	"github.com/potui/potui/pofile"
)

func (m *Model) View() string {
	var sections []string
	sections = append(sections, m.headerLine())

	switch {
	case m.overlay == overlayHelp:
		sections = append(sections, styleHelpPanel.Render(helpText()))
	case m.overlay == overlayDiff:
		sections = append(sections, stylePanel.Render(m.diffView()))
	case m.session.Mode() == editor.ModeEditing || m.session.Mode() == editor.ModeMetadataEditing:
		sections = append(sections, m.editView())
	case m.session.Mode() == editor.ModeMetadata:
		sections = append(sections, m.metadataView())
	default:
		sections = append(sections, m.browseView())
	}

	sections = append(sections, m.footerLine())
	return strings.Join(sections, "\n")
}

// headerLine shows the file, the dirty marker and derived statistics.
func (m *Model) headerLine() string {
	st := m.session.Catalog().Stats()
	name := m.path
	if m.session.Catalog().Dirty() {
		name += " *"
	}
	lang, _ := m.session.Catalog().Header.Get("Language")
	if lang != "" {
		name += " [" + pofile.LangNameNative(lang) + "]"
	}
	stats := fmt.Sprintf("%s %d  %s %d  %s %d  %.1f%%",
		styleOK.Render("✓"), st.Translated,
		styleFuzzy.Render("~"), st.Fuzzy,
		styleMissing.Render("○"), st.Untranslated,
		st.Percent)
	line := styleTitle.Render(name) + "  " + stats
	if m.session.Filter() != editor.FilterAll {
		line += styleDim.Render("  filter:" + m.session.Filter().String())
	}
	if m.session.Search() != "" {
		line += styleDim.Render("  /" + m.session.Search())
	}
	return line
}

// browseView renders the entry list next to the detail pane.
func (m *Model) browseView() string {
	listWidth := m.width / 2
	if listWidth < 30 {
		listWidth = 30
	}
	left := m.listPane(listWidth)
	right := m.detailPane()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	if m.overlay == overlaySearch {
		return body + "\n" + m.search.View()
	}
	return body
}

func (m *Model) listHeight() int {
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) listPane(width int) string {
	snap := m.session.Snapshot()
	if len(snap.Rows) == 0 {
		return styleDim.Render("<no entries>")
	}
	height := m.listHeight()
	start := 0
	if snap.Cursor >= height {
		start = snap.Cursor - height + 1
	}
	end := start + height
	if end > len(snap.Rows) {
		end = len(snap.Rows)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		row := snap.Rows[i]
		marker := "  "
		if i == snap.Cursor {
			marker = "► "
		}
		line := marker + statusIcon(row.Status) + " " + truncate(row.Preview, width-6)
		if i == snap.Cursor {
			line = styleCursor.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) detailPane() string {
	e := m.session.SelectedEntry()
	if e == nil {
		return ""
	}
	width := m.width - m.width/2 - 4
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	if e.Context != "" {
		b.WriteString(styleDim.Render("msgctxt ") + e.Context + "\n")
	}
	b.WriteString(styleTitle.Render("Original") + "\n")
	b.WriteString(wrap(e.OriginalText(), width) + "\n\n")
	b.WriteString(styleTitle.Render("Translation") + "\n")
	if len(e.Translation) == 0 {
		b.WriteString(styleMissing.Render("<untranslated>") + "\n")
	} else {
		b.WriteString(wrap(e.TranslationText(), width) + "\n")
	}
	if len(e.TranslatorComments) > 0 {
		b.WriteString("\n" + styleTitle.Render("Comments") + "\n")
		for _, c := range e.TranslatorComments {
			b.WriteString(c + "\n")
		}
	}
	if len(e.ExtractedComments) > 0 {
		for _, c := range e.ExtractedComments {
			b.WriteString(styleDim.Render("#. "+c) + "\n")
		}
	}
	if len(e.References) > 0 {
		b.WriteString(styleDim.Render("#: "+strings.Join(e.References, " ")) + "\n")
	}
	if len(e.Flags) > 0 {
		b.WriteString(styleDim.Render("#, "+strings.Join(e.Flags, ", ")) + "\n")
	}
	return b.String()
}

// metadataView lists header fields with a cursor.
func (m *Model) metadataView() string {
	h := m.session.Catalog().Header
	names := h.Names()
	if len(names) == 0 {
		return styleDim.Render("<empty header>")
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render("Header metadata") + "\n\n")
	for i, name := range names {
		value, _ := h.Get(name)
		marker := "  "
		if i == m.session.MetaCursor() {
			marker = "► "
		}
		line := fmt.Sprintf("%s%-26s %s", marker, name, truncate(value, m.width-32))
		if i == m.session.MetaCursor() {
			line = styleCursor.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) editView() string {
	var title string
	if m.session.Mode() == editor.ModeMetadataEditing {
		title = m.session.MetaFieldName()
	} else {
		title = m.session.Field().String()
		if e := m.session.SelectedEntry(); e != nil && m.session.Field() != editor.FieldOriginal {
			title += " · " + truncate(e.OriginalText(), m.width-20)
		}
	}
	return stylePanel.Render(styleTitle.Render(title) + "\n\n" + m.edit.View())
}

func (m *Model) diffView() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(i18n.T("Unsaved changes")) + "\n\n")
	for _, line := range strings.Split(strings.TrimRight(m.diffText, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(styleOK.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(styleMissing.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(styleFuzzy.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) footerLine() string {
	if m.overlay == overlayConfirmQuit {
		return styleFuzzy.Render(i18n.T("Save before quitting? (y/n/esc)"))
	}
	hints := "F1 help · F2 edit · ctrl+s save · ctrl+q quit"
	switch {
	case m.session.Mode() == editor.ModeEditing || m.session.Mode() == editor.ModeMetadataEditing:
		hints = "ctrl+d commit · esc cancel · tab field"
	case m.session.Mode() == editor.ModeMetadata:
		hints = "enter edit · esc back"
	}
	return m.status + "  " + styleDim.Render(hints)
}

func helpText() string {
	return strings.Join([]string{
		"↑/k ↓/j        move            pgup/pgdn  page",
		"g/home G/end   first / last",
		"enter/e/F2     edit translation",
		"o              edit original   c          edit comment",
		"ctrl+d         commit edit     esc        cancel edit",
		"tab/shift+tab  switch field while editing",
		"f/ctrl+t       toggle fuzzy    d          mark done",
		"F9             cycle filter    1/2/3      all/untranslated/fuzzy",
		"//ctrl+f/F3    search          n / N      next / previous match",
		"ctrl+u         clear search",
		"m/F8           header metadata",
		"ctrl+d         unsaved diff (in list mode)",
		"ctrl+s         save            ctrl+q/q   quit",
	}, "\n")
}

func statusIcon(s pofile.Status) string {
	switch s {
	case pofile.StatusTranslated:
		return styleOK.Render("✓")
	case pofile.StatusFuzzy:
		return styleFuzzy.Render("~")
	default:
		return styleMissing.Render("○")
	}
}

// truncate cuts a string to width runes with an ellipsis.
func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// wrap performs a simple greedy wrap at word boundaries.
func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
