// Package tui implements the terminal frontend: a Bubble Tea model that
// drives an editor.Session and renders the entry list, detail pane, header
// metadata view and the search, diff and help overlays.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/potui/potui/config"
	"github.com/potui/potui/editor"
	"github.com/potui/potui/i18n"
)

// overlay is a modal surface drawn instead of the entry list. The session's
// own mode handles entry and metadata editing; overlays are frontend-only.
type overlay int

const (
	overlayNone overlay = iota
	overlaySearch
	overlayHelp
	overlayDiff
	overlayConfirmQuit
)

// Model is the Bubble Tea model for one editing session.
type Model struct {
	session *editor.Session
	cfg     *config.Config
	path    string
	save    func(text string) error

	width  int
	height int

	overlay  overlay
	diffText string
	status   string

	edit   textarea.Model
	search textinput.Model
}

// New builds the frontend. save persists serialized catalog text; it is
// injected so the model never touches the filesystem directly.
func New(session *editor.Session, cfg *config.Config, path string, save func(text string) error) *Model {
	ta := textarea.New()
	ta.CharLimit = 0

	ti := textinput.New()
	ti.Placeholder = i18n.T("Search")
	ti.CharLimit = 256
	ti.Prompt = "/"

	return &Model{
		session: session,
		cfg:     cfg,
		path:    path,
		save:    save,
		edit:    ta,
		search:  ti,
		status:  i18n.T("Press F1 for help"),
	}
}

// Run starts the program in the alternate screen.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applySizes()
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applySizes() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	h := m.height / 3
	if h < 3 {
		h = 3
	}
	m.edit.SetWidth(w)
	m.edit.SetHeight(h)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayHelp:
		m.overlay = overlayNone
		return m, nil
	case overlayDiff:
		switch msg.String() {
		case "esc", "q", "ctrl+d":
			m.overlay = overlayNone
			m.diffText = ""
		}
		return m, nil
	case overlayConfirmQuit:
		return m.handleConfirmKey(msg)
	case overlaySearch:
		return m.handleSearchKey(msg)
	}
	if m.session.Mode() == editor.ModeEditing || m.session.Mode() == editor.ModeMetadataEditing {
		return m.handleEditKey(msg)
	}
	if m.session.Mode() == editor.ModeMetadata {
		return m.handleMetadataKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		if err := m.doSave(); err != nil {
			m.overlay = overlayNone
			return m, nil
		}
		return m, tea.Quit
	case "n", "N":
		return m, tea.Quit
	case "esc":
		m.overlay = overlayNone
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.session.SetSearch(m.search.Value())
		m.overlay = overlayNone
		m.search.Blur()
		logrus.Debugf("search %q: %d matches", m.search.Value(), len(m.session.View()))
		return m, nil
	case "esc":
		m.overlay = overlayNone
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.Cancel()
		m.edit.Blur()
		return m, nil
	case "ctrl+d":
		m.session.SetBuffer(m.edit.Value())
		if err := m.session.Commit(); err != nil {
			m.status = i18n.T(capitalizeErr(err))
			return m, nil
		}
		m.edit.Blur()
		m.setStatsStatus()
		return m, nil
	case "tab", "shift+tab":
		if m.session.Mode() == editor.ModeEditing {
			delta := 1
			if msg.String() == "shift+tab" {
				delta = -1
			}
			m.session.CycleField(delta)
			m.edit.SetValue(m.session.Buffer())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m *Model) handleMetadataKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.session.Prev()
	case "down", "j":
		m.session.Next()
	case "enter", "e", "f2":
		return m, m.startEdit(editor.FieldTranslation)
	case "esc", "m", "f8":
		m.session.ExitMetadata()
	case "ctrl+s":
		m.doSave()
	case "ctrl+q", "ctrl+c", "q":
		return m.requestQuit()
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.session.Prev()
	case "down", "j":
		m.session.Next()
	case "pgup":
		m.session.PageBack()
	case "pgdown":
		m.session.PageForward()
	case "home", "g":
		m.session.First()
	case "end", "G":
		m.session.Last()
	case "enter", "e", "f2":
		return m, m.startEdit(editor.FieldTranslation)
	case "o":
		return m, m.startEdit(editor.FieldOriginal)
	case "c":
		return m, m.startEdit(editor.FieldComment)
	case "f", "ctrl+t":
		if err := m.session.ToggleFuzzy(); err != nil {
			m.status = i18n.T(capitalizeErr(err))
		} else {
			m.setStatsStatus()
		}
	case "d":
		if err := m.session.MarkDone(); err != nil {
			m.status = i18n.T(capitalizeErr(err))
		} else {
			m.setStatsStatus()
		}
	case "f9":
		m.session.CycleFilter()
		m.setStatsStatus()
	case "1":
		m.session.SetFilter(editor.FilterAll)
	case "2":
		m.session.SetFilter(editor.FilterUntranslated)
	case "3":
		m.session.SetFilter(editor.FilterFuzzy)
	case "/", "ctrl+f", "f3":
		m.overlay = overlaySearch
		m.search.SetValue(m.session.Search())
		m.search.Focus()
		return m, textinput.Blink
	case "n":
		m.session.FindNext()
	case "N", "p":
		m.session.FindPrev()
	case "ctrl+u":
		m.session.SetSearch("")
		m.setStatsStatus()
	case "m", "f8":
		m.session.EnterMetadata()
	case "ctrl+d":
		m.diffText = m.session.UnsavedDiff()
		if m.diffText == "" {
			m.status = i18n.T("file is up to date")
		} else {
			m.overlay = overlayDiff
		}
	case "ctrl+s":
		m.doSave()
	case "?", "f1":
		m.overlay = overlayHelp
	case "ctrl+q", "ctrl+c", "q":
		return m.requestQuit()
	}
	return m, nil
}

func (m *Model) startEdit(f editor.Field) tea.Cmd {
	if err := m.session.StartEdit(f); err != nil {
		m.status = i18n.T(capitalizeErr(err))
		return nil
	}
	m.edit.SetValue(m.session.Buffer())
	return m.edit.Focus()
}

func (m *Model) requestQuit() (tea.Model, tea.Cmd) {
	if !m.session.Catalog().Dirty() {
		return m, tea.Quit
	}
	if m.cfg.Autosave {
		if err := m.doSave(); err != nil {
			return m, nil
		}
		return m, tea.Quit
	}
	m.overlay = overlayConfirmQuit
	return m, nil
}

func (m *Model) doSave() error {
	err := m.session.Save(m.save)
	if err != nil {
		logrus.WithError(err).Error("save failed")
		m.status = fmt.Sprintf("%s: %v", i18n.T("Save failed"), err)
		return err
	}
	logrus.Debugf("saved %s", m.path)
	m.status = i18n.T("Saved")
	return nil
}

func (m *Model) setStatsStatus() {
	st := m.session.Catalog().Stats()
	m.status = fmt.Sprintf("%s · %.1f%%",
		fmt.Sprintf(i18n.N("%d entry", "%d entries", len(m.session.View())), len(m.session.View())),
		st.Percent)
}

// capitalizeErr maps session errors onto translatable status messages.
func capitalizeErr(err error) string {
	switch err {
	case editor.ErrNoSelection:
		return "No entry selected"
	case editor.ErrEmptyOriginal:
		return "Original text cannot be empty"
	default:
		return err.Error()
	}
}

var (
	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleCursor    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	styleOK        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleFuzzy     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleMissing   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	stylePanel     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
	styleHelpPanel = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2)
)
