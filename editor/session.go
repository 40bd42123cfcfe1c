// Package editor implements the interactive editing core: a Session wraps a
// catalog with a filtered view, a cursor, and a modal edit state machine.
// The package is UI-agnostic; a frontend drives it with commands and renders
// from its accessors.
package editor

import (
	"errors"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/potui/potui/pofile"
)

// Edit command failures. Frontends show these in the status line instead of
// aborting.
var (
	// ErrNoSelection: the command needs a selected entry (or header field)
	// and there is none.
	ErrNoSelection = errors.New("no entry selected")
	// ErrEmptyOriginal: committing an empty original is rejected because it
	// would collide with the header entry on disk.
	ErrEmptyOriginal = errors.New("original text cannot be empty")
)

// Filter restricts the visible entry list by derived status.
type Filter int

const (
	FilterAll Filter = iota
	FilterUntranslated
	FilterFuzzy
)

func (f Filter) String() string {
	switch f {
	case FilterUntranslated:
		return "untranslated"
	case FilterFuzzy:
		return "fuzzy"
	default:
		return "all"
	}
}

// ParseFilter maps a configuration string to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", "all":
		return FilterAll, nil
	case "untranslated":
		return FilterUntranslated, nil
	case "fuzzy":
		return FilterFuzzy, nil
	}
	return FilterAll, errors.New("unknown filter: " + s)
}

// Field is the entry field under edit.
type Field int

// Forward cycle order: original, translation, comment.
const (
	FieldOriginal Field = iota
	FieldTranslation
	FieldComment
)

const fieldCount = 3

func (f Field) String() string {
	switch f {
	case FieldOriginal:
		return "original"
	case FieldComment:
		return "comment"
	default:
		return "translation"
	}
}

// Mode is the session's modal state.
type Mode int

const (
	// ModeIdle: browsing the entry list.
	ModeIdle Mode = iota
	// ModeEditing: an entry field's text is in the buffer.
	ModeEditing
	// ModeMetadata: browsing header fields.
	ModeMetadata
	// ModeMetadataEditing: a header field's value is in the buffer.
	ModeMetadataEditing
)

// Session drives one open catalog. The view is a slice of catalog indices
// matching the active filter and search term; the cursor addresses a
// position in the view, -1 when the view is empty. Obsolete entries never
// appear in the view.
type Session struct {
	cat      *pofile.Catalog
	baseline string
	pageSize int

	filter Filter
	search string
	view   []int
	cursor int

	mode    Mode
	editIdx int
	field   Field
	buffer  string

	metaCursor int
	metaName   string

	lastErr error
}

// DefaultPageSize is the page step used when the configuration does not
// override it.
const DefaultPageSize = 10

// NewSession opens a catalog for editing. The serialized form at open time
// becomes the baseline for UnsavedDiff.
func NewSession(cat *pofile.Catalog, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &Session{
		cat:      cat,
		baseline: cat.Serialize(),
		pageSize: pageSize,
		cursor:   -1,
	}
	s.recompute()
	return s
}

func (s *Session) Catalog() *pofile.Catalog { return s.cat }
func (s *Session) Mode() Mode               { return s.mode }
func (s *Session) Filter() Filter           { return s.filter }
func (s *Session) Search() string           { return s.search }
func (s *Session) PageSize() int            { return s.pageSize }
func (s *Session) Buffer() string           { return s.buffer }
func (s *Session) Field() Field             { return s.field }
func (s *Session) MetaCursor() int          { return s.metaCursor }
func (s *Session) LastError() error         { return s.lastErr }

// View returns the catalog indices currently visible, in catalog order.
func (s *Session) View() []int { return s.view }

// Cursor returns the cursor position within the view, -1 when empty.
func (s *Session) Cursor() int { return s.cursor }

// Selected returns the catalog index of the selected entry, -1 when the
// view is empty.
func (s *Session) Selected() int {
	if s.cursor < 0 || s.cursor >= len(s.view) {
		return -1
	}
	return s.view[s.cursor]
}

// SelectedEntry returns the selected entry, nil when the view is empty.
func (s *Session) SelectedEntry() *pofile.Entry {
	idx := s.Selected()
	if idx < 0 {
		return nil
	}
	return s.cat.Entries[idx]
}

// MetaFieldName returns the header field under the metadata cursor, or the
// field being edited while in metadata editing mode.
func (s *Session) MetaFieldName() string {
	if s.mode == ModeMetadataEditing {
		return s.metaName
	}
	names := s.cat.Header.Names()
	if s.metaCursor < 0 || s.metaCursor >= len(names) {
		return ""
	}
	return names[s.metaCursor]
}

func (s *Session) matches(e *pofile.Entry) bool {
	if e.Obsolete {
		return false
	}
	switch s.filter {
	case FilterUntranslated:
		if e.Status() != pofile.StatusUntranslated {
			return false
		}
	case FilterFuzzy:
		if e.Status() != pofile.StatusFuzzy {
			return false
		}
	}
	if s.search == "" {
		return true
	}
	term := strings.ToLower(s.search)
	return strings.Contains(strings.ToLower(e.OriginalText()), term) ||
		strings.Contains(strings.ToLower(e.TranslationText()), term)
}

// recompute rebuilds the view and repositions the cursor: the previously
// selected entry is kept when it still matches, otherwise the nearest
// preceding visible entry is selected, otherwise the first, otherwise none.
func (s *Session) recompute() {
	prev := s.Selected()
	s.view = s.view[:0]
	for i, e := range s.cat.Entries {
		if s.matches(e) {
			s.view = append(s.view, i)
		}
	}
	if len(s.view) == 0 {
		s.cursor = -1
		return
	}
	if prev >= 0 {
		nearest := -1
		for pos, idx := range s.view {
			if idx == prev {
				s.cursor = pos
				return
			}
			if idx < prev {
				nearest = pos
			}
		}
		if nearest >= 0 {
			s.cursor = nearest
			return
		}
	}
	s.cursor = 0
}

// editing reports whether a text buffer is active.
func (s *Session) editing() bool {
	return s.mode == ModeEditing || s.mode == ModeMetadataEditing
}

// Next moves the cursor down one entry, or one header field in metadata
// mode. No wrap.
func (s *Session) Next() {
	s.lastErr = nil
	switch s.mode {
	case ModeIdle:
		if s.cursor >= 0 && s.cursor < len(s.view)-1 {
			s.cursor++
		}
	case ModeMetadata:
		if s.metaCursor < s.cat.Header.Len()-1 {
			s.metaCursor++
		}
	}
}

// Prev moves the cursor up one entry, or one header field in metadata mode.
func (s *Session) Prev() {
	s.lastErr = nil
	switch s.mode {
	case ModeIdle:
		if s.cursor > 0 {
			s.cursor--
		}
	case ModeMetadata:
		if s.metaCursor > 0 {
			s.metaCursor--
		}
	}
}

// PageForward jumps a page down, clamped at the end of the view.
func (s *Session) PageForward() {
	s.lastErr = nil
	if s.mode != ModeIdle || s.cursor < 0 {
		return
	}
	s.cursor += s.pageSize
	if s.cursor > len(s.view)-1 {
		s.cursor = len(s.view) - 1
	}
}

// PageBack jumps a page up, clamped at the start of the view.
func (s *Session) PageBack() {
	s.lastErr = nil
	if s.mode != ModeIdle || s.cursor < 0 {
		return
	}
	s.cursor -= s.pageSize
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// First selects the first visible entry.
func (s *Session) First() {
	s.lastErr = nil
	if s.mode == ModeIdle && len(s.view) > 0 {
		s.cursor = 0
	}
}

// Last selects the last visible entry.
func (s *Session) Last() {
	s.lastErr = nil
	if s.mode == ModeIdle && len(s.view) > 0 {
		s.cursor = len(s.view) - 1
	}
}

// SetFilter activates a status filter and rebuilds the view.
func (s *Session) SetFilter(f Filter) {
	s.lastErr = nil
	s.filter = f
	s.recompute()
}

// CycleFilter steps all -> untranslated -> fuzzy -> all.
func (s *Session) CycleFilter() {
	s.SetFilter((s.filter + 1) % 3)
}

// SetSearch activates a case-insensitive substring search over originals
// and translations. An empty term clears the search.
func (s *Session) SetSearch(term string) {
	s.lastErr = nil
	s.search = term
	s.recompute()
}

// FindNext moves the cursor forward within the view, wrapping at the end.
func (s *Session) FindNext() {
	s.lastErr = nil
	if s.mode != ModeIdle || len(s.view) == 0 {
		return
	}
	s.cursor = (s.cursor + 1) % len(s.view)
}

// FindPrev moves the cursor backward within the view, wrapping at the start.
func (s *Session) FindPrev() {
	s.lastErr = nil
	if s.mode != ModeIdle || len(s.view) == 0 {
		return
	}
	s.cursor = (s.cursor - 1 + len(s.view)) % len(s.view)
}

func (s *Session) fieldText(e *pofile.Entry, f Field) string {
	switch f {
	case FieldOriginal:
		return e.OriginalText()
	case FieldComment:
		return strings.Join(e.TranslatorComments, "\n")
	default:
		return e.TranslationText()
	}
}

// StartEdit opens the buffer for a field of the selected entry, or for the
// header field under the metadata cursor. It fails with ErrNoSelection when
// nothing is selected.
func (s *Session) StartEdit(f Field) error {
	s.lastErr = nil
	switch s.mode {
	case ModeIdle:
		e := s.SelectedEntry()
		if e == nil {
			s.lastErr = ErrNoSelection
			return s.lastErr
		}
		s.editIdx = s.Selected()
		s.field = f
		s.buffer = s.fieldText(e, f)
		s.mode = ModeEditing
	case ModeMetadata:
		name := s.MetaFieldName()
		if name == "" {
			s.lastErr = ErrNoSelection
			return s.lastErr
		}
		s.metaName = name
		s.buffer, _ = s.cat.Header.Get(name)
		s.mode = ModeMetadataEditing
	}
	return nil
}

// SetBuffer replaces the edit buffer text. Only valid while editing.
func (s *Session) SetBuffer(text string) {
	if s.editing() {
		s.buffer = text
	}
}

// CycleField switches the buffer to another field of the same entry,
// discarding uncommitted buffer changes. delta is +1 or -1.
func (s *Session) CycleField(delta int) {
	if s.mode != ModeEditing {
		return
	}
	s.field = Field((int(s.field) + delta + fieldCount) % fieldCount)
	s.buffer = s.fieldText(s.cat.Entries[s.editIdx], s.field)
}

// Commit writes the buffer back. Committing an empty original fails with
// ErrEmptyOriginal and stays in editing mode. A successful commit marks the
// catalog dirty, leaves editing mode and rebuilds the view, so an entry
// that no longer matches the filter drops out with the usual cursor rule.
func (s *Session) Commit() error {
	s.lastErr = nil
	switch s.mode {
	case ModeEditing:
		e := s.cat.Entries[s.editIdx]
		switch s.field {
		case FieldOriginal:
			if s.buffer == "" {
				s.lastErr = ErrEmptyOriginal
				return s.lastErr
			}
			e.SetOriginalText(s.buffer)
		case FieldComment:
			if s.buffer == "" {
				e.TranslatorComments = nil
			} else {
				e.TranslatorComments = strings.Split(s.buffer, "\n")
			}
		default:
			e.SetTranslationText(s.buffer)
		}
		s.cat.MarkDirty()
		s.mode = ModeIdle
		s.buffer = ""
		s.recompute()
	case ModeMetadataEditing:
		s.cat.Header.Set(s.metaName, s.buffer)
		s.cat.MarkDirty()
		s.mode = ModeMetadata
		s.buffer = ""
	}
	return nil
}

// Cancel discards the buffer and leaves the editing state.
func (s *Session) Cancel() {
	s.lastErr = nil
	switch s.mode {
	case ModeEditing:
		s.mode = ModeIdle
	case ModeMetadataEditing:
		s.mode = ModeMetadata
	}
	s.buffer = ""
}

// EnterMetadata switches from browsing entries to browsing header fields.
func (s *Session) EnterMetadata() {
	s.lastErr = nil
	if s.mode == ModeIdle {
		s.mode = ModeMetadata
		if s.metaCursor >= s.cat.Header.Len() {
			s.metaCursor = 0
		}
	}
}

// ExitMetadata returns to browsing entries.
func (s *Session) ExitMetadata() {
	s.lastErr = nil
	if s.mode == ModeMetadata {
		s.mode = ModeIdle
	}
}

// ToggleFuzzy flips the fuzzy flag on the selected entry. It is a no-op on
// untranslated entries: a fuzzy mark needs a translation to review.
func (s *Session) ToggleFuzzy() error {
	s.lastErr = nil
	if s.mode != ModeIdle {
		return nil
	}
	e := s.SelectedEntry()
	if e == nil {
		s.lastErr = ErrNoSelection
		return s.lastErr
	}
	if e.Status() == pofile.StatusUntranslated {
		return nil
	}
	e.ToggleFuzzy()
	s.cat.MarkDirty()
	s.recompute()
	return nil
}

// MarkDone removes the fuzzy flag from the selected entry unconditionally.
func (s *Session) MarkDone() error {
	s.lastErr = nil
	if s.mode != ModeIdle {
		return nil
	}
	e := s.SelectedEntry()
	if e == nil {
		s.lastErr = ErrNoSelection
		return s.lastErr
	}
	if e.HasFlag(pofile.FuzzyFlag) {
		e.RemoveFlag(pofile.FuzzyFlag)
		s.cat.MarkDirty()
		s.recompute()
	}
	return nil
}

// Save serializes the catalog and hands the text to write. On success the
// dirty flag is cleared and the diff baseline is reset; on failure the
// catalog stays dirty.
func (s *Session) Save(write func(text string) error) error {
	s.lastErr = nil
	text := s.cat.SaveText()
	if err := write(text); err != nil {
		s.lastErr = err
		return err
	}
	s.cat.MarkSaved()
	s.baseline = text
	return nil
}

// UnsavedDiff returns a unified diff between the last saved state and the
// current one, empty when nothing changed.
func (s *Session) UnsavedDiff() string {
	current := s.cat.Serialize()
	if current == s.baseline {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(s.baseline),
		B:        difflib.SplitLines(current),
		FromFile: "saved",
		ToFile:   "unsaved",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}

// Row is one visible entry in a Snapshot.
type Row struct {
	// Index is the entry's position in the catalog.
	Index  int
	Status pofile.Status
	// Preview is the first line of the original.
	Preview string
}

// Snapshot is a render-ready view of the session state.
type Snapshot struct {
	Rows   []Row
	Cursor int
	Filter Filter
	Search string
	Stats  pofile.Stats
	Dirty  bool
	Mode   Mode
}

// Snapshot captures the current view for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Rows:   make([]Row, 0, len(s.view)),
		Cursor: s.cursor,
		Filter: s.filter,
		Search: s.search,
		Stats:  s.cat.Stats(),
		Dirty:  s.cat.Dirty(),
		Mode:   s.mode,
	}
	for _, idx := range s.view {
		e := s.cat.Entries[idx]
		preview := e.OriginalText()
		if nl := strings.IndexByte(preview, '\n'); nl >= 0 {
			preview = preview[:nl]
		}
		snap.Rows = append(snap.Rows, Row{Index: idx, Status: e.Status(), Preview: preview})
	}
	return snap
}
