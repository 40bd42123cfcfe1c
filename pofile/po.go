// Package pofile implements the in-memory catalog model for PO/POT files
// following the GNU gettext format specification, together with strict
// parsing and serialization that round-trips entries, header metadata and
// their ordering.
package pofile

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status is the derived translation status of an entry. It is never stored:
// it is always computed from the translation and the flag set, so counts and
// status icons cannot drift out of sync with the data.
type Status int

const (
	// StatusUntranslated: the entry has an empty translation.
	StatusUntranslated Status = iota
	// StatusFuzzy: the entry has a translation and carries the "fuzzy" flag.
	StatusFuzzy
	// StatusTranslated: the entry has a translation and no "fuzzy" flag.
	StatusTranslated
)

func (s Status) String() string {
	switch s {
	case StatusFuzzy:
		return "fuzzy"
	case StatusTranslated:
		return "translated"
	default:
		return "untranslated"
	}
}

// FuzzyFlag is the flag token that marks an entry as needing review.
const FuzzyFlag = "fuzzy"

// Entry represents a single translatable message in a PO file.
//
// Original and Translation hold decoded line fragments in file order; the
// logical string is their concatenation. An empty Translation slice means
// the entry is untranslated.
type Entry struct {
	// TranslatorComments are lines starting with "# " (translator comments).
	TranslatorComments []string
	// ExtractedComments are lines starting with "#." (developer comments,
	// preserved verbatim).
	ExtractedComments []string
	// References are file:line tokens from "#:" lines.
	References []string
	// Flags are the "#," flag tokens, unique by value, original order kept.
	Flags []string
	// PreviousOriginal stores the previous msgid from a "#|" line.
	PreviousOriginal string

	// Context is the msgctxt disambiguation string, empty when absent.
	Context string
	// Original is the untranslated string as decoded fragments.
	Original []string
	// Translation is the translated string as decoded fragments.
	Translation []string

	// Obsolete marks entries prefixed with "#~".
	Obsolete bool
}

// OriginalText returns the logical original string.
func (e *Entry) OriginalText() string {
	return strings.Join(e.Original, "")
}

// TranslationText returns the logical translated string.
func (e *Entry) TranslationText() string {
	return strings.Join(e.Translation, "")
}

// SetOriginalText replaces the original from a logical string,
// re-splitting it into line fragments.
func (e *Entry) SetOriginalText(s string) {
	e.Original = SplitFragments(s)
}

// SetTranslationText replaces the translation from a logical string,
// re-splitting it into line fragments.
func (e *Entry) SetTranslationText(s string) {
	e.Translation = SplitFragments(s)
}

// SplitFragments splits a logical string into line fragments using the same
// convention the parser produces: every fragment except possibly the last
// ends with "\n". The empty string yields a nil slice.
func SplitFragments(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Status derives the entry's translation status.
func (e *Entry) Status() Status {
	if len(e.Translation) == 0 {
		return StatusUntranslated
	}
	if e.HasFlag(FuzzyFlag) {
		return StatusFuzzy
	}
	return StatusTranslated
}

// HasFlag reports whether a flag token is present.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag appends a flag token unless it is already present.
func (e *Entry) AddFlag(flag string) {
	if !e.HasFlag(flag) {
		e.Flags = append(e.Flags, flag)
	}
}

// RemoveFlag deletes a flag token, keeping the order of the rest.
func (e *Entry) RemoveFlag(flag string) {
	filtered := e.Flags[:0]
	for _, f := range e.Flags {
		if f != flag {
			filtered = append(filtered, f)
		}
	}
	e.Flags = filtered
	if len(e.Flags) == 0 {
		e.Flags = nil
	}
}

// ToggleFuzzy flips the presence of the "fuzzy" flag.
func (e *Entry) ToggleFuzzy() {
	if e.HasFlag(FuzzyFlag) {
		e.RemoveFlag(FuzzyFlag)
	} else {
		e.AddFlag(FuzzyFlag)
	}
}

// Header is the catalog metadata block: an ordered mapping from field name
// to value. Field names are unique; insertion order is preserved across a
// parse/serialize round trip, and updating a field keeps its position.
type Header struct {
	fields []headerField
}

type headerField struct {
	name  string
	value string
}

// Get returns a field value and whether the field exists.
func (h *Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// Set updates a field in place, or appends it when absent.
func (h *Header) Set(name, value string) {
	for i, f := range h.fields {
		if f.name == name {
			h.fields[i].value = value
			return
		}
	}
	h.fields = append(h.fields, headerField{name: name, value: value})
}

// Names returns the field names in order.
func (h *Header) Names() []string {
	names := make([]string, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.name
	}
	return names
}

// Len returns the number of fields.
func (h *Header) Len() int {
	return len(h.fields)
}

// text renders the header as the "Key: Value\n" block stored in the
// synthetic header entry's msgstr.
func (h *Header) text() string {
	var b strings.Builder
	for _, f := range h.fields {
		b.WriteString(f.name)
		b.WriteString(": ")
		b.WriteString(f.value)
		b.WriteByte('\n')
	}
	return b.String()
}

// parseHeaderBlock splits a "Key: Value\n" block into ordered header fields.
// Lines without a colon are ignored, matching msgfmt's tolerance.
func parseHeaderBlock(block string) *Header {
	h := &Header{}
	for _, line := range strings.Split(block, "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		h.Set(strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]))
	}
	return h
}

// Catalog owns one Header and the ordered entry sequence of a PO file.
// The order is the canonical display and save order. The dirty flag tracks
// whether the catalog has been modified since load or last save.
type Catalog struct {
	Header  *Header
	Entries []*Entry

	dirty bool
}

// NewCatalog creates an empty catalog with the standard gettext header
// skeleton.
func NewCatalog() *Catalog {
	h := &Header{}
	h.Set("Project-Id-Version", "PACKAGE VERSION")
	h.Set("Report-Msgid-Bugs-To", "")
	h.Set("POT-Creation-Date", "YEAR-MO-DA HO:MI+ZONE")
	h.Set("PO-Revision-Date", "YEAR-MO-DA HO:MI+ZONE")
	h.Set("Last-Translator", "FULL NAME <EMAIL@ADDRESS>")
	h.Set("Language-Team", "LANGUAGE <LL@li.org>")
	h.Set("Language", "")
	h.Set("MIME-Version", "1.0")
	h.Set("Content-Type", "text/plain; charset=UTF-8")
	h.Set("Content-Transfer-Encoding", "8bit")
	h.Set("Plural-Forms", "nplurals=INTEGER; plural=EXPRESSION;")
	return &Catalog{Header: h}
}

// MarkDirty records that the catalog was modified since load.
func (c *Catalog) MarkDirty() {
	c.dirty = true
}

// Dirty reports whether there are unsaved modifications.
func (c *Catalog) Dirty() bool {
	return c.dirty
}

// MarkSaved clears the dirty flag after a successful write.
func (c *Catalog) MarkSaved() {
	c.dirty = false
}

// Stats holds derived translation statistics. Counts always sum to Total;
// obsolete entries are excluded.
type Stats struct {
	Total        int
	Translated   int
	Fuzzy        int
	Untranslated int
	// Percent is the translated share in percent, rounded to one decimal.
	Percent float64
}

// Stats computes translation statistics over the entry sequence.
func (c *Catalog) Stats() Stats {
	var st Stats
	for _, e := range c.Entries {
		if e.Obsolete {
			continue
		}
		st.Total++
		switch e.Status() {
		case StatusTranslated:
			st.Translated++
		case StatusFuzzy:
			st.Fuzzy++
		default:
			st.Untranslated++
		}
	}
	if st.Total > 0 {
		st.Percent = math.Round(float64(st.Translated)/float64(st.Total)*1000) / 10
	}
	return st
}

// timestamp returns the current UTC time in the PO header format.
func timestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04+0000")
}

// SaveText serializes the catalog for saving. When the catalog is dirty the
// PO-Revision-Date header field is refreshed first, keeping its position.
// The dirty flag is not cleared here: the caller clears it with MarkSaved
// once the write actually succeeded.
func (c *Catalog) SaveText() string {
	if c.dirty {
		c.Header.Set("PO-Revision-Date", timestamp())
	}
	return c.Serialize()
}

// ErrKind classifies parse failures.
type ErrKind int

const (
	// ErrSyntax: a line that fits no recognized construct, an unterminated
	// quoted string, or a malformed entry block.
	ErrSyntax ErrKind = iota
	// ErrBadEscape: an unrecognized escape sequence inside a quoted string.
	ErrBadEscape
	// ErrUnexpectedMsgstr: a msgstr with no preceding msgid.
	ErrUnexpectedMsgstr
)

// FormatError is returned by Parse for structurally invalid input.
// A failed parse never yields a partial catalog.
type FormatError struct {
	Kind ErrKind
	Line int
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case ErrBadEscape:
		return fmt.Sprintf("line %d: unrecognized escape sequence", e.Line)
	case ErrUnexpectedMsgstr:
		return fmt.Sprintf("line %d: msgstr without preceding msgid", e.Line)
	default:
		return fmt.Sprintf("line %d: syntax error", e.Line)
	}
}
