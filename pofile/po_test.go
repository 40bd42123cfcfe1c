package pofile

import (
	"errors"
	"strings"
	"testing"
)

const sampleDoc = `msgid ""
msgstr ""
"Project-Id-Version: demo 1.0\n"
"PO-Revision-Date: 2024-01-15 10:00+0000\n"
"Language: ru\n"
"Content-Type: text/plain; charset=UTF-8\n"

#: src/main.c:42
msgid "Hello"
msgstr "Привет"

# needs review
#, fuzzy, c-format
msgid "Open %s"
msgstr "Открыть %s"

msgctxt "menu"
msgid "Quit"
msgstr ""

#~ msgid "Old"
#~ msgstr "Старое"
`

func TestParseSample(t *testing.T) {
	cat, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len(cat.Entries); got != 4 {
		t.Fatalf("entries = %d, want 4", got)
	}
	if v, _ := cat.Header.Get("Language"); v != "ru" {
		t.Errorf("Language = %q, want %q", v, "ru")
	}
	if got := cat.Entries[0].TranslationText(); got != "Привет" {
		t.Errorf("translation = %q, want %q", got, "Привет")
	}
	if got := cat.Entries[0].References; len(got) != 1 || got[0] != "src/main.c:42" {
		t.Errorf("references = %v", got)
	}
	if !cat.Entries[1].HasFlag("fuzzy") || !cat.Entries[1].HasFlag("c-format") {
		t.Errorf("flags = %v", cat.Entries[1].Flags)
	}
	if got := cat.Entries[2].Context; got != "menu" {
		t.Errorf("context = %q, want %q", got, "menu")
	}
	if !cat.Entries[3].Obsolete {
		t.Error("obsolete entry not marked")
	}
	if cat.Dirty() {
		t.Error("freshly parsed catalog is dirty")
	}
}

func TestParseMultiline(t *testing.T) {
	doc := `msgid ""
"first line\n"
"second line"
msgstr ""
"первая строка\n"
"вторая строка"
`
	cat, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e := cat.Entries[0]
	if got := len(e.Original); got != 2 {
		t.Fatalf("fragments = %d, want 2", got)
	}
	if got := e.OriginalText(); got != "first line\nsecond line" {
		t.Errorf("original = %q", got)
	}
	if got := cat.Serialize(); got != doc {
		t.Errorf("round trip:\n%s\nwant:\n%s", got, doc)
	}
}

func TestParseEscapes(t *testing.T) {
	cat, err := Parse(`msgid "a\tb\"c\\d\ne"` + "\nmsgstr \"x\"\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cat.Entries[0].OriginalText(); got != "a\tb\"c\\d\ne" {
		t.Errorf("decoded = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		kind ErrKind
		line int
	}{
		{"junk line", "msgid \"a\"\nmsgstr \"b\"\n\nbogus\n", ErrSyntax, 4},
		{"bad escape", `msgid "a\rb"` + "\nmsgstr \"\"\n", ErrBadEscape, 1},
		{"bare msgstr", "msgstr \"b\"\n", ErrUnexpectedMsgstr, 1},
		{"unterminated", "msgid \"abc\nmsgstr \"\"\n", ErrSyntax, 1},
		{"msgid without msgstr", "msgid \"a\"\n", ErrSyntax, 1},
		{"double msgstr", "msgid \"a\"\nmsgstr \"b\"\nmsgstr \"c\"\n", ErrSyntax, 3},
		{"plural form", "msgid \"a\"\nmsgid_plural \"b\"\nmsgstr \"c\"\n", ErrSyntax, 2},
		{"second header", "msgid \"\"\nmsgstr \"\"\n\nmsgid \"\"\nmsgstr \"x\"\n", ErrSyntax, 5},
		{"msgctxt after msgid", "msgid \"a\"\nmsgctxt \"c\"\nmsgstr \"b\"\n", ErrSyntax, 2},
		{"obsolete empty msgid", "#~ msgid \"\"\n#~ msgstr \"x\"\n", ErrSyntax, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.doc)
			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("err = %v, want FormatError", err)
			}
			if ferr.Kind != tc.kind || ferr.Line != tc.line {
				t.Errorf("got kind=%d line=%d, want kind=%d line=%d",
					ferr.Kind, ferr.Line, tc.kind, tc.line)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	cat, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cat.Entries) != 0 || cat.Header.Len() != 0 {
		t.Errorf("empty input produced entries=%d header=%d", len(cat.Entries), cat.Header.Len())
	}
}

func TestNewCatalogSerialize(t *testing.T) {
	cat := NewCatalog()
	out := cat.Serialize()
	if !strings.Contains(out, `"Content-Type: text/plain; charset=UTF-8\n"`) {
		t.Errorf("missing Content-Type line:\n%s", out)
	}
	if !strings.Contains(out, `"MIME-Version: 1.0\n"`) {
		t.Errorf("missing MIME-Version line:\n%s", out)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(again.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(again.Entries))
	}
	if v, _ := again.Header.Get("Content-Type"); v != "text/plain; charset=UTF-8" {
		t.Errorf("Content-Type = %q", v)
	}
}

func TestRoundTrip(t *testing.T) {
	cat, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := cat.Serialize()
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := again.Serialize(); got != out {
		t.Errorf("serialize not stable:\n%s\nvs:\n%s", got, out)
	}
	if len(again.Entries) != len(cat.Entries) {
		t.Errorf("entries = %d, want %d", len(again.Entries), len(cat.Entries))
	}
}

func TestHeaderOrder(t *testing.T) {
	cat, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"Project-Id-Version", "PO-Revision-Date", "Language", "Content-Type"}
	got := cat.Header.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	// updating keeps position, adding appends
	cat.Header.Set("Language", "de")
	cat.Header.Set("X-Generator", "potui")
	got = cat.Header.Names()
	if got[2] != "Language" || got[len(got)-1] != "X-Generator" {
		t.Errorf("after Set: %v", got)
	}
}

func TestStatus(t *testing.T) {
	e := &Entry{Original: []string{"a"}}
	if got := e.Status(); got != StatusUntranslated {
		t.Errorf("empty translation: %v", got)
	}
	e.SetTranslationText("b")
	if got := e.Status(); got != StatusTranslated {
		t.Errorf("translated: %v", got)
	}
	e.AddFlag(FuzzyFlag)
	if got := e.Status(); got != StatusFuzzy {
		t.Errorf("fuzzy: %v", got)
	}
	// fuzzy flag on an untranslated entry does not make it fuzzy
	e.Translation = nil
	if got := e.Status(); got != StatusUntranslated {
		t.Errorf("fuzzy without translation: %v", got)
	}
}

func TestStats(t *testing.T) {
	cat, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := cat.Stats()
	if st.Total != 3 || st.Translated != 1 || st.Fuzzy != 1 || st.Untranslated != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.Percent != 33.3 {
		t.Errorf("percent = %v, want 33.3", st.Percent)
	}
	empty := &Catalog{Header: &Header{}}
	if got := empty.Stats().Percent; got != 0 {
		t.Errorf("empty percent = %v", got)
	}
}

func TestSplitFragments(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"a\nb", []string{"a\n", "b"}},
		{"a\n", []string{"a\n"}},
		{"a\n\nb", []string{"a\n", "\n", "b"}},
	}
	for _, tc := range cases {
		got := SplitFragments(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("SplitFragments(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("SplitFragments(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSaveTextRefreshesRevisionDate(t *testing.T) {
	cat, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	before, _ := cat.Header.Get("PO-Revision-Date")
	cat.SaveText()
	if v, _ := cat.Header.Get("PO-Revision-Date"); v != before {
		t.Error("clean save must not touch PO-Revision-Date")
	}
	cat.MarkDirty()
	cat.SaveText()
	after, _ := cat.Header.Get("PO-Revision-Date")
	if after == before {
		t.Error("dirty save must refresh PO-Revision-Date")
	}
	if !strings.Contains(after, "+0000") {
		t.Errorf("timestamp = %q", after)
	}
	if !cat.Dirty() {
		t.Error("SaveText must not clear the dirty flag itself")
	}
	cat.MarkSaved()
	if cat.Dirty() {
		t.Error("MarkSaved must clear the dirty flag")
	}
}

func TestFromTemplate(t *testing.T) {
	pot := `msgid ""
msgstr ""
"Project-Id-Version: demo 2.0\n"
"POT-Creation-Date: 2024-03-01 09:00+0000\n"

#, fuzzy, c-format
msgid "Save %s"
msgstr "stale"

#~ msgid "Gone"
#~ msgstr ""
`
	tpl, err := Parse(pot)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cat := FromTemplate(tpl)
	if !cat.Dirty() {
		t.Error("fresh catalog must be dirty")
	}
	if got := len(cat.Entries); got != 1 {
		t.Fatalf("entries = %d, want 1 (obsolete dropped)", got)
	}
	e := cat.Entries[0]
	if len(e.Translation) != 0 {
		t.Errorf("translation = %v, want empty", e.Translation)
	}
	if e.HasFlag(FuzzyFlag) || !e.HasFlag("c-format") {
		t.Errorf("flags = %v", e.Flags)
	}
	if v, _ := cat.Header.Get("POT-Creation-Date"); v != "2024-03-01 09:00+0000" {
		t.Errorf("POT-Creation-Date = %q", v)
	}
	if v, _ := cat.Header.Get("Project-Id-Version"); v != "demo 2.0" {
		t.Errorf("Project-Id-Version = %q", v)
	}
}

func TestSetLanguage(t *testing.T) {
	cat := NewCatalog()
	cat.SetLanguage("ru")
	if v, _ := cat.Header.Get("Language"); v != "ru" {
		t.Errorf("Language = %q", v)
	}
	if v, _ := cat.Header.Get("Plural-Forms"); !strings.HasPrefix(v, "nplurals=3;") {
		t.Errorf("Plural-Forms = %q", v)
	}
}
