package tui

import (
	"strings"
	"testing"

	"github.com/potui/potui/config"
	"github.com/potui/potui/editor"
	"github.com/potui/potui/pofile"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cat, err := pofile.Parse(`msgid ""
msgstr ""
"Language: ru\n"

msgid "Hello"
msgstr "Привет"

msgid "World"
msgstr ""
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := editor.NewSession(cat, 10)
	m := New(s, config.Default(), "ru.po", func(string) error { return nil })
	m.width = 100
	m.height = 30
	return m
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer line", 8, "a longe…"},
		{"кириллица", 6, "кирил…"},
		{"x", 0, ""},
		{"xy", 1, "…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four five", 10)
	for _, line := range strings.Split(got, "\n") {
		if len([]rune(line)) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if !strings.Contains(got, "one two") {
		t.Errorf("wrap output = %q", got)
	}
	// paragraph breaks survive
	if got := wrap("a\nb", 10); got != "a\nb" {
		t.Errorf("wrap(a\\nb) = %q", got)
	}
}

func TestViewShowsEntriesAndStats(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	if !strings.Contains(out, "Hello") {
		t.Error("list pane missing entry")
	}
	if !strings.Contains(out, "ru.po") {
		t.Error("header missing file name")
	}
	if !strings.Contains(out, "50.0%") {
		t.Errorf("header missing percentage:\n%s", out)
	}
	if !strings.Contains(out, "Русский") {
		t.Error("header missing native language name")
	}
}

func TestViewMarksDirty(t *testing.T) {
	m := newTestModel(t)
	m.session.Catalog().MarkDirty()
	if !strings.Contains(m.View(), "ru.po *") {
		t.Error("dirty marker missing")
	}
}

func TestMetadataViewListsHeaderFields(t *testing.T) {
	m := newTestModel(t)
	m.session.EnterMetadata()
	out := m.View()
	if !strings.Contains(out, "Language") {
		t.Errorf("metadata view missing field:\n%s", out)
	}
}

func TestEditViewShowsFieldTitle(t *testing.T) {
	m := newTestModel(t)
	if err := m.session.StartEdit(editor.FieldTranslation); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	m.edit.SetValue(m.session.Buffer())
	out := m.View()
	if !strings.Contains(out, "translation") {
		t.Errorf("edit view missing field title:\n%s", out)
	}
}

func TestDiffViewColorsHunks(t *testing.T) {
	m := newTestModel(t)
	m.diffText = "--- saved\n+++ unsaved\n@@ -1 +1 @@\n-a\n+b\n"
	out := m.diffView()
	if !strings.Contains(out, "+b") || !strings.Contains(out, "-a") {
		t.Errorf("diff view = %q", out)
	}
}
