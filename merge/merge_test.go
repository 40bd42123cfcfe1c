package merge

import (
	"testing"

	"github.com/potui/potui/pofile"
)

func TestMergeKeepNewObsoleteAndHeaderUpdate(t *testing.T) {
	cat := &pofile.Catalog{Header: &pofile.Header{}}
	cat.Header.Set("Project-Id-Version", "demo 1")
	cat.Header.Set("POT-Creation-Date", "old")
	cat.Header.Set("Language", "ru")
	cat.Entries = []*pofile.Entry{
		{
			Original:    []string{"keep"},
			Translation: []string{"keep-translation"},
			Flags:       []string{"fuzzy", "c-format"},
			References:  []string{"old.go:1"},
		},
		{Original: []string{"stale"}, Translation: []string{"stale-translation"}, References: []string{"unused.go:1"}},
		{Original: []string{"already-obsolete"}, Translation: []string{"x"}, Obsolete: true},
	}

	template := &pofile.Catalog{Header: &pofile.Header{}}
	template.Header.Set("POT-Creation-Date", "new")
	template.Entries = []*pofile.Entry{
		{
			Original:          []string{"keep"},
			ExtractedComments: []string{"auto"},
			References:        []string{"new.go:10"},
			Flags:             []string{"python-format"},
		},
		{Original: []string{"new"}, Flags: []string{"java-format"}},
	}

	merged := Merge(cat, template)

	if got, _ := merged.Header.Get("POT-Creation-Date"); got != "new" {
		t.Fatalf("POT-Creation-Date = %q, want new", got)
	}
	if got, _ := merged.Header.Get("Language"); got != "ru" {
		t.Fatalf("Language header lost: got %q", got)
	}
	if !merged.Dirty() {
		t.Fatal("merged catalog should be dirty")
	}

	if len(merged.Entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(merged.Entries))
	}

	keep := merged.Entries[0]
	if keep.OriginalText() != "keep" {
		t.Fatalf("first entry = %q, want keep", keep.OriginalText())
	}
	if keep.TranslationText() != "keep-translation" {
		t.Fatalf("keep translation = %q", keep.TranslationText())
	}
	if !keep.HasFlag(pofile.FuzzyFlag) || keep.Flags[0] != pofile.FuzzyFlag {
		t.Fatalf("flags = %v, want fuzzy kept first", keep.Flags)
	}
	if !keep.HasFlag("python-format") {
		t.Fatal("keep entry should include template format flag")
	}
	if len(keep.ExtractedComments) != 1 || keep.ExtractedComments[0] != "auto" {
		t.Fatalf("keep extracted comments = %v, want [auto]", keep.ExtractedComments)
	}
	if len(keep.References) != 1 || keep.References[0] != "new.go:10" {
		t.Fatalf("keep references = %v, want [new.go:10]", keep.References)
	}

	added := merged.Entries[1]
	if added.OriginalText() != "new" {
		t.Fatalf("second entry = %q, want new", added.OriginalText())
	}
	if added.Status() != pofile.StatusUntranslated {
		t.Fatalf("new entry status = %v, want untranslated", added.Status())
	}

	obsolete := merged.Entries[2]
	if obsolete.OriginalText() != "stale" || !obsolete.Obsolete {
		t.Fatalf("third entry should be obsolete copy, got %q obsolete=%v",
			obsolete.OriginalText(), obsolete.Obsolete)
	}
	if obsolete.References != nil {
		t.Fatalf("obsolete references should be cleared, got %v", obsolete.References)
	}
}

func TestMergeDistinguishesContexts(t *testing.T) {
	cat := &pofile.Catalog{Header: &pofile.Header{}}
	cat.Entries = []*pofile.Entry{
		{Context: "menu", Original: []string{"Open"}, Translation: []string{"Открыть"}},
	}
	template := &pofile.Catalog{Header: &pofile.Header{}}
	template.Entries = []*pofile.Entry{
		{Context: "menu", Original: []string{"Open"}},
		{Context: "toolbar", Original: []string{"Open"}},
	}
	merged := Merge(cat, template)
	if len(merged.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(merged.Entries))
	}
	if merged.Entries[0].TranslationText() != "Открыть" {
		t.Fatal("contexted translation lost")
	}
	if merged.Entries[1].Status() != pofile.StatusUntranslated {
		t.Fatal("different context must not inherit the translation")
	}
}

func TestMergeFlagsKeepsFuzzyFirst(t *testing.T) {
	flags := mergeFlags([]string{"c-format", "fuzzy"}, []string{"python-format"})
	if len(flags) != 3 || flags[0] != "fuzzy" {
		t.Fatalf("flags = %v, want fuzzy first", flags)
	}
}
