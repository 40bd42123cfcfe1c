package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/potui/potui/pofile"
)

func TestWriteCatalogBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ru.po")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := writeCatalog(path, "new", true); err != nil {
		t.Fatalf("writeCatalog: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q", got)
	}
	bak, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(bak) != "old" {
		t.Errorf("backup = %q", bak)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestWriteCatalogNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ru.po")
	if err := writeCatalog(path, "text", false); err != nil {
		t.Fatalf("writeCatalog: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Error("unexpected backup file")
	}
}

func TestOpenCatalogCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "de.po")

	if _, err := openCatalog(path, false, "", ""); err == nil {
		t.Fatal("missing file without --create must fail")
	}

	cat, err := openCatalog(path, true, "", "de")
	if err != nil {
		t.Fatalf("openCatalog: %v", err)
	}
	if lang, _ := cat.Header.Get("Language"); lang != "de" {
		t.Errorf("Language = %q", lang)
	}
	if !cat.Dirty() {
		t.Error("new catalog must be dirty")
	}
}

func TestOpenCatalogFromPot(t *testing.T) {
	dir := t.TempDir()
	pot := filepath.Join(dir, "demo.pot")
	potDoc := `msgid ""
msgstr ""
"POT-Creation-Date: 2024-05-01 00:00+0000\n"

msgid "Hello"
msgstr ""
`
	if err := os.WriteFile(pot, []byte(potDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	path := filepath.Join(dir, "ru.po")
	cat, err := openCatalog(path, false, pot, "ru")
	if err != nil {
		t.Fatalf("openCatalog: %v", err)
	}
	if len(cat.Entries) != 1 || cat.Entries[0].OriginalText() != "Hello" {
		t.Fatalf("entries = %+v", cat.Entries)
	}
	if !strings.Contains(cat.Serialize(), "POT-Creation-Date: 2024-05-01") {
		t.Error("template creation date lost")
	}
}

func TestOpenCatalogMergesExistingWithPot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ru.po")
	cat := pofile.NewCatalog()
	cat.Entries = append(cat.Entries, &pofile.Entry{
		Original:    []string{"Hello"},
		Translation: []string{"Привет"},
	})
	if err := cat.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pot := filepath.Join(dir, "demo.pot")
	potDoc := `msgid ""
msgstr ""
"POT-Creation-Date: new\n"

msgid "Hello"
msgstr ""

msgid "Bye"
msgstr ""
`
	if err := os.WriteFile(pot, []byte(potDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	merged, err := openCatalog(path, false, pot, "")
	if err != nil {
		t.Fatalf("openCatalog: %v", err)
	}
	if len(merged.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(merged.Entries))
	}
	if merged.Entries[0].TranslationText() != "Привет" {
		t.Error("existing translation lost in merge")
	}
}
