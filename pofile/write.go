package pofile

import (
	"fmt"
	"os"
	"strings"
)

// Serialize renders the catalog back to PO text. Entry order, header field
// order, comments, flags and obsolete markers are preserved; multi-line
// strings are written one quoted line per stored fragment.
func (c *Catalog) Serialize() string {
	var b strings.Builder
	if c.Header.Len() > 0 {
		b.WriteString("msgid \"\"\n")
		b.WriteString("msgstr \"\"\n")
		for _, name := range c.Header.Names() {
			value, _ := c.Header.Get(name)
			fmt.Fprintf(&b, "\"%s: %s\\n\"\n", encode(name), encode(value))
		}
	}
	for i, e := range c.Entries {
		if i > 0 || c.Header.Len() > 0 {
			b.WriteByte('\n')
		}
		writeEntry(&b, e)
	}
	return b.String()
}

// WriteFile serializes the catalog and writes it to path, refreshing the
// PO-Revision-Date field when dirty. The dirty flag is cleared only when
// the write succeeded.
func (c *Catalog) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(c.SaveText()), 0o644); err != nil {
		return err
	}
	c.MarkSaved()
	return nil
}

func writeEntry(b *strings.Builder, e *Entry) {
	for _, tc := range e.TranslatorComments {
		if tc == "" {
			b.WriteString("#\n")
		} else {
			fmt.Fprintf(b, "# %s\n", tc)
		}
	}
	for _, ec := range e.ExtractedComments {
		fmt.Fprintf(b, "#. %s\n", ec)
	}
	if len(e.References) > 0 {
		fmt.Fprintf(b, "#: %s\n", strings.Join(e.References, " "))
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(b, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousOriginal != "" {
		fmt.Fprintf(b, "#| msgid \"%s\"\n", encode(e.PreviousOriginal))
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	if e.Context != "" {
		fmt.Fprintf(b, "%smsgctxt \"%s\"\n", prefix, encode(e.Context))
	}
	writeField(b, prefix, "msgid", e.Original)
	writeField(b, prefix, "msgstr", e.Translation)
}

// writeField renders a keyword with its fragments: a single fragment (or
// none) on one line, multiple fragments in the conventional empty-first-line
// form with one quoted line per fragment.
func writeField(b *strings.Builder, prefix, keyword string, frags []string) {
	if len(frags) <= 1 {
		value := ""
		if len(frags) == 1 {
			value = frags[0]
		}
		fmt.Fprintf(b, "%s%s \"%s\"\n", prefix, keyword, encode(value))
		return
	}
	fmt.Fprintf(b, "%s%s \"\"\n", prefix, keyword)
	for _, f := range frags {
		fmt.Fprintf(b, "%s\"%s\"\n", prefix, encode(f))
	}
}

// encode escapes a decoded string for a quoted PO line.
func encode(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
