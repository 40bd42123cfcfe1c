package pofile

import (
	"os"
	"strings"
)

// continuation target while inside an entry block
type field int

const (
	fieldNone field = iota
	fieldContext
	fieldOriginal
	fieldTranslation
	fieldPrevious
)

type parser struct {
	cat       *Catalog
	cur       *Entry
	last      field
	lastLine  int
	gotHeader bool
}

// Parse reads a complete PO document from text. The input is validated
// strictly: any line that fits no recognized construct, a bad escape
// sequence, or a msgstr without a preceding msgid aborts the parse with a
// FormatError carrying the offending line number. On error no partial
// catalog is returned.
func Parse(text string) (*Catalog, error) {
	p := &parser{cat: &Catalog{Header: &Header{}}}
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			if err := p.flush(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.line(line, n); err != nil {
			return nil, err
		}
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	return p.cat, nil
}

// LoadFile reads and parses a PO file from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

func (p *parser) entry() *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
	}
	return p.cur
}

func (p *parser) line(line string, n int) error {
	p.lastLine = n
	obsolete := false
	if strings.HasPrefix(line, "#~") {
		obsolete = true
		line = strings.TrimSpace(strings.TrimPrefix(line, "#~"))
		if line == "" {
			p.entry().Obsolete = true
			return nil
		}
	}

	switch {
	case strings.HasPrefix(line, "#,"):
		e := p.entry()
		for _, f := range strings.Split(line[2:], ",") {
			if f = strings.TrimSpace(f); f != "" {
				e.AddFlag(f)
			}
		}
	case strings.HasPrefix(line, "#."):
		e := p.entry()
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#:"):
		e := p.entry()
		e.References = append(e.References, strings.Fields(line[2:])...)
	case strings.HasPrefix(line, "#|"):
		rest := strings.TrimSpace(line[2:])
		if strings.HasPrefix(rest, "msgid") {
			s, err := decodeQuoted(strings.TrimPrefix(rest, "msgid"), n)
			if err != nil {
				return err
			}
			p.entry().PreviousOriginal = s
			p.last = fieldPrevious
		} else if strings.HasPrefix(rest, "\"") && p.last == fieldPrevious {
			s, err := decodeQuoted(rest, n)
			if err != nil {
				return err
			}
			p.cur.PreviousOriginal += s
		} else {
			return &FormatError{Kind: ErrSyntax, Line: n}
		}
	case strings.HasPrefix(line, "#"):
		e := p.entry()
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimSpace(line[1:]))
	case strings.HasPrefix(line, "msgctxt"):
		if p.last != fieldNone {
			return &FormatError{Kind: ErrSyntax, Line: n}
		}
		s, err := decodeQuoted(strings.TrimPrefix(line, "msgctxt"), n)
		if err != nil {
			return err
		}
		e := p.entry()
		e.Context = s
		e.Obsolete = e.Obsolete || obsolete
		p.last = fieldContext
	case strings.HasPrefix(line, "msgid"):
		if p.last == fieldOriginal || p.last == fieldTranslation {
			return &FormatError{Kind: ErrSyntax, Line: n}
		}
		s, err := decodeQuoted(strings.TrimPrefix(line, "msgid"), n)
		if err != nil {
			return err
		}
		e := p.entry()
		if s != "" {
			e.Original = append(e.Original, s)
		}
		e.Obsolete = e.Obsolete || obsolete
		p.last = fieldOriginal
	case strings.HasPrefix(line, "msgstr"):
		if p.cur == nil || (p.last != fieldOriginal && p.last != fieldTranslation) {
			return &FormatError{Kind: ErrUnexpectedMsgstr, Line: n}
		}
		if p.last == fieldTranslation {
			return &FormatError{Kind: ErrSyntax, Line: n}
		}
		s, err := decodeQuoted(strings.TrimPrefix(line, "msgstr"), n)
		if err != nil {
			return err
		}
		if s != "" {
			p.cur.Translation = append(p.cur.Translation, s)
		}
		p.cur.Obsolete = p.cur.Obsolete || obsolete
		p.last = fieldTranslation
	case strings.HasPrefix(line, "\""):
		s, err := decodeQuoted(line, n)
		if err != nil {
			return err
		}
		switch p.last {
		case fieldContext:
			p.cur.Context += s
		case fieldOriginal:
			if s != "" {
				p.cur.Original = append(p.cur.Original, s)
			}
		case fieldTranslation:
			if s != "" {
				p.cur.Translation = append(p.cur.Translation, s)
			}
		default:
			return &FormatError{Kind: ErrSyntax, Line: n}
		}
	default:
		return &FormatError{Kind: ErrSyntax, Line: n}
	}
	return nil
}

// flush closes the current entry block at a blank line or EOF.
func (p *parser) flush() error {
	e := p.cur
	if e == nil {
		return nil
	}
	last := p.last
	p.cur = nil
	p.last = fieldNone
	if last != fieldTranslation {
		// comments or msgid with no msgstr
		return &FormatError{Kind: ErrSyntax, Line: p.lastLine}
	}
	if len(e.Original) == 0 {
		// the empty msgid entry is the header; only one is allowed, it must
		// come before every real entry and it is never obsolete
		if e.Obsolete || p.gotHeader || len(p.cat.Entries) > 0 || e.Context != "" {
			return &FormatError{Kind: ErrSyntax, Line: p.lastLine}
		}
		p.cat.Header = parseHeaderBlock(e.TranslationText())
		p.gotHeader = true
		return nil
	}
	p.cat.Entries = append(p.cat.Entries, e)
	return nil
}

// decodeQuoted decodes one double-quoted PO string. Only the escape
// sequences \n, \t, \\ and \" are accepted; anything else is a BadEscape.
// Unterminated strings and trailing junk after the closing quote are
// syntax errors.
func decodeQuoted(s string, line int) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' {
		return "", &FormatError{Kind: ErrSyntax, Line: line}
	}
	var b strings.Builder
	i := 1
	for i < len(s) {
		switch c := s[i]; c {
		case '"':
			if strings.TrimSpace(s[i+1:]) != "" {
				return "", &FormatError{Kind: ErrSyntax, Line: line}
			}
			return b.String(), nil
		case '\\':
			if i+1 >= len(s) {
				return "", &FormatError{Kind: ErrBadEscape, Line: line}
			}
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				return "", &FormatError{Kind: ErrBadEscape, Line: line}
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", &FormatError{Kind: ErrSyntax, Line: line}
}
