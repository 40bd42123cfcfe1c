// Package merge updates a translation catalog from a POT template,
// equivalent to the msgmerge utility.
package merge

import (
	"github.com/potui/potui/pofile"
)

// key identifies an entry within a catalog: context plus original, joined
// with the EOT separator gettext uses for contexted messages.
func key(e *pofile.Entry) string {
	return e.Context + "\x04" + e.OriginalText()
}

// Merge builds a new catalog combining cat's translations with the entry
// set of the template:
//   - entries present in both keep their translation and translator
//     comments, with references and extracted comments refreshed from the
//     template;
//   - entries only in the template are added untranslated;
//   - entries no longer in the template are kept at the end as obsolete,
//     with their references dropped.
//
// The result keeps cat's header, refreshes POT-Creation-Date from the
// template and is marked dirty.
func Merge(cat, template *pofile.Catalog) *pofile.Catalog {
	result := &pofile.Catalog{Header: cat.Header}
	if created, ok := template.Header.Get("POT-Creation-Date"); ok && created != "" {
		result.Header.Set("POT-Creation-Date", created)
	}

	existing := make(map[string]*pofile.Entry)
	for _, e := range cat.Entries {
		if !e.Obsolete {
			existing[key(e)] = e
		}
	}

	matched := make(map[string]bool)
	for _, t := range template.Entries {
		if t.Obsolete || len(t.Original) == 0 {
			continue
		}
		k := key(t)
		prev, ok := existing[k]
		if !ok {
			result.Entries = append(result.Entries, &pofile.Entry{
				ExtractedComments: append([]string(nil), t.ExtractedComments...),
				References:        append([]string(nil), t.References...),
				Flags:             append([]string(nil), t.Flags...),
				Context:           t.Context,
				Original:          append([]string(nil), t.Original...),
			})
			continue
		}
		matched[k] = true
		result.Entries = append(result.Entries, &pofile.Entry{
			TranslatorComments: prev.TranslatorComments,
			ExtractedComments:  append([]string(nil), t.ExtractedComments...),
			References:         append([]string(nil), t.References...),
			Flags:              mergeFlags(prev.Flags, t.Flags),
			Context:            t.Context,
			Original:           append([]string(nil), t.Original...),
			Translation:        prev.Translation,
		})
	}

	for _, e := range cat.Entries {
		if e.Obsolete || matched[key(e)] {
			continue
		}
		obsolete := *e
		obsolete.Obsolete = true
		obsolete.References = nil
		result.Entries = append(result.Entries, &obsolete)
	}

	result.MarkDirty()
	return result
}

// mergeFlags combines the catalog's flags with the template's, keeping
// "fuzzy" first and preserving first-seen order for the rest.
func mergeFlags(poFlags, potFlags []string) []string {
	e := &pofile.Entry{}
	for _, f := range poFlags {
		if f == pofile.FuzzyFlag {
			e.AddFlag(f)
		}
	}
	for _, f := range poFlags {
		e.AddFlag(f)
	}
	for _, f := range potFlags {
		e.AddFlag(f)
	}
	return e.Flags
}
