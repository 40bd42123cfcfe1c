package pofile

import "strings"

// FromTemplate builds a fresh translation catalog from a POT template: every
// entry keeps its original, context, comments, references and non-fuzzy
// flags, but starts untranslated. The header gets a current PO-Revision-Date
// and, when the template carried one, the POT-Creation-Date. The result is
// dirty because it has never been saved.
func FromTemplate(template *Catalog) *Catalog {
	cat := NewCatalog()
	if created, ok := template.Header.Get("POT-Creation-Date"); ok && created != "" {
		cat.Header.Set("POT-Creation-Date", created)
	}
	if project, ok := template.Header.Get("Project-Id-Version"); ok && project != "" {
		cat.Header.Set("Project-Id-Version", project)
	}
	cat.Header.Set("PO-Revision-Date", timestamp())
	for _, t := range template.Entries {
		if t.Obsolete {
			continue
		}
		e := &Entry{
			ExtractedComments: append([]string(nil), t.ExtractedComments...),
			References:        append([]string(nil), t.References...),
			Context:           t.Context,
			Original:          append([]string(nil), t.Original...),
		}
		for _, f := range t.Flags {
			if f != FuzzyFlag {
				e.AddFlag(f)
			}
		}
		cat.Entries = append(cat.Entries, e)
	}
	cat.MarkDirty()
	return cat
}

// SetLanguage fills the Language and Plural-Forms header fields for a
// language code.
func (c *Catalog) SetLanguage(lang string) {
	c.Header.Set("Language", lang)
	c.Header.Set("Plural-Forms", PluralFormsForLang(lang))
}

// PluralFormsForLang returns the standard Plural-Forms header value for a
// language code. Region suffixes ("pt_BR", "sr-Latn") fall back to the base
// language.
func PluralFormsForLang(lang string) string {
	base := lang
	if idx := strings.IndexAny(lang, "_-"); idx > 0 {
		base = lang[:idx]
	}
	switch base {
	case "ja", "ko", "zh", "vi", "th", "id", "ms":
		return "nplurals=1; plural=0;"
	case "fr", "pt":
		return "nplurals=2; plural=(n > 1);"
	case "ru", "uk", "be", "hr", "sr", "bs":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "pl":
		return "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "cs", "sk":
		return "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);"
	case "ro":
		return "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);"
	case "lt":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "lv":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);"
	case "ar":
		return "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);"
	default:
		return "nplurals=2; plural=(n != 1);"
	}
}

var nativeNames = map[string]string{
	"ar":    "العربية",
	"bg":    "Български",
	"cs":    "Čeština",
	"da":    "Dansk",
	"de":    "Deutsch",
	"el":    "Ελληνικά",
	"en":    "English",
	"es":    "Español",
	"fi":    "Suomi",
	"fr":    "Français",
	"he":    "עברית",
	"hi":    "हिन्दी",
	"hr":    "Hrvatski",
	"hu":    "Magyar",
	"id":    "Bahasa Indonesia",
	"it":    "Italiano",
	"ja":    "日本語",
	"ko":    "한국어",
	"lt":    "Lietuvių",
	"lv":    "Latviešu",
	"ms":    "Bahasa Melayu",
	"nl":    "Nederlands",
	"no":    "Norsk",
	"nb":    "Norsk bokmål",
	"nn":    "Norsk nynorsk",
	"pl":    "Polski",
	"pt":    "Português",
	"pt_BR": "Português (Brasil)",
	"ro":    "Română",
	"ru":    "Русский",
	"sk":    "Slovenčina",
	"sr":    "Српски",
	"sv":    "Svenska",
	"th":    "ไทย",
	"tr":    "Türkçe",
	"uk":    "Українська",
	"vi":    "Tiếng Việt",
	"zh":    "中文",
}

// LangNameNative returns the native name of a language, or the code itself
// when unknown.
func LangNameNative(lang string) string {
	if name, ok := nativeNames[lang]; ok {
		return name
	}
	return lang
}
