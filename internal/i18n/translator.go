// Package i18n provides the translation lookup consumed for band and
// field titles, with the documented humanized fallback for missing keys.
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Translator looks up a UI string for a locale.
type Translator interface {
	// Translate returns the translated text and true, or false when no
	// translation exists for the key in that locale.
	Translate(key, locale string) (string, bool)
}

// Static is an in-memory translator: locale → key → text.
type Static map[string]map[string]string

// Translate implements Translator.
func (s Static) Translate(key, locale string) (string, bool) {
	table, ok := s[locale]
	if !ok {
		return "", false
	}
	text, ok := table[key]
	return text, ok
}

// TranslateOrHumanize resolves a key through the translator, falling back
// to the humanized form of the key itself. Callers rely on this exact
// fallback for untranslated band and field titles.
func TranslateOrHumanize(tr Translator, key, locale string) string {
	if tr != nil {
		if text, ok := tr.Translate(key, locale); ok {
			return text
		}
	}
	return Humanize(key)
}

var titleCaser = cases.Title(language.English)

// Humanize turns a lookup key into display text: separators become spaces
// and each word is capitalized. "sales_by.region-code" → "Sales By Region Code".
func Humanize(key string) string {
	replacer := strings.NewReplacer(".", " ", "_", " ", "-", " ")
	spaced := replacer.Replace(key)
	words := strings.Fields(spaced)
	for i, word := range words {
		words[i] = titleCaser.String(word)
	}
	return strings.Join(words, " ")
}
