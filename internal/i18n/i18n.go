// Package i18n holds the message catalog used to render user-facing text,
// such as the placeholders in a book's display label, in the client's language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key doubles as the English text.
const (
	NoTitle  = "No title"
	NoAuthor = "No author"
	NoDate   = "No date"
)

// supported lists the catalog languages. The first entry is the fallback
// returned by the matcher when nothing in Accept-Language fits.
var supported = []language.Tag{
	language.English,
	language.Polish,
}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(supported)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	entries := map[language.Tag]map[string]string{
		language.English: {
			NoTitle:  "No title",
			NoAuthor: "No author",
			NoDate:   "No date",
		},
		language.Polish: {
			NoTitle:  "Brak tytułu",
			NoAuthor: "Brak autora",
			NoDate:   "Brak daty",
		},
	}

	for tag, msgs := range entries {
		for key, msg := range msgs {
			// SetString only fails for malformed tags or keys.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Supported returns the languages the catalog has translations for.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Match picks the best supported language for an Accept-Language header
// value. Malformed or empty headers resolve to English.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, index, _ := matcher.Match(tags...)
	return supported[index]
}

// NewPrinter returns a printer bound to the catalog for the given language.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Default returns an English printer.
func Default() *message.Printer {
	return NewPrinter(supported[0])
}
