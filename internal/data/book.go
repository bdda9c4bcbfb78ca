// Package data provides the data models and database interaction logic
// for the book catalog.
package data

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/aoideee/remember/internal/i18n"
	"github.com/aoideee/remember/internal/validator"
)

// Column bounds of the books table.
const (
	MaxTitleLength       = 255
	MaxAuthorLength      = 255
	MaxDescriptionLength = 1000
)

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ID          int64  `json:"id"`           // Unique identifier assigned by the database
	Title       string `json:"title"`        // Title of the book, may be empty
	Author      string `json:"author"`       // Author of the book, may be empty
	Description string `json:"description"`  // Short description, may be empty
	PublishDate *Date  `json:"publish_date"` // Publication date; nil only before the record is saved
}

// Label renders "<title> - <author> - <publish date>" with p, substituting
// a translated placeholder for each empty or missing part.
func (b *Book) Label(p *message.Printer) string {
	title := b.Title
	if title == "" {
		title = p.Sprintf(i18n.NoTitle)
	}
	author := b.Author
	if author == "" {
		author = p.Sprintf(i18n.NoAuthor)
	}
	date := p.Sprintf(i18n.NoDate)
	if b.PublishDate != nil {
		date = b.PublishDate.String()
	}
	return fmt.Sprintf("%s - %s - %s", title, author, date)
}

// String returns the English label.
func (b *Book) String() string {
	return b.Label(i18n.Default())
}

// BookInput holds the fields a client may supply when creating or updating
// a book. Every field is a pointer so we can distinguish between "not
// provided" (nil) and "intentionally set to empty".
//
// ID and Label are read-only. They are accepted so that a book fetched from
// the API can be sent back as is, but they are never applied.
type BookInput struct {
	ID          *int64  `json:"id"`
	Title       *string `json:"title"        validate:"omitempty,max=255"`
	Author      *string `json:"author"       validate:"omitempty,max=255"`
	Description *string `json:"description"  validate:"omitempty,max=1000"`
	PublishDate *Date   `json:"publish_date"`
	Label       *string `json:"label"`
}

// Normalize trims surrounding whitespace and converts the text fields to
// Unicode NFC so that length checks count what the client sees. An empty
// publish_date counts as not provided.
func (in *BookInput) Normalize() {
	for _, s := range []*string{in.Title, in.Author, in.Description} {
		if s != nil {
			*s = norm.NFC.String(strings.TrimSpace(*s))
		}
	}
	if in.PublishDate != nil && in.PublishDate.IsZero() {
		in.PublishDate = nil
	}
}

// Validate records field errors for in. When partial is false the input
// must be a complete record, which means publish_date is required.
func (in *BookInput) Validate(v *validator.Validator, partial bool) error {
	if err := v.Struct(in); err != nil {
		return err
	}
	if !partial {
		v.Check(in.PublishDate != nil, "publish_date", "must be provided")
	}
	return nil
}

// Replace overwrites every field of book with in. Omitted text fields are
// reset to their empty default.
func (in *BookInput) Replace(book *Book) {
	book.Title = valueOrEmpty(in.Title)
	book.Author = valueOrEmpty(in.Author)
	book.Description = valueOrEmpty(in.Description)
	book.PublishDate = in.PublishDate
}

// Apply copies only the fields that were provided onto book.
func (in *BookInput) Apply(book *Book) {
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.Author != nil {
		book.Author = *in.Author
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	if in.PublishDate != nil {
		book.PublishDate = in.PublishDate
	}
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ValidateBook checks a complete record before it is written.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(len([]rune(book.Title)) <= MaxTitleLength, "title", fmt.Sprintf("must not be more than %d characters long", MaxTitleLength))
	v.Check(len([]rune(book.Author)) <= MaxAuthorLength, "author", fmt.Sprintf("must not be more than %d characters long", MaxAuthorLength))
	v.Check(len([]rune(book.Description)) <= MaxDescriptionLength, "description", fmt.Sprintf("must not be more than %d characters long", MaxDescriptionLength))
	v.Check(book.PublishDate != nil, "publish_date", "must be provided")
}
