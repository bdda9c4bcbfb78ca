// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/text/message"

	"github.com/aoideee/remember/internal/data"
	"github.com/aoideee/remember/internal/i18n"
	"github.com/aoideee/remember/internal/validator"
)

// maxBodyBytes caps request bodies at 1 MB.
const maxBodyBytes = 1_048_576

// envelope wraps responses that carry more than one named value,
// e.g. {"books": [...], "metadata": {...}} or {"error": ...}.
type envelope map[string]any

// bookResponse is the wire form of a book: its fields plus the display label
// rendered in the client's language.
type bookResponse struct {
	*data.Book
	Label string `json:"label"`
}

func newBookResponse(book *data.Book, p *message.Printer) bookResponse {
	return bookResponse{Book: book, Label: book.Label(p)}
}

// printer returns a message printer for the request's Accept-Language.
func (app *applicationDependencies) printer(r *http.Request) *message.Printer {
	return i18n.NewPrinter(i18n.Match(r.Header.Get("Accept-Language")))
}

// readIDParam extracts and validates the ":id" URL parameter added by httprouter.
// Returns an error if the value is missing, non-numeric, or less than 1.
func (app *applicationDependencies) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// readString reads a string query parameter from qs, returning defaultValue
// if the key is absent or empty.
func (app *applicationDependencies) readString(qs url.Values, key, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

// readInt reads an integer query parameter from qs, returning defaultValue if
// the key is absent. A value that does not parse is recorded in v.
func (app *applicationDependencies) readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return i
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readJSON decodes a single JSON value from the request body into dst.
// It enforces a 1 MB size limit, rejects unknown fields, and ensures the
// body contains exactly one JSON value. Decoder errors are rewritten into
// messages that are safe to show to the client.
func (app *applicationDependencies) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(err)

		default:
			return err
		}
	}

	// Ensure there is no second JSON value in the body.
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readBookInput decodes a book from either a JSON body or an HTML form body,
// depending on the request's Content-Type.
func (app *applicationDependencies) readBookInput(w http.ResponseWriter, r *http.Request, dst *data.BookInput) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return app.readBookForm(w, r, mediaType, dst)
	default:
		return app.readJSON(w, r, dst)
	}
}

// readBookForm fills dst from form fields. Only fields present in the form
// are set, so a PATCH can send just the fields it changes.
func (app *applicationDependencies) readBookForm(w http.ResponseWriter, r *http.Request, mediaType string, dst *data.BookInput) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		}
		return fmt.Errorf("body contains a badly-formed form: %w", err)
	}

	form := r.PostForm
	text := func(key string) *string {
		if _, ok := form[key]; !ok {
			return nil
		}
		v := form.Get(key)
		return &v
	}

	dst.Title = text("title")
	dst.Author = text("author")
	dst.Description = text("description")

	if raw := text("publish_date"); raw != nil && *raw != "" {
		date, err := data.ParseDate(*raw)
		if err != nil {
			return err
		}
		dst.PublishDate = &date
	}

	return nil
}
