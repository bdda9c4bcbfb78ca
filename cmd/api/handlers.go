// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and storage models.
package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aoideee/remember/internal/data"
	"github.com/aoideee/remember/internal/validator"
)

// createBookHandler handles POST /books/.
// It reads the new book's details from a JSON or form body, inserts a record,
// and responds with the created book and a 201 Created status.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.BookInput

	err := app.readBookInput(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	input.Normalize()

	v := validator.New()
	if err := input.Validate(v, false); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	book := &data.Book{}
	input.Replace(book)

	// Insert() writes the database-assigned ID back into book.
	err = app.models.Books.Insert(r.Context(), book)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("%s/books/%d/", app.config.apiPrefix, book.ID))

	err = app.writeJSON(w, http.StatusCreated, newBookResponse(book, app.printer(r)), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/:id/.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, newBookResponse(book, app.printer(r)), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /books/.
// Without paging parameters it returns every book as a JSON array. With
// page_size it returns one page plus pagination metadata.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filters := data.Filters{
		Sort:         app.readString(qs, "sort", "id"),
		Page:         app.readInt(qs, "page", 1, v),
		PageSize:     app.readInt(qs, "page_size", 0, v),
		SortSafeList: data.BookSortSafeList,
	}

	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	books, metadata, err := app.models.Books.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	p := app.printer(r)
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = newBookResponse(b, p)
	}

	var body any = out
	if filters.Paginated() {
		body = envelope{"books": out, "metadata": metadata}
	}

	err = app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// replaceBookHandler handles PUT /books/:id/.
// Every field is overwritten; omitted text fields reset to empty.
func (app *applicationDependencies) replaceBookHandler(w http.ResponseWriter, r *http.Request) {
	app.saveBook(w, r, false)
}

// updateBookHandler handles PATCH /books/:id/.
// Only the fields present in the body are changed.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	app.saveBook(w, r, true)
}

// saveBook loads the book named by the :id parameter, applies the request
// body to it and writes it back. partial selects PATCH semantics.
func (app *applicationDependencies) saveBook(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.BookInput
	err = app.readBookInput(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	input.Normalize()

	v := validator.New()
	if err := input.Validate(v, partial); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if partial {
		input.Apply(book)
	} else {
		input.Replace(book)
	}

	if data.ValidateBook(v, book); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Books.Update(r.Context(), book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			// Deleted between the read and the write.
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, newBookResponse(book, app.printer(r)), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /books/:id/.
// Responds 204 No Content on success and 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
