// cmd/api/routes.go
package main

import (
	"net/http"
	"path/filepath"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → logRequest → secureHeaders → enableCORS → rateLimit → router
//
// Current endpoints (API paths are below config.apiPrefix, "/api" by default):
//
//	GET    /books/        – list all books
//	POST   /books/        – create a new book
//	GET    /books/:id/    – retrieve a single book by ID
//	PUT    /books/:id/    – replace an existing book
//	PATCH  /books/:id/    – partially update an existing book
//	DELETE /books/:id/    – delete a book by ID
//	GET    /healthcheck   – liveness and version
//	GET    /ready         – readiness of the storage backend
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Collection endpoint
	collection := app.config.apiPrefix + "/books/"
	router.HandlerFunc(http.MethodGet, collection, app.listBooksHandler)
	router.HandlerFunc(http.MethodPost, collection, app.createBookHandler)

	// Item endpoint
	item := app.config.apiPrefix + "/books/:id/"
	router.HandlerFunc(http.MethodGet, item, app.showBookHandler)
	router.HandlerFunc(http.MethodPut, item, app.replaceBookHandler)
	router.HandlerFunc(http.MethodPatch, item, app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, item, app.deleteBookHandler)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/ready", app.readinessHandler)

	if dir := app.config.staticDir; dir != "" {
		router.ServeFiles("/static/*filepath", http.Dir(dir))
		router.HandlerFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
		})
	}

	// recoverPanic is outermost so it catches panics from every other layer.
	return app.recoverPanic(app.logRequest(app.secureHeaders(app.enableCORS(app.rateLimit(router)))))
}
