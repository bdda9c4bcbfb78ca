package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestCreateThenShowReturnsSameValues(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	created := ts.createBook(t, map[string]any{
		"title":        "Solaris",
		"author":       "Stanisław Lem",
		"description":  "A planet-sized ocean.",
		"publish_date": "1961-06-01",
	})
	if created.ID < 1 {
		t.Fatalf("expected an assigned id; got %d", created.ID)
	}

	rr := ts.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d/", created.ID), nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("show: status %d body %s", rr.Code, rr.Body.String())
	}
	got := decode[wireBook](t, rr)

	if got.Title != "Solaris" || got.Author != "Stanisław Lem" || got.Description != "A planet-sized ocean." {
		t.Fatalf("show returned different values: %+v", got)
	}
	if got.PublishDate == nil || *got.PublishDate != "1961-06-01" {
		t.Fatalf("publish_date = %v", got.PublishDate)
	}
	if got.Label != "Solaris - Stanisław Lem - 1961-06-01" {
		t.Fatalf("label = %q", got.Label)
	}
}

func TestCreateSetsLocationAndDefaults(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	rr := ts.do(t, http.MethodPost, "/api/books/", map[string]any{"publish_date": "2020-01-02"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	book := decode[wireBook](t, rr)

	if loc := rr.Header().Get("Location"); loc != fmt.Sprintf("/api/books/%d/", book.ID) {
		t.Fatalf("Location = %q", loc)
	}
	if book.Title != "" || book.Author != "" || book.Description != "" {
		t.Fatalf("expected empty defaults; got %+v", book)
	}
	if book.Label != "No title - No author - 2020-01-02" {
		t.Fatalf("label = %q", book.Label)
	}
}

func TestCreateTrimsWhitespace(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	book := ts.createBook(t, map[string]any{"title": "  Lalka \n", "publish_date": "1890-01-01"})
	if book.Title != "Lalka" {
		t.Fatalf("title = %q", book.Title)
	}
}

func TestCreateFromForm(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	form := url.Values{
		"title":        {"Quo Vadis"},
		"author":       {"Henryk Sienkiewicz"},
		"publish_date": {"1896-01-01"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/books/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	book := decode[wireBook](t, rr)
	if book.Title != "Quo Vadis" || book.Author != "Henryk Sienkiewicz" || book.Description != "" {
		t.Fatalf("unexpected book: %+v", book)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantInBody string
	}{
		{
			name:       "missing publish date",
			body:       map[string]any{"title": "x"},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "publish_date",
		},
		{
			name:       "title too long",
			body:       map[string]any{"title": strings.Repeat("t", 256), "publish_date": "2000-01-01"},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "must not be more than 255 characters long",
		},
		{
			name:       "description too long",
			body:       map[string]any{"description": strings.Repeat("d", 1001), "publish_date": "2000-01-01"},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "description",
		},
		{
			name:       "empty date",
			body:       map[string]any{"title": "x", "publish_date": ""},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "publish_date",
		},
		{
			name:       "bad date",
			body:       map[string]any{"publish_date": "2000-13-01"},
			wantStatus: http.StatusBadRequest,
			wantInBody: "YYYY-MM-DD",
		},
		{
			name:       "wrong type",
			body:       map[string]any{"title": 5, "publish_date": "2000-01-01"},
			wantStatus: http.StatusBadRequest,
			wantInBody: "incorrect JSON type for field",
		},
		{
			name:       "unknown field",
			body:       map[string]any{"isbn": "123", "publish_date": "2000-01-01"},
			wantStatus: http.StatusBadRequest,
			wantInBody: "unknown key",
		},
		{
			name:       "malformed",
			body:       `{"title": "x"`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "badly-formed JSON",
		},
		{
			name:       "two values",
			body:       `{"publish_date": "2000-01-01"}{}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "single JSON value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, newTestApplication(t))
			rr := ts.do(t, http.MethodPost, "/api/books/", tt.body, nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tt.wantInBody) {
				t.Fatalf("body %s does not mention %q", rr.Body.String(), tt.wantInBody)
			}
		})
	}
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	req := httptest.NewRequest(http.MethodPost, "/api/books/", nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "must not be empty") {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
}

func TestPatchTitleLeavesOtherFieldsUnchanged(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	created := ts.createBook(t, map[string]any{
		"title":        "Draft",
		"author":       "Olga Tokarczuk",
		"description":  "Working title.",
		"publish_date": "2007-01-01",
	})

	path := fmt.Sprintf("/api/books/%d/", created.ID)
	rr := ts.do(t, http.MethodPatch, path, map[string]any{"title": "Bieguni"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", rr.Code, rr.Body.String())
	}

	got := decode[wireBook](t, ts.do(t, http.MethodGet, path, nil, nil))
	if got.Title != "Bieguni" {
		t.Fatalf("title not updated: %+v", got)
	}
	if got.Author != "Olga Tokarczuk" || got.Description != "Working title." || *got.PublishDate != "2007-01-01" {
		t.Fatalf("patch changed other fields: %+v", got)
	}
}

func TestPatchEmptyObjectIsNoop(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))
	created := ts.createBook(t, map[string]any{"title": "Same", "publish_date": "2001-01-01"})

	rr := ts.do(t, http.MethodPatch, fmt.Sprintf("/api/books/%d/", created.ID), map[string]any{}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	if got := decode[wireBook](t, rr); got.Title != "Same" {
		t.Fatalf("unexpected book after empty patch: %+v", got)
	}
}

func TestPutReplacesAllFields(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	created := ts.createBook(t, map[string]any{
		"title":        "Old",
		"author":       "Someone",
		"description":  "Old description",
		"publish_date": "1999-01-01",
	})
	path := fmt.Sprintf("/api/books/%d/", created.ID)

	rr := ts.do(t, http.MethodPut, path, map[string]any{"title": "New"}, nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("PUT without publish_date: status %d body %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, http.MethodPut, path, map[string]any{"title": "New", "publish_date": "2005-05-05"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT: status %d body %s", rr.Code, rr.Body.String())
	}

	got := decode[wireBook](t, ts.do(t, http.MethodGet, path, nil, nil))
	if got.ID != created.ID || got.Title != "New" || got.Author != "" || got.Description != "" || *got.PublishDate != "2005-05-05" {
		t.Fatalf("PUT did not replace the record: %+v", got)
	}
}

func TestPutAcceptsFetchedBook(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))
	created := ts.createBook(t, map[string]any{"title": "Lalka", "author": "Prus", "publish_date": "1890-01-01"})
	path := fmt.Sprintf("/api/books/%d/", created.ID)

	fetched := decode[map[string]any](t, ts.do(t, http.MethodGet, path, nil, nil))
	fetched["title"] = "Lalka (2nd ed.)"
	fetched["id"] = created.ID + 100
	fetched["label"] = "ignored"

	rr := ts.do(t, http.MethodPut, path, fetched, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT fetched book: status %d body %s", rr.Code, rr.Body.String())
	}
	got := decode[wireBook](t, rr)
	if got.ID != created.ID || got.Title != "Lalka (2nd ed.)" || got.Author != "Prus" || *got.PublishDate != "1890-01-01" {
		t.Fatalf("unexpected book: %+v", got)
	}
	if got.Label != "Lalka (2nd ed.) - Prus - 1890-01-01" {
		t.Fatalf("label = %q", got.Label)
	}
}

func TestPatchEmptyDateKeepsStoredDate(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))
	created := ts.createBook(t, map[string]any{"title": "Quo Vadis", "publish_date": "1896-03-26"})

	rr := ts.do(t, http.MethodPatch, fmt.Sprintf("/api/books/%d/", created.ID), map[string]any{"publish_date": ""}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	if got := decode[wireBook](t, rr); *got.PublishDate != "1896-03-26" {
		t.Fatalf("publish_date = %s; want 1896-03-26", *got.PublishDate)
	}
}

func TestUpdateUnknownBook(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		rr := ts.do(t, method, "/api/books/42/", map[string]any{"title": "x", "publish_date": "2000-01-01"}, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s unknown id: status %d", method, rr.Code)
		}
	}
}

func TestDeleteThenShowIsNotFound(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	created := ts.createBook(t, map[string]any{"title": "Gone", "publish_date": "2010-10-10"})
	path := fmt.Sprintf("/api/books/%d/", created.ID)

	rr := ts.do(t, http.MethodDelete, path, nil, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d body %s", rr.Code, rr.Body.String())
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body on 204; got %q", rr.Body.String())
	}

	if rr := ts.do(t, http.MethodGet, path, nil, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("show after delete: status %d", rr.Code)
	}
	if rr := ts.do(t, http.MethodDelete, path, nil, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d", rr.Code)
	}
}

func TestShowUnknownOrInvalidID(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	for _, path := range []string{"/api/books/999/", "/api/books/abc/", "/api/books/0/", "/api/books/-3/"} {
		rr := ts.do(t, http.MethodGet, path, nil, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s: status %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "could not be found") {
			t.Fatalf("GET %s: body %s", path, rr.Body.String())
		}
	}
}

func TestListReturnsAllNonDeletedBooks(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	rr := ts.do(t, http.MethodGet, "/api/books/", nil, nil)
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("empty list: status %d body %s", rr.Code, rr.Body.String())
	}

	a := ts.createBook(t, map[string]any{"title": "A", "publish_date": "2001-01-01"})
	b := ts.createBook(t, map[string]any{"title": "B", "publish_date": "2002-01-01"})
	c := ts.createBook(t, map[string]any{"title": "C", "publish_date": "2003-01-01"})

	if rr := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d/", b.ID), nil, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/books/", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status %d body %s", rr.Code, rr.Body.String())
	}
	books := decode[[]wireBook](t, rr)
	if len(books) != 2 || books[0].ID != a.ID || books[1].ID != c.ID {
		t.Fatalf("unexpected list: %+v", books)
	}
}

func TestListSortAndPaginate(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	for _, title := range []string{"b", "c", "a"} {
		ts.createBook(t, map[string]any{"title": title, "publish_date": "2000-01-01"})
	}

	books := decode[[]wireBook](t, ts.do(t, http.MethodGet, "/api/books/?sort=-title", nil, nil))
	if len(books) != 3 || books[0].Title != "c" || books[2].Title != "a" {
		t.Fatalf("unexpected sort: %+v", books)
	}

	rr := ts.do(t, http.MethodGet, "/api/books/?sort=title&page=2&page_size=2", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	page := decode[struct {
		Books    []wireBook `json:"books"`
		Metadata struct {
			CurrentPage  int `json:"current_page"`
			LastPage     int `json:"last_page"`
			TotalRecords int `json:"total_records"`
		} `json:"metadata"`
	}](t, rr)
	if len(page.Books) != 1 || page.Books[0].Title != "c" {
		t.Fatalf("unexpected page: %+v", page.Books)
	}
	if page.Metadata.CurrentPage != 2 || page.Metadata.LastPage != 2 || page.Metadata.TotalRecords != 3 {
		t.Fatalf("unexpected metadata: %+v", page.Metadata)
	}
}

func TestListRejectsBadQuery(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	for _, q := range []string{"sort=isbn", "page_size=1000", "page=0&page_size=10", "page_size=abc"} {
		rr := ts.do(t, http.MethodGet, "/api/books/?"+q, nil, nil)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("?%s: status %d body %s", q, rr.Code, rr.Body.String())
		}
	}
}

func TestLabelFollowsAcceptLanguage(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))
	created := ts.createBook(t, map[string]any{"publish_date": "2015-03-03"})

	rr := ts.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d/", created.ID), nil, map[string]string{
		"Accept-Language": "pl-PL,pl;q=0.9",
	})
	if got := decode[wireBook](t, rr).Label; got != "Brak tytułu - Brak autora - 2015-03-03" {
		t.Fatalf("polish label = %q", got)
	}
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t, newTestApplication(t))

	rr := ts.do(t, http.MethodPost, "/api/books/1/", map[string]any{}, nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST item: status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "POST method is not supported") {
		t.Fatalf("405 body %s", rr.Body.String())
	}

	rr = ts.do(t, http.MethodGet, "/api/authors/", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path: status %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/books", nil, nil)
	if rr.Code < 300 || rr.Code > 399 || rr.Header().Get("Location") != "/api/books/" {
		t.Fatalf("missing slash: status %d location %q", rr.Code, rr.Header().Get("Location"))
	}
}
