package data

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBookModel is an in-memory BookStore. Records are copied on the way
// in and out so callers never share state with the store.
type MemoryBookModel struct {
	mu     sync.RWMutex
	nextID int64
	books  map[int64]Book
}

// NewMemoryBookModel creates an empty MemoryBookModel.
func NewMemoryBookModel() *MemoryBookModel {
	return &MemoryBookModel{
		nextID: 1,
		books:  make(map[int64]Book),
	}
}

// Insert stores a copy of book and assigns it the next id.
func (m *MemoryBookModel) Insert(_ context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	book.ID = m.nextID
	m.nextID++
	m.books[book.ID] = cloneBook(*book)
	return nil
}

// Get finds a book by its id.
func (m *MemoryBookModel) Get(_ context.Context, id int64) (*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	book, ok := m.books[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := cloneBook(book)
	return &clone, nil
}

// GetAll returns the books ordered and paged per filters.
func (m *MemoryBookModel) GetAll(_ context.Context, filters Filters) ([]*Book, Metadata, error) {
	m.mu.RLock()
	books := make([]*Book, 0, len(m.books))
	for _, b := range m.books {
		clone := cloneBook(b)
		books = append(books, &clone)
	}
	m.mu.RUnlock()

	cmp := bookCompare(filters.sortColumn())
	desc := filters.sortDirection() == "DESC"
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		if c := cmp(a, b); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		return a.ID < b.ID
	})

	total := len(books)
	if filters.Paginated() {
		start := min(filters.offset(), total)
		end := min(start+filters.PageSize, total)
		books = books[start:end]
		if len(books) == 0 {
			// Mirrors the window-count query, which sees no rows past the end.
			total = 0
		}
	}

	return books, calculateMetadata(total, filters.Page, filters.PageSize), nil
}

// Update replaces the stored record with the same id.
func (m *MemoryBookModel) Update(_ context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[book.ID]; !ok {
		return ErrRecordNotFound
	}
	m.books[book.ID] = cloneBook(*book)
	return nil
}

// Delete removes the book with the given id.
func (m *MemoryBookModel) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.books, id)
	return nil
}

func cloneBook(b Book) Book {
	if b.PublishDate != nil {
		d := *b.PublishDate
		b.PublishDate = &d
	}
	return b
}

// bookCompare returns a three-way comparison for the named sort column.
// Missing dates order before present ones, as NULLs would under ASC NULLS FIRST.
func bookCompare(column string) func(a, b *Book) int {
	switch column {
	case "title":
		return func(a, b *Book) int { return strings.Compare(a.Title, b.Title) }
	case "author":
		return func(a, b *Book) int { return strings.Compare(a.Author, b.Author) }
	case "publish_date":
		return func(a, b *Book) int {
			switch {
			case a.PublishDate == nil && b.PublishDate == nil:
				return 0
			case a.PublishDate == nil:
				return -1
			case b.PublishDate == nil:
				return 1
			}
			return a.PublishDate.Compare(b.PublishDate.Time)
		}
	default:
		return func(a, b *Book) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		}
	}
}
