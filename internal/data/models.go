// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// queryTimeout bounds every statement issued by BookModel.
const queryTimeout = 3 * time.Second

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// BookStore is the set of operations the handlers need for books.
// BookModel implements it on PostgreSQL and MemoryBookModel in memory.
type BookStore interface {
	Insert(ctx context.Context, book *Book) error
	Get(ctx context.Context, id int64) (*Book, error)
	GetAll(ctx context.Context, filters Filters) ([]*Book, Metadata, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id int64) error
}

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to storage without importing sql directly.
type Models struct {
	Books BookStore

	// ping reports whether the backing store is reachable.
	ping func(ctx context.Context) error
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sql.DB) Models {
	return Models{
		Books: BookModel{DB: db},
		ping:  db.PingContext,
	}
}

// NewMemoryModels constructs a Models value that keeps everything in process memory.
func NewMemoryModels() Models {
	return Models{
		Books: NewMemoryBookModel(),
		ping:  func(context.Context) error { return nil },
	}
}

// Ping checks that the backing store is reachable.
func (m Models) Ping(ctx context.Context) error {
	if m.ping == nil {
		return errors.New("models not initialised")
	}
	return m.ping(ctx)
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new book record to the database.
// After a successful insert, the database-assigned id is written back into book.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (title, author, description, publish_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return m.DB.QueryRowContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.Description,
		book.PublishDate,
	).Scan(&book.ID)
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title, author, description, publish_date
		FROM books
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var book Book
	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.PublishDate,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAll retrieves a sorted list of books, one page of it when filters ask
// for pagination. It uses a COUNT(*) OVER() window function so only one
// round-trip is needed.
func (m BookModel) GetAll(ctx context.Context, filters Filters) ([]*Book, Metadata, error) {
	// The sort column and direction come from a safe list, never from raw input.
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, title, author, description, publish_date
		FROM books
		ORDER BY %s %s, id ASC
		LIMIT $1 OFFSET $2`, filters.sortColumn(), filters.sortDirection())

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	books := []*Book{}

	for rows.Next() {
		var book Book
		err := rows.Scan(
			&totalRecords, // COUNT(*) OVER() – same value on every row
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.PublishDate,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// Update saves every field of book back to the database.
// Returns ErrRecordNotFound if the row no longer exists.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, description = $3, publish_date = $4
		WHERE id = $5`

	args := []any{
		book.Title,
		book.Author,
		book.Description,
		book.PublishDate,
		book.ID,
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes the book with the given id from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM books WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// requireAffected maps a statement that touched no rows to ErrRecordNotFound.
func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
