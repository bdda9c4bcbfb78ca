package data

import (
	"math"
	"strings"

	"github.com/aoideee/remember/internal/validator"
)

// MaxPageSize caps page_size on list requests.
const MaxPageSize = 100

// BookSortSafeList holds the sort values accepted for book listings.
var BookSortSafeList = []string{
	"id", "title", "author", "publish_date",
	"-id", "-title", "-author", "-publish_date",
}

// Filters holds pagination and sorting parameters extracted from URL query strings.
// A zero PageSize means "no pagination": every record is returned.
type Filters struct {
	Page         int      // Current page number (1-indexed)
	PageSize     int      // Number of records per page, 0 for all
	Sort         string   // Column name to sort by (prefix with "-" for DESC)
	SortSafeList []string // Allowed sort columns to prevent SQL injection
}

// Paginated reports whether the caller asked for a page of results.
func (f Filters) Paginated() bool {
	return f.PageSize > 0
}

// sortColumn returns the validated column name for ORDER BY, defaulting to id.
func (f Filters) sortColumn() string {
	for _, safe := range f.SortSafeList {
		if f.Sort == safe {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}
	return "id"
}

// sortDirection returns "ASC" or "DESC" based on the Sort prefix.
func (f Filters) sortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}
	return "ASC"
}

// limit returns the SQL LIMIT value. nil is LIMIT ALL in PostgreSQL.
func (f Filters) limit() any {
	if !f.Paginated() {
		return nil
	}
	return f.PageSize
}

// offset returns the SQL OFFSET value derived from Page and PageSize.
func (f Filters) offset() int {
	if !f.Paginated() {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// ValidateFilters records errors for out-of-range paging or unknown sort keys.
func ValidateFilters(v *validator.Validator, f Filters) {
	if f.Paginated() {
		v.Check(f.Page > 0, "page", "must be greater than zero")
		v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
		v.Check(f.PageSize <= MaxPageSize, "page_size", "must be a maximum of 100")
	}
	v.Check(f.PageSize >= 0, "page_size", "must be greater than zero")
	v.Check(validator.In(f.Sort, f.SortSafeList...), "sort", "invalid sort value")
}

// Metadata contains pagination information returned alongside list responses.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// calculateMetadata computes page metadata from total record count and filter values.
func calculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 || pageSize == 0 {
		return Metadata{TotalRecords: totalRecords}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}
