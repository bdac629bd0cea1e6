package shared

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Set adds a named filter value. Empty strings and nil pointers are skipped so
// callers can pass optional query parameters straight through.
func (f *Filter) Set(key string, value interface{}) {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	switch v := value.(type) {
	case nil:
		return
	case string:
		if v == "" {
			return
		}
	case *string:
		if v == nil || *v == "" {
			return
		}
		value = *v
	case *bool:
		if v == nil {
			return
		}
		value = *v
	case *int:
		if v == nil {
			return
		}
		value = *v
	case *time.Time:
		if v == nil {
			return
		}
		value = *v
	case *decimal.Decimal:
		if v == nil {
			return
		}
		value = *v
	}
	f.Filters[key] = value
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// MaxPageSize caps the page_size query parameter
const MaxPageSize = 100

// PageParams are the paging, sorting and search query parameters shared by every list endpoint
type PageParams struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// Filter starts a repository filter from the page parameters
func (p PageParams) Filter() Filter {
	filter := DefaultFilter()
	if p.Page > 0 {
		filter.Page = p.Page
	}
	if p.PageSize > 0 {
		filter.PageSize = min(p.PageSize, MaxPageSize)
	}
	if p.OrderBy != "" {
		filter.OrderBy = p.OrderBy
	}
	if p.OrderDir != "" {
		filter.OrderDir = p.OrderDir
	}
	filter.Search = p.Search
	return filter
}
