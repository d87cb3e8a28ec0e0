package shared

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}

// ParseListFilters reads page, limit and search from the query string.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultPerPage
	}
	return ListFilters{Page: page, Limit: limit, Search: strings.TrimSpace(q.Get("search"))}
}

// Query encodes the filters for a given page, keeping search and limit.
func (f ListFilters) Query(page int) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if f.Limit > 0 && f.Limit != DefaultPerPage {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v.Encode()
}

// ListPage is one rendered page of a filtered list.
type ListPage[T any] struct {
	Items      []T
	Pagination Pagination
	Filters    ListFilters
}

// BuildListPage filters items by the search term and slices the requested page.
func BuildListPage[T any](items []T, filters ListFilters, fields func(T) []string) ListPage[T] {
	filtered := FilterRows(items, filters.Search, fields)
	p := NewPagination(filters.Page, filters.Limit, len(filtered))
	return ListPage[T]{Items: Paginate(filtered, p), Pagination: p, Filters: filters}
}
