package shared

const (
	// DefaultPerPage is used when the request does not ask for a page size.
	DefaultPerPage = 10
	// MaxPerPage caps the page size.
	MaxPerPage = 100
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	Start      int
	End        int
}

// NewPagination computes pagination metadata. Page is clamped into
// [1, max(1, TotalPages)] so an out-of-range request lands on the last page.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages, Start: start, End: end}
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p Pagination) PrevPage() int { return p.Page - 1 }

// NextPage returns the following page number.
func (p Pagination) NextPage() int { return p.Page + 1 }

// Pages lists page numbers around the current one for the pager.
func (p Pagination) Pages() []int {
	const window = 2
	from := p.Page - window
	if from < 1 {
		from = 1
	}
	to := p.Page + window
	if to > p.TotalPages {
		to = p.TotalPages
	}
	pages := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Paginate returns the slice of items the pagination points at.
func Paginate[T any](items []T, p Pagination) []T {
	start, end := p.Start, p.End
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end]
}
