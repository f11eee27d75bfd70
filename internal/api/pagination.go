package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPage    = 1
	defaultPerPage = 50
	maxPerPage     = 200
)

// PaginationParams is the parsed page window for claim listings.
type PaginationParams struct {
	Page    int
	PerPage int
}

// ParsePagination reads the page and per_page query parameters. Missing or
// unparseable values fall back to page 1 with 50 rows; per_page is capped
// at 200 so a reviewer dashboard cannot pull the whole table in one call.
func ParsePagination(r *http.Request) PaginationParams {
	p := PaginationParams{
		Page:    defaultPage,
		PerPage: defaultPerPage,
	}

	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && n > 0 {
		p.PerPage = n
		if p.PerPage > maxPerPage {
			p.PerPage = maxPerPage
		}
	}

	return p
}

// Offset returns the row offset of the current page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages returns the page count for a total row count.
func (p PaginationParams) TotalPages(total int64) int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := int(total) / p.PerPage
	if int(total)%p.PerPage > 0 {
		pages++
	}
	return pages
}
