package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds validated pagination parameters.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit for the current page.
func (p Params) Limit() int {
	return p.PageSize
}

// FromRequest extracts page and page_size from the request query string.
// Missing parameters fall back to defaults; values outside the accepted
// range (page >= 1, 1 <= page_size <= 100) are rejected.
func FromRequest(r *http.Request) (Params, error) {
	p := Params{Page: DefaultPage, PageSize: DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, fmt.Errorf("page must be a positive integer")
		}
		p.Page = v
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxPageSize {
			return Params{}, fmt.Errorf("page_size must be between 1 and %d", MaxPageSize)
		}
		p.PageSize = v
	}

	return p, nil
}
