package domain

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize fills in defaults for missing or non-positive values.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PageMeta struct {
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	Total       int `json:"total"`
}

type Page[T any] struct {
	List []T      `json:"list"`
	Meta PageMeta `json:"meta"`
}

func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		List: items,
		Meta: PageMeta{
			CurrentPage: req.Page,
			LastPage:    int(math.Ceil(float64(total) / float64(req.PageSize))),
			Total:       total,
		},
	}
}
