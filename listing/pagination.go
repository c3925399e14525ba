package listing

import (
	"math"

	"github.com/rpupo63/reelbyte-backend/errs"
)

const (
	DefaultLimit    = 20
	DefaultPageSize = 12
	MaxLimit        = 100
)

// Window is the canonical (offset, limit) slice of a sorted result set.
// Both public pagination styles are translated into one.
type Window struct {
	Offset int
	Limit  int
}

// SkipLimit builds a window from the skip/limit style.
func SkipLimit(skip, limit int) (Window, error) {
	if skip < 0 {
		return Window{}, errs.NewInvalidFieldError("skip", "must be >= 0")
	}
	if limit < 1 || limit > MaxLimit {
		return Window{}, errs.NewOutOfRangeError("limit", limit, 1, MaxLimit)
	}
	return Window{Offset: skip, Limit: limit}, nil
}

// PageSize builds a window from the 1-indexed page/page_size style.
// An offset too large for int saturates at math.MaxInt, which still lies
// past the end of any result set.
func PageSize(page, pageSize int) (Window, error) {
	if page < 1 {
		return Window{}, errs.NewInvalidFieldError("page", "must be >= 1")
	}
	if pageSize < 1 || pageSize > MaxLimit {
		return Window{}, errs.NewOutOfRangeError("page_size", pageSize, 1, MaxLimit)
	}
	offset := math.MaxInt
	if page-1 <= math.MaxInt/pageSize {
		offset = (page - 1) * pageSize
	}
	return Window{Offset: offset, Limit: pageSize}, nil
}

// HasMore reports whether offset+limit < total without overflowing.
func (w Window) HasMore(total int64) bool {
	offset, limit := int64(w.Offset), int64(w.Limit)
	return offset < total && limit < total-offset
}

// TotalPages is ceil(total / pageSize), and 0 for an empty result.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// SkipPage is the envelope for skip/limit listings.
type SkipPage[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Skip    int   `json:"skip"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

func NewSkipPage[T any](items []T, total int64, w Window) SkipPage[T] {
	if items == nil {
		items = []T{}
	}
	return SkipPage[T]{
		Items:   items,
		Total:   total,
		Skip:    w.Offset,
		Limit:   w.Limit,
		HasMore: w.HasMore(total),
	}
}

// NumberedPage is the envelope for page/page_size listings.
type NumberedPage[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewNumberedPage[T any](items []T, total int64, page, pageSize int) NumberedPage[T] {
	if items == nil {
		items = []T{}
	}
	return NumberedPage[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// MapSkip converts page items while keeping the envelope.
func MapSkip[T, U any](p SkipPage[T], fn func(T) U) SkipPage[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return SkipPage[U]{Items: out, Total: p.Total, Skip: p.Skip, Limit: p.Limit, HasMore: p.HasMore}
}

func MapNumbered[T, U any](p NumberedPage[T], fn func(T) U) NumberedPage[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return NumberedPage[U]{Items: out, Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages}
}
