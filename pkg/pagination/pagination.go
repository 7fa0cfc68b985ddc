package pagination

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
)

const (
	// DefaultPage is the first page when a page is not provided.
	DefaultPage = 1
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 3
)

// Params holds offset pagination inputs from controllers or services.
// Pages are 1-based.
type Params struct {
	Page int
	Size int
}

// Validate rejects pages and sizes below one.
func (p Params) Validate() error {
	if p.Page < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Page must be greater than 0")
	}
	if p.Size < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Page size must be greater than 0")
	}
	return nil
}

// Offset returns the number of rows preceding the requested page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// TotalPages returns ceil(total/size).
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// CheckInRange reports a validation error when the page lies beyond the last
// page. An empty result set still exposes page 1.
func (p Params) CheckInRange(total int64) error {
	last := TotalPages(total, p.Size)
	if last < 1 {
		last = 1
	}
	if p.Page > last {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Page %d does not exist", p.Page))
	}
	return nil
}

// Page is the paginated response envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	HasNext       bool  `json:"hasNext"`
}

// NewPage assembles the envelope for the requested page.
func NewPage[T any](content []T, params Params, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := TotalPages(total, params.Size)
	return Page[T]{
		Content:       content,
		CurrentPage:   params.Page,
		TotalPages:    totalPages,
		TotalElements: total,
		HasNext:       params.Page < totalPages,
	}
}
