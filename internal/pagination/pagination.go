package pagination

import (
	"math"
	"net/url"
	"strconv"

	"github.com/Alturino/ordering/internal/errors"
)

const (
	DEFAULT_PAGE      = 1
	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
)

type Params struct {
	Page     int
	PageSize int
}

// Parse reads the 1-based page and pageSize query parameters, applying the
// defaults when they are absent. Pages whose offset would not fit the
// int32 OFFSET column are rejected.
func Parse(query url.Values) (Params, error) {
	params := Params{Page: DEFAULT_PAGE, PageSize: DEFAULT_PAGE_SIZE}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Params{}, errors.ErrInvalidPagination
		}
		params.Page = page
	}
	if raw := query.Get("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > MAX_PAGE_SIZE {
			return Params{}, errors.ErrInvalidPagination
		}
		params.PageSize = pageSize
	}
	if params.Page > math.MaxInt32 || int64(params.Page-1)*int64(params.PageSize) > math.MaxInt32 {
		return Params{}, errors.ErrInvalidPagination
	}
	return params, nil
}

func (p Params) Limit() int32 {
	return int32(p.PageSize)
}

func (p Params) Offset() int32 {
	return int32((p.Page - 1) * p.PageSize)
}

// Page is the paginated envelope returned by list endpoints.
type Page[T any] struct {
	Data     []T   `json:"data"     validate:"required,dive"`
	Total    int64 `json:"total"    validate:"gte=0"`
	Page     int   `json:"page"     validate:"gte=1"`
	PageSize int   `json:"pageSize" validate:"gte=1"`
}

func NewPage[T any](data []T, total int64, params Params) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Total: total, Page: params.Page, PageSize: params.PageSize}
}
