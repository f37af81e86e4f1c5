package pagination

import (
	"context"
	"fmt"
	"math"
)

// Fetcher is the query collaborator behind a paginated listing.
// Count returns the size of the unwindowed result set and Fetch returns the
// rows in [offset, offset+limit) in a stable order.
type Fetcher[T any] interface {
	Count(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// FetcherFuncs adapts a pair of functions to the Fetcher interface.
type FetcherFuncs[T any] struct {
	CountFunc func(ctx context.Context) (int64, error)
	FetchFunc func(ctx context.Context, offset, limit int) ([]T, error)
}

func (f FetcherFuncs[T]) Count(ctx context.Context) (int64, error) {
	return f.CountFunc(ctx)
}

func (f FetcherFuncs[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	return f.FetchFunc(ctx, offset, limit)
}

// Transform projects a fetched row into its response representation.
type Transform[T, R any] func(T) R

// Identity returns rows unchanged.
func Identity[T any](row T) T { return row }

// PreviousOffset returns the offset of the preceding page and whether one exists.
func PreviousOffset(offset, limit int) (int, bool) {
	if offset <= 0 {
		return 0, false
	}
	return max(offset-limit, 0), true
}

// NextOffset returns the offset of the following page and whether one exists.
// A window ending beyond math.MaxInt has no following page.
func NextOffset(offset, limit int, total int64) (int, bool) {
	if offset > math.MaxInt-limit {
		return 0, false
	}
	next := offset + limit
	return next, int64(next) < total
}

// Compute counts and fetches one page through f and builds its previous and
// next links from requestURL.
//
// The window is validated and requestURL is parsed before f is called, so a
// bad request never reaches the datastore. An offset past the end is legal:
// it yields no results, and links are still derived from the requested offset.
//
// When transform is nil each row is unwrapped with Unwrap and must then be
// assignable to R.
func Compute[T, R any](ctx context.Context, f Fetcher[T], params Params, requestURL string, transform Transform[T, R]) (*Response[R], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := parseURL(requestURL); err != nil {
		return nil, err
	}

	total, err := f.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	rows, err := f.Fetch(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	resp := &Response[R]{
		Count:   total,
		Results: make([]R, 0, len(rows)),
	}
	if prev, ok := PreviousOffset(params.Offset, params.Limit); ok {
		link, err := ReplaceOffset(requestURL, prev)
		if err != nil {
			return nil, err
		}
		resp.Previous = &link
	}
	if next, ok := NextOffset(params.Offset, params.Limit, total); ok {
		link, err := ReplaceOffset(requestURL, next)
		if err != nil {
			return nil, err
		}
		resp.Next = &link
	}

	for i, row := range rows {
		if transform != nil {
			resp.Results = append(resp.Results, transform(row))
			continue
		}
		projected, ok := Unwrap(row).(R)
		if !ok {
			return nil, fmt.Errorf("project row %d: %T is not assignable to %T", i, row, *new(R))
		}
		resp.Results = append(resp.Results, projected)
	}
	return resp, nil
}

// Unwrap returns the single value of a one-column row ([]any of length 1) and
// any other row unchanged.
func Unwrap(row any) any {
	if cols, ok := row.([]any); ok && len(cols) == 1 {
		return cols[0]
	}
	return row
}
