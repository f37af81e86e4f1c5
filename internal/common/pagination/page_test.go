package pagination_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ashes-live/internal/common/pagination"
)

// sliceFetcher serves a fixed in-memory result set and records calls.
type sliceFetcher[T any] struct {
	rows       []T
	countErr   error
	fetchErr   error
	countCalls int
	fetchCalls int
}

func (f *sliceFetcher[T]) Count(_ context.Context) (int64, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.rows)), nil
}

func (f *sliceFetcher[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := min(offset+limit, len(f.rows))
	return f.rows[offset:end], nil
}

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestCompute_Links(t *testing.T) {
	t.Parallel()

	const base = "https://api.example.com/cards?q=ash&offset=0"

	tests := []struct {
		name     string
		total    int
		params   pagination.Params
		url      string
		wantPrev *string
		wantNext *string
		wantLen  int
	}{
		{
			name:     "first page",
			total:    25,
			params:   pagination.Params{Offset: 0, Limit: 10},
			url:      "https://api.example.com/cards?q=ash",
			wantNext: strPtr("https://api.example.com/cards?q=ash&offset=10"),
			wantLen:  10,
		},
		{
			name:     "middle page drops offset on previous",
			total:    25,
			params:   pagination.Params{Offset: 10, Limit: 10},
			url:      "https://api.example.com/cards?q=ash&offset=10",
			wantPrev: strPtr("https://api.example.com/cards?q=ash"),
			wantNext: strPtr("https://api.example.com/cards?q=ash&offset=20"),
			wantLen:  10,
		},
		{
			name:     "last page has no next",
			total:    25,
			params:   pagination.Params{Offset: 20, Limit: 10},
			url:      "https://api.example.com/cards?q=ash&offset=20",
			wantPrev: strPtr("https://api.example.com/cards?q=ash&offset=10"),
			wantLen:  5,
		},
		{
			name:     "previous clamps to zero",
			total:    25,
			params:   pagination.Params{Offset: 3, Limit: 10},
			url:      "https://api.example.com/cards?offset=3&q=ash",
			wantPrev: strPtr("https://api.example.com/cards?q=ash"),
			wantNext: strPtr("https://api.example.com/cards?offset=13&q=ash"),
			wantLen:  10,
		},
		{
			name:     "offset past the end",
			total:    25,
			params:   pagination.Params{Offset: 50, Limit: 10},
			url:      "https://api.example.com/cards?offset=50",
			wantPrev: strPtr("https://api.example.com/cards?offset=40"),
			wantLen:  0,
		},
		{
			name:    "exact fit has no next",
			total:   10,
			params:  pagination.Params{Offset: 0, Limit: 10},
			url:     base,
			wantLen: 10,
		},
		{
			name:    "empty result set",
			total:   0,
			params:  pagination.Params{Offset: 0, Limit: 10},
			url:     "/cards",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &sliceFetcher[int]{rows: numbers(tt.total)}
			got, err := pagination.Compute(context.Background(), f, tt.params, tt.url, pagination.Identity[int])
			if err != nil {
				t.Fatalf("Compute() unexpected error: %v", err)
			}

			if got.Count != int64(tt.total) {
				t.Errorf("Compute() Count = %d, want %d", got.Count, tt.total)
			}
			if diff := cmp.Diff(tt.wantPrev, got.Previous); diff != "" {
				t.Errorf("Compute() Previous mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantNext, got.Next); diff != "" {
				t.Errorf("Compute() Next mismatch (-want +got):\n%s", diff)
			}
			if len(got.Results) != tt.wantLen {
				t.Errorf("Compute() len(Results) = %d, want %d", len(got.Results), tt.wantLen)
			}
		})
	}
}

func TestCompute_RejectsBeforeQuerying(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  pagination.Params
		url     string
		wantErr error
	}{
		{name: "zero limit", params: pagination.Params{Offset: 0, Limit: 0}, url: "/cards", wantErr: pagination.ErrInvalidPagingParameter},
		{name: "negative limit", params: pagination.Params{Offset: 0, Limit: -5}, url: "/cards", wantErr: pagination.ErrInvalidPagingParameter},
		{name: "negative offset", params: pagination.Params{Offset: -1, Limit: 10}, url: "/cards", wantErr: pagination.ErrInvalidPagingParameter},
		{name: "malformed url", params: pagination.Params{Offset: 0, Limit: 10}, url: "http://%zz/cards", wantErr: pagination.ErrInvalidURL},
		{name: "malformed query", params: pagination.Params{Offset: 0, Limit: 10}, url: "/cards?q=%zz", wantErr: pagination.ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &sliceFetcher[int]{rows: numbers(5)}
			_, err := pagination.Compute(context.Background(), f, tt.params, tt.url, pagination.Identity[int])
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compute() error = %v, want %v", err, tt.wantErr)
			}
			if f.countCalls != 0 || f.fetchCalls != 0 {
				t.Errorf("Compute() queried collaborator (count=%d fetch=%d), want no calls", f.countCalls, f.fetchCalls)
			}
		})
	}
}

func TestCompute_CollaboratorErrors(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")

	countFails := &sliceFetcher[int]{rows: numbers(5), countErr: dbErr}
	if _, err := pagination.Compute(context.Background(), countFails, pagination.Params{Limit: 10}, "/cards", pagination.Identity[int]); !errors.Is(err, dbErr) {
		t.Errorf("Compute() count error = %v, want %v", err, dbErr)
	}
	if countFails.fetchCalls != 0 {
		t.Errorf("Compute() fetched after count failure")
	}

	fetchFails := &sliceFetcher[int]{rows: numbers(5), fetchErr: dbErr}
	if _, err := pagination.Compute(context.Background(), fetchFails, pagination.Params{Limit: 10}, "/cards", pagination.Identity[int]); !errors.Is(err, dbErr) {
		t.Errorf("Compute() fetch error = %v, want %v", err, dbErr)
	}
}

func TestCompute_Transform(t *testing.T) {
	t.Parallel()

	type row struct {
		Name string
		Type string
	}
	f := &sliceFetcher[row]{rows: []row{{"Aradel Summergaard", "Phoenixborn"}, {"Anchornaut", "Ally"}}}

	got, err := pagination.Compute(context.Background(), f, pagination.Params{Limit: 10}, "/cards",
		func(r row) string { return r.Name })
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	want := []string{"Aradel Summergaard", "Anchornaut"}
	if diff := cmp.Diff(want, got.Results); diff != "" {
		t.Errorf("Compute() Results mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_UnwrapsSingleColumnRows(t *testing.T) {
	t.Parallel()

	f := &sliceFetcher[[]any]{rows: [][]any{{"fire-archer"}, {"anchornaut"}}}

	got, err := pagination.Compute[[]any, string](context.Background(), f, pagination.Params{Limit: 10}, "/cards", nil)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"fire-archer", "anchornaut"}, got.Results); diff != "" {
		t.Errorf("Compute() Results mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_PassesMultiColumnRowsThrough(t *testing.T) {
	t.Parallel()

	f := &sliceFetcher[[]any]{rows: [][]any{{"fire-archer", int64(3)}}}

	got, err := pagination.Compute[[]any, any](context.Background(), f, pagination.Params{Limit: 10}, "/cards", nil)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	want := []any{[]any{"fire-archer", int64(3)}}
	if diff := cmp.Diff(want, got.Results); diff != "" {
		t.Errorf("Compute() Results mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_UnprojectableRow(t *testing.T) {
	t.Parallel()

	f := &sliceFetcher[[]any]{rows: [][]any{{"a", "b"}}}

	if _, err := pagination.Compute[[]any, string](context.Background(), f, pagination.Params{Limit: 10}, "/cards", nil); err == nil {
		t.Error("Compute() expected error for multi-column row projected to string")
	}
}

func TestCompute_FetcherFuncs(t *testing.T) {
	t.Parallel()

	var gotOffset, gotLimit int
	f := pagination.FetcherFuncs[string]{
		CountFunc: func(context.Context) (int64, error) { return 3, nil },
		FetchFunc: func(_ context.Context, offset, limit int) ([]string, error) {
			gotOffset, gotLimit = offset, limit
			return []string{"c"}, nil
		},
	}

	got, err := pagination.Compute(context.Background(), f, pagination.Params{Offset: 2, Limit: 2}, "/releases?offset=2", pagination.Identity[string])
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if gotOffset != 2 || gotLimit != 2 {
		t.Errorf("Fetch called with (%d, %d), want (2, 2)", gotOffset, gotLimit)
	}
	if got.HasNext() {
		t.Errorf("Compute() Next = %q, want nil", *got.Next)
	}
	if !got.HasPrevious() || *got.Previous != "/releases" {
		t.Errorf("Compute() Previous = %v, want /releases", got.Previous)
	}
}

func TestResponse_JSONShape(t *testing.T) {
	t.Parallel()

	f := &sliceFetcher[int]{rows: nil}
	got, err := pagination.Compute(context.Background(), f, pagination.Params{Limit: 10}, "/cards", pagination.Identity[int])
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	want := `{"count":0,"next":null,"previous":null,"results":[]}`
	if string(body) != want {
		t.Errorf("json = %s, want %s", body, want)
	}
}

func TestPreviousAndNextOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset, limit int
		total         int64
		wantPrev      int
		wantHasPrev   bool
		wantNext      int
		wantHasNext   bool
	}{
		{offset: 0, limit: 10, total: 25, wantPrev: 0, wantHasPrev: false, wantNext: 10, wantHasNext: true},
		{offset: 10, limit: 10, total: 25, wantPrev: 0, wantHasPrev: true, wantNext: 20, wantHasNext: true},
		{offset: 20, limit: 10, total: 25, wantPrev: 10, wantHasPrev: true, wantNext: 30, wantHasNext: false},
		{offset: 5, limit: 10, total: 15, wantPrev: 0, wantHasPrev: true, wantNext: 15, wantHasNext: false},
		{offset: math.MaxInt - 5, limit: 10, total: 25, wantPrev: math.MaxInt - 15, wantHasPrev: true, wantNext: 0, wantHasNext: false},
		{offset: math.MaxInt, limit: 1, total: math.MaxInt64, wantPrev: math.MaxInt - 1, wantHasPrev: true, wantNext: 0, wantHasNext: false},
		{offset: math.MaxInt - 10, limit: 10, total: math.MaxInt64, wantPrev: math.MaxInt - 20, wantHasPrev: true, wantNext: math.MaxInt, wantHasNext: true},
	}

	for _, tt := range tests {
		prev, hasPrev := pagination.PreviousOffset(tt.offset, tt.limit)
		if prev != tt.wantPrev || hasPrev != tt.wantHasPrev {
			t.Errorf("PreviousOffset(%d, %d) = (%d, %v), want (%d, %v)", tt.offset, tt.limit, prev, hasPrev, tt.wantPrev, tt.wantHasPrev)
		}
		next, hasNext := pagination.NextOffset(tt.offset, tt.limit, tt.total)
		if next != tt.wantNext || hasNext != tt.wantHasNext {
			t.Errorf("NextOffset(%d, %d, %d) = (%d, %v), want (%d, %v)", tt.offset, tt.limit, tt.total, next, hasNext, tt.wantNext, tt.wantHasNext)
		}
	}
}

func TestCompute_OffsetNearMaxInt(t *testing.T) {
	t.Parallel()

	f := &sliceFetcher[int]{rows: numbers(25)}
	got, err := pagination.Compute(context.Background(), f, pagination.Params{Offset: math.MaxInt - 5, Limit: 10},
		"https://api.example.com/cards?offset=1", pagination.Identity[int])
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if got.Count != 25 || len(got.Results) != 0 {
		t.Errorf("Compute() = count %d, %d results; want 25, 0", got.Count, len(got.Results))
	}
	if got.Next != nil {
		t.Errorf("Compute() Next = %q, want nil", *got.Next)
	}
	if got.Previous == nil {
		t.Fatal("Compute() Previous = nil, want a link")
	}
	want := fmt.Sprintf("https://api.example.com/cards?offset=%d", math.MaxInt-15)
	if *got.Previous != want {
		t.Errorf("Compute() Previous = %q, want %q", *got.Previous, want)
	}
}
