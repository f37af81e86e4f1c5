package pagination

// Response is the paginated result returned to API clients.
// Next and Previous are nil (JSON null) when there is no adjacent page.
type Response[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether a following page exists.
func (r *Response[T]) HasNext() bool { return r.Next != nil }

// HasPrevious reports whether a preceding page exists.
func (r *Response[T]) HasPrevious() bool { return r.Previous != nil }
