package spatula

import (
	"fmt"
	"iter"
)

// JSONParser decodes the response body as JSON without further
// transformation. The typed view is the decoded value (map[string]any,
// []any, string, float64, bool, or nil).
type JSONParser struct{}

// Parse decodes the response body.
func (JSONParser) Parse(_ *URL, resp *Response) (any, error) {
	return resp.DecodeJSON()
}

// JSONList yields each element of a decoded top-level JSON array in
// place. It is the item source of JSON list pages.
type JSONList struct{}

// Items iterates the decoded array. A non-array view is an error naming
// the concrete type, rather than silently iterating something else.
func (JSONList) Items(view any) (iter.Seq2[any, error], error) {
	elems, ok := view.([]any)
	if !ok {
		return nil, fmt.Errorf("json list page requires a top-level array, got %T", view)
	}
	return func(yield func(any, error) bool) {
		for _, elem := range elems {
			if !yield(elem, nil) {
				return
			}
		}
	}, nil
}

// NewJSONPage creates a page whose response is decoded as JSON.
func NewJSONPage(name string, opts ...Option) *Page {
	return New(name, append([]Option{WithParser(JSONParser{})}, opts...)...)
}

// NewJSONListPage creates a list page over the elements of a top-level
// JSON array.
func NewJSONListPage(name string, opts ...Option) *Page {
	return New(name, append([]Option{
		WithParser(JSONParser{}),
		WithItems(JSONList{}),
	}, opts...)...)
}
