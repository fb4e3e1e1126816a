package spatula

import (
	"bytes"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser parses the response body as an HTML document and rewrites
// every relative link in the tree to absolute form against the source
// location, so downstream extraction never has to care where the page
// came from.
type HTMLParser struct{}

// Parse builds a goquery document from the response body. The typed
// view is *goquery.Document.
func (HTMLParser) Parse(src *URL, resp *Response) (any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	if src != nil && src.URL != "" {
		base, err := url.Parse(src.URL)
		if err == nil {
			absolutizeLinks(doc, base)
		}
	}
	return doc, nil
}

// linkAttrs are the attributes that carry resolvable locations.
var linkAttrs = []string{"href", "src", "action"}

// absolutizeLinks rewrites relative href/src/action attributes to
// absolute URLs resolved against base. Non-navigational schemes
// (javascript:, mailto:, tel:, data:) and bare fragments are left
// untouched.
func absolutizeLinks(doc *goquery.Document, base *url.URL) {
	for _, attr := range linkAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			val, ok := sel.Attr(attr)
			if !ok {
				return
			}
			val = strings.TrimSpace(val)
			if val == "" || val == "#" ||
				strings.HasPrefix(val, "javascript:") ||
				strings.HasPrefix(val, "mailto:") ||
				strings.HasPrefix(val, "tel:") ||
				strings.HasPrefix(val, "data:") {
				return
			}
			u, err := url.Parse(val)
			if err != nil || u.IsAbs() {
				return
			}
			sel.SetAttr(attr, base.ResolveReference(u).String())
		})
	}
}

// CSS matches elements of an HTML view against a CSS selector and
// yields each match as a *goquery.Selection. It is the item source of
// HTML list pages.
type CSS struct {
	// Selector is the CSS selector expression.
	Selector string

	// MinItems, when positive, is the smallest acceptable match count.
	MinItems int

	// MaxItems, when positive, is the largest acceptable match count.
	MaxItems int
}

// Items matches the selector against the HTML view. A missing selector
// expression is an incomplete page definition; a match count outside
// the declared bounds is an error.
func (c CSS) Items(view any) (iter.Seq2[any, error], error) {
	if c.Selector == "" {
		return nil, &ContractError{Missing: "a CSS selector expression or a custom extraction hook"}
	}
	doc, ok := view.(*goquery.Document)
	if !ok {
		return nil, fmt.Errorf("css selector %q requires an HTML view, got %T", c.Selector, view)
	}
	matches := doc.Find(c.Selector)
	if err := checkMatchCount(c.Selector, matches.Length(), c.MinItems, c.MaxItems); err != nil {
		return nil, err
	}
	return func(yield func(any, error) bool) {
		for i := range matches.Length() {
			if !yield(matches.Eq(i), nil) {
				return
			}
		}
	}, nil
}

// checkMatchCount validates a selector's match count against its
// declared bounds.
func checkMatchCount(expr string, n, minItems, maxItems int) error {
	if minItems > 0 && n < minItems {
		return fmt.Errorf("selector %q matched %d items, expected at least %d", expr, n, minItems)
	}
	if maxItems > 0 && n > maxItems {
		return fmt.Errorf("selector %q matched %d items, expected at most %d", expr, n, maxItems)
	}
	return nil
}

// NewHTMLPage creates a page whose response is parsed as an HTML tree.
func NewHTMLPage(name string, opts ...Option) *Page {
	return New(name, append([]Option{WithParser(HTMLParser{})}, opts...)...)
}

// NewHTMLListPage creates a list page that selects homogenous elements
// from an HTML tree with the given selector.
func NewHTMLListPage(name string, selector CSS, opts ...Option) *Page {
	return New(name, append([]Option{
		WithParser(HTMLParser{}),
		WithItems(selector),
	}, opts...)...)
}
