package spatula

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/antchfx/xmlquery"
)

// XMLParser parses the response body as an XML tree. Unlike HTMLParser
// it performs no link rewriting. The typed view is *xmlquery.Node.
type XMLParser struct{}

// Parse builds the XML tree from the response body.
func (XMLParser) Parse(_ *URL, resp *Response) (any, error) {
	return xmlquery.Parse(bytes.NewReader(resp.Body))
}

// XPath matches nodes of an XML view against an XPath expression and
// yields each match as a *xmlquery.Node. It is the item source of XML
// list pages.
type XPath struct {
	// Expr is the XPath expression.
	Expr string

	// MinItems, when positive, is the smallest acceptable match count.
	MinItems int

	// MaxItems, when positive, is the largest acceptable match count.
	MaxItems int
}

// Items matches the expression against the XML view. A missing
// expression is an incomplete page definition; a match count outside
// the declared bounds is an error.
func (x XPath) Items(view any) (iter.Seq2[any, error], error) {
	if x.Expr == "" {
		return nil, &ContractError{Missing: "an XPath expression or a custom extraction hook"}
	}
	root, ok := view.(*xmlquery.Node)
	if !ok {
		return nil, fmt.Errorf("xpath %q requires an XML view, got %T", x.Expr, view)
	}
	nodes, err := xmlquery.QueryAll(root, x.Expr)
	if err != nil {
		return nil, err
	}
	if err := checkMatchCount(x.Expr, len(nodes), x.MinItems, x.MaxItems); err != nil {
		return nil, err
	}
	return func(yield func(any, error) bool) {
		for _, node := range nodes {
			if !yield(node, nil) {
				return
			}
		}
	}, nil
}

// NewXMLPage creates a page whose response is parsed as an XML tree.
func NewXMLPage(name string, opts ...Option) *Page {
	return New(name, append([]Option{WithParser(XMLParser{})}, opts...)...)
}

// NewXMLListPage creates a list page that selects homogenous nodes from
// an XML tree with the given XPath expression.
func NewXMLListPage(name string, selector XPath, opts ...Option) *Page {
	return New(name, append([]Option{
		WithParser(XMLParser{}),
		WithItems(selector),
	}, opts...)...)
}
