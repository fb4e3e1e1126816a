// Package spatula is a page-processing framework for structured data
// extraction. A Page declares where a resource comes from, how the raw
// response becomes a typed in-memory view, and how domain items are
// extracted from that view.
//
// # Architecture
//
// The framework is built from small capabilities attached to a Page by
// composition rather than inheritance:
//
//   - Source: an abstract description of how to obtain a resource
//     (Literal string or structured URL), normalized before use
//   - Fetcher: the injected client that executes a Source's request
//   - ResponseParser: turns a fetched Response into a typed view
//     (HTML tree, XML tree, decoded JSON, extracted text, tabular data)
//   - ItemSource: turns a typed view into a lazy sequence of raw
//     candidates (CSS/XPath matches, CSV records, spreadsheet rows,
//     JSON array elements)
//
// A Page owns the lifecycle: dependencies are resolved depth-first in
// declaration order, the source is resolved and normalized, the fetch
// runs exactly once per Prepare, and the parser builds the typed view.
// List pages then stream items through a per-item hook that may skip
// individual candidates without aborting the page.
//
// # Usage
//
//	people := spatula.NewHTMLListPage("PersonList",
//		spatula.CSS{Selector: "table.people tbody tr"},
//		spatula.WithSourceString("https://example.com/people"),
//		spatula.WithProcessItem(func(item any) (any, error) {
//			row := item.(*goquery.Selection)
//			name := strings.TrimSpace(row.Find("td").First().Text())
//			if name == "" {
//				return nil, spatula.Skip("empty name cell")
//			}
//			return name, nil
//		}),
//	)
//
//	client := fetch.New()
//	if err := people.Prepare(ctx, client); err != nil {
//		return err
//	}
//	items, err := people.Stream()
//
// # Concurrency
//
// The core is synchronous and single-threaded. Each Page instance owns
// its mutable state without synchronization; use one Page tree per
// logical unit of work and do not share instances across goroutines.
package spatula
