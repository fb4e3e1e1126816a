// Package report renders the results of running a page — the extracted
// item sequence plus fetch metadata — in JSON or Markdown.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-destination output.
package report

import (
	"io"
	"time"
)

// Result is one page run: the page identity, where it fetched from, and
// the materialized items it extracted.
type Result struct {
	// Page is the page name.
	Page string `json:"page"`

	// Source is the resolved request description.
	Source string `json:"source"`

	// FromCache reports whether the response came from the client's
	// cache.
	FromCache bool `json:"from_cache"`

	// ScrapedAt is when the run finished.
	ScrapedAt time.Time `json:"scraped_at"`

	// Items are the extracted items, in extraction order.
	Items []any `json:"items"`
}

// Writer outputs a Result in some format.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// both with the same API.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *Result) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, useful for
// outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers. Returns the total
// bytes written; stops on the first error encountered.
func (m *MultiWriter) Write(result *Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
