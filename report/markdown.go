package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs results in Markdown format, designed for
// sharing and documentation during scraper development.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format: a summary table followed
// by one JSON code block per item.
func (w *MarkdownWriter) Write(result *Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(result.Page)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + result.Source + "`"},
			{"Scraped At", result.ScrapedAt.Format("2006-01-02 15:04:05 MST")},
			{"From Cache", strconv.FormatBool(result.FromCache)},
			{"Items", strconv.Itoa(len(result.Items))},
		},
	})
	md.PlainText("")

	for i, item := range result.Items {
		md.H2(fmt.Sprintf("Item %d", i+1))
		md.CodeBlocks(markdown.SyntaxHighlightJSON, renderItem(item))
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// renderItem renders one extracted item as indented JSON, falling back
// to fmt formatting for values JSON cannot represent.
func renderItem(item any) string {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", item)
	}
	return string(data)
}
