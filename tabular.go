package spatula

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CSVParser decodes the response body as delimited text. The header row
// is consumed up front; the remaining text is kept so candidates can be
// re-derived on every extraction without refetching. The typed view is
// *CSVView.
type CSVParser struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// CSVView is the typed view of a delimited-text page: the header row
// plus the undecoded remainder of the body.
type CSVView struct {
	// Header holds the column names from the first row.
	Header []string

	rest  string
	comma rune
}

// Parse reads the header row and stores the rest of the decoded text.
func (c CSVParser) Parse(_ *URL, resp *Response) (any, error) {
	text := resp.Text()
	r := csv.NewReader(strings.NewReader(text))
	if c.Comma != 0 {
		r.Comma = c.Comma
	}
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read delimited header row: %w", err)
	}
	return &CSVView{
		Header: header,
		rest:   text[r.InputOffset():],
		comma:  c.Comma,
	}, nil
}

// CSVRows yields one record per data row of a delimited-text view, as a
// map from column name to cell value. The header row is never yielded.
// Rows with fewer cells than the header simply omit the missing keys.
type CSVRows struct{}

// Items builds a fresh row reader over the stored text, so repeated
// extraction replays the same rows.
func (CSVRows) Items(view any) (iter.Seq2[any, error], error) {
	v, ok := view.(*CSVView)
	if !ok {
		return nil, fmt.Errorf("csv rows require a delimited-text view, got %T", view)
	}
	return func(yield func(any, error) bool) {
		r := csv.NewReader(strings.NewReader(v.rest))
		if v.comma != 0 {
			r.Comma = v.comma
		}
		r.FieldsPerRecord = -1
		for {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			row := make(map[string]string, len(v.Header))
			for i, key := range v.Header {
				if i < len(rec) {
					row[key] = rec[i]
				}
			}
			if !yield(row, nil) {
				return
			}
		}
	}, nil
}

// NewCSVListPage creates a list page over the data rows of a delimited
// response. The first row is treated as the header.
func NewCSVListPage(name string, comma rune, opts ...Option) *Page {
	return New(name, append([]Option{
		WithParser(CSVParser{Comma: comma}),
		WithItems(CSVRows{}),
	}, opts...)...)
}

// ExcelParser opens the response body as a spreadsheet workbook. The
// typed view is *ExcelView over one worksheet.
type ExcelParser struct {
	// Sheet selects the worksheet by name. Empty means the workbook's
	// active sheet.
	Sheet string
}

// ExcelView is the typed view of a spreadsheet page.
type ExcelView struct {
	// File is the open workbook.
	File *excelize.File

	// Sheet is the worksheet candidates are read from.
	Sheet string
}

// Parse opens the workbook and resolves the worksheet name.
func (e ExcelParser) Parse(_ *URL, resp *Response) (any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	sheet := e.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	return &ExcelView{File: f, Sheet: sheet}, nil
}

// ExcelRows yields one []string of cell values per row of the
// worksheet. Each extraction opens a fresh row iterator, so repeated
// extraction replays the same rows.
type ExcelRows struct{}

// Items streams the worksheet's rows lazily.
func (ExcelRows) Items(view any) (iter.Seq2[any, error], error) {
	v, ok := view.(*ExcelView)
	if !ok {
		return nil, fmt.Errorf("spreadsheet rows require a workbook view, got %T", view)
	}
	return func(yield func(any, error) bool) {
		rows, err := v.File.Rows(v.Sheet)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(cols, nil) {
				return
			}
		}
		if err := rows.Error(); err != nil {
			yield(nil, err)
		}
	}, nil
}

// NewExcelListPage creates a list page over the rows of a spreadsheet
// response. An empty sheet name means the workbook's active sheet.
func NewExcelListPage(name, sheet string, opts ...Option) *Page {
	return New(name, append([]Option{
		WithParser(ExcelParser{Sheet: sheet}),
		WithItems(ExcelRows{}),
	}, opts...)...)
}
