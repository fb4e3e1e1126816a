package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs results as indented JSON, one document per result.
// This format is designed for piping into other tools.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result as a JSON document.
func (w *JSONWriter) Write(result *Result) (int, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
