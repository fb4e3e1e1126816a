package spatula

import (
	"errors"
	"os"
	"os/exec"
)

// defaultTextTool is the external executable used for text extraction.
const defaultTextTool = "pdftotext"

// TextExtractor converts a binary response (PDF) to UTF-8 text by
// invoking an external executable on a temporary file. The typed view
// is the extracted string.
//
// Failure to invoke the tool, or a run that produces no output, is a
// fatal environment error, not a retryable condition: the machine is
// missing a required executable.
type TextExtractor struct {
	// PreserveLayout selects the tool's -layout mode, which attempts
	// to keep the physical layout of the text.
	PreserveLayout bool

	// Tool overrides the executable name. Empty means pdftotext.
	Tool string

	// Run overrides command execution. Tests inject a stub here so
	// they never depend on the executable being installed.
	Run func(name string, args ...string) ([]byte, error)
}

// Parse writes the response body to a temporary file, runs the tool on
// it, and returns the extracted text. The temporary file is removed on
// every exit path.
func (t TextExtractor) Parse(_ *URL, resp *Response) (any, error) {
	tool := t.Tool
	if tool == "" {
		tool = defaultTextTool
	}

	tmp, err := os.CreateTemp("", "spatula-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(resp.Body); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	args := []string{tmp.Name(), "-"}
	if t.PreserveLayout {
		args = append([]string{"-layout"}, args...)
	}

	run := t.Run
	if run == nil {
		run = func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		}
	}
	out, err := run(tool, args...)
	if err != nil {
		return nil, &ExtractorEnvError{Tool: tool, Err: err}
	}
	if len(out) == 0 {
		return nil, &ExtractorEnvError{Tool: tool, Err: errors.New("no output on stdout")}
	}
	return string(out), nil
}

// NewTextPage creates a page whose binary response is converted to text
// through the external extraction tool.
func NewTextPage(name string, preserveLayout bool, opts ...Option) *Page {
	return New(name, append([]Option{
		WithParser(TextExtractor{PreserveLayout: preserveLayout}),
	}, opts...)...)
}
