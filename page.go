package spatula

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// ResponseParser turns a fetched Response into a typed view. Concrete
// parsers (HTMLParser, XMLParser, JSONParser, TextExtractor, CSVParser,
// ExcelParser) are values attached to a Page by composition.
//
// The source is passed alongside the response because some parsers need
// the request location (the HTML parser rewrites relative links against
// it). Malformed input propagates the underlying parser's own failure
// untranslated.
type ResponseParser interface {
	Parse(src *URL, resp *Response) (any, error)
}

// ItemSource enumerates raw candidates from a typed view as a lazy,
// finite, one-shot sequence. A mid-iteration failure is delivered as the
// sequence's second value and terminates it.
//
// Items must derive a fresh sequence from the view on every call, so a
// page can be extracted repeatedly without refetching.
type ItemSource interface {
	Items(view any) (iter.Seq2[any, error], error)
}

// ItemFunc is the per-item transform hook of a list page. It returns the
// transformed item, or an error; returning Skip(reason) drops the
// candidate without aborting the page, while any other error is fatal to
// the whole extraction.
type ItemFunc func(item any) (any, error)

// Dependency declares a named sub-page whose fully extracted result is
// bound to the owning page before the owner fetches. Exactly one of New
// or Page must be set: New materializes a fresh instance per owning page
// (sharing the owner's input), Page reuses a pre-built instance as-is.
type Dependency struct {
	// Name is the field name the dependency's result is bound under.
	Name string

	// New constructs a fresh dependency page from the owner's input.
	New func(input any) *Page

	// Page is a pre-built dependency instance.
	Page *Page
}

// Page is the lifecycle orchestrator: it owns an input value, a Source,
// the Response once fetched, named sub-page dependencies, and the
// parser/extraction capabilities its definition supplies.
//
// A Page is configured once through functional options and then driven
// by Prepare and Extract. It is not safe for concurrent use; build one
// Page tree per logical unit of work.
type Page struct {
	// name identifies the page in logs and errors, and is the key the
	// registry and harness use.
	name string

	// input is the caller-supplied value, immutable after construction.
	input any

	// source describes where to fetch from. It may be set at
	// construction, overridden later, or derived lazily from input.
	source Source

	// parser builds the typed view from the response. Nil means no
	// post-processing.
	parser ResponseParser

	// items enumerates raw candidates for list pages. Nil for scalar
	// pages.
	items ItemSource

	// processItem is the per-item hook. Nil means identity.
	processItem ItemFunc

	// process is the scalar extraction hook. When set it takes
	// precedence over item streaming.
	process func(*Page) (any, error)

	// sourceFunc derives a Source from input when none was declared.
	sourceFunc func(input any) (Source, error)

	// errorHook runs on transport failure. A nil return means the
	// failure was handled; a non-nil return replaces it.
	errorHook func(error) error

	// nextSource names the source of the following page for paginated
	// listings, or nil when there is none.
	nextSource func(*Page) Source

	// deps are resolved in declaration order before the page's own
	// fetch. Order is observable, so this is a slice, never a map.
	deps []Dependency

	// exampleInput and exampleSource are development-time declarations
	// consumed by the test harness. The lifecycle never reads them.
	exampleInput  any
	exampleSource Source

	logger *slog.Logger

	// response is set by at most one fetch attempt per Prepare.
	response *Response

	// view is the typed representation built by the parser.
	view any

	// depResults holds extracted dependency results keyed by name.
	depResults map[string]any
}

// Option configures a Page.
type Option func(*Page)

// WithInput sets the caller-supplied input value.
func WithInput(input any) Option {
	return func(p *Page) { p.input = input }
}

// WithSource sets the page's source.
func WithSource(src Source) Option {
	return func(p *Page) { p.source = src }
}

// WithSourceString sets the page's source from a literal location.
func WithSourceString(location string) Option {
	return func(p *Page) { p.source = Literal(location) }
}

// WithSourceFunc sets the hook that derives a Source from the page's
// input when no source was declared.
func WithSourceFunc(fn func(input any) (Source, error)) Option {
	return func(p *Page) { p.sourceFunc = fn }
}

// WithParser sets the response parser.
func WithParser(parser ResponseParser) Option {
	return func(p *Page) { p.parser = parser }
}

// WithItems sets the item source, making this a list page.
func WithItems(items ItemSource) Option {
	return func(p *Page) { p.items = items }
}

// WithProcessItem sets the per-item hook of a list page.
func WithProcessItem(fn ItemFunc) Option {
	return func(p *Page) { p.processItem = fn }
}

// WithProcess sets the scalar extraction hook.
func WithProcess(fn func(*Page) (any, error)) Option {
	return func(p *Page) { p.process = fn }
}

// WithErrorHook sets the hook invoked on transport failure. Returning
// nil marks the failure handled (Prepare then fails with a HandledError
// wrapping the original cause); returning an error propagates that
// error instead.
func WithErrorHook(fn func(error) error) Option {
	return func(p *Page) { p.errorHook = fn }
}

// WithDependencies declares the page's dependencies. Declaration order
// is preserved: dependencies fetch in exactly this order.
func WithDependencies(deps ...Dependency) Option {
	return func(p *Page) { p.deps = append(p.deps, deps...) }
}

// WithNextSource sets the pagination hook. It is consulted after
// extraction by drivers that walk paginated listings; a nil result
// means there is no further page.
func WithNextSource(fn func(*Page) Source) Option {
	return func(p *Page) { p.nextSource = fn }
}

// WithExample declares a development-time example input and source for
// the external test harness. The lifecycle itself ignores both.
func WithExample(input any, src Source) Option {
	return func(p *Page) {
		p.exampleInput = input
		p.exampleSource = src
	}
}

// WithLogger sets a custom logger. If not set, slog.Default is used
// with a "page" attribute.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) { p.logger = logger }
}

// New creates a Page with the given name and options.
func New(name string, opts ...Option) *Page {
	p := &Page{
		name:       name,
		depResults: make(map[string]any),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default().With("page", name)
	}
	return p
}

// Name returns the page's name.
func (p *Page) Name() string { return p.name }

// Input returns the caller-supplied input value.
func (p *Page) Input() any { return p.input }

// Source returns the page's current source, or nil if unset.
func (p *Page) Source() Source { return p.source }

// SetSource overrides the page's source. This is useful during
// development to point a page definition at a different location.
func (p *Page) SetSource(src Source) { p.source = src }

// Response returns the fetched response, or nil before Prepare.
func (p *Page) Response() *Response { return p.response }

// View returns the typed view built by the parser, or nil.
func (p *Page) View() any { return p.view }

// Dep returns the extracted result of the named dependency, or nil if
// no such dependency was resolved.
func (p *Page) Dep(name string) any { return p.depResults[name] }

// Example returns the page's example input and source declarations.
func (p *Page) Example() (any, Source) { return p.exampleInput, p.exampleSource }

// ApplyExample fills the page's input and source (where unset) from its
// example declarations. Harness use only; it must run before Prepare.
func (p *Page) ApplyExample() {
	if p.input == nil {
		p.input = p.exampleInput
	}
	if p.source == nil {
		p.source = p.exampleSource
	}
}

// NextSource returns the source of the following page for paginated
// listings, or nil when there is none. Meaningful only after Prepare.
func (p *Page) NextSource() Source {
	if p.nextSource == nil {
		return nil
	}
	return p.nextSource(p)
}

// String renders the page for logs and diagnostics.
func (p *Page) String() string {
	var b strings.Builder
	b.WriteString(p.name)
	b.WriteString("(")
	if p.input != nil {
		fmt.Fprintf(&b, "input=%v", p.input)
	}
	if p.source != nil {
		if p.input != nil {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "source=%v", p.source)
	}
	b.WriteString(")")
	return b.String()
}

// Prepare runs the page lifecycle: it resolves dependencies depth-first
// in declaration order, resolves and normalizes the source, executes
// the fetch through the injected client, and dispatches the response to
// the page's parser.
//
// Prepare is not idempotent: calling it again resolves and fetches
// again. Within one call the fetch runs at most once, and the response
// is never populated when source resolution or the fetch fails.
func (p *Page) Prepare(ctx context.Context, client Fetcher) error {
	// Dependencies resolve fully, through their own extraction, before
	// this page's fetch begins.
	for _, dep := range p.deps {
		inst := dep.Page
		if inst == nil {
			if dep.New == nil {
				return &ContractError{
					Page:    p.name,
					Missing: fmt.Sprintf("a factory or instance for dependency %q", dep.Name),
				}
			}
			inst = dep.New(p.input)
		}
		if err := inst.Prepare(ctx, client); err != nil {
			return fmt.Errorf("dependency %q: %w", dep.Name, err)
		}
		result, err := inst.Extract()
		if err != nil {
			return fmt.Errorf("dependency %q: %w", dep.Name, err)
		}
		p.depResults[dep.Name] = result
	}

	if p.source == nil {
		if p.sourceFunc == nil {
			return &MissingSourceError{Page: p.name}
		}
		src, err := p.sourceFunc(p.input)
		if err != nil {
			return fmt.Errorf("derive source for page %q: %w", p.name, err)
		}
		if src == nil {
			return &MissingSourceError{Page: p.name}
		}
		p.source = src
	}

	// From here on the source is always the structured case.
	src := p.source.Normalize()
	p.source = src

	p.logger.Info("fetching", "url", src.URL, "method", src.Method)
	resp, err := src.GetResponse(ctx, client)
	if err != nil {
		if p.errorHook == nil {
			return err
		}
		if herr := p.errorHook(err); herr != nil {
			return herr
		}
		return &HandledError{Err: err}
	}
	p.response = resp
	if resp.FromCache {
		p.logger.Debug("retrieved from cache", "url", src.URL)
	}

	if p.parser != nil {
		view, err := p.parser.Parse(src, resp)
		if err != nil {
			return err
		}
		p.view = view
	}
	return nil
}

// Extract returns the page's result. A scalar extraction hook takes
// precedence; otherwise a list page returns its item stream as an
// iter.Seq2[any, error]. A page with neither is an incomplete
// definition.
//
// Extraction never refetches: repeated calls re-derive candidates from
// the stored typed view.
func (p *Page) Extract() (any, error) {
	if p.process != nil {
		return p.process(p)
	}
	if p.items != nil {
		return p.stream()
	}
	return nil, &ContractError{Page: p.name, Missing: "a Process hook or an item source"}
}

// Stream returns the lazy item sequence of a list page. Each call
// derives a fresh sequence from the stored typed view; the sequence
// itself is one-shot and must be consumed at most once.
func (p *Page) Stream() (iter.Seq2[any, error], error) {
	if p.items == nil {
		return nil, &ContractError{Page: p.name, Missing: "an item source"}
	}
	return p.stream()
}

// stream builds the item sequence: every candidate from the item source
// passes through the per-item hook, skips are dropped in place, and the
// first fatal error terminates the sequence.
func (p *Page) stream() (iter.Seq2[any, error], error) {
	candidates, err := p.items.Items(p.view)
	if err != nil {
		return nil, err
	}
	process := p.processItem
	if process == nil {
		process = func(item any) (any, error) { return item, nil }
	}
	return func(yield func(any, error) bool) {
		for item, err := range candidates {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := process(item)
			if err != nil {
				if skip, ok := asSkip(err); ok {
					p.logger.Debug("skipping item", "reason", skip.Reason)
					continue
				}
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}, nil
}
