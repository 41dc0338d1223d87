// Package docmerge merges data into Microsoft Word (DOCX) templates. A
// template is an ordinary document containing delimited field tokens
// ({{name}}, {{client.address}}) and optional repeating sections marked
// by paragraphs of the form {{start_items}} ... {{end_items}}, which
// are expanded once per entry of a list-valued context key.
//
// Basic usage:
//
//	tmpl, err := docmerge.LoadFile("template.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data := docmerge.Context{
//	    "name": "Ana",
//	    "items": []map[string]interface{}{
//	        {"label": "A"},
//	        {"label": "B"},
//	    },
//	}
//
//	if err := docmerge.MergeDocument(tmpl.Document, data, nil); err != nil {
//	    log.Fatal(err)
//	}
//	if err := tmpl.SaveFile("output.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// Field names resolve as dotted paths through nested context values.
// Fields with no value are removed by default; pass Options with
// RemoveEmpty false to keep them as literal text instead.
package docmerge

// Engine bundles configuration for repeated merge calls. The zero-cost
// alternative is calling MergeDocument directly with explicit Options.
type Engine struct {
	config *Config
}

// New creates an engine with the global configuration.
func New() *Engine {
	return &Engine{config: GetGlobalConfig()}
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// Option configures an engine.
type Option func(*Engine)

// WithDelimiters sets the field delimiter pair.
func WithDelimiters(openDelim, closeDelim string) Option {
	return func(e *Engine) {
		e.config.OpenDelimiter = openDelim
		e.config.CloseDelimiter = closeDelim
	}
}

// WithRemoveEmpty sets the default remove-empty policy.
func WithRemoveEmpty(remove bool) Option {
	return func(e *Engine) {
		e.config.RemoveEmpty = remove
	}
}

// WithStrictMode makes merges fail on unresolved fields.
func WithStrictMode(strict bool) Option {
	return func(e *Engine) {
		e.config.StrictMode = strict
	}
}

// NewWithOptions creates an engine and applies the given options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Options derives per-call merge options from the engine configuration.
func (e *Engine) Options() *Options {
	return &Options{
		RemoveEmpty: e.config.RemoveEmpty,
		Delimiters:  e.config.Delimiters(),
		Strict:      e.config.StrictMode,
	}
}

// Merge merges data into an already-loaded document tree.
func (e *Engine) Merge(doc *Document, data Context) error {
	return MergeDocument(doc, data, e.Options())
}

// MergeFile loads a template, merges data into it, and writes the
// result to outPath.
func (e *Engine) MergeFile(templatePath, outPath string, data Context) error {
	tmpl, err := LoadFile(templatePath)
	if err != nil {
		return err
	}
	if err := e.Merge(tmpl.Document, data); err != nil {
		return err
	}
	return tmpl.SaveFile(outPath)
}

// MergeFile merges data from a template file into an output file using
// the global configuration.
func MergeFile(templatePath, outPath string, data Context) error {
	return New().MergeFile(templatePath, outPath, data)
}
