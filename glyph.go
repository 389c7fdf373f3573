// Package glyph transforms SVG documents into functional component
// modules at build time. The root package is the pipeline entry
// point: it resolves per-file configuration, runs the transform
// engine and reports the outcome through a completion callback.
package glyph

import (
	"errors"
	"log/slog"

	"github.com/3-lines-studio/glyph/internal/markup"
	"github.com/3-lines-studio/glyph/internal/optimize"
	"github.com/3-lines-studio/glyph/internal/query"
	"github.com/3-lines-studio/glyph/internal/transform"
)

// ErrTransformFailed is the only error the completion callback ever
// carries. The failing detail is logged, not forwarded; the host just
// learns that this file did not transform.
var ErrTransformFailed = errors.New("glyph: transform failed")

// CompleteFunc receives the outcome of one Load call. It is invoked
// exactly once, after the transform has fully run: either with a nil
// error and the generated module source, or with ErrTransformFailed
// and empty source.
type CompleteFunc func(err error, source string)

// Loader is the reusable pipeline stage. It holds no per-file state;
// independent files may be loaded concurrently.
type Loader struct {
	engine *transform.Engine
}

type loaderConfig struct {
	optimizer transform.Optimizer
	compiler  transform.Compiler
}

// Option customizes a Loader.
type Option func(*loaderConfig)

// WithOptimizer substitutes the markup optimizer.
func WithOptimizer(optimizer transform.Optimizer) Option {
	return func(c *loaderConfig) {
		c.optimizer = optimizer
	}
}

// WithCompiler substitutes the markup compiler.
func WithCompiler(compiler transform.Compiler) Option {
	return func(c *loaderConfig) {
		c.compiler = compiler
	}
}

// New creates a Loader wired to the built-in optimizer and compiler
// unless options substitute them.
func New(opts ...Option) *Loader {
	config := loaderConfig{
		optimizer: transform.OptimizerFunc(optimize.Optimize),
		compiler:  transform.CompilerFunc(markup.Compile),
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Loader{
		engine: transform.NewEngine(config.optimizer, config.compiler),
	}
}

// Load transforms one markup document. rawQuery is the per-file
// configuration: a "?"-prefixed query string, an already-parsed
// query.Options, a plain map, or anything else for no options.
//
// done is always invoked exactly once, and no failure escapes past
// this boundary.
func (l *Loader) Load(source string, resourcePath string, rawQuery any, done CompleteFunc) {
	completed := false
	complete := func(err error, code string) {
		if completed {
			return
		}
		completed = true
		done(err, code)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("transform panicked", "path", resourcePath, "panic", r)
			complete(ErrTransformFailed, "")
		}
	}()

	opts, err := resolveOptions(rawQuery, resourcePath)
	if err != nil {
		slog.Debug("invalid loader query", "path", resourcePath, "error", err)
		complete(ErrTransformFailed, "")
		return
	}

	code, err := l.engine.Transform(source, opts)
	if err != nil {
		slog.Debug("transform failed", "path", resourcePath, "error", err)
		complete(ErrTransformFailed, "")
		return
	}

	complete(nil, code)
}

func resolveOptions(rawQuery any, resourcePath string) (transform.Options, error) {
	parsed, err := parseQuery(rawQuery)
	if err != nil {
		return transform.Options{}, err
	}

	opts := transform.Options{SourcePath: resourcePath}

	svgo, ok := parsed["svgo"]
	if !ok {
		return opts, nil
	}

	switch svgo.Kind() {
	case query.KindBool:
		// svgo=false is the explicit opt-out; svgo=true keeps the
		// default behavior.
		opts.SVGODisabled = !svgo.Bool()
	case query.KindRaw:
		if cfg, ok := svgo.Raw().(map[string]any); ok {
			opts.SVGO = optimize.Config(cfg)
		}
	}

	return opts, nil
}

func parseQuery(rawQuery any) (query.Options, error) {
	switch q := rawQuery.(type) {
	case string:
		if q == "" {
			return query.Options{}, nil
		}
		return query.Parse(q)
	case query.Options:
		return q, nil
	case map[string]any:
		opts := make(query.Options, len(q))
		for name, value := range q {
			opts[name] = queryValue(value)
		}
		return opts, nil
	}
	return query.Options{}, nil
}

func queryValue(v any) query.Value {
	switch tv := v.(type) {
	case nil:
		return query.Null()
	case bool:
		return query.Bool(tv)
	case string:
		return query.String(tv)
	}
	return query.Raw(v)
}
