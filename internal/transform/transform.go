// Package transform orchestrates one markup-to-component pass:
// optimize, compile, generate.
package transform

import (
	"github.com/3-lines-studio/glyph/internal/codegen"
	"github.com/3-lines-studio/glyph/internal/markup"
	"github.com/3-lines-studio/glyph/internal/optimize"
)

// Optimizer rewrites markup text before compilation. Any compliant
// implementation can be substituted for the built-in one.
type Optimizer interface {
	Optimize(text string, cfg optimize.Config) (string, error)
}

// OptimizerFunc adapts a plain function to Optimizer.
type OptimizerFunc func(text string, cfg optimize.Config) (string, error)

func (f OptimizerFunc) Optimize(text string, cfg optimize.Config) (string, error) {
	return f(text, cfg)
}

// Compiler turns markup text into a node tree.
type Compiler interface {
	Compile(text string, stripWhitespace bool) (*markup.Node, error)
}

// CompilerFunc adapts a plain function to Compiler.
type CompilerFunc func(text string, stripWhitespace bool) (*markup.Node, error)

func (f CompilerFunc) Compile(text string, stripWhitespace bool) (*markup.Node, error) {
	return f(text, stripWhitespace)
}

// Options configure one Transform call. SVGODisabled is an explicit
// opt-out: the zero value still runs the optimizer, with a nil config.
type Options struct {
	SVGO         optimize.Config
	SVGODisabled bool
	SourcePath   string
}

// Engine runs transforms against a fixed pair of collaborators. It is
// stateless across calls; one Engine may serve concurrent transforms.
type Engine struct {
	optimizer Optimizer
	compiler  Compiler
}

func NewEngine(optimizer Optimizer, compiler Compiler) *Engine {
	return &Engine{optimizer: optimizer, compiler: compiler}
}

// Transform turns markup text into component module source. Errors
// from the optimizer and compiler propagate unmodified.
func (e *Engine) Transform(markupText string, opts Options) (string, error) {
	if !opts.SVGODisabled {
		cfg := opts.SVGO
		if opts.SourcePath != "" {
			cfg = cfg.Merge(optimize.Config{"path": opts.SourcePath})
		}
		optimized, err := e.optimizer.Optimize(markupText, cfg)
		if err != nil {
			return "", err
		}
		markupText = optimized
	}

	root, err := e.compiler.Compile(markupText, true)
	if err != nil {
		return "", err
	}

	return codegen.RenderModule(root)
}
