package lang

import (
	"maps"

	"github.com/ardnew/lox/log"
)

// DefaultMaxDepth is the default limit on syntactic nesting (parentheses,
// prefix operators, assignments and blocks) accepted by the parser.
const DefaultMaxDepth = 256

// DefaultMaxEvalDepth is the default limit on evaluator recursion. Long
// operator chains parse iteratively but evaluate recursively, so this limit
// is much larger than [DefaultMaxDepth].
const DefaultMaxEvalDepth = 1 << 14

// options holds the configuration shared by the parser, the interpreter and
// the run pipeline.
type options struct {
	globals      map[string]Value
	logger       log.Logger
	processEnv   []string
	maxDepth     int
	maxEvalDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithMaxDepth sets the maximum syntactic nesting depth. Values below 1
// restore [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithMaxEvalDepth sets the maximum evaluator recursion depth. Values below 1
// restore [DefaultMaxEvalDepth].
func WithMaxEvalDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxEvalDepth
		}

		o.maxEvalDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGlobals predefines bindings in the root scope of a new interpreter.
// Later options add to, and may overwrite, earlier ones.
func WithGlobals(globals map[string]Value) Option {
	return func(o *options) {
		if o.globals == nil {
			o.globals = make(map[string]Value, len(globals))
		}

		maps.Copy(o.globals, globals)
	}
}

// WithProcessEnv sets the variables visible to the env() builtin of define
// expressions, as "KEY=VALUE" strings. If nil, os.Environ() is used.
func WithProcessEnv(env []string) Option {
	return func(o *options) {
		o.processEnv = env
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		maxDepth:     DefaultMaxDepth,
		maxEvalDepth: DefaultMaxEvalDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
