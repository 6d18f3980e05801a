package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
)

// Define binds a global name to an expression evaluated by the host before
// a program runs, as in "lox run -D home='env(\"HOME\")' script.lox".
//
// Define expressions use the expr-lang language, not lox. Besides the
// built-in environment (see [BuiltinNames]) they may refer to the names of
// earlier defines. A result must be a number, string, bool, nil or a
// [fmt.Stringer]; "platform" and "target" bind as "os/arch" text.
type Define struct {
	Name   string
	Source string
}

// ParseDefine splits "name=expression". The name must be a valid lox
// identifier that is not a keyword, and the expression must not be empty.
func ParseDefine(s string) (Define, error) {
	name, source, ok := strings.Cut(s, "=")

	d := Define{
		Name:   strings.TrimSpace(name),
		Source: strings.TrimSpace(source),
	}

	switch {
	case !ok:
		return Define{}, ErrInvalidDefine.Wrapf("missing '=' in %q", s)
	case !isIdentifier(d.Name):
		return Define{}, ErrInvalidDefine.Wrapf("invalid name %q", d.Name)
	case d.Source == "":
		return Define{}, ErrInvalidDefine.Wrapf("empty expression for %q", d.Name)
	}

	return d, nil
}

// String returns the "name=expression" form accepted by [ParseDefine].
func (d Define) String() string { return d.Name + "=" + d.Source }

// UnmarshalText implements encoding.TextUnmarshaler using [ParseDefine].
func (d *Define) UnmarshalText(text []byte) error {
	v, err := ParseDefine(string(text))
	if err != nil {
		return err
	}

	*d = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Define) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// EvalDefines compiles and runs each define in order with expr-lang and
// converts the results to values suitable for [WithGlobals]. A later define
// with the same name replaces an earlier one.
func EvalDefines(
	ctx context.Context,
	defs []Define,
	opts ...Option,
) (map[string]Value, error) {
	o := makeOptions(opts...)
	env := builtinEnv(o.processEnv)
	globals := make(map[string]Value, len(defs))

	for _, d := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attrs := []slog.Attr{
			slog.String("name", d.Name),
			slog.String("source", d.Source),
		}

		program, err := expr.Compile(d.Source, expr.Env(env))
		if err != nil {
			return nil, ErrExprCompile.Wrap(err).With(attrs...)
		}

		out, err := expr.Run(program, env)
		if err != nil {
			return nil, ErrExprEvaluate.Wrap(err).With(attrs...)
		}

		v, err := FromNative(out)
		if err != nil {
			return nil, WrapError(err).With(attrs...)
		}

		globals[d.Name] = v
		env[d.Name] = Native(v)

		o.logger.TraceContext(ctx, "define",
			append(attrs, slog.String("value", v.String()))...,
		)
	}

	return globals, nil
}

func isIdentifier(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isAlphaNumeric(s[i]) {
			return false
		}
	}

	_, reserved := keywords[s]

	return !reserved
}
