package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/pkg"
)

// Fmt parses a script and prints it in the chosen format.
type Fmt struct {
	Source SourceFmt `cmd:"" default:"withargs" help:"Format as lox source (default)."`
	SExpr  SExpr     `cmd:"" name:"sexpr"       help:"Format as S-expressions."`
	JSON   JSON      `cmd:""                    help:"Format syntax tree as JSON."`
	YAML   YAML      `cmd:""                    help:"Format syntax tree as YAML."`
}

// FmtInput names the script read by every fmt subcommand.
type FmtInput struct {
	MaxDepth int `default:"256" help:"Maximum syntactic nesting depth"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// parse reads and parses the script. Programs with diagnostics are not
// formatted.
func (in *FmtInput) parse(ctx context.Context, format string) (*lang.Program, error) {
	streams := streamsFrom(ctx)

	srcs, err := openSources([]string{in.Source}, streams.In)
	defer func() { _ = closeSources(srcs) }()

	if err != nil {
		return nil, err
	}

	var program *lang.Program

	for _, src := range srcs {
		program, err = lang.ParseReader(ctx, src, lang.WithMaxDepth(in.MaxDepth))
		if err != nil {
			return nil, ErrParse.Wrap(err).
				With(slog.String("source", src.name), slog.String("format", format))
		}
	}

	return program, nil
}

// SourceFmt formats input as canonical lox source.
type SourceFmt struct {
	FmtInput `embed:""`

	Indent int `default:"2" help:"Indent width for block statements" short:"i"`
}

// Run executes the fmt source command.
func (f *SourceFmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := f.parse(ctx, "source")
	if err != nil {
		return err
	}

	return program.Format(ctx, streamsFrom(ctx).Out, f.Indent)
}

// SExpr formats input as one S-expression per statement.
type SExpr struct {
	FmtInput `embed:""`
}

// Run executes the fmt sexpr command.
func (s *SExpr) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := s.parse(ctx, "sexpr")
	if err != nil {
		return err
	}

	return program.FormatSExpr(ctx, streamsFrom(ctx).Out)
}

// JSON reads input, parses it, and outputs the syntax tree as JSON.
type JSON struct {
	FmtInput `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := program.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent); err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML reads input, parses it, and outputs the syntax tree as YAML.
type YAML struct {
	FmtInput `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := program.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent); err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	return nil
}
