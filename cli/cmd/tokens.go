package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/pkg"
)

// Tokens prints the tokens of a script.
type Tokens struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (text, json, yaml)" short:"f"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the tokens command. Tokens are printed even when the lexer
// reports errors, which are then returned.
func (t *Tokens) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	streams := streamsFrom(ctx)

	source, err := readSource(t.Source, streams.In)
	if err != nil {
		return err
	}

	tokens, lexErr := lang.Scan(source)

	switch t.Format {
	case "json":
		err = lang.FormatTokensJSON(streams.Out, tokens, t.Indent)
		if err != nil {
			err = pkg.ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		err = lang.FormatTokensYAML(streams.Out, tokens, t.Indent)
		if err != nil {
			err = pkg.ErrYAMLMarshal.Wrap(err)
		}

	case "text":
		err = lang.FormatTokensText(streams.Out, tokens)

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid: text, json, yaml)", t.Format)
	}

	if lexErr != nil {
		return ErrScan.Wrap(errors.Join(lexErr, err)).
			With(slog.String("source", t.Source))
	}

	return err
}
