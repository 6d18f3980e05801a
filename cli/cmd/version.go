package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/ardnew/lox/log"
	"github.com/ardnew/lox/pkg"
)

// Version prints the version of lox, or checks it against a constraint.
type Version struct {
	Satisfies string `help:"Exit with an error unless the version satisfies this constraint (e.g. \">= 1.2, < 2\")" placeholder:"CONSTRAINT"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	streams := streamsFrom(ctx)

	if v.Satisfies == "" {
		_, err := fmt.Fprintln(streams.Out, pkg.Version())

		return err
	}

	constraint, err := semver.NewConstraint(v.Satisfies)
	if err != nil {
		return pkg.ErrVersionConstraint.Wrapf("%q: %w", v.Satisfies, err)
	}

	ok, errs := constraint.Validate(pkg.SemVer())

	log.DebugContext(ctx, "version constraint",
		slog.String("version", pkg.Version()),
		slog.String("constraint", v.Satisfies),
		slog.Bool("satisfied", ok),
	)

	if !ok {
		return pkg.ErrVersionConstraint.Wrap(errs...)
	}

	return nil
}
