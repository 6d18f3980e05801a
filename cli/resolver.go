package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lox/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is a flat mapping from flag name to value:
//   - Keys are long flag names without the leading dashes. Hyphens may be
//     written as underscores (e.g., "log_level" for --log-level)
//   - Scalars are passed to kong as text
//   - Sequences are passed as lists, as for repeated flags
//
// Example config file:
//
//	log-level: debug
//	log-format: text
//	log-pretty: false
//	define:
//	  - home=env("HOME")
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)

	switch {
	case errors.Is(err, io.EOF):
		return config{}, nil

	case err != nil:
		log.Warn("ignoring invalid configuration file",
			slog.String("error", err.Error()),
		)

		return config{}, nil
	}

	return makeConfig(doc), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// makeConfig converts decoded YAML values to the text form kong parses.
func makeConfig(doc map[string]any) config {
	c := make(config, len(doc))

	for key, value := range doc {
		if v, ok := flagText(value); ok {
			c[strings.ReplaceAll(key, "_", "-")] = v
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Keys were normalized to hyphens when loaded.
	if value, ok := r[strings.ReplaceAll(flag.Name, "_", "-")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagText converts a YAML value to the value kong receives. Booleans and
// strings are kept as is, numbers become text and sequences are converted
// element by element.
func flagText(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case bool, string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		items := make([]any, 0, len(v))

		for _, item := range v {
			if s, ok := flagText(item); ok {
				items = append(items, s)
			}
		}

		return items, true
	default:
		return fmt.Sprint(v), true
	}
}
