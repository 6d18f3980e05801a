// Package cmd implements the lox subcommands: run, eval, repl, tokens, fmt,
// init and version.
//
// Commands read their standard streams from the context (see [WithStreams])
// and the parsed command line from the [kong.Context] stored by
// [WithContext].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by [Init].
	ConfigIdentifier = "config"
)
