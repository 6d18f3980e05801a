// Package cli contains the command line interface for lox.
//
// # Usage
//
// Scripts are run by the default command. With no files and a terminal on
// stdin, an interactive session starts instead:
//
//	lox script.lox
//	lox run --watch -D name='env("USER")' script.lox
//	echo 'print 1 + 2;' | lox
//
// Other commands inspect a script without running it:
//
//	lox tokens --format=json script.lox
//	lox fmt sexpr script.lox
//	lox eval '1 + 2 * 3'
//
// # Configuration Loader
//
// Flag defaults are read from the YAML file ~/.config/lox/config.yaml (see
// [resolve]) and then from config.json in the same directory. Command-line
// flags take precedence over both. The "lox init" command writes the current
// flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lox .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/lox/pprof)
package cli
