// Package profile records runtime profiles of the lox interpreter with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag [Modes] is empty and [Settings.Start] does nothing, so
// callers need no build constraints of their own.
//
// # Modes
//
//   - allocs:    all memory allocations
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time (fgprof)
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       sampled memory allocations
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Settings{Mode: "cpu", Dir: dir}.Start()
//	defer stop.Stop()
//
// From the command line, profile a script with:
//
//	lox --pprof-mode cpu run fib.lox
//	go tool pprof -http=: ~/.cache/lox/pprof/cpu.pprof
//
// The profile is named after its kind (cpu.pprof, mem.pprof, trace.out) and
// written to --pprof-dir, which defaults to the pprof directory under the
// lox cache directory.
package profile
