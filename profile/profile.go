package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Settings selects a profile and where it is written.
type Settings struct {
	Mode  string // one of [Modes]; empty disables profiling
	Dir   string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log output
}

// Stopper ends a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Start begins profiling as s describes. It returns a no-op [Stopper] when
// Mode is empty or unknown, or when built without the pprof build tag.
//
// The profiler does not install its own interrupt handler. Callers stop it
// when their context is canceled, so the profile is written on Ctrl-C too.
func (s Settings) Start() Stopper {
	if s.Mode == "" {
		return nop{}
	}

	return start(s)
}

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type nop struct{}

func (nop) Stop() {}
