//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes_Supported(t *testing.T) {
	for _, mode := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(Modes(), mode) {
			t.Errorf("Modes() = %v, missing %q", Modes(), mode)
		}
	}
}

func TestSettingsStart_WritesProfile(t *testing.T) {
	dir := t.TempDir()

	Settings{Mode: "heap", Dir: dir, Quiet: true}.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Errorf("profile not written: %v", err)
	}
}
