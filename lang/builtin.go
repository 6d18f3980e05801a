package lang

// This file defines the built-in environment available to define
// expressions evaluated by expr-lang. The static part is initialized once
// per process and cloned on every use so callers may add bindings without
// affecting the shared copy.

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// target holds string identifiers for an operating system and instruction
// set architecture.
type target struct {
	OS   string
	Arch string
}

// String returns "os/arch", the text a define receives when it binds a
// whole target rather than one of its fields.
func (t target) String() string { return t.OS + "/" + t.Arch }

//nolint:gochecknoglobals
var builtinCache = sync.OnceValue(func() map[string]any {
	return map[string]any{
		// System information.
		"platform": getPlatform(),
		"target":   getTarget(),
		"hostname": getHostname(),
		"shell":    os.Getenv("SHELL"),

		// Working directory.
		"cwd": getCwd,

		// Filesystem predicates.
		"file": map[string]any{
			"exists":    fileExists,
			"isDir":     fileIsDir,
			"isRegular": fileIsRegular,
			"isSymlink": fileIsSymlink,
		},

		// Path manipulation.
		"path": map[string]any{
			"abs":  pathAbs,
			"base": filepath.Base,
			"cat":  pathCat,
			"dir":  filepath.Dir,
			"rel":  pathRel,
		},

		// PATH-like list manipulation via mung.
		"mung": map[string]any{
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
		},
	}
})

// builtinEnv returns a fresh copy of the built-in environment with env()
// reading from processEnv (os.Environ() when nil).
func builtinEnv(processEnv []string) map[string]any {
	env := maps.Clone(builtinCache())
	env["env"] = envFunc(buildProcessEnvMap(processEnv))

	return env
}

// BuiltinNames returns the sorted top-level names available to define
// expressions.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtinEnv(nil)))
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	return target{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// mungPrefix prepends items to the list-separated value of key, removing
// duplicates.
func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixIf is mungPrefix keeping only the items accepted by predicate.
func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// buildProcessEnvMap converts "KEY=VALUE" strings to a map.
// If envList is nil, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if envList == nil {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		if key, value, ok := strings.Cut(entry, "="); ok {
			result[key] = value
		}
	}

	return result
}

// envFunc returns the env() builtin reading from processEnv.
func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
