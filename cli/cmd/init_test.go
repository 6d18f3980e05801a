package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initCLI mirrors the kinds of top-level flags lox declares.
type initCLI struct {
	Level    string   `default:"info"`
	Depth    int      `default:"64"`
	Ratio    float64  `default:"0.5"`
	Pretty   bool     `default:"true"`
	Caller   bool     `default:"false"`
	Tags     []string `sep:"none"`
	Empty    string
	Secret   string `default:"hidden" hidden:""`
	PprofDir string `default:"/tmp"`

	Init Init `cmd:""`
}

// initContext parses args against initCLI with the configuration file at
// confPath.
func initContext(t *testing.T, confPath string, args ...string) (context.Context, *initCLI) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append(args, "init"))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx), &cli
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			ctx, _ := initContext(t, confPath)

			err := (&Init{Force: tt.force}).Run(ctx)

			if tt.wantErr != nil {
				if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				data, _ := os.ReadFile(confPath)
				if string(data) != "existing: true\n" {
					t.Errorf("existing file was modified: %q", data)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var config map[string]any
			if err := yaml.Unmarshal(data, &config); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, data)
			}

			if _, ok := config["existing"]; ok {
				t.Error("existing content was not replaced")
			}
		})
	}
}

func TestInitBuildConfig(t *testing.T) {
	ctx, _ := initContext(t, filepath.Join(t.TempDir(), "config.yaml"),
		"--level=debug", "--depth=8", "--tags=a,b", "--tags=c",
	)

	config := (&Init{}).buildConfig(ctx)

	got := make(map[string]string, len(config))
	order := make([]string, 0, len(config))

	for _, item := range config {
		key := fmt.Sprint(item.Key)
		got[key] = fmt.Sprint(item.Value)
		order = append(order, key)
	}

	want := map[string]string{
		"level":  "debug",
		"depth":  "8",
		"ratio":  "0.5",
		"pretty": "true",
		"caller": "false",
		"tags":   "[a,b c]",
	}

	for key, value := range want {
		if got[key] != value {
			t.Errorf("config[%s] = %q, want %q", key, got[key], value)
		}
	}

	for _, key := range []string{"help", "empty", "secret", "pprof-dir"} {
		if _, ok := got[key]; ok {
			t.Errorf("config should not contain %q", key)
		}
	}

	// Flags keep their declaration order.
	if strings.Join(order, ",") != "level,depth,ratio,pretty,caller,tags" {
		t.Errorf("config order = %v", order)
	}
}

func TestInitRun_RoundTrip(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")

	ctx, _ := initContext(t, confPath, "--depth=12", "--tags=x=1")

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	var config struct {
		Level  string   `yaml:"level"`
		Depth  int      `yaml:"depth"`
		Ratio  float64  `yaml:"ratio"`
		Pretty bool     `yaml:"pretty"`
		Tags   []string `yaml:"tags"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, data)
	}

	if config.Level != "info" || config.Depth != 12 || config.Ratio != 0.5 ||
		!config.Pretty || len(config.Tags) != 1 || config.Tags[0] != "x=1" {
		t.Errorf("config = %+v\n%s", config, data)
	}
}
