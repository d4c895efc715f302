package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func subcommand(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()
	root := newRootCmd()
	cmd, _, err := root.Find([]string{name})
	if err != nil {
		t.Fatalf("find %s: %v", name, err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestResolveConfigLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("steps: 30\ndt: 0.01\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		args      []string
		wantName  string
		wantSteps int
		wantDt    float64
		wantSeed  int64
	}{
		{"preset only", []string{"--preset", "rain"}, "rain", 2400, 1.0 / 60, 1},
		{"file over preset", []string{"--preset", "rain", "--config", path}, "rain", 30, 0.01, 1},
		{"flag over file", []string{"--preset", "rain", "--config", path, "--steps", "7", "--seed", "9"}, "rain", 7, 0.01, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := subcommand(t, "run", tt.args...)
			cfg, err := resolveConfig(cmd)
			if err != nil {
				t.Fatalf("resolveConfig: %v", err)
			}
			if cfg.Name != tt.wantName {
				t.Errorf("name = %q, want %q", cfg.Name, tt.wantName)
			}
			if cfg.Steps != tt.wantSteps {
				t.Errorf("steps = %d, want %d", cfg.Steps, tt.wantSteps)
			}
			if cfg.Dt != tt.wantDt {
				t.Errorf("dt = %v, want %v", cfg.Dt, tt.wantDt)
			}
			if cfg.Seed != tt.wantSeed {
				t.Errorf("seed = %d, want %d", cfg.Seed, tt.wantSeed)
			}
		})
	}
}

func TestResolveConfigUnknownPreset(t *testing.T) {
	cmd := subcommand(t, "run", "--preset", "nope")
	if _, err := resolveConfig(cmd); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestResolveConfigRejectsBadDt(t *testing.T) {
	cmd := subcommand(t, "run", "--dt", "0")
	if _, err := resolveConfig(cmd); err == nil {
		t.Fatal("expected validation error for dt=0")
	}
}
