package sinew

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/sinew/joint"
	"github.com/go-gl/mathgl/mgl64"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v on the defaults", err)
	}
	if cfg.Substeps != DefaultSubsteps || cfg.Iterations != DefaultIterations {
		t.Errorf("defaults = %d substeps / %d iterations, want %d / %d",
			cfg.Substeps, cfg.Iterations, DefaultSubsteps, DefaultIterations)
	}
	if cfg.GravityVec() != (mgl64.Vec3{0, -9.81, 0}) {
		t.Errorf("GravityVec() = %v, want {0 -9.81 0}", cfg.GravityVec())
	}
	if cfg.BiasFactor != joint.DefaultBiasFactor {
		t.Errorf("BiasFactor = %v, want %v", cfg.BiasFactor, joint.DefaultBiasFactor)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	content := []byte(`
gravity: [0, -3.71, 0]
iterations: 16
workers: 4
softness: 0.01
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}

	if cfg.GravityVec() != (mgl64.Vec3{0, -3.71, 0}) {
		t.Errorf("GravityVec() = %v, want {0 -3.71 0}", cfg.GravityVec())
	}
	if cfg.Iterations != 16 || cfg.Workers != 4 {
		t.Errorf("iterations/workers = %d/%d, want 16/4", cfg.Iterations, cfg.Workers)
	}
	// Untouched fields keep their defaults
	if cfg.Substeps != DefaultSubsteps {
		t.Errorf("Substeps = %d, want the %d default", cfg.Substeps, DefaultSubsteps)
	}
	if cfg.Softness != 0.01 {
		t.Errorf("Softness = %v, want 0.01", cfg.Softness)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() = nil error on a missing file")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("iterations: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() = nil error for iterations: 0")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "zero substeps", mutate: func(c *Config) { c.Substeps = 0 }, wantErr: true},
		{name: "zero iterations", mutate: func(c *Config) { c.Iterations = 0 }, wantErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: true},
		{name: "negative bias", mutate: func(c *Config) { c.BiasFactor = -0.1 }, wantErr: true},
		{name: "bias above one", mutate: func(c *Config) { c.BiasFactor = 1.5 }, wantErr: true},
		{name: "negative softness", mutate: func(c *Config) { c.Softness = -1 }, wantErr: true},
		{name: "soft but valid", mutate: func(c *Config) { c.Softness = 0.05 }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	for name, cfg := range Presets {
		t.Run(name, func(t *testing.T) {
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %q fails validation: %v", name, err)
			}
		})
	}
}

func TestTuning(t *testing.T) {
	cfg := &Config{BiasFactor: 0.15, Softness: 0.02, Substeps: 1, Iterations: 1, Workers: 1}
	tuning := cfg.Tuning()

	if tuning.BiasFactor != 0.15 || tuning.Softness != 0.02 {
		t.Errorf("Tuning() = %+v, want BiasFactor 0.15 / Softness 0.02", tuning)
	}
}
