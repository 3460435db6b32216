package sinew

import (
	"fmt"
	"os"

	"github.com/akmonengine/sinew/joint"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSubsteps      = 4
	DefaultIterations    = 8
	DefaultSleepTime     = 0.5
	DefaultSleepVelocity = 0.03
)

// Config tunes the solver. Zero values of optional fields fall back to the
// defaults when loaded through LoadConfig.
type Config struct {
	Gravity    [3]float64 `yaml:"gravity"`
	Substeps   int        `yaml:"substeps"`
	Iterations int        `yaml:"iterations"`
	Workers    int        `yaml:"workers"`

	BiasFactor float64 `yaml:"bias_factor"`
	Softness   float64 `yaml:"softness"`

	SleepTime     float64 `yaml:"sleep_time"`
	SleepVelocity float64 `yaml:"sleep_velocity"`
}

func DefaultConfig() *Config {
	return &Config{
		Gravity:       [3]float64{0, -9.81, 0},
		Substeps:      DefaultSubsteps,
		Iterations:    DefaultIterations,
		Workers:       1,
		BiasFactor:    joint.DefaultBiasFactor,
		SleepTime:     DefaultSleepTime,
		SleepVelocity: DefaultSleepVelocity,
	}
}

// LoadConfig reads a YAML file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Substeps < 1 {
		return fmt.Errorf("substeps must be at least 1, got %d", c.Substeps)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.BiasFactor < 0 || c.BiasFactor > 1 {
		return fmt.Errorf("bias_factor must be in [0, 1], got %g", c.BiasFactor)
	}
	if c.Softness < 0 {
		return fmt.Errorf("softness must be non-negative, got %g", c.Softness)
	}

	return nil
}

// GravityVec returns the gravity as a vector
func (c *Config) GravityVec() mgl64.Vec3 {
	return mgl64.Vec3{c.Gravity[0], c.Gravity[1], c.Gravity[2]}
}

// Tuning returns the joint tuning implied by the config, for callers
// constructing joints
func (c *Config) Tuning() joint.Tuning {
	return joint.Tuning{BiasFactor: c.BiasFactor, Softness: c.Softness}
}

// Presets are ready-made solver configurations
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"stiff": {
		Gravity: [3]float64{0, -9.81, 0}, Substeps: 4, Iterations: 16, Workers: 1,
		BiasFactor: 0.3, SleepTime: DefaultSleepTime, SleepVelocity: DefaultSleepVelocity,
	},
	"soft": {
		Gravity: [3]float64{0, -9.81, 0}, Substeps: 4, Iterations: 8, Workers: 1,
		BiasFactor: 0.1, Softness: 0.02, SleepTime: DefaultSleepTime, SleepVelocity: DefaultSleepVelocity,
	},
	"fast": {
		Gravity: [3]float64{0, -9.81, 0}, Substeps: 1, Iterations: 4, Workers: 1,
		BiasFactor: joint.DefaultBiasFactor, SleepTime: DefaultSleepTime, SleepVelocity: DefaultSleepVelocity,
	},
}
