package isovist

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Defaults for Config fields.
const (
	DefaultNumRays        = 600
	DefaultRadius         = 300.0
	DefaultStartAngle     = 0.0
	DefaultEndAngle       = 360.0
	DefaultEyeElevation   = 5.0
	DefaultPruneFraction  = 0.9
	DefaultSelfHitEpsilon = 0.3

	// DefaultScale maps one plan foot to one lattice millimetre.
	DefaultScale = 304.8
)

// Config holds the parameters of one analysis run. All lengths are in plan
// units. A Config is fixed for the duration of a run.
type Config struct {
	// NumRays is the number of rays cast per viewpoint.
	NumRays int `yaml:"num_rays"`

	// Radius bounds every ray.
	Radius float64 `yaml:"radius"`

	// StartAngle and EndAngle bound the ray fan, in degrees.
	StartAngle float64 `yaml:"start_angle"`
	EndAngle   float64 `yaml:"end_angle"`

	// EyeElevation is the height of viewpoints and rays.
	EyeElevation float64 `yaml:"eye_elevation"`

	// PruneFraction skips faces whose centroid is farther than
	// PruneFraction*Radius from the viewpoint.
	PruneFraction float64 `yaml:"prune_fraction"`

	// SelfHitEpsilon discards hits this close to the viewpoint.
	SelfHitEpsilon float64 `yaml:"self_hit_epsilon"`

	// Scale is the lattice units per plan unit used for polygon booleans.
	Scale float64 `yaml:"scale"`

	// EdgePolicy handles rays that hit nothing inside Radius.
	EdgePolicy EdgePolicy `yaml:"edge_policy"`

	// Workers is the number of isovist workers. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the configuration of the reference pipeline.
func DefaultConfig() Config {
	return Config{
		NumRays:        DefaultNumRays,
		Radius:         DefaultRadius,
		StartAngle:     DefaultStartAngle,
		EndAngle:       DefaultEndAngle,
		EyeElevation:   DefaultEyeElevation,
		PruneFraction:  DefaultPruneFraction,
		SelfHitEpsilon: DefaultSelfHitEpsilon,
		Scale:          DefaultScale,
		EdgePolicy:     DropUnhit,
	}
}

// NewConfig returns DefaultConfig with the options applied.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.NumRays < 3:
		return fmt.Errorf("%w: num_rays %d < 3", ErrInvalidConfig, c.NumRays)
	case !positive(c.Radius):
		return fmt.Errorf("%w: radius %g", ErrInvalidConfig, c.Radius)
	case !finite(c.StartAngle) || !finite(c.EndAngle) || c.EndAngle <= c.StartAngle:
		return fmt.Errorf("%w: angle range [%g, %g]", ErrInvalidConfig, c.StartAngle, c.EndAngle)
	case c.EndAngle-c.StartAngle > 360:
		return fmt.Errorf("%w: angle range spans %g degrees", ErrInvalidConfig, c.EndAngle-c.StartAngle)
	case !finite(c.EyeElevation):
		return fmt.Errorf("%w: eye_elevation %g", ErrInvalidConfig, c.EyeElevation)
	case !positive(c.PruneFraction):
		return fmt.Errorf("%w: prune_fraction %g", ErrInvalidConfig, c.PruneFraction)
	case !finite(c.SelfHitEpsilon) || c.SelfHitEpsilon < 0:
		return fmt.Errorf("%w: self_hit_epsilon %g", ErrInvalidConfig, c.SelfHitEpsilon)
	case !positive(c.Scale):
		return fmt.Errorf("%w: scale %g", ErrInvalidConfig, c.Scale)
	case c.EdgePolicy != DropUnhit && c.EdgePolicy != ClampToRadius:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.EdgePolicy)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// WorkerCount resolves Workers, substituting GOMAXPROCS for 0.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("isovist: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("isovist: parse config %s: %w", path, err)
	}
	return c, c.Validate()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
