package isovist

// Option configures a Config.
// Use functional options to override individual defaults.
//
// Example:
//
//	// Reference pipeline
//	cfg := isovist.NewConfig()
//
//	// Coarser fan with a bounded arc instead of dropped rays
//	cfg := isovist.NewConfig(isovist.WithRays(120), isovist.WithEdgePolicy(isovist.ClampToRadius))
type Option func(*Config)

// WithRays sets the number of rays cast per viewpoint.
func WithRays(n int) Option {
	return func(c *Config) {
		c.NumRays = n
	}
}

// WithRadius sets the maximum viewing distance.
func WithRadius(r float64) Option {
	return func(c *Config) {
		c.Radius = r
	}
}

// WithAngleRange restricts the ray fan to [start, end) degrees.
func WithAngleRange(start, end float64) Option {
	return func(c *Config) {
		c.StartAngle = start
		c.EndAngle = end
	}
}

// WithEyeElevation sets the elevation of viewpoints and rays.
func WithEyeElevation(z float64) Option {
	return func(c *Config) {
		c.EyeElevation = z
	}
}

// WithPruneFraction sets the fraction of the radius inside which face
// centroids must lie to be tested.
func WithPruneFraction(f float64) Option {
	return func(c *Config) {
		c.PruneFraction = f
	}
}

// WithSelfHitEpsilon sets the distance below which hits are treated as the
// viewpoint's own wall.
func WithSelfHitEpsilon(eps float64) Option {
	return func(c *Config) {
		c.SelfHitEpsilon = eps
	}
}

// WithScale sets the lattice units per plan unit.
func WithScale(s float64) Option {
	return func(c *Config) {
		c.Scale = s
	}
}

// WithEdgePolicy sets the handling of unobstructed rays.
func WithEdgePolicy(p EdgePolicy) Option {
	return func(c *Config) {
		c.EdgePolicy = p
	}
}

// WithWorkers sets the number of parallel isovist workers.
// Zero or negative values select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n < 0 {
			n = 0
		}
		c.Workers = n
	}
}
