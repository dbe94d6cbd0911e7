package force

import "math"

// Default simulation parameters, before scaling.
const (
	DefaultSeed              = uint64(42)
	DefaultChargeStrength    = -250.0
	DefaultChargeDistanceMax = 500.0
	DefaultLinkDistance      = 80.0
	DefaultLinkStrength      = 0.5
	DefaultCollideRadius     = 20.0
	DefaultCollideStrength   = 0.7
	DefaultBaseRadius        = 300.0
	DefaultRadialStrength    = 0.4
	DefaultAlphaMin          = 0.001
	DefaultVelocityDecay     = 0.4
)

// DefaultAlphaDecay makes alpha fall from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Tier radius fractions of the base radius.
const (
	tierFoundationFraction   = 0.3
	tierIntermediateFraction = 0.7
	tierAdvancedFraction     = 1.0
)

// Options configures the simulation. Zero-valued fields take defaults; see
// [Options.SetDefaults].
type Options struct {
	Seed uint64 `json:"seed,omitempty" toml:"seed"`

	// Repulsion. ChargeStrength must be negative to repel.
	ChargeStrength    float64 `json:"charge_strength,omitempty" toml:"charge_strength"`
	ChargeDistanceMax float64 `json:"charge_distance_max,omitempty" toml:"charge_distance_max"`

	// Link attraction.
	LinkDistance float64 `json:"link_distance,omitempty" toml:"link_distance"`
	LinkStrength float64 `json:"link_strength,omitempty" toml:"link_strength"`

	// Collision avoidance. CollideRadius is per node, so two nodes settle at
	// least 2×CollideRadius apart.
	CollideRadius   float64 `json:"collide_radius,omitempty" toml:"collide_radius"`
	CollideStrength float64 `json:"collide_strength,omitempty" toml:"collide_strength"`

	// Radial tier bias.
	BaseRadius     float64 `json:"base_radius,omitempty" toml:"base_radius"`
	RadialStrength float64 `json:"radial_strength,omitempty" toml:"radial_strength"`

	// Cooling schedule.
	AlphaMin      float64 `json:"alpha_min,omitempty" toml:"alpha_min"`
	AlphaDecay    float64 `json:"alpha_decay,omitempty" toml:"alpha_decay"`
	VelocityDecay float64 `json:"velocity_decay,omitempty" toml:"velocity_decay"`
}

// DefaultOptions returns options with every field set to its default.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills zero-valued fields with defaults.
func (o *Options) SetDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.ChargeStrength == 0 {
		o.ChargeStrength = DefaultChargeStrength
	}
	if o.ChargeDistanceMax == 0 {
		o.ChargeDistanceMax = DefaultChargeDistanceMax
	}
	if o.LinkDistance == 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.LinkStrength == 0 {
		o.LinkStrength = DefaultLinkStrength
	}
	if o.CollideRadius == 0 {
		o.CollideRadius = DefaultCollideRadius
	}
	if o.CollideStrength == 0 {
		o.CollideStrength = DefaultCollideStrength
	}
	if o.BaseRadius == 0 {
		o.BaseRadius = DefaultBaseRadius
	}
	if o.RadialStrength == 0 {
		o.RadialStrength = DefaultRadialStrength
	}
	if o.AlphaMin == 0 {
		o.AlphaMin = DefaultAlphaMin
	}
	if o.AlphaDecay == 0 {
		o.AlphaDecay = DefaultAlphaDecay
	}
	if o.VelocityDecay == 0 {
		o.VelocityDecay = DefaultVelocityDecay
	}
}

// sanitize applies defaults and replaces a cooling schedule that would never
// terminate or never move nodes.
func (o *Options) sanitize() {
	o.SetDefaults()
	if o.AlphaMin <= 0 || o.AlphaMin >= 1 || o.AlphaDecay <= 0 || o.AlphaDecay >= 1 {
		o.AlphaMin, o.AlphaDecay = DefaultAlphaMin, DefaultAlphaDecay
	}
	if o.VelocityDecay <= 0 || o.VelocityDecay > 1 {
		o.VelocityDecay = DefaultVelocityDecay
	}
}

// scaled returns a copy of o with distance, radius and repulsion parameters
// multiplied by s.
func (o Options) scaled(s float64) Options {
	o.ChargeStrength *= s
	o.ChargeDistanceMax *= s
	o.LinkDistance *= s
	o.CollideRadius *= s
	o.BaseRadius *= s
	return o
}

// ScaleFactor returns sqrt(n/10) floored at 1.
func ScaleFactor(n int) float64 {
	return max(1, math.Sqrt(float64(n)/10))
}

// Iterations returns the number of ticks needed for alpha to decay from 1
// below AlphaMin. Out-of-range schedules fall back to the defaults.
func Iterations(o Options) int {
	o.sanitize()
	// The epsilon absorbs rounding when the decay was derived from a tick count.
	return int(math.Ceil(math.Log(o.AlphaMin)/math.Log(1-o.AlphaDecay) - 1e-9))
}

// TierRadius returns the target radial distance for a depth tier.
// Tiers at or below 1 are foundation; 3 and above are advanced.
func TierRadius(tier int, base float64) float64 {
	switch {
	case tier <= 1:
		return tierFoundationFraction * base
	case tier == 2:
		return tierIntermediateFraction * base
	default:
		return tierAdvancedFraction * base
	}
}
