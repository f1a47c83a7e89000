// Package era applies read-side rating adjustments that account for the
// competitive depth of the period an entity debuted in and for small
// matchup samples. Adjustments never feed back into the live rating
// store; the raw rating stays retrievable alongside the adjusted one.
package era

import "math"

const (
	// Era multipliers by debut year. Constant positive factors keep the
	// transform order-preserving among entities of the same era.
	multiplierPre1960 = 0.92
	multiplier1960s   = 0.95
	multiplier1970s   = 0.97
	multiplier1980s   = 0.99
	multiplierModern  = 1.00

	defaultSampleThreshold  = 30
	defaultSamplePenalty    = 0.95
	defaultReliabilityMid   = 30.0
	defaultReliabilityScale = 20.0
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSampleThreshold sets the matchup count under which the small-sample
// penalty applies. Non-positive values are ignored.
func WithSampleThreshold(n int) Option {
	return func(z *Normalizer) {
		if n > 0 {
			z.sampleThreshold = n
		}
	}
}

// WithSamplePenalty sets the multiplier applied under the sample
// threshold. Values outside (0, 1] are ignored.
func WithSamplePenalty(p float64) Option {
	return func(z *Normalizer) {
		if p > 0 && p <= 1 {
			z.samplePenalty = p
		}
	}
}

// WithReliabilityCurve sets the midpoint and scale of the reliability
// sigmoid. The midpoint is the matchup count scoring 50.
func WithReliabilityCurve(mid, scale float64) Option {
	return func(z *Normalizer) {
		if scale > 0 {
			z.reliabilityMid = mid
			z.reliabilityScale = scale
		}
	}
}

// ForTeams configures the wider sample requirements used for team
// ratings, where a single season already yields dozens of matchups.
func ForTeams() Option {
	return func(z *Normalizer) {
		z.sampleThreshold = 100
		z.reliabilityMid = 100
		z.reliabilityScale = 50
	}
}

// Normalizer computes era-adjusted ratings and reliability scores.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	sampleThreshold  int
	samplePenalty    float64
	reliabilityMid   float64
	reliabilityScale float64
}

// NewNormalizer returns a Normalizer with driver-grade defaults.
func NewNormalizer(opts ...Option) *Normalizer {
	z := &Normalizer{
		sampleThreshold:  defaultSampleThreshold,
		samplePenalty:    defaultSamplePenalty,
		reliabilityMid:   defaultReliabilityMid,
		reliabilityScale: defaultReliabilityScale,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Multiplier returns the era factor for an entity that debuted in the
// given year.
func Multiplier(debutYear int) float64 {
	switch {
	case debutYear < 1960:
		return multiplierPre1960
	case debutYear < 1970:
		return multiplier1960s
	case debutYear < 1980:
		return multiplier1970s
	case debutYear < 2000:
		return multiplier1980s
	default:
		return multiplierModern
	}
}

// Factor returns the combined era and sample-size factor. The
// small-sample penalty depends on the matchup count, so two same-era
// entities on either side of the threshold can rank differently
// adjusted than raw.
func (z *Normalizer) Factor(debutYear, matchups int) float64 {
	f := Multiplier(debutYear)
	if matchups < z.sampleThreshold {
		f *= z.samplePenalty
	}
	return f
}

// Adjust returns the era-adjusted value of a raw rating.
func (z *Normalizer) Adjust(raw float64, debutYear, matchups int) float64 {
	return raw * z.Factor(debutYear, matchups)
}

// Reliability scores the statistical confidence in a rating on a 0-100
// scale as a sigmoid of the matchup count.
func (z *Normalizer) Reliability(matchups int) float64 {
	return 100 / (1 + math.Exp(-(float64(matchups)-z.reliabilityMid)/z.reliabilityScale))
}
