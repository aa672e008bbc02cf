// Package profile defines the fixed catalog of mobility profiles. A profile
// is a declarative description of how one kind of pedestrian experiences the
// path network: a base walking speed, multiplicative cost factors over a
// closed set of attribute categories, and ordered hard exclusion rules.
// Profiles are immutable; the weighting layer only reads them.
package profile

import (
	"fmt"
	"math"

	"campus_router/pkg/graph"
)

// SlopeBand buckets the absolute incline percentage.
type SlopeBand uint8

const (
	SlopeFlat     SlopeBand = iota // < 3%
	SlopeGentle                    // 3–6%
	SlopeModerate                  // 6–10%
	SlopeSteep                     // > 10%
)

// NumSlopeBands is the size of profile slope factor tables.
const NumSlopeBands = 4

// BandForSlope returns the band for an absolute incline percentage.
func BandForSlope(absPct float64) SlopeBand {
	switch {
	case absPct < 3:
		return SlopeFlat
	case absPct < 6:
		return SlopeGentle
	case absPct < 10:
		return SlopeModerate
	default:
		return SlopeSteep
	}
}

// WidthBand buckets the tagged path width.
type WidthBand uint8

const (
	WidthNarrow WidthBand = iota // < 0.9 m
	WidthTight                   // 0.9–1.5 m
	WidthOpen                    // >= 1.5 m
)

// NumWidthBands is the size of profile width factor tables.
const NumWidthBands = 3

// BandForWidth returns the band for a known width in meters.
func BandForWidth(m float64) WidthBand {
	switch {
	case m < 0.9:
		return WidthNarrow
	case m < 1.5:
		return WidthTight
	default:
		return WidthOpen
	}
}

// CrossingFactors penalize street crossings by control type.
type CrossingFactors struct {
	Marked   float64
	Unmarked float64
}

// Factors is a profile's complete multiplicative factor table. Every entry
// must be >= 1.0: factors are penalties, never discounts. That floor is what
// keeps geometric distance an admissible search heuristic.
type Factors struct {
	Surface  [graph.NumSurfaceClasses]float64
	Ascent   [NumSlopeBands]float64
	Descent  [NumSlopeBands]float64
	Crossing CrossingFactors
	Steps    float64
	Width    [NumWidthBands]float64
}

// ExclusionKind enumerates the hard exclusion rules a profile may carry.
type ExclusionKind uint8

const (
	// ExcludeStepsWithoutRamp removes stairways that have no ramp.
	ExcludeStepsWithoutRamp ExclusionKind = iota
	// ExcludeWheelchairNo removes edges tagged wheelchair=no.
	ExcludeWheelchairNo
	// ExcludeNarrowerThan removes edges with a known width below Limit meters.
	ExcludeNarrowerThan
	// ExcludeSteeperThan removes edges with a known absolute incline above
	// Limit percent.
	ExcludeSteeperThan
)

// Exclusion is one hard exclusion rule. Unknown attribute values never
// match: missing data must not remove an edge.
type Exclusion struct {
	Kind  ExclusionKind
	Limit float64 // meters for ExcludeNarrowerThan, percent for ExcludeSteeperThan
}

// Matches reports whether the rule excludes an edge with the given attributes.
func (e Exclusion) Matches(a graph.EdgeAttrs) bool {
	switch e.Kind {
	case ExcludeStepsWithoutRamp:
		return a.Steps && !a.Ramp
	case ExcludeWheelchairNo:
		return a.Wheelchair == graph.WheelchairNo
	case ExcludeNarrowerThan:
		return a.WidthKnown && a.WidthM < e.Limit
	case ExcludeSteeperThan:
		return a.InclineKnown && math.Abs(a.InclinePct) > e.Limit
	}
	return false
}

// Profile is one named mobility persona.
type Profile struct {
	Name       string
	BaseSpeed  float64 // meters per second on flat paved ground
	Factors    Factors
	Exclusions []Exclusion // evaluated in order, first match excludes

	minFactor float64 // smallest entry across all factor tables, >= 1
}

// MinFactor returns the smallest value in the profile's factor tables.
// Validation guarantees it is >= 1.0, so scaling geometric distance by it
// never overstates the remaining cost.
func (p *Profile) MinFactor() float64 {
	return p.minFactor
}

// validate checks the profile's invariants and computes the cached minimum
// factor. Called once at registry construction.
func (p *Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.BaseSpeed <= 0 {
		return fmt.Errorf("profile %q: base speed %f not positive", p.Name, p.BaseSpeed)
	}

	min := math.Inf(1)
	check := func(field string, v float64) error {
		if v < 1.0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("profile %q: %s factor %f below 1.0", p.Name, field, v)
		}
		if v < min {
			min = v
		}
		return nil
	}

	for i, v := range p.Factors.Surface {
		if err := check(fmt.Sprintf("surface[%d]", i), v); err != nil {
			return err
		}
	}
	for i, v := range p.Factors.Ascent {
		if err := check(fmt.Sprintf("ascent[%d]", i), v); err != nil {
			return err
		}
	}
	for i, v := range p.Factors.Descent {
		if err := check(fmt.Sprintf("descent[%d]", i), v); err != nil {
			return err
		}
	}
	if err := check("crossing.marked", p.Factors.Crossing.Marked); err != nil {
		return err
	}
	if err := check("crossing.unmarked", p.Factors.Crossing.Unmarked); err != nil {
		return err
	}
	if err := check("steps", p.Factors.Steps); err != nil {
		return err
	}
	for i, v := range p.Factors.Width {
		if err := check(fmt.Sprintf("width[%d]", i), v); err != nil {
			return err
		}
	}

	p.minFactor = min
	return nil
}
