package profile

import (
	"fmt"

	"campus_router/pkg/graph"
)

// Registry is the immutable catalog of mobility profiles, keyed by name.
// Built once at startup; safe for concurrent reads.
type Registry struct {
	byName map[string]*Profile
	names  []string
}

// noPenalty is an all-ones factor table, the baseline every profile
// definition starts from.
func noPenalty() Factors {
	var f Factors
	for i := range f.Surface {
		f.Surface[i] = 1
	}
	for i := range f.Ascent {
		f.Ascent[i] = 1
	}
	for i := range f.Descent {
		f.Descent[i] = 1
	}
	f.Crossing = CrossingFactors{Marked: 1, Unmarked: 1}
	f.Steps = 1
	for i := range f.Width {
		f.Width[i] = 1
	}
	return f
}

// catalog returns the fixed set of profiles. Factor values follow the
// penalty scheme of the campus accessibility study this router serves:
// wheeled mobility is punished hardest on loose surfaces and grades,
// safety-first profiles pay extra on uncontrolled street crossings.
func catalog() []*Profile {
	unrestricted := &Profile{
		Name:      "unrestricted",
		BaseSpeed: 1.4,
		Factors:   noPenalty(),
	}

	wheelchair := &Profile{Name: "wheelchair", BaseSpeed: 1.1}
	wheelchair.Factors = noPenalty()
	wheelchair.Factors.Surface[graph.SurfaceCobblestone] = 3
	wheelchair.Factors.Surface[graph.SurfaceCompacted] = 1.5
	wheelchair.Factors.Surface[graph.SurfaceGravel] = 4
	wheelchair.Factors.Surface[graph.SurfaceDirt] = 5
	wheelchair.Factors.Surface[graph.SurfaceGrass] = 5
	wheelchair.Factors.Surface[graph.SurfaceSand] = 8
	wheelchair.Factors.Ascent = [NumSlopeBands]float64{1, 1.5, 3, 8}
	wheelchair.Factors.Descent = [NumSlopeBands]float64{1, 1.3, 2.5, 6}
	wheelchair.Factors.Crossing = CrossingFactors{Marked: 1.2, Unmarked: 3}
	wheelchair.Factors.Steps = 50 // ramped stairways only; bare stairs are excluded
	wheelchair.Factors.Width = [NumWidthBands]float64{4, 1.5, 1}
	wheelchair.Exclusions = []Exclusion{
		{Kind: ExcludeWheelchairNo},
		{Kind: ExcludeStepsWithoutRamp},
		{Kind: ExcludeNarrowerThan, Limit: 0.8},
		{Kind: ExcludeSteeperThan, Limit: 20},
	}

	elderly := &Profile{Name: "elderly", BaseSpeed: 0.9}
	elderly.Factors = noPenalty()
	elderly.Factors.Surface[graph.SurfaceCobblestone] = 1.5
	elderly.Factors.Surface[graph.SurfaceGravel] = 1.8
	elderly.Factors.Surface[graph.SurfaceDirt] = 2
	elderly.Factors.Surface[graph.SurfaceGrass] = 2
	elderly.Factors.Surface[graph.SurfaceSand] = 3
	elderly.Factors.Ascent = [NumSlopeBands]float64{1, 1.5, 2.5, 4}
	elderly.Factors.Descent = [NumSlopeBands]float64{1, 1.4, 2.2, 3.5}
	elderly.Factors.Crossing = CrossingFactors{Marked: 1.1, Unmarked: 2.5}
	elderly.Factors.Steps = 5

	pregnant := &Profile{Name: "pregnant", BaseSpeed: 1.1}
	pregnant.Factors = noPenalty()
	pregnant.Factors.Surface[graph.SurfaceGravel] = 1.5
	pregnant.Factors.Surface[graph.SurfaceDirt] = 1.5
	pregnant.Factors.Surface[graph.SurfaceSand] = 2
	pregnant.Factors.Ascent = [NumSlopeBands]float64{1, 1.3, 2, 3}
	pregnant.Factors.Descent = [NumSlopeBands]float64{1, 1.2, 1.6, 2.5}
	pregnant.Factors.Crossing = CrossingFactors{Marked: 1.1, Unmarked: 2}
	pregnant.Factors.Steps = 3

	stroller := &Profile{Name: "stroller", BaseSpeed: 1.2}
	stroller.Factors = noPenalty()
	stroller.Factors.Surface[graph.SurfaceCobblestone] = 2
	stroller.Factors.Surface[graph.SurfaceGravel] = 2.5
	stroller.Factors.Surface[graph.SurfaceDirt] = 3
	stroller.Factors.Surface[graph.SurfaceGrass] = 3
	stroller.Factors.Surface[graph.SurfaceSand] = 5
	stroller.Factors.Ascent = [NumSlopeBands]float64{1, 1.3, 2, 4}
	stroller.Factors.Descent = [NumSlopeBands]float64{1, 1.3, 2, 4}
	stroller.Factors.Crossing = CrossingFactors{Marked: 1.2, Unmarked: 2.5}
	stroller.Factors.Steps = 10 // ramped stairways only; bare stairs are excluded
	stroller.Factors.Width = [NumWidthBands]float64{2, 1.3, 1}
	stroller.Exclusions = []Exclusion{
		{Kind: ExcludeStepsWithoutRamp},
	}

	injured := &Profile{Name: "injured", BaseSpeed: 0.8}
	injured.Factors = noPenalty()
	injured.Factors.Surface[graph.SurfaceCobblestone] = 1.8
	injured.Factors.Surface[graph.SurfaceGravel] = 2
	injured.Factors.Surface[graph.SurfaceDirt] = 2.2
	injured.Factors.Surface[graph.SurfaceGrass] = 2.2
	injured.Factors.Surface[graph.SurfaceSand] = 3.5
	injured.Factors.Ascent = [NumSlopeBands]float64{1, 1.6, 2.8, 5}
	injured.Factors.Descent = [NumSlopeBands]float64{1, 1.5, 2.5, 4.5}
	injured.Factors.Crossing = CrossingFactors{Marked: 1.1, Unmarked: 2}
	injured.Factors.Steps = 8

	return []*Profile{unrestricted, wheelchair, elderly, pregnant, stroller, injured}
}

// NewRegistry builds and validates the fixed profile catalog.
func NewRegistry() (*Registry, error) {
	profiles := catalog()
	r := &Registry{byName: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Name)
		}
		r.byName[p.Name] = p
		r.names = append(r.names, p.Name)
	}
	return r, nil
}

// Get returns the profile with the given name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns profile names in catalog order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
