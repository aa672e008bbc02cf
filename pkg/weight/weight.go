// Package weight turns the raw path graph into a profile-specific weighted
// view. Weighting is pure: hard exclusions first, then multiplicative
// penalty factors on top of the edge's physical length. Costs are effort
// units proportional to meters, not wall-clock time; the route assembler
// converts to seconds.
package weight

import (
	"math"

	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
)

// Impassable marks an arc a profile cannot traverse at all.
var Impassable = math.Inf(1)

// ArcCost returns the weighted cost of traversing an edge with the given
// attributes, or Impassable. reversed flips the incline sign for arcs
// running against the edge's stored direction. Unknown attribute values
// contribute a neutral 1.0 factor. Deterministic for identical inputs.
func ArcCost(length float64, a graph.EdgeAttrs, reversed bool, p *profile.Profile) float64 {
	for _, ex := range p.Exclusions {
		if ex.Matches(a) {
			return Impassable
		}
	}

	f := p.Factors.Surface[a.Surface]

	if a.InclineKnown {
		pct := a.InclinePct
		if reversed {
			pct = -pct
		}
		band := profile.BandForSlope(math.Abs(pct))
		if pct >= 0 {
			f *= p.Factors.Ascent[band]
		} else {
			f *= p.Factors.Descent[band]
		}
	}

	if a.Crossing {
		if a.Marked {
			f *= p.Factors.Crossing.Marked
		} else {
			f *= p.Factors.Crossing.Unmarked
		}
	}

	if a.WidthKnown {
		f *= p.Factors.Width[profile.BandForWidth(a.WidthM)]
	}

	if a.Steps {
		f *= p.Factors.Steps
	}

	return length * f
}

// Graph is a profile-specific weighted view of the path graph. Derived
// once per profile and never mutated; shared freely across queries.
type Graph struct {
	G       *graph.Graph
	Profile *profile.Profile
	Costs   []float64 // per arc; Impassable if excluded for this profile

	// RevCosts[a] is the cost of traversing arc a head→tail, i.e. the cost
	// of its companion arc. Slope asymmetry makes this differ from Costs[a];
	// the backward frontier of the bidirectional solver relaxes with it.
	RevCosts []float64
}

// Build computes the weighted view of g for profile p.
func Build(g *graph.Graph, p *profile.Profile) *Graph {
	costs := make([]float64, g.NumArcs)
	revCosts := make([]float64, g.NumArcs)
	for a := uint32(0); a < g.NumArcs; a++ {
		e := g.ArcEdge[a]
		costs[a] = ArcCost(g.Length[e], g.Attrs[e], g.ArcRev[a], p)
		revCosts[a] = ArcCost(g.Length[e], g.Attrs[e], !g.ArcRev[a], p)
	}
	return &Graph{G: g, Profile: p, Costs: costs, RevCosts: revCosts}
}

// FindArc returns the u→v arc this profile would actually traverse: the one
// with the least weighted cost among parallel edges. graph.Graph.FindArc
// picks by raw length, which can land on an arc the profile excludes; path
// reconstruction must never do that. Returns graph.NoArc if no u→v arc
// exists; if every candidate is impassable the lowest-indexed one is
// returned and the caller sees its infinite cost.
func (wg *Graph) FindArc(u, v uint32) uint32 {
	best := graph.NoArc
	bestCost := math.Inf(1)
	start, end := wg.G.ArcsFrom(u)
	for a := start; a < end; a++ {
		if wg.G.Head[a] != v {
			continue
		}
		if best == graph.NoArc || wg.Costs[a] < bestCost {
			best = a
			bestCost = wg.Costs[a]
		}
	}
	return best
}

// Passable reports whether the node has at least one traversable incident
// arc under this profile. Endpoints failing this are isolated and yield a
// no-route outcome before any search runs.
func (wg *Graph) Passable(node uint32) bool {
	if node >= wg.G.NumNodes {
		return false
	}
	start, end := wg.G.ArcsFrom(node)
	for a := start; a < end; a++ {
		if !math.IsInf(wg.Costs[a], 1) {
			return true
		}
	}
	return false
}
