// Package route turns a solver node path back into a presentable route:
// full coordinate geometry, true walked distance, an effort-adjusted time
// estimate and a step count.
package route

import (
	"errors"
	"math"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
	"campus_router/pkg/weight"
)

// StrideLengthM is the nominal stride used for the step count.
const StrideLengthM = 0.7

// Route is a self-contained result owned by the caller; it holds no
// references back into the graph.
type Route struct {
	Nodes           []uint32
	Points          []geo.LatLng // full geometry, shared endpoints deduplicated
	DistanceMeters  float64      // sum of true edge lengths, not weighted cost
	DurationSeconds float64
	StepCount       int
}

// Clone returns an independent copy. Callers own their Route outright, so
// anything handing out a retained Route must copy it first.
func (r *Route) Clone() *Route {
	c := *r
	c.Nodes = append([]uint32(nil), r.Nodes...)
	c.Points = append([]geo.LatLng(nil), r.Points...)
	return &c
}

// ErrBrokenPath is returned when consecutive path nodes share no edge.
// Solver output can never trigger it; it guards direct callers.
var ErrBrokenPath = errors.New("path nodes not connected in graph")

// Assemble builds the Route for an ordered node path on the profile's
// weighted view. Parallel edges between the same node pair are resolved by
// weighted cost, the same choice the solver made, so a reconstructed route
// never crosses an edge the profile excludes while a passable sibling
// exists. Estimated time is distance over the profile's base speed, scaled
// per edge by the same surface and slope factors used in weighting so the
// figure reflects real-world effort rather than raw cost units.
func Assemble(wg *weight.Graph, nodes []uint32) (*Route, error) {
	if len(nodes) == 0 {
		return nil, ErrBrokenPath
	}
	g, p := wg.G, wg.Profile

	r := &Route{
		Nodes:  append([]uint32(nil), nodes...),
		Points: []geo.LatLng{{Lat: g.NodeLat[nodes[0]], Lng: g.NodeLon[nodes[0]]}},
	}

	for i := 0; i < len(nodes)-1; i++ {
		u := nodes[i]
		v := nodes[i+1]

		arc := wg.FindArc(u, v)
		if arc == graph.NoArc {
			return nil, ErrBrokenPath
		}
		e := g.ArcEdge[arc]
		rev := g.ArcRev[arc]

		appendEdgeGeometry(g, e, rev, &r.Points)
		r.Points = append(r.Points, geo.LatLng{Lat: g.NodeLat[v], Lng: g.NodeLon[v]})

		length := g.Length[e]
		r.DistanceMeters += length
		r.DurationSeconds += length / p.BaseSpeed * EffortFactor(g.Attrs[e], rev, p)
	}

	r.StepCount = int(r.DistanceMeters / StrideLengthM)
	return r, nil
}

// appendEdgeGeometry adds the edge's intermediate shape points in traversal
// order.
func appendEdgeGeometry(g *graph.Graph, e uint32, rev bool, pts *[]geo.LatLng) {
	if g.GeoFirstOut == nil {
		return
	}
	start, end := g.GeoFirstOut[e], g.GeoFirstOut[e+1]
	if rev {
		for k := end; k > start; k-- {
			*pts = append(*pts, geo.LatLng{Lat: g.GeoShapeLat[k-1], Lng: g.GeoShapeLon[k-1]})
		}
	} else {
		for k := start; k < end; k++ {
			*pts = append(*pts, geo.LatLng{Lat: g.GeoShapeLat[k], Lng: g.GeoShapeLon[k]})
		}
	}
}

// EffortFactor is the multiplier applied to base walking time for one edge
// traversal: the profile's surface factor and the direction-correct slope
// factor. rev flips the incline sign for arcs running against the edge's
// stored direction.
func EffortFactor(a graph.EdgeAttrs, rev bool, p *profile.Profile) float64 {
	f := p.Factors.Surface[a.Surface]
	if a.InclineKnown {
		pct := a.InclinePct
		if rev {
			pct = -pct
		}
		band := profile.BandForSlope(math.Abs(pct))
		if pct >= 0 {
			f *= p.Factors.Ascent[band]
		} else {
			f *= p.Factors.Descent[band]
		}
	}
	return f
}
