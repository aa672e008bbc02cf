package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
)

const maxSnapDistMeters = 500.0

// ErrPointTooFar is returned when the query point is too far from any path.
var ErrPointTooFar = errors.New("point too far from any path")

// SnapResult represents a point snapped to a path edge.
type SnapResult struct {
	EdgeIdx uint32  // undirected edge index
	NodeU   uint32  // stored source node of the edge
	NodeV   uint32  // stored target node of the edge
	Ratio   float64 // 0.0 = at NodeU, 1.0 = at NodeV
	Dist    float64 // meters from query point to snapped point
	Lat     float64 // snapped position on the edge segment
	Lng     float64
}

// NearestNode returns the edge endpoint closest to the snapped position.
func (s SnapResult) NearestNode() uint32 {
	if s.Ratio < 0.5 {
		return s.NodeU
	}
	return s.NodeV
}

type snapEdge struct {
	edge uint32
	u, v uint32
}

// Snapper finds the nearest path edge to a coordinate using an R-tree over
// edge bounding boxes.
type Snapper struct {
	tr rtree.RTreeG[snapEdge]
	g  *graph.Graph
}

// NewSnapper indexes every undirected edge of the graph. Boxes span the
// edge endpoints; shape detours beyond them are small at campus scale and
// covered by the expanding search window.
func NewSnapper(g *graph.Graph) *Snapper {
	s := &Snapper{g: g}
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.ArcsFrom(u)
		for a := start; a < end; a++ {
			if g.ArcRev[a] {
				continue // index each edge once, via its forward arc
			}
			v := g.Head[a]
			min := [2]float64{
				math.Min(g.NodeLon[u], g.NodeLon[v]),
				math.Min(g.NodeLat[u], g.NodeLat[v]),
			}
			max := [2]float64{
				math.Max(g.NodeLon[u], g.NodeLon[v]),
				math.Max(g.NodeLat[u], g.NodeLat[v]),
			}
			s.tr.Insert(min, max, snapEdge{edge: g.ArcEdge[a], u: u, v: v})
		}
	}
	return s
}

// Initial half-width of the search window in degrees (~110 m), expanded
// until candidates appear or the window clearly exceeds the snap cap.
const (
	initialWindowDeg = 0.001
	maxWindowDeg     = 0.016
)

// Snap finds the nearest path edge to the given coordinate.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	bestDist := math.Inf(1)
	var best SnapResult
	found := false

	for window := initialWindowDeg; window <= maxWindowDeg; window *= 2 {
		min := [2]float64{lng - window, lat - window}
		max := [2]float64{lng + window, lat + window}

		s.tr.Search(min, max, func(_, _ [2]float64, se snapEdge) bool {
			exactDist, ratio := geo.PointToSegmentDist(
				lat, lng,
				s.g.NodeLat[se.u], s.g.NodeLon[se.u],
				s.g.NodeLat[se.v], s.g.NodeLon[se.v],
			)
			if exactDist < bestDist || (exactDist == bestDist && se.edge < best.EdgeIdx) {
				bestDist = exactDist
				best = SnapResult{
					EdgeIdx: se.edge,
					NodeU:   se.u,
					NodeV:   se.v,
					Ratio:   ratio,
					Dist:    exactDist,
					Lat:     s.g.NodeLat[se.u] + ratio*(s.g.NodeLat[se.v]-s.g.NodeLat[se.u]),
					Lng:     s.g.NodeLon[se.u] + ratio*(s.g.NodeLon[se.v]-s.g.NodeLon[se.u]),
				}
				found = true
			}
			return true
		})

		// A hit well inside the window cannot be beaten by an edge outside
		// a doubled window; stop expanding.
		if found && bestDist < window*111_000/2 {
			break
		}
	}

	if !found || bestDist > maxSnapDistMeters {
		return SnapResult{}, ErrPointTooFar
	}
	return best, nil
}
