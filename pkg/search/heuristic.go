package search

import (
	"campus_router/pkg/geo"
	"campus_router/pkg/weight"
)

// Heuristic returns an admissible lower bound on the remaining weighted
// cost from node to target: the latitude-corrected geodesic distance scaled
// by the profile's minimum factor. Every passable edge costs at least its
// geometric length times that factor (factor tables never go below 1.0),
// so the estimate can never overstate the true remaining cost.
func Heuristic(wg *weight.Graph, node, target uint32) float64 {
	g := wg.G
	d := geo.EquirectangularDist(
		g.NodeLat[node], g.NodeLon[node],
		g.NodeLat[target], g.NodeLon[target],
	)
	return d * wg.Profile.MinFactor()
}
