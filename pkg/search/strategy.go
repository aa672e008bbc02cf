package search

import "campus_router/pkg/weight"

// Strategy is the shared solver contract. Implementations are stateless;
// all per-query state lives on the stack of Find, so concurrent and
// repeated queries cannot leak exploration counts into each other.
type Strategy interface {
	Name() string
	// Find returns the minimum-cost path from origin to dest in the
	// weighted graph, or ErrNoRoute / ErrSearchBound.
	Find(wg *weight.Graph, origin, dest uint32) (*Result, error)
}

// All returns the three interchangeable strategies in a stable order.
func All() []Strategy {
	return []Strategy{Dijkstra{}, Bidirectional{}, AStar{}}
}

// ByName returns the named strategy.
func ByName(name string) (Strategy, bool) {
	for _, s := range All() {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// endpointsValid reports whether both endpoints exist and have at least one
// passable incident arc. The zero-arc case covers nodes isolated by a
// profile's hard exclusions.
func endpointsValid(wg *weight.Graph, origin, dest uint32) bool {
	if origin >= wg.G.NumNodes || dest >= wg.G.NumNodes {
		return false
	}
	return wg.Passable(origin) && wg.Passable(dest)
}
