package routing

import (
	"errors"
	"testing"

	"github.com/paulmach/osm"

	"campus_router/pkg/graph"
)

// lShapedNetwork: three nodes forming an L.
//
//	1 (-3.7680, -38.4790) — 2 (-3.7680, -38.4780)
//	                        |
//	                        3 (-3.7690, -38.4780)
func lShapedNetwork(t *testing.T) *graph.Graph {
	t.Helper()
	result := &graph.ParseResult{
		Edges: []graph.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, LengthM: 120},
			{FromNodeID: 2, ToNodeID: 3, LengthM: 120},
		},
		NodeLat: map[osm.NodeID]float64{1: -3.7680, 2: -3.7680, 3: -3.7690},
		NodeLon: map[osm.NodeID]float64{1: -38.4790, 2: -38.4780, 3: -38.4780},
	}
	return graph.Build(result)
}

func TestSnapToNearestEdge(t *testing.T) {
	g := lShapedNetwork(t)
	s := NewSnapper(g)

	// Slightly south of the horizontal edge, near its west end.
	res, err := s.Snap(-3.76805, -38.4789)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if res.EdgeIdx != 0 {
		t.Errorf("EdgeIdx = %d, want 0 (horizontal edge)", res.EdgeIdx)
	}
	if res.Ratio >= 0.5 {
		t.Errorf("Ratio = %f, want < 0.5 near the west end", res.Ratio)
	}
	if res.NearestNode() != 0 {
		t.Errorf("NearestNode = %d, want 0", res.NearestNode())
	}
	if res.Dist > 20 {
		t.Errorf("Dist = %f m, want a few meters", res.Dist)
	}
}

func TestSnapPicksCloserEdge(t *testing.T) {
	g := lShapedNetwork(t)
	s := NewSnapper(g)

	// Right next to the vertical edge's midpoint.
	res, err := s.Snap(-3.7685, -38.47795)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if res.EdgeIdx != 1 {
		t.Errorf("EdgeIdx = %d, want 1 (vertical edge)", res.EdgeIdx)
	}
	if res.NearestNode() != 1 && res.NearestNode() != 2 {
		t.Errorf("NearestNode = %d, want an endpoint of the vertical edge", res.NearestNode())
	}
}

func TestSnapEndpointRatio(t *testing.T) {
	g := lShapedNetwork(t)
	s := NewSnapper(g)

	// Exactly on node 3 (graph index 2), the south end of the vertical edge.
	res, err := s.Snap(-3.7690, -38.4780)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if res.NearestNode() != 2 {
		t.Errorf("NearestNode = %d, want 2", res.NearestNode())
	}
	if res.Dist > 0.5 {
		t.Errorf("Dist = %f m on an exact node hit", res.Dist)
	}
}

func TestSnapTooFar(t *testing.T) {
	g := lShapedNetwork(t)
	s := NewSnapper(g)

	// Across town, far beyond the 500 m cap.
	if _, err := s.Snap(-3.8000, -38.5200); !errors.Is(err, ErrPointTooFar) {
		t.Errorf("err = %v, want ErrPointTooFar", err)
	}
}
