package weight

import (
	"math"
	"sync"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
)

func registry(t *testing.T) *profile.Registry {
	t.Helper()
	r, err := profile.NewRegistry()
	require.NoError(t, err)
	return r
}

func get(t *testing.T, r *profile.Registry, name string) *profile.Profile {
	t.Helper()
	p, ok := r.Get(name)
	require.True(t, ok, "profile %q", name)
	return p
}

func TestArcCostNeutralAttributes(t *testing.T) {
	r := registry(t)
	p := get(t, r, "unrestricted")

	// Everything unknown: cost is pure length for a no-penalty profile.
	cost := ArcCost(100, graph.EdgeAttrs{}, false, p)
	assert.Equal(t, 100.0, cost)
}

func TestArcCostSurfacePenalty(t *testing.T) {
	r := registry(t)
	p := get(t, r, "wheelchair")

	paved := ArcCost(100, graph.EdgeAttrs{Surface: graph.SurfacePaved}, false, p)
	gravel := ArcCost(100, graph.EdgeAttrs{Surface: graph.SurfaceGravel}, false, p)

	assert.Equal(t, 100.0, paved)
	assert.Equal(t, 400.0, gravel) // gravel factor 4 for wheeled mobility
}

func TestArcCostSlopeDirection(t *testing.T) {
	r := registry(t)
	p := get(t, r, "wheelchair")

	// 8% climb in the stored direction.
	a := graph.EdgeAttrs{InclineKnown: true, InclinePct: 8}

	up := ArcCost(100, a, false, p)
	down := ArcCost(100, a, true, p)

	assert.Equal(t, 300.0, up)   // moderate ascent factor 3
	assert.Equal(t, 250.0, down) // moderate descent factor 2.5
	assert.NotEqual(t, up, down, "slope cost must be direction-asymmetric")
}

func TestArcCostExclusions(t *testing.T) {
	r := registry(t)
	wheelchair := get(t, r, "wheelchair")
	unrestricted := get(t, r, "unrestricted")

	bareStairs := graph.EdgeAttrs{Steps: true}

	assert.True(t, math.IsInf(ArcCost(10, bareStairs, false, wheelchair), 1),
		"bare stairs must be impassable for wheelchair")
	assert.Equal(t, 10.0, ArcCost(10, bareStairs, false, unrestricted),
		"bare stairs stay passable for unrestricted")

	tagged := graph.EdgeAttrs{Wheelchair: graph.WheelchairNo}
	assert.True(t, math.IsInf(ArcCost(10, tagged, false, wheelchair), 1))
}

func TestArcCostCrossingAndWidth(t *testing.T) {
	r := registry(t)
	p := get(t, r, "elderly")

	unmarked := ArcCost(100, graph.EdgeAttrs{Crossing: true}, false, p)
	marked := ArcCost(100, graph.EdgeAttrs{Crossing: true, Marked: true}, false, p)

	assert.Equal(t, 250.0, unmarked)
	assert.InDelta(t, 110.0, marked, 1e-9)
	assert.Less(t, marked, unmarked, "marked crossings must cost less than unmarked")
}

func TestArcCostDeterministic(t *testing.T) {
	r := registry(t)
	p := get(t, r, "stroller")
	a := graph.EdgeAttrs{
		Surface:      graph.SurfaceCobblestone,
		Crossing:     true,
		InclineKnown: true,
		InclinePct:   4,
		WidthKnown:   true,
		WidthM:       1.1,
	}

	first := ArcCost(73.5, a, true, p)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ArcCost(73.5, a, true, p))
	}
}

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	result := &graph.ParseResult{
		Edges: []graph.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, LengthM: 50, Attrs: graph.EdgeAttrs{InclineKnown: true, InclinePct: 7}},
			{FromNodeID: 2, ToNodeID: 3, LengthM: 30, Attrs: graph.EdgeAttrs{Steps: true}},
		},
		NodeLat: map[osm.NodeID]float64{1: -3.768, 2: -3.769, 3: -3.770},
		NodeLon: map[osm.NodeID]float64{1: -38.478, 2: -38.478, 3: -38.478},
	}
	return graph.Build(result)
}

func TestBuildRevCosts(t *testing.T) {
	g := buildTestGraph(t)
	r := registry(t)
	wg := Build(g, get(t, r, "wheelchair"))

	require.Len(t, wg.Costs, int(g.NumArcs))
	require.Len(t, wg.RevCosts, int(g.NumArcs))

	// For each arc, RevCosts must equal the companion arc's forward cost.
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.ArcsFrom(u)
		for a := start; a < end; a++ {
			v := g.Head[a]
			comp := g.FindArc(v, u)
			require.NotEqual(t, graph.NoArc, comp)
			assert.Equal(t, wg.Costs[comp], wg.RevCosts[a], "arc %d companion %d", a, comp)
		}
	}
}

func TestPassable(t *testing.T) {
	g := buildTestGraph(t)
	r := registry(t)

	unrestricted := Build(g, get(t, r, "unrestricted"))
	wheelchair := Build(g, get(t, r, "wheelchair"))

	// Node 2 (graph index of OSM node 3) hangs off the bare stairway only.
	stairsOnly := uint32(2)
	assert.True(t, unrestricted.Passable(stairsOnly))
	assert.False(t, wheelchair.Passable(stairsOnly), "stairs-only node must be isolated for wheelchair")

	assert.False(t, unrestricted.Passable(99), "out-of-range node is never passable")
}

func TestCacheBuildsOnce(t *testing.T) {
	g := buildTestGraph(t)
	r := registry(t)
	p := get(t, r, "elderly")
	c := NewCache(g)

	first := c.Get(p)
	require.NotNil(t, first)

	// Concurrent gets observe the same built view.
	var wg sync.WaitGroup
	results := make([]*Graph, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Get(p)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Same(t, first, got, "goroutine %d got a different weighted view", i)
	}
}
