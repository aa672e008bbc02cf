package search

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/osm"

	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
	"campus_router/pkg/weight"
)

// campusGrid builds a small weighted test network (OSM node IDs shown;
// graph indices follow first-seen order: 10→0, 20→1, 30→2, 40→3, 60→4, 50→5).
//
//	10 ---- 20 ---- 30
//	|               |
//	40 ---- 50 ---- 60
//
// Neighbors sit 0.001 degrees (~111 m) apart and every edge length exceeds
// its straight-line distance, as real geometry does. The 20—30 edge is a
// bare stairway; 50—60 climbs at 8%.
func campusGrid(t *testing.T) *graph.Graph {
	t.Helper()
	result := &graph.ParseResult{
		Edges: []graph.RawEdge{
			{FromNodeID: 10, ToNodeID: 20, LengthM: 120},
			{FromNodeID: 20, ToNodeID: 30, LengthM: 115, Attrs: graph.EdgeAttrs{Steps: true}},
			{FromNodeID: 10, ToNodeID: 40, LengthM: 120},
			{FromNodeID: 30, ToNodeID: 60, LengthM: 125},
			{FromNodeID: 40, ToNodeID: 50, LengthM: 130},
			{FromNodeID: 50, ToNodeID: 60, LengthM: 120, Attrs: graph.EdgeAttrs{InclineKnown: true, InclinePct: 8}},
		},
		NodeLat: map[osm.NodeID]float64{
			10: -3.7680, 20: -3.7680, 30: -3.7680,
			40: -3.7690, 50: -3.7690, 60: -3.7690,
		},
		NodeLon: map[osm.NodeID]float64{
			10: -38.4790, 20: -38.4780, 30: -38.4770,
			40: -38.4790, 50: -38.4780, 60: -38.4770,
		},
	}
	return graph.Build(result)
}

func testProfile(t *testing.T, name string) *profile.Profile {
	t.Helper()
	r, err := profile.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	p, ok := r.Get(name)
	if !ok {
		t.Fatalf("profile %q missing", name)
	}
	return p
}

// pathCost sums arc costs along a node path, taking the cheapest parallel
// edge per hop like the solvers do.
func pathCost(t *testing.T, wg *weight.Graph, path []uint32) float64 {
	t.Helper()
	var total float64
	for i := 0; i < len(path)-1; i++ {
		a := wg.FindArc(path[i], path[i+1])
		if a == graph.NoArc {
			t.Fatalf("path hop %d→%d has no arc", path[i], path[i+1])
		}
		total += wg.Costs[a]
	}
	return total
}

func TestStrategiesAgreeOnCost(t *testing.T) {
	g := campusGrid(t)
	for _, profileName := range []string{"unrestricted", "wheelchair", "elderly"} {
		wg := weight.Build(g, testProfile(t, profileName))

		for origin := uint32(0); origin < g.NumNodes; origin++ {
			for dest := uint32(0); dest < g.NumNodes; dest++ {
				if origin == dest {
					continue
				}

				var costs [3]float64
				var errs [3]error
				for i, s := range All() {
					result, err := s.Find(wg, origin, dest)
					errs[i] = err
					if err == nil {
						costs[i] = result.Cost

						// The reported cost must match the path it describes.
						actual := pathCost(t, wg, result.Path)
						if math.Abs(actual-result.Cost) > 1e-9 {
							t.Errorf("%s %s %d→%d: Cost=%f but path sums to %f",
								profileName, s.Name(), origin, dest, result.Cost, actual)
						}
						if result.Path[0] != origin || result.Path[len(result.Path)-1] != dest {
							t.Errorf("%s %s %d→%d: path endpoints %v", profileName, s.Name(), origin, dest, result.Path)
						}
					}
				}

				for i := 1; i < 3; i++ {
					if (errs[i] == nil) != (errs[0] == nil) {
						t.Fatalf("%s %d→%d: strategy %d err=%v, strategy 0 err=%v",
							profileName, origin, dest, i, errs[i], errs[0])
					}
					if errs[0] == nil && math.Abs(costs[i]-costs[0]) > 1e-9 {
						t.Errorf("%s %d→%d: strategy %d cost %f != %f",
							profileName, origin, dest, i, costs[i], costs[0])
					}
				}
			}
		}
	}
}

func TestExploredBounds(t *testing.T) {
	g := campusGrid(t)
	wg := weight.Build(g, testProfile(t, "unrestricted"))

	for _, s := range All() {
		result, err := s.Find(wg, 0, 5)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		if result.Explored < 1 {
			t.Errorf("%s: Explored = %d, want >= 1", s.Name(), result.Explored)
		}
		if result.Explored > int(g.NumNodes) {
			t.Errorf("%s: Explored = %d > NumNodes = %d", s.Name(), result.Explored, g.NumNodes)
		}
	}
}

func TestAStarExploresNoMoreThanDijkstra(t *testing.T) {
	g := campusGrid(t)
	wg := weight.Build(g, testProfile(t, "unrestricted"))

	d, err := Dijkstra{}.Find(wg, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	a, err := AStar{}.Find(wg, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if a.Explored > d.Explored {
		t.Errorf("A* explored %d nodes, Dijkstra %d; goal direction should prune", a.Explored, d.Explored)
	}
}

func TestNoRouteDisconnected(t *testing.T) {
	// Two detached edges.
	result := &graph.ParseResult{
		Edges: []graph.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, LengthM: 10},
			{FromNodeID: 7, ToNodeID: 8, LengthM: 10},
		},
		NodeLat: map[osm.NodeID]float64{1: -3.768, 2: -3.769, 7: -3.700, 8: -3.701},
		NodeLon: map[osm.NodeID]float64{1: -38.478, 2: -38.478, 7: -38.400, 8: -38.400},
	}
	g := graph.Build(result)
	wg := weight.Build(g, testProfile(t, "unrestricted"))

	for _, s := range All() {
		_, err := s.Find(wg, 0, 2)
		if !errors.Is(err, ErrNoRoute) {
			t.Errorf("%s: err = %v, want ErrNoRoute", s.Name(), err)
		}
	}
}

func TestNoRouteInvalidEndpoints(t *testing.T) {
	g := campusGrid(t)
	wg := weight.Build(g, testProfile(t, "unrestricted"))

	for _, s := range All() {
		if _, err := s.Find(wg, 0, 999); !errors.Is(err, ErrNoRoute) {
			t.Errorf("%s out-of-range dest: err = %v, want ErrNoRoute", s.Name(), err)
		}
	}
}

func TestExclusionsNeverOnPath(t *testing.T) {
	g := campusGrid(t)
	p := testProfile(t, "wheelchair")
	wg := weight.Build(g, p)

	for _, s := range All() {
		// 1 (OSM 20) to 2 (OSM 30): the direct hop is the bare stairway,
		// so the profile has to go the long way around.
		result, err := s.Find(wg, 1, 2)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		for i := 0; i < len(result.Path)-1; i++ {
			a := wg.FindArc(result.Path[i], result.Path[i+1])
			if math.IsInf(wg.Costs[a], 1) {
				t.Fatalf("%s: path hop %d→%d has no passable arc",
					s.Name(), result.Path[i], result.Path[i+1])
			}
			attrs := g.Attrs[g.ArcEdge[a]]
			for _, ex := range p.Exclusions {
				if ex.Matches(attrs) {
					t.Errorf("%s: path hop %d→%d traverses an excluded edge",
						s.Name(), result.Path[i], result.Path[i+1])
				}
			}
		}
	}
}

func TestStairsVersusRamp(t *testing.T) {
	// Two ways up the same terrace: a 10 m stairway and a 40 m ramp. The
	// endpoints sit a few meters apart so both lengths stay physical.
	result := &graph.ParseResult{
		Edges: []graph.RawEdge{
			{FromNodeID: 1, ToNodeID: 2, LengthM: 10, Attrs: graph.EdgeAttrs{Steps: true}},
			{FromNodeID: 1, ToNodeID: 2, LengthM: 40},
		},
		NodeLat: map[osm.NodeID]float64{1: -3.76800, 2: -3.76805},
		NodeLon: map[osm.NodeID]float64{1: -38.478, 2: -38.478},
	}
	g := graph.Build(result)

	fast := weight.Build(g, testProfile(t, "unrestricted"))
	wheels := weight.Build(g, testProfile(t, "wheelchair"))

	for _, s := range All() {
		r, err := s.Find(fast, 0, 1)
		if err != nil {
			t.Fatalf("%s unrestricted: %v", s.Name(), err)
		}
		if r.Cost != 10 {
			t.Errorf("%s unrestricted: cost %f, want 10 (stairs)", s.Name(), r.Cost)
		}

		r, err = s.Find(wheels, 0, 1)
		if err != nil {
			t.Fatalf("%s wheelchair: %v", s.Name(), err)
		}
		if r.Cost != 40 {
			t.Errorf("%s wheelchair: cost %f, want 40 (ramp)", s.Name(), r.Cost)
		}
	}
}

func TestHeuristicAdmissible(t *testing.T) {
	g := campusGrid(t)
	for _, profileName := range []string{"unrestricted", "wheelchair"} {
		wg := weight.Build(g, testProfile(t, profileName))

		for origin := uint32(0); origin < g.NumNodes; origin++ {
			for dest := uint32(0); dest < g.NumNodes; dest++ {
				if origin == dest {
					continue
				}
				result, err := (Dijkstra{}).Find(wg, origin, dest)
				if err != nil {
					continue
				}
				h := Heuristic(wg, origin, dest)
				if h > result.Cost+1e-6 {
					t.Errorf("%s %d→%d: heuristic %f overestimates true cost %f",
						profileName, origin, dest, h, result.Cost)
				}
			}
		}
	}
}

func TestDeterministicPaths(t *testing.T) {
	g := campusGrid(t)
	wg := weight.Build(g, testProfile(t, "elderly"))

	for _, s := range All() {
		first, err := s.Find(wg, 0, 5)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 10; i++ {
			again, err := s.Find(wg, 0, 5)
			if err != nil {
				t.Fatal(err)
			}
			if len(again.Path) != len(first.Path) {
				t.Fatalf("%s run %d: path length changed", s.Name(), i)
			}
			for j := range first.Path {
				if again.Path[j] != first.Path[j] {
					t.Fatalf("%s run %d: path diverged at hop %d", s.Name(), i, j)
				}
			}
			if again.Explored != first.Explored {
				t.Errorf("%s run %d: Explored %d != %d", s.Name(), i, again.Explored, first.Explored)
			}
		}
	}
}

func TestMinHeap(t *testing.T) {
	var h minHeap

	h.Push(1, 30)
	h.Push(2, 10)
	h.Push(3, 20)

	if h.PeekCost() != 10 {
		t.Errorf("PeekCost = %f, want 10", h.PeekCost())
	}

	item := h.Pop()
	if item.Node != 2 || item.Cost != 10 {
		t.Errorf("Pop = {%d, %f}, want {2, 10}", item.Node, item.Cost)
	}
	item = h.Pop()
	if item.Node != 3 || item.Cost != 20 {
		t.Errorf("Pop = {%d, %f}, want {3, 20}", item.Node, item.Cost)
	}
	item = h.Pop()
	if item.Node != 1 || item.Cost != 30 {
		t.Errorf("Pop = {%d, %f}, want {1, 30}", item.Node, item.Cost)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestMinHeapTieBreakByInsertion(t *testing.T) {
	var h minHeap
	h.Push(5, 1)
	h.Push(6, 1)
	h.Push(7, 1)

	if h.Pop().Node != 5 || h.Pop().Node != 6 || h.Pop().Node != 7 {
		t.Error("equal-cost items must pop in insertion order")
	}
}

func TestByName(t *testing.T) {
	for _, want := range []string{"dijkstra", "bidirectional", "astar"} {
		s, ok := ByName(want)
		if !ok || s.Name() != want {
			t.Errorf("ByName(%q) = (%v, %v)", want, s, ok)
		}
	}
	if _, ok := ByName("bellman-ford"); ok {
		t.Error("ByName accepted an unknown strategy")
	}
}

func BenchmarkStrategies(b *testing.B) {
	result := &graph.ParseResult{
		Edges: []graph.RawEdge{
			{FromNodeID: 10, ToNodeID: 20, LengthM: 120},
			{FromNodeID: 20, ToNodeID: 30, LengthM: 115},
			{FromNodeID: 10, ToNodeID: 40, LengthM: 120},
			{FromNodeID: 30, ToNodeID: 60, LengthM: 125},
			{FromNodeID: 40, ToNodeID: 50, LengthM: 130},
			{FromNodeID: 50, ToNodeID: 60, LengthM: 120},
		},
		NodeLat: map[osm.NodeID]float64{
			10: -3.7680, 20: -3.7680, 30: -3.7680,
			40: -3.7690, 50: -3.7690, 60: -3.7690,
		},
		NodeLon: map[osm.NodeID]float64{
			10: -38.4790, 20: -38.4780, 30: -38.4770,
			40: -38.4790, 50: -38.4780, 60: -38.4770,
		},
	}
	g := graph.Build(result)
	r, err := profile.NewRegistry()
	if err != nil {
		b.Fatal(err)
	}
	p, _ := r.Get("unrestricted")
	wg := weight.Build(g, p)

	for _, s := range All() {
		b.Run(s.Name(), func(b *testing.B) {
			for b.Loop() {
				_, _ = s.Find(wg, 0, 5)
			}
		})
	}
}
