// Package bench drives the solver strategies over sampled origin/destination
// pairs and profiles, collecting timing and exploration statistics. It is a
// consumer of the routing pipeline, never part of the query hot path.
package bench

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/poi"
	"campus_router/pkg/profile"
	"campus_router/pkg/route"
	"campus_router/pkg/routing"
	"campus_router/pkg/search"
	"campus_router/pkg/weight"
)

// Config controls one benchmark run.
type Config struct {
	Pairs       int      // origin/destination pairs to sample
	Repetitions int      // timed repetitions per trial
	Warmup      int      // discarded repetitions before timing
	Seed        int64    // deterministic pair sampling
	Profiles    []string // optional subset of profile names; empty = all
}

// Distance category labels, by geometric distance between the endpoints.
const (
	CategoryShort  = "short"  // under 200 m
	CategoryMedium = "medium" // 200–500 m
	CategoryLong   = "long"   // over 500 m
)

// CategoryFor labels a geometric distance in meters.
func CategoryFor(distM float64) string {
	switch {
	case distM < 200:
		return CategoryShort
	case distM <= 500:
		return CategoryMedium
	default:
		return CategoryLong
	}
}

// Record is the measurement for one (profile, pair, strategy) combination.
// Failed trials carry Err and zeroed statistics; a strict profile leaving a
// pair unreachable must not abort the run.
type Record struct {
	Profile        string  `json:"profile"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Strategy       string  `json:"strategy"`
	Category       string  `json:"category"`
	GeomDistanceM  float64 `json:"geometric_distance_m"`
	MeanMs         float64 `json:"mean_ms"`
	MedianMs       float64 `json:"median_ms"`
	StdDevMs       float64 `json:"stddev_ms"`
	NodesExplored  int     `json:"nodes_explored"`
	RouteDistanceM float64 `json:"route_distance_m"`
	Err            string  `json:"error,omitempty"`
}

// Harness owns the immutable inputs of a benchmark run. Solver state is
// created per trial inside the strategies themselves, so repeated trials
// cannot leak exploration counts into each other.
type Harness struct {
	g        *graph.Graph
	registry *profile.Registry
	catalog  *poi.Catalog
	weights  *weight.Cache
	snapper  *routing.Snapper
}

// NewHarness creates a harness over a loaded graph and POI catalog.
func NewHarness(g *graph.Graph, registry *profile.Registry, catalog *poi.Catalog) *Harness {
	return &Harness{
		g:        g,
		registry: registry,
		catalog:  catalog,
		weights:  weight.NewCache(g),
		snapper:  routing.NewSnapper(g),
	}
}

// samplePair is a resolved origin/destination drawn from the POI catalog.
type samplePair struct {
	origin, dest poi.Point
	originNode   uint32
	destNode     uint32
	geomDistM    float64
}

// Run executes the benchmark and returns one Record per
// (profile, pair, strategy) combination.
func (h *Harness) Run(cfg Config) ([]Record, error) {
	if cfg.Pairs <= 0 {
		return nil, fmt.Errorf("bench: Pairs must be positive, got %d", cfg.Pairs)
	}
	if cfg.Repetitions <= 0 {
		return nil, fmt.Errorf("bench: Repetitions must be positive, got %d", cfg.Repetitions)
	}
	if cfg.Warmup < 0 {
		return nil, fmt.Errorf("bench: Warmup must be non-negative, got %d", cfg.Warmup)
	}

	profiles, err := h.resolveProfiles(cfg.Profiles)
	if err != nil {
		return nil, err
	}

	pairs, err := h.samplePairs(cfg)
	if err != nil {
		return nil, err
	}

	strategies := search.All()
	records := make([]Record, 0, len(pairs)*len(profiles)*len(strategies))

	for _, p := range profiles {
		wg := h.weights.Get(p)
		for _, pair := range pairs {
			for _, s := range strategies {
				records = append(records, h.measure(wg, p, pair, s, cfg))
			}
		}
	}

	return records, nil
}

// measure runs one trial: warm-up repetitions, then timed repetitions.
func (h *Harness) measure(wg *weight.Graph, p *profile.Profile, pair samplePair, s search.Strategy, cfg Config) Record {
	rec := Record{
		Profile:       p.Name,
		Origin:        pair.origin.Name,
		Destination:   pair.dest.Name,
		Strategy:      s.Name(),
		Category:      CategoryFor(pair.geomDistM),
		GeomDistanceM: pair.geomDistM,
	}

	for i := 0; i < cfg.Warmup; i++ {
		if _, err := s.Find(wg, pair.originNode, pair.destNode); err != nil {
			rec.Err = err.Error()
			return rec
		}
	}

	times := make([]float64, 0, cfg.Repetitions)
	var last *search.Result
	for i := 0; i < cfg.Repetitions; i++ {
		start := time.Now()
		result, err := s.Find(wg, pair.originNode, pair.destNode)
		elapsed := time.Since(start)
		if err != nil {
			rec.Err = err.Error()
			return rec
		}
		times = append(times, float64(elapsed.Nanoseconds())/1e6)
		last = result
	}

	rec.MeanMs = Mean(times)
	rec.MedianMs = Median(times)
	rec.StdDevMs = StdDev(times)
	rec.NodesExplored = last.Explored

	if r, err := route.Assemble(wg, last.Path); err == nil {
		rec.RouteDistanceM = r.DistanceMeters
	}

	return rec
}

// resolveProfiles maps the optional subset to registry profiles, defaulting
// to the full catalog.
func (h *Harness) resolveProfiles(names []string) ([]*profile.Profile, error) {
	if len(names) == 0 {
		names = h.registry.Names()
	}
	out := make([]*profile.Profile, 0, len(names))
	for _, name := range names {
		p, ok := h.registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("bench: unknown profile %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

// samplePairs draws distinct POI pairs with the seeded RNG and resolves
// them to graph nodes. POIs that do not snap onto the network are skipped;
// the attempt budget keeps a sparse catalog from looping forever.
func (h *Harness) samplePairs(cfg Config) ([]samplePair, error) {
	points := h.catalog.Points()
	if len(points) < 2 {
		return nil, fmt.Errorf("bench: catalog has %d points, need at least 2", len(points))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var pairs []samplePair
	skipped := 0
	maxAttempts := cfg.Pairs * 20

	for attempts := 0; len(pairs) < cfg.Pairs && attempts < maxAttempts; attempts++ {
		i := rng.Intn(len(points))
		j := rng.Intn(len(points))
		if i == j {
			continue
		}
		origin, dest := points[i], points[j]

		originSnap, err := h.snapper.Snap(origin.Coord.Lat, origin.Coord.Lng)
		if err != nil {
			skipped++
			continue
		}
		destSnap, err := h.snapper.Snap(dest.Coord.Lat, dest.Coord.Lng)
		if err != nil {
			skipped++
			continue
		}

		pairs = append(pairs, samplePair{
			origin:     origin,
			dest:       dest,
			originNode: originSnap.NearestNode(),
			destNode:   destSnap.NearestNode(),
			geomDistM: geo.Haversine(origin.Coord.Lat, origin.Coord.Lng,
				dest.Coord.Lat, dest.Coord.Lng),
		})
	}

	if skipped > 0 {
		log.Printf("Benchmark sampling skipped %d unsnappable picks", skipped)
	}
	if len(pairs) < cfg.Pairs {
		return nil, fmt.Errorf("bench: sampled only %d of %d pairs within attempt budget", len(pairs), cfg.Pairs)
	}
	return pairs, nil
}
