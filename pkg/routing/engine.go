package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
	"campus_router/pkg/route"
	"campus_router/pkg/search"
	"campus_router/pkg/weight"
)

// ErrUnknownProfile is returned for a profile name outside the registry.
var ErrUnknownProfile = errors.New("unknown mobility profile")

// ErrUnknownStrategy is returned for an unrecognized solver name.
var ErrUnknownStrategy = errors.New("unknown search strategy")

// ErrNoRoute mirrors the solver outcome at the engine surface.
var ErrNoRoute = search.ErrNoRoute

// DefaultStrategy is used when a query names no solver.
const DefaultStrategy = "astar"

// routeCacheSize bounds the per-process memo of assembled routes.
const routeCacheSize = 512

type routeKey struct {
	profile  string
	strategy string
	from, to uint32
}

// Engine answers route queries: snap both coordinates to the network,
// solve on the profile's weighted view, assemble the result. Computed
// routes are memoized in a bounded LRU since campus queries repeat heavily
// between the same landmarks.
type Engine struct {
	g        *graph.Graph
	registry *profile.Registry
	weights  *weight.Cache
	snapper  *Snapper
	routes   *lru.Cache[routeKey, *route.Route]
}

// NewEngine creates a routing engine over a loaded graph.
func NewEngine(g *graph.Graph, registry *profile.Registry) (*Engine, error) {
	routes, err := lru.New[routeKey, *route.Route](routeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("route cache: %w", err)
	}
	return &Engine{
		g:        g,
		registry: registry,
		weights:  weight.NewCache(g),
		snapper:  NewSnapper(g),
		routes:   routes,
	}, nil
}

// Graph exposes the underlying path graph for read-only consumers.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Profiles returns the registry profile names.
func (e *Engine) Profiles() []string { return e.registry.Names() }

// Route computes the best path between two coordinates for the named
// profile and strategy (DefaultStrategy if empty). Query points snapped
// mid-edge get virtual legs: the partial stretch of the snapped edge
// between the snapped position and the search endpoint counts toward
// distance, time and geometry. The returned Route is owned by the caller.
func (e *Engine) Route(ctx context.Context, profileName, strategyName string, start, end geo.LatLng) (*route.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok := e.registry.Get(profileName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profileName)
	}
	if strategyName == "" {
		strategyName = DefaultStrategy
	}
	strategy, ok := search.ByName(strategyName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategyName)
	}

	startSnap, err := e.snapper.Snap(start.Lat, start.Lng)
	if err != nil {
		return nil, err
	}
	endSnap, err := e.snapper.Snap(end.Lat, end.Lng)
	if err != nil {
		return nil, err
	}

	wg := e.weights.Get(p)

	// Both points on one edge: the walk is the stretch of that edge
	// between the snapped positions, no node search needed.
	if startSnap.EdgeIdx == endSnap.EdgeIdx {
		rev := endSnap.Ratio < startSnap.Ratio
		edge := startSnap.EdgeIdx
		if !math.IsInf(weight.ArcCost(e.g.Length[edge], e.g.Attrs[edge], rev, p), 1) {
			return e.sameEdgeRoute(p, startSnap, endSnap, rev), nil
		}
	}

	origin := entryNode(wg, startSnap)
	dest := entryNode(wg, endSnap)

	// The cache holds node-to-node routes; the query-specific virtual
	// legs are grafted onto a copy afterwards.
	key := routeKey{profile: p.Name, strategy: strategyName, from: origin, to: dest}
	r, ok := e.routes.Get(key)
	if ok {
		r = r.Clone()
	} else {
		result, err := strategy.Find(wg, origin, dest)
		if err != nil {
			return nil, err
		}
		r, err = route.Assemble(wg, result.Path)
		if err != nil {
			return nil, err
		}
		e.routes.Add(key, r.Clone())
	}

	e.extendLeg(r, p, startSnap, origin, true)
	e.extendLeg(r, p, endSnap, dest, false)
	r.StepCount = int(r.DistanceMeters / route.StrideLengthM)
	return r, nil
}

// entryNode picks the search endpoint for a snapped position: the closer
// edge endpoint, unless the profile has isolated it while the far endpoint
// is still reachable.
func entryNode(wg *weight.Graph, s SnapResult) uint32 {
	near, far := s.NodeU, s.NodeV
	if s.Ratio >= 0.5 {
		near, far = s.NodeV, s.NodeU
	}
	if !wg.Passable(near) && wg.Passable(far) {
		return far
	}
	return near
}

// extendLeg grafts the partial stretch of the snapped edge between the
// snapped position and the search endpoint onto the route.
func (e *Engine) extendLeg(r *route.Route, p *profile.Profile, s SnapResult, entry uint32, atStart bool) {
	frac := s.Ratio
	if entry == s.NodeV {
		frac = 1 - s.Ratio
	}
	legLen := frac * e.g.Length[s.EdgeIdx]
	if legLen == 0 {
		return
	}

	// The start leg runs snapped point → entry, the end leg entry →
	// snapped point; rev tracks the walk against the edge's stored
	// direction so the slope sign comes out right.
	rev := (entry == s.NodeU) == atStart
	r.DistanceMeters += legLen
	r.DurationSeconds += legLen / p.BaseSpeed * route.EffortFactor(e.g.Attrs[s.EdgeIdx], rev, p)

	pt := geo.LatLng{Lat: s.Lat, Lng: s.Lng}
	if atStart {
		r.Points = append([]geo.LatLng{pt}, r.Points...)
	} else {
		r.Points = append(r.Points, pt)
	}
}

// sameEdgeRoute builds the direct partial-edge route for two positions
// snapped onto the same edge.
func (e *Engine) sameEdgeRoute(p *profile.Profile, s, t SnapResult, rev bool) *route.Route {
	edge := s.EdgeIdx
	dist := math.Abs(t.Ratio-s.Ratio) * e.g.Length[edge]

	r := &route.Route{
		Points:         []geo.LatLng{{Lat: s.Lat, Lng: s.Lng}, {Lat: t.Lat, Lng: t.Lng}},
		DistanceMeters: dist,
	}
	if dist > 0 {
		r.DurationSeconds = dist / p.BaseSpeed * route.EffortFactor(e.g.Attrs[edge], rev, p)
	}
	r.StepCount = int(dist / route.StrideLengthM)
	return r
}
