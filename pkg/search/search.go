// Package search provides the pluggable shortest-path solvers. Three
// strategies share one contract and one exploration-counting scheme, so
// their results and efficiency are directly comparable.
package search

import (
	"errors"
	"math"
)

var inf = math.Inf(1)

// noNode is the predecessor sentinel.
const noNode = ^uint32(0)

// ErrNoRoute is returned when origin and destination are not connected by
// any passable path, or when an endpoint is missing or isolated by the
// profile's exclusions. It is an expected outcome, not a failure.
var ErrNoRoute = errors.New("no route found")

// ErrSearchBound is returned when the frontier outgrows the per-query
// bound. It exists to turn a pathological input into an explicit outcome
// rather than unbounded queue growth.
var ErrSearchBound = errors.New("search exceeded bound")

// Result is the outcome of a successful solve.
type Result struct {
	Path     []uint32 // ordered node indices, origin first
	Cost     float64  // total weighted cost along Path
	Explored int      // distinct nodes finalized before termination
}

// frontierLimit bounds the lazy-deletion frontier. Each arc can push at
// most a handful of stale entries; anything past this indicates a broken
// weighted graph, not a hard query.
func frontierLimit(numArcs uint32) int {
	return 4*int(numArcs) + 1024
}

// reconstruct walks the predecessor chain from dest back to the root and
// reverses it in place.
func reconstruct(pred []uint32, dest uint32) []uint32 {
	var path []uint32
	for n := dest; n != noNode; n = pred[n] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
