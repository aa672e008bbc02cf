package search

import "campus_router/pkg/weight"

// Dijkstra is the single-frontier forward strategy: priority-driven
// expansion from the origin, settling nodes in non-decreasing cost order,
// stopping when the destination is settled.
type Dijkstra struct{}

func (Dijkstra) Name() string { return "dijkstra" }

func (Dijkstra) Find(wg *weight.Graph, origin, dest uint32) (*Result, error) {
	if !endpointsValid(wg, origin, dest) {
		return nil, ErrNoRoute
	}

	g := wg.G
	n := g.NumNodes
	dist := make([]float64, n)
	pred := make([]uint32, n)
	settled := make([]bool, n)
	for i := range dist {
		dist[i] = inf
		pred[i] = noNode
	}

	var pq minHeap
	limit := frontierLimit(g.NumArcs)

	dist[origin] = 0
	pq.Push(origin, 0)

	explored := 0
	for pq.Len() > 0 {
		item := pq.Pop()
		u := item.Node
		if settled[u] {
			continue // stale entry
		}
		settled[u] = true
		explored++

		if u == dest {
			return &Result{Path: reconstruct(pred, dest), Cost: dist[dest], Explored: explored}, nil
		}

		start, end := g.ArcsFrom(u)
		for a := start; a < end; a++ {
			c := wg.Costs[a]
			if c == inf {
				continue // impassable for this profile
			}
			v := g.Head[a]
			if settled[v] {
				continue
			}
			nd := dist[u] + c
			if nd < dist[v] {
				dist[v] = nd
				pred[v] = u
				pq.Push(v, nd)
				if pq.Len() > limit {
					return nil, ErrSearchBound
				}
			}
		}
	}

	return nil, ErrNoRoute
}
