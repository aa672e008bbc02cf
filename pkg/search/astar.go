package search

import "campus_router/pkg/weight"

// AStar is the heuristic-guided strategy: forward expansion ordered by
// tentative cost plus the admissible remaining-cost estimate. Because the
// heuristic never overstates, the destination is settled with its optimal
// cost exactly as in Dijkstra, usually after far fewer expansions.
type AStar struct{}

func (AStar) Name() string { return "astar" }

func (AStar) Find(wg *weight.Graph, origin, dest uint32) (*Result, error) {
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
	pq.Push(origin, Heuristic(wg, origin, dest))

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
				continue
			}
			v := g.Head[a]
			if settled[v] {
				continue
			}
			nd := dist[u] + c
			if nd < dist[v] {
				dist[v] = nd
				pred[v] = u
				pq.Push(v, nd+Heuristic(wg, v, dest))
				if pq.Len() > limit {
					return nil, ErrSearchBound
				}
			}
		}
	}

	return nil, ErrNoRoute
}
