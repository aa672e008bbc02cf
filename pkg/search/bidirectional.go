package search

import "campus_router/pkg/weight"

// Bidirectional runs two frontiers, one from each endpoint, and maintains
// the best meeting total seen so far. An early meeting is only a candidate:
// the search keeps going until neither frontier can beat the running bound,
// which is what makes the reconstructed path optimal.
type Bidirectional struct{}

func (Bidirectional) Name() string { return "bidirectional" }

func (Bidirectional) Find(wg *weight.Graph, origin, dest uint32) (*Result, error) {
	if !endpointsValid(wg, origin, dest) {
		return nil, ErrNoRoute
	}

	g := wg.G
	n := g.NumNodes

	distF := make([]float64, n)
	distB := make([]float64, n)
	predF := make([]uint32, n)
	predB := make([]uint32, n)
	settledF := make([]bool, n)
	settledB := make([]bool, n)
	for i := range distF {
		distF[i] = inf
		distB[i] = inf
		predF[i] = noNode
		predB[i] = noNode
	}

	var fwdPq, bwdPq minHeap
	limit := frontierLimit(g.NumArcs)

	distF[origin] = 0
	fwdPq.Push(origin, 0)
	distB[dest] = 0
	bwdPq.Push(dest, 0)

	mu := inf
	meet := noNode
	explored := 0

	for fwdPq.Len() > 0 || bwdPq.Len() > 0 {
		// Forward step.
		if fwdPq.Len() > 0 && fwdPq.PeekCost() < mu {
			item := fwdPq.Pop()
			u := item.Node
			if !settledF[u] {
				settledF[u] = true
				if !settledB[u] {
					explored++
				}

				// distB[u] may still be tentative; the concatenation is a
				// real path either way, so it is a valid upper bound.
				if distB[u] < inf && distF[u]+distB[u] < mu {
					mu = distF[u] + distB[u]
					meet = u
				}

				start, end := g.ArcsFrom(u)
				for a := start; a < end; a++ {
					c := wg.Costs[a]
					if c == inf {
						continue
					}
					v := g.Head[a]
					if settledF[v] {
						continue
					}
					nd := distF[u] + c
					if nd < distF[v] {
						distF[v] = nd
						predF[v] = u
						fwdPq.Push(v, nd)
						if fwdPq.Len() > limit {
							return nil, ErrSearchBound
						}
					}
				}
			}
		}

		// Backward step. Relaxing v uses the v→u arc cost, which slope
		// asymmetry can make different from the u→v cost.
		if bwdPq.Len() > 0 && bwdPq.PeekCost() < mu {
			item := bwdPq.Pop()
			u := item.Node
			if !settledB[u] {
				settledB[u] = true
				if !settledF[u] {
					explored++
				}

				if distF[u] < inf && distF[u]+distB[u] < mu {
					mu = distF[u] + distB[u]
					meet = u
				}

				start, end := g.ArcsFrom(u)
				for a := start; a < end; a++ {
					c := wg.RevCosts[a]
					if c == inf {
						continue
					}
					v := g.Head[a]
					if settledB[v] {
						continue
					}
					nd := distB[u] + c
					if nd < distB[v] {
						distB[v] = nd
						predB[v] = u
						bwdPq.Push(v, nd)
						if bwdPq.Len() > limit {
							return nil, ErrSearchBound
						}
					}
				}
			}
		}

		// Neither frontier can improve on the best meeting total.
		if fwdPq.PeekCost() >= mu && bwdPq.PeekCost() >= mu {
			break
		}
	}

	if meet == noNode {
		return nil, ErrNoRoute
	}

	return &Result{Path: joinAtMeet(predF, predB, meet), Cost: mu, Explored: explored}, nil
}

// joinAtMeet splices the origin→meet chain with the meet→dest chain.
func joinAtMeet(predF, predB []uint32, meet uint32) []uint32 {
	path := reconstruct(predF, meet)
	for n := predB[meet]; n != noNode; n = predB[n] {
		path = append(path, n)
	}
	return path
}
