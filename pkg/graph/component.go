package graph

import "sort"

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // byte is sufficient — max rank ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node indices belonging to the largest
// connected component, in ascending order.
func LargestComponent(g *Graph) []uint32 {
	if g.NumNodes == 0 {
		return nil
	}

	uf := NewUnionFind(g.NumNodes)

	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.ArcsFrom(u)
		for a := start; a < end; a++ {
			uf.Union(u, g.Head[a])
		}
	}

	// Find the representative with the largest size.
	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := uint32(0); i < g.NumNodes; i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	// Collect all nodes in the largest component.
	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < g.NumNodes; i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}

	return nodes
}

// FilterToComponent creates a new graph containing only the specified nodes
// and the edges fully inside the node set.
func FilterToComponent(g *Graph, nodes []uint32) *Graph {
	if len(nodes) == 0 {
		return &Graph{FirstOut: []uint32{0}, GeoFirstOut: []uint32{0}}
	}

	// Build old→new node index mapping.
	oldToNew := make(map[uint32]uint32, len(nodes))
	for newIdx, oldIdx := range nodes {
		oldToNew[oldIdx] = uint32(newIdx)
	}

	numNodes := uint32(len(nodes))

	// Collect undirected edges with both endpoints inside the component.
	// Walking forward arcs only visits each edge exactly once.
	var keptEdges []uint32
	edgeFrom := make(map[uint32]uint32) // kept edge -> new source index
	edgeTo := make(map[uint32]uint32)

	for _, oldU := range nodes {
		start, end := g.ArcsFrom(oldU)
		for a := start; a < end; a++ {
			if g.ArcRev[a] {
				continue
			}
			oldV := g.Head[a]
			newV, ok := oldToNew[oldV]
			if !ok {
				continue
			}
			e := g.ArcEdge[a]
			keptEdges = append(keptEdges, e)
			edgeFrom[e] = oldToNew[oldU]
			edgeTo[e] = newV
		}
	}
	sort.Slice(keptEdges, func(i, j int) bool { return keptEdges[i] < keptEdges[j] })

	numEdges := uint32(len(keptEdges))

	// Copy per-edge data.
	length := make([]float64, numEdges)
	attrs := make([]EdgeAttrs, numEdges)
	geoFirstOut := make([]uint32, numEdges+1)
	var geoShapeLat, geoShapeLon []float64

	for i, e := range keptEdges {
		length[i] = g.Length[e]
		attrs[i] = g.Attrs[e]
		geoFirstOut[i] = uint32(len(geoShapeLat))
		geoStart, geoEnd := g.GeoFirstOut[e], g.GeoFirstOut[e+1]
		geoShapeLat = append(geoShapeLat, g.GeoShapeLat[geoStart:geoEnd]...)
		geoShapeLon = append(geoShapeLon, g.GeoShapeLon[geoStart:geoEnd]...)
	}
	geoFirstOut[numEdges] = uint32(len(geoShapeLat))

	// Rebuild arcs in CSR order.
	type arc struct {
		from, to, edge uint32
		rev            bool
	}
	arcs := make([]arc, 0, 2*numEdges)
	for i, e := range keptEdges {
		arcs = append(arcs, arc{from: edgeFrom[e], to: edgeTo[e], edge: uint32(i), rev: false})
		arcs = append(arcs, arc{from: edgeTo[e], to: edgeFrom[e], edge: uint32(i), rev: true})
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].from != arcs[j].from {
			return arcs[i].from < arcs[j].from
		}
		if arcs[i].to != arcs[j].to {
			return arcs[i].to < arcs[j].to
		}
		return arcs[i].edge < arcs[j].edge
	})

	numArcs := uint32(len(arcs))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numArcs)
	arcEdge := make([]uint32, numArcs)
	arcRev := make([]bool, numArcs)

	for i, a := range arcs {
		head[i] = a.to
		arcEdge[i] = a.edge
		arcRev[i] = a.rev
		firstOut[a.from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	// Copy node coordinates.
	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)
	for newIdx, oldIdx := range nodes {
		nodeLat[newIdx] = g.NodeLat[oldIdx]
		nodeLon[newIdx] = g.NodeLon[oldIdx]
	}

	return &Graph{
		NumNodes:    numNodes,
		NumEdges:    numEdges,
		NumArcs:     numArcs,
		FirstOut:    firstOut,
		Head:        head,
		ArcEdge:     arcEdge,
		ArcRev:      arcRev,
		Length:      length,
		Attrs:       attrs,
		NodeLat:     nodeLat,
		NodeLon:     nodeLon,
		GeoFirstOut: geoFirstOut,
		GeoShapeLat: geoShapeLat,
		GeoShapeLon: geoShapeLon,
	}
}
