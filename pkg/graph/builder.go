package graph

import (
	"log"
	"sort"

	"github.com/paulmach/osm"
)

// Build creates a CSR Graph from parsed OSM edges. Each undirected edge is
// materialized as two arcs. Edges violating the data invariants (dangling
// endpoint, non-positive length) are logged and dropped; the rest of the
// graph still loads.
func Build(result *ParseResult) *Graph {
	edges := result.Edges
	if len(edges) == 0 {
		return &Graph{FirstOut: []uint32{0}, GeoFirstOut: []uint32{0}}
	}

	// Step 1: Collect all unique node IDs and build a compact mapping.
	nodeSet := make(map[osm.NodeID]uint32)
	var nodeIDs []osm.NodeID

	addNode := func(id osm.NodeID) uint32 {
		if idx, ok := nodeSet[id]; ok {
			return idx
		}
		idx := uint32(len(nodeIDs))
		nodeSet[id] = idx
		nodeIDs = append(nodeIDs, id)
		return idx
	}

	// Step 2: Validate edges and remap endpoints.
	var dropped int
	kept := make([]RawEdge, 0, len(edges))
	for i := range edges {
		e := &edges[i]
		if _, ok := result.NodeLat[e.FromNodeID]; !ok {
			dropped++
			continue
		}
		if _, ok := result.NodeLat[e.ToNodeID]; !ok {
			dropped++
			continue
		}
		if e.LengthM <= 0 {
			dropped++
			continue
		}
		addNode(e.FromNodeID)
		addNode(e.ToNodeID)
		kept = append(kept, *e)
	}
	if dropped > 0 {
		log.Printf("Warning: dropped %d edges violating graph invariants", dropped)
	}
	if len(kept) == 0 {
		return &Graph{FirstOut: []uint32{0}, GeoFirstOut: []uint32{0}}
	}

	numNodes := uint32(len(nodeIDs))
	numEdges := uint32(len(kept))

	// Step 3: Store per-edge data in input order (edge index is stable).
	length := make([]float64, numEdges)
	attrs := make([]EdgeAttrs, numEdges)
	geoFirstOut := make([]uint32, numEdges+1)
	var geoShapeLat, geoShapeLon []float64

	for i, e := range kept {
		length[i] = e.LengthM
		attrs[i] = e.Attrs
		geoFirstOut[i] = uint32(len(geoShapeLat))
		geoShapeLat = append(geoShapeLat, e.ShapeLats...)
		geoShapeLon = append(geoShapeLon, e.ShapeLons...)
	}
	geoFirstOut[numEdges] = uint32(len(geoShapeLat))

	// Step 4: Materialize two arcs per edge and sort by source node.
	type arc struct {
		from uint32
		to   uint32
		edge uint32
		rev  bool
	}

	arcs := make([]arc, 0, 2*numEdges)
	for i, e := range kept {
		u := nodeSet[e.FromNodeID]
		v := nodeSet[e.ToNodeID]
		arcs = append(arcs, arc{from: u, to: v, edge: uint32(i), rev: false})
		arcs = append(arcs, arc{from: v, to: u, edge: uint32(i), rev: true})
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

	// Step 5: Build CSR arrays.
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
	// Prefix sum.
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	// Step 6: Populate node coordinates.
	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)
	for id, idx := range nodeSet {
		nodeLat[idx] = result.NodeLat[id]
		nodeLon[idx] = result.NodeLon[id]
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
