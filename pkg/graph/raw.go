package graph

import "github.com/paulmach/osm"

// RawEdge represents one undirected walkable edge extracted from OSM data.
// Length is the sum of great-circle segment lengths over the full geometry,
// not the straight-line distance between the endpoints.
type RawEdge struct {
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
	LengthM    float64
	Attrs      EdgeAttrs
	ShapeLats  []float64 // intermediate shape node latitudes (excluding from/to)
	ShapeLons  []float64 // intermediate shape node longitudes (excluding from/to)
}

// ParseResult is the raw extraction output consumed by Build. Producers
// (the OSM parser, test fixtures) fill it without touching CSR internals.
type ParseResult struct {
	Edges   []RawEdge
	NodeLat map[osm.NodeID]float64
	NodeLon map[osm.NodeID]float64
}
