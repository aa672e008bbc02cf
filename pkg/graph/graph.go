package graph

// PathClass categorizes a walkable way.
type PathClass uint8

const (
	ClassUnknown PathClass = iota
	ClassFootway
	ClassPath
	ClassPedestrian
	ClassSteps
	ClassCorridor
	ClassResidential
	ClassService
	ClassLivingStreet
	ClassTrack
)

// SurfaceClass categorizes the physical surface of a walkable way.
// The set is closed: the OSM parser folds raw surface tags into these
// values, and profile factor tables are indexed by them.
type SurfaceClass uint8

const (
	SurfaceUnknown SurfaceClass = iota
	SurfacePaved       // asphalt, concrete, paving_stones
	SurfaceCobblestone // cobblestone, sett, unhewn_cobblestone
	SurfaceCompacted   // compacted, fine_gravel
	SurfaceGravel
	SurfaceDirt // dirt, ground, earth, mud
	SurfaceGrass
	SurfaceSand
)

// NumSurfaceClasses is the size of profile surface factor tables.
const NumSurfaceClasses = 8

// WheelchairTag mirrors the OSM wheelchair accessibility tag.
type WheelchairTag uint8

const (
	WheelchairUnknown WheelchairTag = iota
	WheelchairYes
	WheelchairLimited
	WheelchairNo
)

// EdgeAttrs is the physical/accessibility attribute record of one
// undirected edge. InclinePct is signed in the edge's stored from→to
// direction; traversing the reverse arc flips the sign.
type EdgeAttrs struct {
	Class        PathClass
	Surface      SurfaceClass
	Wheelchair   WheelchairTag
	Steps        bool
	Ramp         bool
	Crossing     bool // edge crosses a street
	Marked       bool // crossing is marked or signal-controlled
	InclineKnown bool
	InclinePct   float64
	WidthKnown   bool
	WidthM       float64
}

// Graph is the campus path network in CSR form. The network is undirected:
// every edge is stored once in Length/Attrs/geometry and materialized as two
// directed arcs so neighbor iteration stays a flat slice scan. Immutable
// after construction.
type Graph struct {
	NumNodes uint32
	NumEdges uint32 // undirected edge count; arc count is 2*NumEdges
	NumArcs  uint32

	FirstOut []uint32 // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are arcs from node i
	Head     []uint32 // len: NumArcs; target node for each arc
	ArcEdge  []uint32 // len: NumArcs; undirected edge record backing each arc
	ArcRev   []bool   // len: NumArcs; arc runs against the edge's stored direction

	Length []float64   // len: NumEdges; geometry length in meters, strictly positive
	Attrs  []EdgeAttrs // len: NumEdges

	NodeLat []float64 // len: NumNodes
	NodeLon []float64 // len: NumNodes

	// Edge geometry: intermediate shape points in stored from→to order,
	// excluding the endpoint nodes themselves.
	// GeoFirstOut[i]..GeoFirstOut[i+1] indexes into GeoShapeLat/Lon for edge i.
	GeoFirstOut []uint32  // len: NumEdges + 1
	GeoShapeLat []float64 // flattened intermediate lat coords
	GeoShapeLon []float64 // flattened intermediate lon coords
}

// ArcsFrom returns the range of arc indices for arcs originating from node u.
func (g *Graph) ArcsFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// NoArc is the sentinel returned by FindArc when no u→v arc exists.
const NoArc = ^uint32(0)

// FindArc returns the arc from u to v with the smallest edge length, or
// NoArc. Parallel edges are kept independent in the graph, so the shortest
// one is the deterministic choice when only the endpoints are known.
func (g *Graph) FindArc(u, v uint32) uint32 {
	best := NoArc
	bestLen := 0.0
	start, end := g.ArcsFrom(u)
	for a := start; a < end; a++ {
		if g.Head[a] != v {
			continue
		}
		if best == NoArc || g.Length[g.ArcEdge[a]] < bestLen {
			best = a
			bestLen = g.Length[g.ArcEdge[a]]
		}
	}
	return best
}
