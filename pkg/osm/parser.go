package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
)

// walkableHighways lists highway tag values usable on foot.
var walkableHighways = map[string]graph.PathClass{
	"footway":       graph.ClassFootway,
	"path":          graph.ClassPath,
	"pedestrian":    graph.ClassPedestrian,
	"steps":         graph.ClassSteps,
	"corridor":      graph.ClassCorridor,
	"residential":   graph.ClassResidential,
	"living_street": graph.ClassLivingStreet,
	"service":       graph.ClassService,
	"track":         graph.ClassTrack,
	"unclassified":  graph.ClassUnknown,
	"crossing":      graph.ClassFootway,
}

// surfaceClasses folds raw OSM surface values into the closed surface set.
var surfaceClasses = map[string]graph.SurfaceClass{
	"paved":              graph.SurfacePaved,
	"asphalt":            graph.SurfacePaved,
	"concrete":           graph.SurfacePaved,
	"concrete:plates":    graph.SurfacePaved,
	"paving_stones":      graph.SurfacePaved,
	"cobblestone":        graph.SurfaceCobblestone,
	"sett":               graph.SurfaceCobblestone,
	"unhewn_cobblestone": graph.SurfaceCobblestone,
	"compacted":          graph.SurfaceCompacted,
	"fine_gravel":        graph.SurfaceCompacted,
	"gravel":             graph.SurfaceGravel,
	"pebblestone":        graph.SurfaceGravel,
	"unpaved":            graph.SurfaceGravel,
	"dirt":               graph.SurfaceDirt,
	"ground":             graph.SurfaceDirt,
	"earth":              graph.SurfaceDirt,
	"mud":                graph.SurfaceDirt,
	"grass":              graph.SurfaceGrass,
	"sand":               graph.SurfaceSand,
}

// isWalkable returns true if the way is usable by pedestrians.
func isWalkable(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if _, ok := walkableHighways[hw]; !ok {
		return false
	}

	// Skip area highways (plazas are modeled by their outline, not crossable).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if foot := tags.Find("foot"); foot == "no" || foot == "private" {
		return false
	}

	return true
}

// parseAttrs extracts the accessibility attribute record from way tags.
func parseAttrs(tags osm.Tags) graph.EdgeAttrs {
	var a graph.EdgeAttrs

	hw := tags.Find("highway")
	a.Class = walkableHighways[hw]
	a.Steps = hw == "steps"

	a.Surface = surfaceClasses[tags.Find("surface")]

	switch tags.Find("wheelchair") {
	case "yes", "designated":
		a.Wheelchair = graph.WheelchairYes
	case "limited":
		a.Wheelchair = graph.WheelchairLimited
	case "no":
		a.Wheelchair = graph.WheelchairNo
	}

	if tags.Find("ramp") == "yes" || tags.Find("ramp:wheelchair") == "yes" ||
		tags.Find("ramp:stroller") == "yes" {
		a.Ramp = true
	}

	if tags.Find("footway") == "crossing" || hw == "crossing" {
		a.Crossing = true
		switch tags.Find("crossing") {
		case "marked", "zebra", "traffic_signals":
			a.Marked = true
		}
	}

	if pct, ok := parseIncline(tags.Find("incline")); ok {
		a.InclineKnown = true
		a.InclinePct = pct
	}

	if m, ok := parseWidth(tags.Find("width")); ok {
		a.WidthKnown = true
		a.WidthM = m
	}

	return a
}

// parseIncline converts an OSM incline tag to a signed percentage. Numeric
// values with an optional "%" suffix parse directly; the bare directional
// values map to a nominal 10% grade. Anything else is unknown.
func parseIncline(v string) (float64, bool) {
	switch v {
	case "":
		return 0, false
	case "up":
		return 10, true
	case "down":
		return -10, true
	}
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	s = strings.ReplaceAll(s, ",", ".")
	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

// parseWidth converts an OSM width tag to meters.
func parseWidth(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "m"))
	s = strings.ReplaceAll(s, ",", ".")
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || m <= 0 {
		return 0, false
	}
	return m, true
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	NodeIDs []osm.NodeID
	Attrs   graph.EdgeAttrs
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges fully inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, filter edges to this bounding box
}

// Parse reads an OSM PBF file and returns undirected walkable edges.
// Ways are split at junction nodes (nodes shared between ways or way
// endpoints); interior nodes become edge shape geometry. The reader is
// consumed twice (seeks back to start for the second pass), so it must
// implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*graph.ParseResult, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	// Pass 1: Scan ways to collect referenced node IDs, usage counts and way info.
	nodeUse := make(map[osm.NodeID]int)
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}

		if !isWalkable(w.Tags) {
			continue
		}

		if len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			nodeUse[wn.ID]++
		}
		// Endpoints are always junctions, even on a dead-end way.
		nodeUse[nodeIDs[0]]++
		nodeUse[nodeIDs[len(nodeIDs)-1]]++

		ways = append(ways, wayInfo{
			NodeIDs: nodeIDs,
			Attrs:   parseAttrs(w.Tags),
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d walkable ways, %d referenced nodes", len(ways), len(nodeUse))

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(nodeUse))
	nodeLon := make(map[osm.NodeID]float64, len(nodeUse))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}

		if _, needed := nodeUse[n.ID]; !needed {
			continue
		}

		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates collected", len(nodeLat))

	// Build edges by cutting each way at junction nodes.
	var edges []graph.RawEdge
	var skippedEdges int
	var bboxFiltered int

	for _, w := range ways {
		segStart := 0
		for i := 1; i < len(w.NodeIDs); i++ {
			isJunction := nodeUse[w.NodeIDs[i]] > 1 || i == len(w.NodeIDs)-1
			if !isJunction {
				continue
			}

			edge, ok := buildEdge(w, segStart, i, nodeLat, nodeLon)
			segStart = i
			if !ok {
				skippedEdges++
				continue
			}
			if useBBox && (!opt.BBox.Contains(nodeLat[edge.FromNodeID], nodeLon[edge.FromNodeID]) ||
				!opt.BBox.Contains(nodeLat[edge.ToNodeID], nodeLon[edge.ToNodeID])) {
				bboxFiltered++
				continue
			}
			edges = append(edges, edge)
		}
	}

	if skippedEdges > 0 {
		log.Printf("Warning: skipped %d edges due to missing node coordinates", skippedEdges)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d edges outside bounding box", bboxFiltered)
	}
	log.Printf("Built %d undirected edges", len(edges))

	return &graph.ParseResult{
		Edges:   edges,
		NodeLat: nodeLat,
		NodeLon: nodeLon,
	}, nil
}

// buildEdge assembles the edge for way nodes [from..to], accumulating
// geometry length over every intermediate segment.
func buildEdge(w wayInfo, from, to int, nodeLat, nodeLon map[osm.NodeID]float64) (graph.RawEdge, bool) {
	var length float64
	var shapeLats, shapeLons []float64

	for i := from; i < to; i++ {
		aLat, aOk := nodeLat[w.NodeIDs[i]]
		aLon := nodeLon[w.NodeIDs[i]]
		bLat, bOk := nodeLat[w.NodeIDs[i+1]]
		bLon := nodeLon[w.NodeIDs[i+1]]
		if !aOk || !bOk {
			return graph.RawEdge{}, false
		}
		length += geo.Haversine(aLat, aLon, bLat, bLon)

		if i > from {
			shapeLats = append(shapeLats, aLat)
			shapeLons = append(shapeLons, aLon)
		}
	}

	if length <= 0 {
		return graph.RawEdge{}, false
	}

	return graph.RawEdge{
		FromNodeID: w.NodeIDs[from],
		ToNodeID:   w.NodeIDs[to],
		LengthM:    length,
		Attrs:      w.Attrs,
		ShapeLats:  shapeLats,
		ShapeLons:  shapeLons,
	}, true
}
