// Command export dumps a preprocessed graph as GeoJSON for inspection in
// any map viewer. With --profile it colors each edge by passability, which
// makes exclusion rules easy to eyeball against the real campus.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
	"campus_router/pkg/weight"
)

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   lineString     `json:"geometry"`
}

type lineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"` // [lng, lat]
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func main() {
	graphPath := flag.String("graph", "campus.bin", "Path to preprocessed graph binary")
	output := flag.String("output", "campus.geojson", "Output GeoJSON file path")
	profileName := flag.String("profile", "", "Annotate edges with passability for this profile (optional)")
	flag.Parse()

	log.Printf("Loading graph from %s...", *graphPath)
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	var wg *weight.Graph
	if *profileName != "" {
		registry, err := profile.NewRegistry()
		if err != nil {
			log.Fatalf("Failed to build profile registry: %v", err)
		}
		p, ok := registry.Get(*profileName)
		if !ok {
			log.Fatalf("Unknown profile %q (available: %v)", *profileName, registry.Names())
		}
		wg = weight.Build(g, p)
	}

	fc := featureCollection{Type: "FeatureCollection"}
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.ArcsFrom(u)
		for a := start; a < end; a++ {
			if g.ArcRev[a] {
				continue // one feature per undirected edge
			}
			v := g.Head[a]
			e := g.ArcEdge[a]

			coords := [][2]float64{{g.NodeLon[u], g.NodeLat[u]}}
			gs, ge := g.GeoFirstOut[e], g.GeoFirstOut[e+1]
			for k := gs; k < ge; k++ {
				coords = append(coords, [2]float64{g.GeoShapeLon[k], g.GeoShapeLat[k]})
			}
			coords = append(coords, [2]float64{g.NodeLon[v], g.NodeLat[v]})

			props := map[string]any{
				"length_m": g.Length[e],
				"class":    int(g.Attrs[e].Class),
				"surface":  int(g.Attrs[e].Surface),
				"steps":    g.Attrs[e].Steps,
			}
			if wg != nil {
				props["passable"] = wg.Costs[a] != weight.Impassable
			}

			fc.Features = append(fc.Features, feature{
				Type:       "Feature",
				Properties: props,
				Geometry:   lineString{Type: "LineString", Coordinates: coords},
			})
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(fc); err != nil {
		log.Fatalf("Failed to write GeoJSON: %v", err)
	}
	log.Printf("Wrote %d features to %s", len(fc.Features), *output)
}
