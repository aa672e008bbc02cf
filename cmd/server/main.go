package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"campus_router/pkg/api"
	"campus_router/pkg/graph"
	"campus_router/pkg/poi"
	"campus_router/pkg/profile"
	"campus_router/pkg/routing"
)

func main() {
	graphPath := flag.String("graph", "campus.bin", "Path to preprocessed graph binary")
	poiPath := flag.String("pois", "", "Path to POI catalog text file (optional)")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	// Load graph.
	log.Printf("Loading graph from %s...", *graphPath)
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	// Load POI catalog if given; the server only reports its size, the
	// catalog matters for the bench tool.
	numPOIs := 0
	if *poiPath != "" {
		catalog, skipped, err := poi.Load(*poiPath)
		if err != nil {
			log.Fatalf("Failed to load POI catalog: %v", err)
		}
		for _, s := range skipped {
			log.Printf("POI line %d skipped (%s): %s", s.Line, s.Reason, s.Text)
		}
		numPOIs = catalog.Len()
		log.Printf("Loaded %d POIs in %d categories", numPOIs, len(catalog.Categories()))
	}

	// Build routing engine: profiles, weight cache, R-tree snapper.
	log.Println("Building R-tree spatial index...")
	registry, err := profile.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to build profile registry: %v", err)
	}
	engine, err := routing.NewEngine(g, registry)
	if err != nil {
		log.Fatalf("Failed to build routing engine: %v", err)
	}

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	// Setup HTTP server.
	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	stats := api.StatsResponse{
		NumNodes: g.NumNodes,
		NumEdges: g.NumEdges,
		NumPOIs:  numPOIs,
	}

	handlers := api.NewHandlers(engine, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
