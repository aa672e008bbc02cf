package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"campus_router/pkg/bench"
	"campus_router/pkg/graph"
	"campus_router/pkg/poi"
	"campus_router/pkg/profile"
)

func main() {
	graphPath := flag.String("graph", "campus.bin", "Path to preprocessed graph binary")
	poiPath := flag.String("pois", "", "Path to POI catalog text file")
	pairs := flag.Int("pairs", 25, "Origin/destination pairs to sample")
	reps := flag.Int("reps", 30, "Timed repetitions per trial")
	warmup := flag.Int("warmup", 3, "Discarded warm-up repetitions per trial")
	seed := flag.Int64("seed", 42, "RNG seed for pair sampling")
	profiles := flag.String("profiles", "", "Comma-separated profile subset (empty = all)")
	outDir := flag.String("out-dir", "bench_results", "Directory for CSV/JSON output")
	flag.Parse()

	if *poiPath == "" {
		log.Fatal("A POI catalog is required: --pois <file>")
	}

	start := time.Now()

	log.Printf("Loading graph from %s...", *graphPath)
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	catalog, skipped, err := poi.Load(*poiPath)
	if err != nil {
		log.Fatalf("Failed to load POI catalog: %v", err)
	}
	for _, s := range skipped {
		log.Printf("POI line %d skipped (%s): %s", s.Line, s.Reason, s.Text)
	}
	log.Printf("Loaded %d POIs", catalog.Len())

	registry, err := profile.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to build profile registry: %v", err)
	}

	cfg := bench.Config{
		Pairs:       *pairs,
		Repetitions: *reps,
		Warmup:      *warmup,
		Seed:        *seed,
	}
	if *profiles != "" {
		cfg.Profiles = strings.Split(*profiles, ",")
	}

	log.Printf("Running benchmark: %d pairs, %d reps (+%d warm-up), seed %d",
		cfg.Pairs, cfg.Repetitions, cfg.Warmup, cfg.Seed)
	harness := bench.NewHarness(g, registry, catalog)
	records, err := harness.Run(cfg)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}
	csvPath := filepath.Join(*outDir, "results.csv")
	jsonPath := filepath.Join(*outDir, "results.json")

	if err := writeFile(csvPath, func(f *os.File) error {
		return bench.WriteCSV(f, records)
	}); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}
	if err := writeFile(jsonPath, func(f *os.File) error {
		return bench.WriteJSON(f, cfg, records)
	}); err != nil {
		log.Fatalf("Failed to write JSON: %v", err)
	}

	// Console summary per strategy and distance category.
	log.Printf("%-16s %-8s %8s %12s %14s", "strategy", "category", "trials", "mean ms", "mean explored")
	for _, s := range bench.Summarize(records) {
		log.Printf("%-16s %-8s %8d %12.3f %14.1f", s.Strategy, s.Category, s.Count, s.MeanMs, s.MeanExplored)
	}

	failures := 0
	for _, r := range records {
		if r.Err != "" {
			failures++
		}
	}
	if failures > 0 {
		log.Printf("%d of %d trials failed (unreachable under strict profiles is expected)", failures, len(records))
	}

	log.Printf("Done in %s. Results: %s, %s", time.Since(start).Round(time.Millisecond), csvPath, jsonPath)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
