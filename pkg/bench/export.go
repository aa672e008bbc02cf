package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the column order of the CSV export.
var csvHeader = []string{
	"profile", "origin", "destination", "strategy", "category",
	"geometric_distance_m", "mean_ms", "median_ms", "stddev_ms",
	"nodes_explored", "route_distance_m", "error",
}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Profile, r.Origin, r.Destination, r.Strategy, r.Category,
			formatFloat(r.GeomDistanceM),
			formatFloat(r.MeanMs),
			formatFloat(r.MedianMs),
			formatFloat(r.StdDevMs),
			strconv.Itoa(r.NodesExplored),
			formatFloat(r.RouteDistanceM),
			r.Err,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// Report wraps the records with run metadata for the JSON export.
type Report struct {
	Seed        int64    `json:"seed"`
	Pairs       int      `json:"pairs"`
	Repetitions int      `json:"repetitions"`
	Warmup      int      `json:"warmup"`
	Records     []Record `json:"records"`
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, cfg Config, records []Record) error {
	report := Report{
		Seed:        cfg.Seed,
		Pairs:       cfg.Pairs,
		Repetitions: cfg.Repetitions,
		Warmup:      cfg.Warmup,
		Records:     records,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Summary aggregates mean latency and exploration per (strategy, category)
// across successful records.
type Summary struct {
	Strategy     string
	Category     string
	Count        int
	MeanMs       float64
	MeanExplored float64
}

// Summarize groups successful records by strategy and category. Output order
// follows first appearance in the record slice.
func Summarize(records []Record) []Summary {
	type key struct{ strategy, category string }
	idx := make(map[key]int)
	var out []Summary

	for _, r := range records {
		if r.Err != "" {
			continue
		}
		k := key{r.Strategy, r.Category}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Summary{Strategy: r.Strategy, Category: r.Category})
		}
		s := &out[i]
		s.Count++
		s.MeanMs += r.MeanMs
		s.MeanExplored += float64(r.NodesExplored)
	}

	for i := range out {
		n := float64(out[i].Count)
		out[i].MeanMs /= n
		out[i].MeanExplored /= n
	}
	return out
}
