// Package poi loads the campus point-of-interest catalog from its plain
// text format: sections introduced by `---Category Name---` lines, each
// followed by `Name: latitude, longitude` entries. The file is UTF-8;
// accented names pass through untouched.
package poi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"campus_router/pkg/geo"
)

// Point is one named location.
type Point struct {
	Name     string
	Category string
	Coord    geo.LatLng
}

// Skipped records a malformed line the parser stepped over. A handful of
// bad lines must not abort the whole catalog load.
type Skipped struct {
	Line   int
	Text   string
	Reason string
}

// Catalog is the loaded POI set.
type Catalog struct {
	points     []Point
	byName     map[string]int
	categories []string
}

// Len returns the number of points.
func (c *Catalog) Len() int { return len(c.points) }

// Points returns all points in file order.
func (c *Catalog) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Lookup returns the point with the given name.
func (c *Catalog) Lookup(name string) (Point, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Point{}, false
	}
	return c.points[i], true
}

// Categories returns category names in file order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// InCategory returns the points of one category in file order.
func (c *Catalog) InCategory(category string) []Point {
	var out []Point
	for _, p := range c.points {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Parse reads a catalog, skipping malformed lines and reporting them.
func Parse(r io.Reader) (*Catalog, []Skipped, error) {
	c := &Catalog{byName: make(map[string]int)}
	var skipped []Skipped

	scanner := bufio.NewScanner(r)
	category := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "---") && strings.HasSuffix(line, "---") && len(line) > 6 {
			category = strings.TrimSpace(line[3 : len(line)-3])
			if category != "" {
				c.categories = append(c.categories, category)
				continue
			}
			skipped = append(skipped, Skipped{Line: lineNo, Text: line, Reason: "empty category header"})
			continue
		}

		if category == "" {
			skipped = append(skipped, Skipped{Line: lineNo, Text: line, Reason: "entry before any category header"})
			continue
		}

		// Coordinates follow the last colon; names may contain colons.
		sep := strings.LastIndex(line, ":")
		if sep <= 0 {
			skipped = append(skipped, Skipped{Line: lineNo, Text: line, Reason: "missing name/coordinate separator"})
			continue
		}
		name := strings.TrimSpace(line[:sep])
		coord, err := parseCoord(line[sep+1:])
		if err != nil {
			skipped = append(skipped, Skipped{Line: lineNo, Text: line, Reason: err.Error()})
			continue
		}
		if name == "" {
			skipped = append(skipped, Skipped{Line: lineNo, Text: line, Reason: "empty point name"})
			continue
		}
		if _, dup := c.byName[name]; dup {
			skipped = append(skipped, Skipped{Line: lineNo, Text: line, Reason: "duplicate point name"})
			continue
		}

		c.byName[name] = len(c.points)
		c.points = append(c.points, Point{Name: name, Category: category, Coord: coord})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}

	return c, skipped, nil
}

// Load parses the catalog file at path.
func Load(path string) (*Catalog, []Skipped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseCoord(s string) (geo.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.LatLng{}, fmt.Errorf("expected \"lat, lon\"")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("bad latitude %q", strings.TrimSpace(parts[0]))
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("bad longitude %q", strings.TrimSpace(parts[1]))
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return geo.LatLng{}, fmt.Errorf("coordinates out of range")
	}
	return geo.LatLng{Lat: lat, Lng: lon}, nil
}
