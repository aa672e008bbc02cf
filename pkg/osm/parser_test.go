package osm

import (
	"testing"

	"github.com/paulmach/osm"

	"campus_router/pkg/graph"
)

func TestIsWalkable(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{"footway", osm.Tags{{Key: "highway", Value: "footway"}}, true},
		{"steps", osm.Tags{{Key: "highway", Value: "steps"}}, true},
		{"residential", osm.Tags{{Key: "highway", Value: "residential"}}, true},
		{"motorway", osm.Tags{{Key: "highway", Value: "motorway"}}, false},
		{"no highway tag", osm.Tags{{Key: "building", Value: "yes"}}, false},
		{"area plaza", osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "yes"}}, false},
		{"private access", osm.Tags{{Key: "highway", Value: "footway"}, {Key: "access", Value: "private"}}, false},
		{"foot forbidden", osm.Tags{{Key: "highway", Value: "path"}, {Key: "foot", Value: "no"}}, false},
		{"foot private", osm.Tags{{Key: "highway", Value: "service"}, {Key: "foot", Value: "private"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWalkable(tt.tags); got != tt.want {
				t.Errorf("isWalkable(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestParseAttrsSteps(t *testing.T) {
	tags := osm.Tags{
		{Key: "highway", Value: "steps"},
		{Key: "ramp:wheelchair", Value: "yes"},
		{Key: "surface", Value: "concrete"},
	}
	a := parseAttrs(tags)

	if a.Class != graph.ClassSteps {
		t.Errorf("Class = %d, want ClassSteps", a.Class)
	}
	if !a.Steps {
		t.Error("Steps = false on highway=steps")
	}
	if !a.Ramp {
		t.Error("Ramp = false with ramp:wheelchair=yes")
	}
	if a.Surface != graph.SurfacePaved {
		t.Errorf("Surface = %d, want SurfacePaved for concrete", a.Surface)
	}
}

func TestParseAttrsCrossing(t *testing.T) {
	tests := []struct {
		name       string
		tags       osm.Tags
		crossing   bool
		marked     bool
	}{
		{
			"zebra footway crossing",
			osm.Tags{{Key: "highway", Value: "footway"}, {Key: "footway", Value: "crossing"}, {Key: "crossing", Value: "zebra"}},
			true, true,
		},
		{
			"signal controlled",
			osm.Tags{{Key: "highway", Value: "crossing"}, {Key: "crossing", Value: "traffic_signals"}},
			true, true,
		},
		{
			"unmarked crossing",
			osm.Tags{{Key: "highway", Value: "footway"}, {Key: "footway", Value: "crossing"}},
			true, false,
		},
		{
			"plain footway",
			osm.Tags{{Key: "highway", Value: "footway"}},
			false, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := parseAttrs(tt.tags)
			if a.Crossing != tt.crossing || a.Marked != tt.marked {
				t.Errorf("Crossing=%v Marked=%v, want %v %v", a.Crossing, a.Marked, tt.crossing, tt.marked)
			}
		})
	}
}

func TestParseAttrsWheelchair(t *testing.T) {
	tests := []struct {
		value string
		want  graph.WheelchairTag
	}{
		{"yes", graph.WheelchairYes},
		{"designated", graph.WheelchairYes},
		{"limited", graph.WheelchairLimited},
		{"no", graph.WheelchairNo},
		{"", graph.WheelchairUnknown},
		{"maybe", graph.WheelchairUnknown},
	}

	for _, tt := range tests {
		tags := osm.Tags{{Key: "highway", Value: "footway"}}
		if tt.value != "" {
			tags = append(tags, osm.Tag{Key: "wheelchair", Value: tt.value})
		}
		if got := parseAttrs(tags).Wheelchair; got != tt.want {
			t.Errorf("wheelchair=%q: got %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseIncline(t *testing.T) {
	tests := []struct {
		in   string
		pct  float64
		ok   bool
	}{
		{"", 0, false},
		{"5%", 5, true},
		{"-8%", -8, true},
		{"12.5%", 12.5, true},
		{"3", 3, true},
		{"2,5%", 2.5, true}, // decimal comma appears in south-american data
		{"up", 10, true},
		{"down", -10, true},
		{"steep", 0, false},
	}

	for _, tt := range tests {
		pct, ok := parseIncline(tt.in)
		if ok != tt.ok || pct != tt.pct {
			t.Errorf("parseIncline(%q) = (%f, %v), want (%f, %v)", tt.in, pct, ok, tt.pct, tt.ok)
		}
	}
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		in string
		m  float64
		ok bool
	}{
		{"", 0, false},
		{"1.5", 1.5, true},
		{"2 m", 2, true},
		{"0,8", 0.8, true},
		{"-1", 0, false},
		{"wide", 0, false},
	}

	for _, tt := range tests {
		m, ok := parseWidth(tt.in)
		if ok != tt.ok || m != tt.m {
			t.Errorf("parseWidth(%q) = (%f, %v), want (%f, %v)", tt.in, m, ok, tt.m, tt.ok)
		}
	}
}

func TestBBox(t *testing.T) {
	var zero BBox
	if !zero.IsZero() {
		t.Error("zero BBox not IsZero")
	}

	campus := BBox{MinLat: -3.776, MaxLat: -3.762, MinLng: -38.484, MaxLng: -38.472}
	if campus.IsZero() {
		t.Error("campus BBox reported as zero")
	}
	if !campus.Contains(-3.768, -38.478) {
		t.Error("campus center reported outside its own bbox")
	}
	if campus.Contains(-3.5, -38.478) {
		t.Error("point north of campus reported inside bbox")
	}
}
