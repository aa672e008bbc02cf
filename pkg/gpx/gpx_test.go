package gpx

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"campus_router/pkg/geo"
)

func TestWriteTwoPointTrack(t *testing.T) {
	var buf bytes.Buffer
	points := []geo.LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.001},
	}

	if err := Write(&buf, "Teste", points); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, xml.Header) {
		t.Error("output missing XML declaration")
	}
	for _, want := range []string{
		`version="1.1"`,
		`xmlns="http://www.topografix.com/GPX/1/1"`,
		`<name>Teste</name>`,
		`<trkpt lat="0" lon="0">`,
		`<trkpt lat="0" lon="0.001">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\n%s", want, out)
		}
	}

	// The document must parse back with both points intact.
	var parsed struct {
		Version string `xml:"version,attr"`
		Trk     struct {
			Name string `xml:"name"`
			Seg  struct {
				Points []struct {
					Lat float64 `xml:"lat,attr"`
					Lon float64 `xml:"lon,attr"`
				} `xml:"trkpt"`
			} `xml:"trkseg"`
		} `xml:"trk"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	if parsed.Version != "1.1" {
		t.Errorf("version = %q, want 1.1", parsed.Version)
	}
	if len(parsed.Trk.Seg.Points) != 2 {
		t.Fatalf("parsed %d track points, want 2", len(parsed.Trk.Seg.Points))
	}
	if parsed.Trk.Seg.Points[1].Lon != 0.001 {
		t.Errorf("second point lon = %f, want 0.001", parsed.Trk.Seg.Points[1].Lon)
	}
}

func TestWritePreservesFullGeometry(t *testing.T) {
	var buf bytes.Buffer
	points := []geo.LatLng{
		{Lat: -3.7680, Lng: -38.4790},
		{Lat: -3.7681, Lng: -38.4785}, // intermediate shape point
		{Lat: -3.7682, Lng: -38.4780},
	}

	if err := Write(&buf, "Rota Campus", points); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if got := strings.Count(buf.String(), "<trkpt"); got != 3 {
		t.Errorf("wrote %d trkpt elements, want all 3 geometry points", got)
	}
}

func TestWriteEmptyRoute(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "vazio", nil); err == nil {
		t.Fatal("Write accepted an empty point list")
	}
}
