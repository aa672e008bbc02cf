// Package gpx serializes a computed route as a GPX 1.1 track for use in
// third-party GPS and fitness applications.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"

	"campus_router/pkg/geo"
)

const (
	xmlns          = "http://www.topografix.com/GPX/1/1"
	xmlnsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd"
)

type gpxFile struct {
	XMLName        xml.Name `xml:"gpx"`
	Version        string   `xml:"version,attr"`
	Creator        string   `xml:"creator,attr"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	Trk            track    `xml:"trk"`
}

type track struct {
	Name string   `xml:"name"`
	Seg  trackSeg `xml:"trkseg"`
}

type trackSeg struct {
	Points []trackPoint `xml:"trkpt"`
}

type trackPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// Write serializes the route points as a single-track, single-segment GPX
// 1.1 document.
func Write(w io.Writer, name string, points []geo.LatLng) error {
	if len(points) == 0 {
		return fmt.Errorf("gpx: route has no points")
	}

	doc := gpxFile{
		Version:        "1.1",
		Creator:        "campus_router",
		Xmlns:          xmlns,
		XmlnsXSI:       xmlnsXSI,
		SchemaLocation: schemaLocation,
		Trk:            track{Name: name},
	}
	doc.Trk.Seg.Points = make([]trackPoint, len(points))
	for i, p := range points {
		doc.Trk.Seg.Points[i] = trackPoint{Lat: p.Lat, Lon: p.Lng}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("gpx: write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("gpx: encode: %w", err)
	}
	return enc.Close()
}
