package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/osm"
)

func testGraphWithAttrs(t *testing.T) *Graph {
	t.Helper()
	result := &ParseResult{
		Edges: []RawEdge{
			{
				FromNodeID: 1, ToNodeID: 2, LengthM: 42.5,
				Attrs: EdgeAttrs{
					Class:        ClassSteps,
					Surface:      SurfacePaved,
					Wheelchair:   WheelchairNo,
					Steps:        true,
					Ramp:         true,
					InclineKnown: true,
					InclinePct:   -7.5,
				},
				ShapeLats: []float64{-3.7685},
				ShapeLons: []float64{-38.4785},
			},
			{
				FromNodeID: 2, ToNodeID: 3, LengthM: 18.25,
				Attrs: EdgeAttrs{
					Class:      ClassFootway,
					Surface:    SurfaceGravel,
					Crossing:   true,
					Marked:     true,
					WidthKnown: true,
					WidthM:     1.2,
				},
			},
		},
		NodeLat: map[osm.NodeID]float64{1: -3.768, 2: -3.769, 3: -3.770},
		NodeLon: map[osm.NodeID]float64{1: -38.478, 2: -38.477, 3: -38.476},
	}
	return Build(result)
}

func TestBinaryRoundTrip(t *testing.T) {
	g := testGraphWithAttrs(t)
	path := filepath.Join(t.TempDir(), "campus.bin")

	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	loaded, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if loaded.NumNodes != g.NumNodes || loaded.NumEdges != g.NumEdges || loaded.NumArcs != g.NumArcs {
		t.Fatalf("counts = (%d, %d, %d), want (%d, %d, %d)",
			loaded.NumNodes, loaded.NumEdges, loaded.NumArcs, g.NumNodes, g.NumEdges, g.NumArcs)
	}

	for i := range g.Length {
		if loaded.Length[i] != g.Length[i] {
			t.Errorf("Length[%d] = %f, want %f", i, loaded.Length[i], g.Length[i])
		}
		if loaded.Attrs[i] != g.Attrs[i] {
			t.Errorf("Attrs[%d] = %+v, want %+v", i, loaded.Attrs[i], g.Attrs[i])
		}
	}
	for i := range g.Head {
		if loaded.Head[i] != g.Head[i] || loaded.ArcEdge[i] != g.ArcEdge[i] || loaded.ArcRev[i] != g.ArcRev[i] {
			t.Errorf("arc %d = (%d, %d, %v), want (%d, %d, %v)",
				i, loaded.Head[i], loaded.ArcEdge[i], loaded.ArcRev[i],
				g.Head[i], g.ArcEdge[i], g.ArcRev[i])
		}
	}
	for i := range g.GeoShapeLat {
		if loaded.GeoShapeLat[i] != g.GeoShapeLat[i] || loaded.GeoShapeLon[i] != g.GeoShapeLon[i] {
			t.Errorf("shape point %d mismatch", i)
		}
	}
}

func TestBinaryCorruptedCRC(t *testing.T) {
	g := testGraphWithAttrs(t)
	path := filepath.Join(t.TempDir(), "campus.bin")

	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	// Flip one payload byte past the header.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[32] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadBinary(path); err == nil {
		t.Fatal("ReadBinary accepted a corrupted file")
	}
}

func TestBinaryBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.bin")
	if err := os.WriteFile(path, []byte("NOTAGRAPH_AT_ALL________________"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBinary(path); err == nil {
		t.Fatal("ReadBinary accepted a file with wrong magic bytes")
	}
}

func TestBinaryMissingFile(t *testing.T) {
	if _, err := ReadBinary(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Fatal("ReadBinary succeeded on a missing file")
	}
}
