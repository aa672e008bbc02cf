package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"unsafe"
)

const (
	magicBytes = "CAMPUSWY"
	version    = uint32(1)
	maxNodes   = 1_000_000
	maxEdges   = 5_000_000
)

// Attribute flag bits packed into one byte per edge.
const (
	flagSteps = 1 << iota
	flagRamp
	flagCrossing
	flagMarked
	flagInclineKnown
	flagWidthKnown
)

// fileHeader is the binary header.
type fileHeader struct {
	Magic    [8]byte
	Version  uint32
	NumNodes uint32
	NumEdges uint32
	NumArcs  uint32
}

// WriteBinary serializes a Graph to a binary file.
// Uses unsafe.Slice for fast zero-copy I/O on the large arrays.
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:  version,
		NumNodes: g.NumNodes,
		NumEdges: g.NumEdges,
		NumArcs:  g.NumArcs,
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Node data.
	if err := writeFloat64Slice(w, g.NodeLat); err != nil {
		return fmt.Errorf("write NodeLat: %w", err)
	}
	if err := writeFloat64Slice(w, g.NodeLon); err != nil {
		return fmt.Errorf("write NodeLon: %w", err)
	}

	// Arc topology.
	if err := writeUint32Slice(w, g.FirstOut); err != nil {
		return fmt.Errorf("write FirstOut: %w", err)
	}
	if err := writeUint32Slice(w, g.Head); err != nil {
		return fmt.Errorf("write Head: %w", err)
	}
	if err := writeUint32Slice(w, g.ArcEdge); err != nil {
		return fmt.Errorf("write ArcEdge: %w", err)
	}
	if err := writeBoolSlice(w, g.ArcRev); err != nil {
		return fmt.Errorf("write ArcRev: %w", err)
	}

	// Edge records: lengths, then attributes as parallel arrays.
	if err := writeFloat64Slice(w, g.Length); err != nil {
		return fmt.Errorf("write Length: %w", err)
	}
	if err := writeAttrs(w, g.Attrs); err != nil {
		return fmt.Errorf("write Attrs: %w", err)
	}

	// Geometry (length-prefixed for variable-size arrays).
	if err := writeLenPrefixedUint32(w, g.GeoFirstOut); err != nil {
		return fmt.Errorf("write GeoFirstOut: %w", err)
	}
	if err := writeLenPrefixedFloat64(w, g.GeoShapeLat); err != nil {
		return fmt.Errorf("write GeoShapeLat: %w", err)
	}
	if err := writeLenPrefixedFloat64(w, g.GeoShapeLon); err != nil {
		return fmt.Errorf("write GeoShapeLon: %w", err)
	}

	// Write CRC32 trailer.
	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a Graph from a binary file.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	// Read and validate header.
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}
	if hdr.NumArcs != 2*hdr.NumEdges {
		return nil, fmt.Errorf("NumArcs %d != 2*NumEdges %d", hdr.NumArcs, hdr.NumEdges)
	}

	g := &Graph{NumNodes: hdr.NumNodes, NumEdges: hdr.NumEdges, NumArcs: hdr.NumArcs}

	// Node data.
	if g.NodeLat, err = readFloat64Slice(r, int(hdr.NumNodes)); err != nil {
		return nil, fmt.Errorf("read NodeLat: %w", err)
	}
	if g.NodeLon, err = readFloat64Slice(r, int(hdr.NumNodes)); err != nil {
		return nil, fmt.Errorf("read NodeLon: %w", err)
	}

	// Arc topology.
	if g.FirstOut, err = readUint32Slice(r, int(hdr.NumNodes+1)); err != nil {
		return nil, fmt.Errorf("read FirstOut: %w", err)
	}
	if g.Head, err = readUint32Slice(r, int(hdr.NumArcs)); err != nil {
		return nil, fmt.Errorf("read Head: %w", err)
	}
	if g.ArcEdge, err = readUint32Slice(r, int(hdr.NumArcs)); err != nil {
		return nil, fmt.Errorf("read ArcEdge: %w", err)
	}
	if g.ArcRev, err = readBoolSlice(r, int(hdr.NumArcs)); err != nil {
		return nil, fmt.Errorf("read ArcRev: %w", err)
	}

	// Edge records.
	if g.Length, err = readFloat64Slice(r, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read Length: %w", err)
	}
	if g.Attrs, err = readAttrs(r, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read Attrs: %w", err)
	}

	// Geometry (length-prefixed, optional for small test graphs).
	g.GeoFirstOut, _ = readUint32SliceOptional(r)
	g.GeoShapeLat, _ = readFloat64SliceOptional(r)
	g.GeoShapeLon, _ = readFloat64SliceOptional(r)

	// Read and validate CRC32.
	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	// Validate CSR invariants.
	if err := validateCSR(g); err != nil {
		return nil, fmt.Errorf("CSR invalid: %w", err)
	}

	return g, nil
}

// writeAttrs serializes edge attributes as parallel arrays: four byte
// arrays for the enumerated fields and flags, two float arrays for the
// numeric fields.
func writeAttrs(w io.Writer, attrs []EdgeAttrs) error {
	n := len(attrs)
	class := make([]byte, n)
	surface := make([]byte, n)
	wheelchair := make([]byte, n)
	flags := make([]byte, n)
	incline := make([]float64, n)
	width := make([]float64, n)

	for i, a := range attrs {
		class[i] = byte(a.Class)
		surface[i] = byte(a.Surface)
		wheelchair[i] = byte(a.Wheelchair)
		var fl byte
		if a.Steps {
			fl |= flagSteps
		}
		if a.Ramp {
			fl |= flagRamp
		}
		if a.Crossing {
			fl |= flagCrossing
		}
		if a.Marked {
			fl |= flagMarked
		}
		if a.InclineKnown {
			fl |= flagInclineKnown
		}
		if a.WidthKnown {
			fl |= flagWidthKnown
		}
		flags[i] = fl
		incline[i] = a.InclinePct
		width[i] = a.WidthM
	}

	for _, b := range [][]byte{class, surface, wheelchair, flags} {
		if len(b) == 0 {
			continue
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	if err := writeFloat64Slice(w, incline); err != nil {
		return err
	}
	return writeFloat64Slice(w, width)
}

func readAttrs(r io.Reader, n int) ([]EdgeAttrs, error) {
	if n == 0 {
		return nil, nil
	}
	class := make([]byte, n)
	surface := make([]byte, n)
	wheelchair := make([]byte, n)
	flags := make([]byte, n)
	for _, b := range [][]byte{class, surface, wheelchair, flags} {
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, err
		}
	}
	incline, err := readFloat64Slice(r, n)
	if err != nil {
		return nil, err
	}
	width, err := readFloat64Slice(r, n)
	if err != nil {
		return nil, err
	}

	attrs := make([]EdgeAttrs, n)
	for i := range attrs {
		attrs[i] = EdgeAttrs{
			Class:        PathClass(class[i]),
			Surface:      SurfaceClass(surface[i]),
			Wheelchair:   WheelchairTag(wheelchair[i]),
			Steps:        flags[i]&flagSteps != 0,
			Ramp:         flags[i]&flagRamp != 0,
			Crossing:     flags[i]&flagCrossing != 0,
			Marked:       flags[i]&flagMarked != 0,
			InclineKnown: flags[i]&flagInclineKnown != 0,
			InclinePct:   incline[i],
			WidthKnown:   flags[i]&flagWidthKnown != 0,
			WidthM:       width[i],
		}
	}
	return attrs, nil
}

// validateCSR checks CSR and edge-record invariants after load.
func validateCSR(g *Graph) error {
	if uint32(len(g.FirstOut)) != g.NumNodes+1 {
		return fmt.Errorf("FirstOut length %d != NumNodes+1 %d", len(g.FirstOut), g.NumNodes+1)
	}
	if g.FirstOut[g.NumNodes] != g.NumArcs {
		return fmt.Errorf("FirstOut[NumNodes] %d != NumArcs %d", g.FirstOut[g.NumNodes], g.NumArcs)
	}
	for i := uint32(1); i <= g.NumNodes; i++ {
		if g.FirstOut[i] < g.FirstOut[i-1] {
			return fmt.Errorf("FirstOut not monotonic at %d: %d < %d", i, g.FirstOut[i], g.FirstOut[i-1])
		}
	}
	for i, h := range g.Head {
		if h >= g.NumNodes {
			return fmt.Errorf("Head[%d]=%d >= NumNodes=%d", i, h, g.NumNodes)
		}
		if g.ArcEdge[i] >= g.NumEdges {
			return fmt.Errorf("ArcEdge[%d]=%d >= NumEdges=%d", i, g.ArcEdge[i], g.NumEdges)
		}
	}
	for i, l := range g.Length {
		if l <= 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return fmt.Errorf("Length[%d]=%f not strictly positive", i, l)
		}
	}
	return nil
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeBoolSlice(w io.Writer, s []bool) error {
	if len(s) == 0 {
		return nil
	}
	b := make([]byte, len(s))
	for i, v := range s {
		if v {
			b[i] = 1
		}
	}
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readBoolSlice(r io.Reader, n int) ([]bool, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	s := make([]bool, n)
	for i, v := range b {
		s[i] = v != 0
	}
	return s, nil
}

func writeLenPrefixedUint32(w io.Writer, s []uint32) error {
	n := uint32(len(s))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return err
	}
	return writeUint32Slice(w, s)
}

func writeLenPrefixedFloat64(w io.Writer, s []float64) error {
	n := uint32(len(s))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return err
	}
	return writeFloat64Slice(w, s)
}

// readUint32SliceOptional reads a uint32 length prefix then the slice data.
// Returns nil, nil if at EOF or data unavailable.
func readUint32SliceOptional(r io.Reader) ([]uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, nil // EOF or error — geometry is optional
	}
	if n == 0 || n > math.MaxUint32/4 {
		return nil, nil
	}
	return readUint32Slice(r, int(n))
}

func readFloat64SliceOptional(r io.Reader) ([]float64, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, nil
	}
	if n == 0 || n > math.MaxUint32/8 {
		return nil, nil
	}
	return readFloat64Slice(r, int(n))
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
