package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary STL: an 84 byte header (80 byte comment, uint32 triangle count)
// followed by 50 byte triangle records.

const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
)

type stlHeader struct {
	_     [80]uint8
	Count uint32
}

// WriteSTL writes triangles to w in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("render: empty triangle slice")
	}
	header := stlHeader{Count: uint32(len(model))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var b [stlTriangleSize]byte
	for _, tri := range model {
		stlFromTriangle(tri).put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// CreateSTL streams triangles from a Renderer into an STL file. The
// triangle count is unknown up front, so the header is written last by
// seeking back over it.
func CreateSTL(path string, r Renderer) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err = file.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return err
	}
	rd := &stlReader{r: r}
	n, err := io.CopyBuffer(file, rd, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return err
	}
	if n == 0 {
		// Match WriteSTL so serial and sliced paths fail alike.
		return errors.New("render: empty triangle slice")
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	header := stlHeader{Count: uint32(n / stlTriangleSize)}
	return binary.Write(file, binary.LittleEndian, &header)
}

func createSTLFromSlice(path string, model []Triangle3) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSTL(file, model); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

const trianglesInBuffer = 1 << 10

// stlReader adapts a Renderer into an io.Reader of STL triangle records.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle3
}

func (w *stlReader) Read(b []byte) (int, error) {
	ntMax := minInt(len(b)/stlTriangleSize, len(w.buf))
	if ntMax == 0 {
		return 0, errors.New("render: need at least 50 bytes to write a triangle")
	}
	var (
		err error
		it  int
		nt  int
	)
	for it < ntMax && err == nil {
		nt, err = w.r.ReadTriangles(w.buf[:ntMax-it])
		for _, tri := range w.buf[:nt] {
			stlFromTriangle(tri).put(b[it*stlTriangleSize:])
			it++
		}
	}
	return it * stlTriangleSize, err
}

// ReadSTL parses a binary STL stream and validates each triangle. Normal
// mismatches are tolerated up to a limit since high resolution models
// round normals to zero length; other defects fail immediately.
func ReadSTL(r io.Reader) (output []Triangle3, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("render: STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("render: STL header indicates 0 triangles")
	}
	var (
		buf            [stlTriangleSize]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, errNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if errors.Is(err, errNormalMismatch) {
				normMismatches++
				if normMismatches > 10_000 {
					return output, fmt.Errorf("too many normal mismatches (%d)", normMismatches)
				}
				readErr = err
			} else {
				return nil, err
			}
		}
		output = append(output, d.toTriangle3())
	}
	return output, readErr
}

// stlTriangle is the on-disk triangle record.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // attribute byte count
}

func stlFromTriangle(tri Triangle3) stlTriangle {
	var d stlTriangle
	n := tri.Normal()
	d.Normal = f32From3(n)
	d.Vertex1 = f32From3(tri.V[0])
	d.Vertex2 = f32From3(tri.V[1])
	d.Vertex3 = f32From3(tri.V[2])
	return d
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
}

var errNormalMismatch = errors.New("render: triangle normal does not match vertices")

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("render: inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("render: inf/NaN STL triangle vertex")
	}
	if t.degenerate(epsilon) {
		return errors.New("render: STL triangle is degenerate")
	}
	calc := t.normalFromVertices()
	neg := [3]float32{-calc[0], -calc[1], -calc[2]}
	if !equalWithin3F32(calc, t.Normal, normTol) && !equalWithin3F32(neg, t.Normal, normTol) {
		return errNormalMismatch
	}
	return nil
}

func (t stlTriangle) normalFromVertices() [3]float32 {
	tri := t.toTriangle3()
	return f32From3(tri.Normal())
}

func (t stlTriangle) degenerate(tol float32) bool {
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func (t stlTriangle) toTriangle3() Triangle3 {
	return Triangle3{V: [3]r3.Vec{
		r3From3F32(t.Vertex1),
		r3From3F32(t.Vertex2),
		r3From3F32(t.Vertex3),
	}}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func f32From3(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func minInt(a, b int) int {
	if a <= b {
		return a
	}
	return b
}
