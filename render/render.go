// Package render meshes implicit surfaces into triangles and exports them
// to STL, and slices them into 2D contours for SVG export. Fields are
// consumed through the Field3 interface, which frep.Evaluator satisfies.
package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Field3 is a scalar field with a conservative range estimate. Evaluate
// returns the field value at a point, negative inside the solid. Interval
// returns bounds [lo, hi] containing every field value inside the box;
// lo > 0 proves the box empty and hi < 0 proves it full.
type Field3 interface {
	Evaluate(p r3.Vec) float64
	Interval(b r3.Box) (lo, hi float64)
}

// Renderer incrementally yields the triangle mesh of a surface.
type Renderer interface {
	// ReadTriangles writes up to len(t) triangles into t and returns the
	// number written. It returns io.EOF when the mesh is exhausted.
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a triangle in 3D space.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle by right-hand winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate reports whether any two vertices coincide within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t.V[0], t.V[1])) <= tol ||
		r3.Norm(r3.Sub(t.V[1], t.V[2])) <= tol ||
		r3.Norm(r3.Sub(t.V[2], t.V[0])) <= tol
}

// RenderAll reads the full contents of a Renderer and returns the slice
// read. io.EOF is consumed, not returned.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		if err != nil {
			break
		}
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type triangle3Buffer struct {
	buf []Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
