package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Planar slicing: a field is cut by a z plane and its zero crossing traced
// into closed contours with marching squares, or rasterized into an
// occupancy bitmap.

// Bitmap is a boolean raster of field occupancy in a z plane.
type Bitmap struct {
	Nx, Ny int
	Min    r2.Vec
	Max    r2.Vec
	pix    []bool
}

// Occupancy samples f at z over the rectangle min to max on an nx by ny
// grid of pixel centers. A pixel is set when its center is inside the
// solid.
func Occupancy(f Field3, z float64, min, max r2.Vec, nx, ny int) (*Bitmap, error) {
	if nx < 1 || ny < 1 {
		return nil, errors.New("render: bitmap needs at least 1x1 pixels")
	}
	bm := &Bitmap{Nx: nx, Ny: ny, Min: min, Max: max, pix: make([]bool, nx*ny)}
	dx := (max.X - min.X) / float64(nx)
	dy := (max.Y - min.Y) / float64(ny)
	for iy := 0; iy < ny; iy++ {
		y := min.Y + (float64(iy)+0.5)*dy
		for ix := 0; ix < nx; ix++ {
			x := min.X + (float64(ix)+0.5)*dx
			if f.Evaluate(r3.Vec{X: x, Y: y, Z: z}) < 0 {
				bm.pix[iy*nx+ix] = true
			}
		}
	}
	return bm, nil
}

// At reports whether pixel (ix, iy) is inside the solid.
func (bm *Bitmap) At(ix, iy int) bool { return bm.pix[iy*bm.Nx+ix] }

// Count returns the number of set pixels.
func (bm *Bitmap) Count() int {
	n := 0
	for _, p := range bm.pix {
		if p {
			n++
		}
	}
	return n
}

// SliceContours traces the zero crossing of f in the plane z over the
// rectangle min to max, with marching squares cells of the given
// resolution. Each contour is an open or closed polyline; contours of a
// solid fully inside the rectangle are closed.
func SliceContours(f Field3, z float64, min, max r2.Vec, resolution float64) ([][]r2.Vec, error) {
	if resolution <= 0 {
		return nil, errors.New("render: resolution must be positive")
	}
	nx := int(math.Ceil((max.X - min.X) / resolution))
	ny := int(math.Ceil((max.Y - min.Y) / resolution))
	if nx < 1 || ny < 1 {
		return nil, errors.New("render: empty slice rectangle")
	}
	if nx*ny > 1<<26 {
		return nil, errors.New("render: resolution too fine for slice rectangle")
	}

	// Corner samples. A sample landing exactly on the surface would put
	// crossings on cell corners and 0/0 into the edge interpolation, so
	// exact zeros are nudged inside.
	vals := make([]float64, (nx+1)*(ny+1))
	at := func(ix, iy int) float64 { return vals[iy*(nx+1)+ix] }
	for iy := 0; iy <= ny; iy++ {
		y := min.Y + float64(iy)*resolution
		for ix := 0; ix <= nx; ix++ {
			x := min.X + float64(ix)*resolution
			v := f.Evaluate(r3.Vec{X: x, Y: y, Z: z})
			if v == 0 {
				v = -math.SmallestNonzeroFloat64
			}
			vals[iy*(nx+1)+ix] = v
		}
	}

	var segs []segment2
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			segs = appendCellSegments(segs, f, z, min, resolution, ix, iy,
				at(ix, iy), at(ix+1, iy), at(ix+1, iy+1), at(ix, iy+1))
		}
	}
	return chainSegments(segs), nil
}

type segment2 struct {
	a, b r2.Vec
}

// appendCellSegments emits the zero-crossing segments of one marching
// squares cell. Corner order: v0 bottom-left, v1 bottom-right, v2
// top-right, v3 top-left. Saddle cells are disambiguated with a center
// sample.
func appendCellSegments(segs []segment2, f Field3, z float64, min r2.Vec, res float64, ix, iy int, v0, v1, v2, v3 float64) []segment2 {
	mask := 0
	if v0 < 0 {
		mask |= 1
	}
	if v1 < 0 {
		mask |= 2
	}
	if v2 < 0 {
		mask |= 4
	}
	if v3 < 0 {
		mask |= 8
	}
	if mask == 0 || mask == 15 {
		return segs
	}
	x0 := min.X + float64(ix)*res
	y0 := min.Y + float64(iy)*res
	lerp := func(p, q r2.Vec, vp, vq float64) r2.Vec {
		t := vp / (vp - vq)
		return r2.Vec{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
	}
	c0 := r2.Vec{X: x0, Y: y0}
	c1 := r2.Vec{X: x0 + res, Y: y0}
	c2 := r2.Vec{X: x0 + res, Y: y0 + res}
	c3 := r2.Vec{X: x0, Y: y0 + res}
	// Edge crossing points, computed lazily by the case below.
	bottom := func() r2.Vec { return lerp(c0, c1, v0, v1) }
	right := func() r2.Vec { return lerp(c1, c2, v1, v2) }
	top := func() r2.Vec { return lerp(c3, c2, v3, v2) }
	left := func() r2.Vec { return lerp(c0, c3, v0, v3) }

	add := func(a, b r2.Vec) { segs = append(segs, segment2{a, b}) }
	switch mask {
	case 1, 14:
		add(bottom(), left())
	case 2, 13:
		add(bottom(), right())
	case 3, 12:
		add(left(), right())
	case 4, 11:
		add(right(), top())
	case 6, 9:
		add(bottom(), top())
	case 7, 8:
		add(top(), left())
	case 5, 10:
		center := f.Evaluate(r3.Vec{X: x0 + res/2, Y: y0 + res/2, Z: z})
		inside := center < 0
		if mask == 10 {
			inside = !inside
		}
		if inside {
			add(bottom(), right())
			add(top(), left())
		} else {
			add(bottom(), left())
			add(right(), top())
		}
	}
	return segs
}

// chainSegments links segments sharing endpoints into polylines. Endpoint
// matching quantizes coordinates so floating point noise does not break
// chains.
func chainSegments(segs []segment2) [][]r2.Vec {
	type key struct{ x, y int64 }
	const quant = 1e9
	keyOf := func(p r2.Vec) key {
		return key{int64(math.Round(p.X * quant)), int64(math.Round(p.Y * quant))}
	}
	used := make([]bool, len(segs))
	adj := make(map[key][]int, 2*len(segs))
	for i, s := range segs {
		// Surface points on cell corners collapse segments to zero length;
		// they would inflate the corner's degree and split chains there.
		if keyOf(s.a) == keyOf(s.b) {
			used[i] = true
			continue
		}
		adj[keyOf(s.a)] = append(adj[keyOf(s.a)], i)
		adj[keyOf(s.b)] = append(adj[keyOf(s.b)], i)
	}
	takeNext := func(p r2.Vec) (segment2, bool) {
		for _, i := range adj[keyOf(p)] {
			if used[i] {
				continue
			}
			used[i] = true
			s := segs[i]
			if keyOf(s.a) == keyOf(p) {
				return s, true
			}
			return segment2{s.b, s.a}, true
		}
		return segment2{}, false
	}

	var contours [][]r2.Vec
	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		contour := []r2.Vec{s.a, s.b}
		// Extend forward.
		for {
			next, ok := takeNext(contour[len(contour)-1])
			if !ok {
				break
			}
			contour = append(contour, next.b)
		}
		// Extend backward.
		for {
			next, ok := takeNext(contour[0])
			if !ok {
				break
			}
			contour = append([]r2.Vec{next.b}, contour...)
		}
		contours = append(contours, contour)
	}
	return contours
}

// WriteSVG writes contours as an SVG drawing. The view box spans min to
// max in model units; the y axis is flipped so +y points up.
func WriteSVG(w io.Writer, contours [][]r2.Vec, min, max r2.Vec) error {
	width := max.X - min.X
	height := max.Y - min.Y
	if width <= 0 || height <= 0 {
		return errors.New("render: empty SVG view box")
	}
	stroke := math.Max(width, height) / 500
	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
		min.X, -max.Y, width, height)
	if err != nil {
		return err
	}
	for _, contour := range contours {
		if len(contour) < 2 {
			continue
		}
		fmt.Fprintf(w, `<polyline fill="none" stroke="black" stroke-width="%g" points="`, stroke)
		for i, p := range contour {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%g,%g", p.X, -p.Y)
		}
		if _, err := fmt.Fprintln(w, `"/>`); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, "</svg>")
	return err
}

// CreateSVG slices f at z and writes the contours to an SVG file.
func CreateSVG(path string, f Field3, z float64, min, max r2.Vec, resolution float64) error {
	contours, err := SliceContours(f, z, min, max, resolution)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(file, contours, min, max); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
