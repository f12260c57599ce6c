package render

import "gonum.org/v1/gonum/spatial/r3"

// Marching tetrahedra over grid cubes. Each cube is split into six
// tetrahedra sharing the main diagonal, every tetrahedron yielding up to
// two triangles, so the surface has no ambiguous sign configurations.

// marchMaxTriangles is the most triangles marchCube can write for one cube.
const marchMaxTriangles = 12

// Cube corners in ring order: bottom face 0-3 counterclockwise, top face
// 4-7 above them. The main diagonal runs 0 to 6.
var cubeTets = [6][4]int{
	{0, 5, 1, 6},
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
}

// marchCube emits the surface triangles for one grid cube given its corner
// positions and field values. dst needs room for marchMaxTriangles.
// A corner is inside the solid when its value is negative.
func marchCube(dst []Triangle3, corners [8]r3.Vec, values [8]float64) int {
	n := 0
	for _, tet := range cubeTets {
		p := [4]r3.Vec{corners[tet[0]], corners[tet[1]], corners[tet[2]], corners[tet[3]]}
		v := [4]float64{values[tet[0]], values[tet[1]], values[tet[2]], values[tet[3]]}
		n += marchTet(dst[n:], p, v)
	}
	return n
}

// marchTet emits 0, 1 or 2 triangles for one tetrahedron.
func marchTet(dst []Triangle3, p [4]r3.Vec, v [4]float64) int {
	var in, out []int
	for i := 0; i < 4; i++ {
		if v[i] < 0 {
			in = append(in, i)
		} else {
			out = append(out, i)
		}
	}
	if len(in) == 0 || len(in) == 4 {
		return 0
	}

	// Crease direction from solid interior to exterior, used to orient
	// triangle windings so normals point outward.
	var inC, outC r3.Vec
	for _, i := range in {
		inC = r3.Add(inC, p[i])
	}
	for _, i := range out {
		outC = r3.Add(outC, p[i])
	}
	dir := r3.Sub(r3.Scale(1/float64(len(out)), outC), r3.Scale(1/float64(len(in)), inC))

	cross := func(a, b int) r3.Vec {
		t := v[a] / (v[a] - v[b])
		return r3.Add(p[a], r3.Scale(t, r3.Sub(p[b], p[a])))
	}
	emit := func(dst []Triangle3, a, b, c r3.Vec) int {
		t := Triangle3{V: [3]r3.Vec{a, b, c}}
		if t.Degenerate(1e-12) {
			return 0
		}
		if r3.Dot(t.Normal(), dir) < 0 {
			t.V[1], t.V[2] = t.V[2], t.V[1]
		}
		dst[0] = t
		return 1
	}

	switch len(in) {
	case 1:
		a := in[0]
		return emit(dst, cross(a, out[0]), cross(a, out[1]), cross(a, out[2]))
	case 3:
		b := out[0]
		return emit(dst, cross(in[0], b), cross(in[1], b), cross(in[2], b))
	case 2:
		a, b := in[0], in[1]
		c, d := out[0], out[1]
		q0 := cross(a, c)
		q1 := cross(a, d)
		q2 := cross(b, d)
		q3 := cross(b, c)
		n := emit(dst, q0, q1, q2)
		n += emit(dst[n:], q0, q2, q3)
		return n
	}
	return 0
}
