package render_test

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep"
	"github.com/soypat/frep/render"
)

func sphereField(t testing.TB, radius float64) render.Field3 {
	t.Helper()
	e, err := frep.NewEvaluator(frep.Sphere(radius, r3.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func boxAround(half float64) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: -half, Y: -half, Z: -half},
		Max: r3.Vec{X: half, Y: half, Z: half},
	}
}

func TestSphereMesh(t *testing.T) {
	const radius = 1.0
	const resolution = 0.05
	oc, err := render.NewOctreeRenderer(sphereField(t, radius), boxAround(1.2), resolution)
	if err != nil {
		t.Fatal(err)
	}
	tris, err := render.RenderAll(oc)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) == 0 {
		t.Fatal("no triangles rendered")
	}
	// Every vertex must sit near the sphere surface. Marching places
	// vertices on cell edges, so the error is bounded by the cell size.
	for _, tri := range tris {
		for _, v := range tri.V {
			if r := r3.Norm(v); math.Abs(r-radius) > resolution {
				t.Fatalf("vertex %v at radius %g, want %g within %g", v, r, radius, resolution)
			}
		}
	}
	// Outward normals: a sphere triangle's normal should point away from
	// the origin.
	for _, tri := range tris {
		center := r3.Scale(1.0/3, r3.Add(r3.Add(tri.V[0], tri.V[1]), tri.V[2]))
		if r3.Dot(tri.Normal(), center) < 0 {
			t.Fatal("triangle normal points inward")
		}
	}
	stats := oc.Stats()
	if stats.PrunedEmpty == 0 {
		t.Error("expected interval pruning of exterior subtrees")
	}
	if stats.PrunedFull == 0 {
		t.Error("expected interval pruning of interior subtrees")
	}
	if stats.CubesMarched == 0 {
		t.Error("no cubes marched")
	}
	t.Logf("triangles=%d stats=%+v", len(tris), stats)
}

// The mesh must be watertight: every edge is shared by exactly two
// triangles.
func TestSphereMeshWatertight(t *testing.T) {
	oc, err := render.NewOctreeRenderer(sphereField(t, 1), boxAround(1.2), 0.1)
	if err != nil {
		t.Fatal(err)
	}
	tris, err := render.RenderAll(oc)
	if err != nil {
		t.Fatal(err)
	}
	type vkey struct{ x, y, z int64 }
	type ekey struct{ a, b vkey }
	quant := func(v r3.Vec) vkey {
		const q = 1e7
		return vkey{
			int64(math.Round(v.X * q)),
			int64(math.Round(v.Y * q)),
			int64(math.Round(v.Z * q)),
		}
	}
	vless := func(a, b vkey) bool {
		if a.x != b.x {
			return a.x < b.x
		}
		if a.y != b.y {
			return a.y < b.y
		}
		return a.z < b.z
	}
	edges := make(map[ekey]int)
	for _, tri := range tris {
		k := [3]vkey{quant(tri.V[0]), quant(tri.V[1]), quant(tri.V[2])}
		for i := 0; i < 3; i++ {
			a, b := k[i], k[(i+1)%3]
			if vless(b, a) {
				a, b = b, a
			}
			edges[ekey{a, b}]++
		}
	}
	var bad int
	for _, n := range edges {
		if n != 2 {
			bad++
		}
	}
	if bad > 0 {
		t.Errorf("%d of %d edges not shared by exactly 2 triangles", bad, len(edges))
	}
}

// MeshAll with workers must produce the same surface as the serial path.
func TestMeshAllWorkers(t *testing.T) {
	f := func(t testing.TB) render.Field3 {
		e, err := frep.NewEvaluator(frep.Difference(
			frep.Sphere(1, r3.Vec{}),
			frep.CylinderZ(0.4, 4, -2, 0, 0),
		), nil)
		if err != nil {
			t.Fatal(err)
		}
		return e
	}
	bounds := boxAround(1.2)
	cfg := render.Settings{Resolution: 0.06}
	serial, err := render.MeshAll(f(t), bounds, cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 4
	parallel, err := render.MeshAll(f(t), bounds, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(serial) != len(parallel) {
		t.Fatalf("triangle count differs: serial %d, parallel %d", len(serial), len(parallel))
	}
	if s, p := meshArea(serial), meshArea(parallel); math.Abs(s-p) > 1e-9*s {
		t.Errorf("mesh area differs: serial %g, parallel %g", s, p)
	}
}

func meshArea(tris []render.Triangle3) float64 {
	areas := make([]float64, len(tris))
	for i, tri := range tris {
		e1 := r3.Sub(tri.V[1], tri.V[0])
		e2 := r3.Sub(tri.V[2], tri.V[0])
		areas[i] = 0.5 * r3.Norm(r3.Cross(e1, e2))
	}
	// Sum smallest first to keep the total deterministic across orderings.
	sort.Float64s(areas)
	total := 0.0
	for _, a := range areas {
		total += a
	}
	return total
}

// A resolution coarser than the bounding box must degrade to marching a
// single cube, not silently return an empty mesh.
func TestCoarseResolutionMesh(t *testing.T) {
	e, err := frep.NewEvaluator(frep.HalfSpace(r3.Vec{Z: 1}, r3.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	oc, err := render.NewOctreeRenderer(e, boxAround(0.2), 1.0)
	if err != nil {
		t.Fatal(err)
	}
	tris, err := render.RenderAll(oc)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) == 0 {
		t.Fatal("no triangles for a surface crossing the box")
	}
	if oc.Stats().CubesMarched == 0 {
		t.Error("expected at least one marched cube")
	}
	// The surface is the z = 0 plane; every vertex must sit on it.
	for _, tri := range tris {
		for _, v := range tri.V {
			if math.Abs(v.Z) > 1e-9 {
				t.Fatalf("vertex %v off the z = 0 plane", v)
			}
		}
	}
}

func TestRendererArgs(t *testing.T) {
	f := sphereField(t, 1)
	if _, err := render.NewOctreeRenderer(f, boxAround(1), -1); err == nil {
		t.Error("negative resolution should fail")
	}
	if _, err := render.NewOctreeRenderer(f, r3.Box{}, 0.1); err == nil {
		t.Error("empty bounds should fail")
	}
	if _, err := render.NewOctreeRenderer(f, boxAround(1e9), 1e-9); err == nil {
		t.Error("absurd cell count should fail")
	}
}
