package render_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	hstl "github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep"
	"github.com/soypat/frep/render"
)

func TestSTLWriteReadRoundTrip(t *testing.T) {
	oc, err := render.NewOctreeRenderer(sphereField(t, 1), boxAround(1.2), 0.1)
	if err != nil {
		t.Fatal(err)
	}
	tris, err := render.RenderAll(oc)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := render.WriteSTL(&buf, tris); err != nil {
		t.Fatal(err)
	}
	wantSize := 84 + 50*len(tris)
	if buf.Len() != wantSize {
		t.Errorf("STL size %d, want %d", buf.Len(), wantSize)
	}
	got, err := render.ReadSTL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(tris) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(tris))
	}
	for i := range got {
		for j := 0; j < 3; j++ {
			if r3.Norm(r3.Sub(got[i].V[j], tris[i].V[j])) > 1e-6 {
				t.Fatalf("triangle %d vertex %d differs beyond float32 rounding", i, j)
			}
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	if err := render.WriteSTL(&bytes.Buffer{}, nil); err == nil {
		t.Error("empty model should fail")
	}
}

// CreateSTL streams through a size-unknown header; the finished file must
// agree with what an independent STL library reads back.
func TestCreateSTLCrossCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sphere.stl")
	oc, err := render.NewOctreeRenderer(sphereField(t, 1), boxAround(1.2), 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if err := render.CreateSTL(path, oc); err != nil {
		t.Fatal(err)
	}

	ours, err := readSTLFile(path)
	if err != nil {
		t.Fatal(err)
	}
	solid, err := hstl.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(solid.Triangles) != len(ours) {
		t.Fatalf("independent reader sees %d triangles, we see %d", len(solid.Triangles), len(ours))
	}
	for i, tri := range solid.Triangles {
		for j := 0; j < 3; j++ {
			v := r3.Vec{
				X: float64(tri.Vertices[j][0]),
				Y: float64(tri.Vertices[j][1]),
				Z: float64(tri.Vertices[j][2]),
			}
			if r3.Norm(r3.Sub(v, ours[i].V[j])) > 1e-6 {
				t.Fatalf("triangle %d vertex %d disagrees with independent reader", i, j)
			}
			if r := r3.Norm(v); math.Abs(r-1) > 0.1 {
				t.Fatalf("triangle %d vertex %d at radius %g, expected near 1", i, j, r)
			}
		}
	}
}

func TestSaveSTLWorkers(t *testing.T) {
	dir := t.TempDir()
	e, err := frep.NewEvaluator(frep.Sphere(1, r3.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, workers := range map[string]int{"serial.stl": 1, "parallel.stl": 4} {
		path := filepath.Join(dir, name)
		err := render.SaveSTL(path, e, boxAround(1.2), render.Settings{
			Resolution: 0.1,
			Workers:    workers,
		})
		if err != nil {
			t.Fatal(err)
		}
		tris, err := readSTLFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(tris) == 0 {
			t.Fatalf("%s: empty mesh", name)
		}
	}
}

// An empty mesh must fail the same way on the streaming serial path and
// the sliced workers path.
func TestSaveSTLEmptyMesh(t *testing.T) {
	e, err := frep.NewEvaluator(frep.Emptiness(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for name, workers := range map[string]int{"serial": 1, "parallel": 4} {
		path := filepath.Join(t.TempDir(), name+".stl")
		err := render.SaveSTL(path, e, boxAround(1), render.Settings{
			Resolution: 0.25,
			Workers:    workers,
		})
		if err == nil {
			t.Errorf("%s: saving an empty mesh should fail", name)
		}
	}
}

func readSTLFile(path string) ([]render.Triangle3, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return render.ReadSTL(fp)
}
