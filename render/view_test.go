package render_test

import (
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep"
	"github.com/soypat/frep/render"
)

type viewConfig struct {
	lookat r3.Vec
	up     r3.Vec
	eyepos r3.Vec
	far    float64
	near   float64
}

// Renders a meshed shape to a PNG through an independent rasterizer. This
// exercises the STL output end to end; a file another library cannot load
// fails here before any slicer or printer sees it.
func TestSTLRendersToPNG(t *testing.T) {
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "torus.stl")
	e, err := frep.NewEvaluator(frep.TorusZ(0.8, 0.3, r3.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	bounds := r3.Box{
		Min: r3.Vec{X: -1.2, Y: -1.2, Z: -0.4},
		Max: r3.Vec{X: 1.2, Y: 1.2, Z: 0.4},
	}
	err = render.SaveSTL(stlPath, e, bounds, render.Settings{Resolution: 0.04})
	if err != nil {
		t.Fatal(err)
	}
	stlToPNG(t, stlPath, filepath.Join(dir, "torus.png"), viewConfig{
		up:     r3.Vec{Z: 1},
		eyepos: r3.Vec{X: 3, Y: 3, Z: 3},
		near:   1,
		far:    10,
	})
}

func stlToPNG(t testing.TB, stlName, outputname string, view viewConfig) {
	mesh, err := fauxgl.LoadSTL(stlName)
	if err != nil {
		t.Fatal(err)
	}
	const (
		width, height = 640, 360
		scale         = 1
		fovy          = 30
	)
	var (
		eye    = fauxgl.V(view.eyepos.X, view.eyepos.Y, view.eyepos.Z)
		center = fauxgl.V(view.lookat.X, view.lookat.Y, view.lookat.Z)
		up     = fauxgl.V(view.up.X, view.up.Y, view.up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.near, view.far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	image := context.Image()
	image = resize.Resize(width, height, image, resize.Bilinear)
	if err := fauxgl.SavePNG(outputname, image); err != nil {
		t.Fatal(err)
	}
}
