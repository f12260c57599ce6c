package render

import (
	"errors"
	"io"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/frep/internal/d3"
)

// octree renders a Field3 with marching tetrahedra over octree space
// sampling. Subtrees whose interval estimate proves them entirely inside
// or outside the solid are pruned without sampling their corners.
type octree struct {
	dc        distCache
	todo      []cube
	unwritten triangle3Buffer
	maxIdx    ivec // grid cells covering the bounding box per axis
	stats     OctreeStats
}

// OctreeStats counts the work an octree renderer performed.
type OctreeStats struct {
	// PrunedEmpty is the number of subtrees proven entirely outside the
	// solid by interval evaluation.
	PrunedEmpty int
	// PrunedFull is the number of subtrees proven entirely inside.
	PrunedFull int
	// CubesMarched is the number of resolution-level cubes polygonized.
	CubesMarched int
}

// ivec is a grid coordinate in resolution units.
type ivec struct {
	x, y, z int
}

func (v ivec) add(u ivec) ivec { return ivec{v.x + u.x, v.y + u.y, v.z + u.z} }

// cube is an octree cell. Its origin is the minimum corner in grid
// coordinates and its side is 1 << lvl cells.
type cube struct {
	ivec
	lvl uint
}

// NewOctreeRenderer returns a Renderer meshing f over bounds with grid
// cells of the given resolution. The bounding box is grown slightly about
// its center so the surface does not land exactly on the outer sample
// planes.
func NewOctreeRenderer(f Field3, bounds r3.Box, resolution float64) (*octree, error) {
	bb := d3.Box(bounds)
	size := bb.Size()
	if resolution <= 0 || math.IsNaN(resolution) {
		return nil, errors.New("render: resolution must be positive")
	}
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, errors.New("render: empty bounding box")
	}
	if d3.Max(size)/resolution > 1<<20 {
		return nil, errors.New("render: resolution too fine for bounding box")
	}
	bb = bb.ScaleAboutCenter(1.01)
	size = bb.Size()
	// A resolution coarser than the box still marches a single cube;
	// the log would go negative and wrap the level count otherwise.
	var levels uint
	if ratio := d3.Max(size) / resolution; ratio > 1 {
		levels = uint(math.Ceil(math.Log2(ratio)))
	}
	oc := &octree{
		dc: distCache{
			f:          f,
			origin:     bb.Min,
			resolution: resolution,
			cache:      make(map[ivec]float64, 1024),
		},
		maxIdx: ivec{
			x: int(math.Ceil(size.X / resolution)),
			y: int(math.Ceil(size.Y / resolution)),
			z: int(math.Ceil(size.Z / resolution)),
		},
		todo:      []cube{{ivec{0, 0, 0}, levels}},
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
	}
	return oc, nil
}

// Stats returns work counters accumulated so far.
func (oc *octree) Stats() OctreeStats { return oc.stats }

// ReadTriangles writes triangles rendered from the model into dst.
// It returns io.EOF once the mesh is exhausted.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	cubesProcessed := 0
	var newCubes []cube
	for _, c := range oc.todo {
		if n == len(dst) {
			break
		}
		if n+marchMaxTriangles > len(dst) {
			// Not enough room for a worst-case cube; overflow into the
			// unwritten buffer and stop.
			var tmp [marchMaxTriangles]Triangle3
			nt, sub := oc.processCube(tmp[:], c)
			oc.unwritten.Write(tmp[:nt])
			newCubes = append(newCubes, sub...)
			cubesProcessed++
			break
		}
		nt, sub := oc.processCube(dst[n:], c)
		newCubes = append(newCubes, sub...)
		cubesProcessed++
		n += nt
	}
	oc.todo = append(oc.todo[cubesProcessed:], newCubes...)
	return n
}

// processCube polygonizes a resolution-level cube or subdivides a larger
// one, pruning subtrees the interval estimate proves uniform.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.lvl == 0 {
		var corners [8]r3.Vec
		var values [8]float64
		for i, off := range cornerOffsets {
			corners[i], values[i] = oc.dc.evaluate(c.add(off))
		}
		oc.stats.CubesMarched++
		return marchCube(dst, corners, values), nil
	}
	lo, hi := oc.dc.f.Interval(r3.Box(oc.cubeBox(c)))
	if lo > 0 {
		oc.stats.PrunedEmpty++
		return 0, nil
	}
	if hi < 0 {
		oc.stats.PrunedFull++
		return 0, nil
	}
	lvl := c.lvl - 1
	s := 1 << lvl
	for _, off := range cornerOffsets {
		sub := cube{c.add(ivec{off.x * s, off.y * s, off.z * s}), lvl}
		// Skip children past the sampled region.
		if sub.x >= oc.maxIdx.x || sub.y >= oc.maxIdx.y || sub.z >= oc.maxIdx.z {
			continue
		}
		newCubes = append(newCubes, sub)
	}
	return 0, newCubes
}

// cornerOffsets orders cube corners in the ring convention marchCube uses.
var cornerOffsets = [8]ivec{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

func (oc *octree) cubeBox(c cube) d3.Box {
	side := float64(int(1)<<c.lvl) * oc.dc.resolution
	min := oc.dc.pos(c.ivec)
	return d3.Box{Min: min, Max: r3.Add(min, r3.Vec{X: side, Y: side, Z: side})}
}

// distCache memoizes corner samples. Neighboring cubes share up to four
// corners, so roughly half of lookups hit.
type distCache struct {
	mu         sync.Mutex
	cache      map[ivec]float64
	f          Field3
	origin     r3.Vec
	resolution float64
}

func (dc *distCache) pos(vi ivec) r3.Vec {
	return r3.Add(dc.origin, r3.Scale(dc.resolution, r3.Vec{
		X: float64(vi.x), Y: float64(vi.y), Z: float64(vi.z),
	}))
}

func (dc *distCache) evaluate(vi ivec) (r3.Vec, float64) {
	v := dc.pos(vi)
	dc.mu.Lock()
	d, ok := dc.cache[vi]
	dc.mu.Unlock()
	if ok {
		return v, d
	}
	d = dc.f.Evaluate(v)
	dc.mu.Lock()
	dc.cache[vi] = d
	dc.mu.Unlock()
	return v, d
}

// Settings configures MeshAll.
type Settings struct {
	// Resolution is the edge length of the marching grid cells in model
	// units.
	Resolution float64
	// Workers caps meshing goroutines. Zero or one meshes serially.
	Workers int
}

// MeshAll meshes f over bounds and returns all triangles. With more than
// one worker the top octree cell's children are meshed concurrently; the
// result triangle order then varies run to run.
func MeshAll(f Field3, bounds r3.Box, cfg Settings) ([]Triangle3, error) {
	oc, err := NewOctreeRenderer(f, bounds, cfg.Resolution)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 1 {
		return RenderAll(oc)
	}

	// Split the root into independent subtrees, one renderer each so
	// distance caches stay uncontended.
	var roots []cube
	top := oc.todo[0]
	if top.lvl == 0 {
		roots = []cube{top}
	} else {
		lvl := top.lvl - 1
		s := 1 << lvl
		for _, off := range cornerOffsets {
			sub := cube{ivec{off.x * s, off.y * s, off.z * s}, lvl}
			if sub.x >= oc.maxIdx.x || sub.y >= oc.maxIdx.y || sub.z >= oc.maxIdx.z {
				continue
			}
			roots = append(roots, sub)
		}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		result  []Triangle3
		firstEr error
		sem     = make(chan struct{}, cfg.Workers)
	)
	for _, root := range roots {
		sub := &octree{
			dc: distCache{
				f:          f,
				origin:     oc.dc.origin,
				resolution: oc.dc.resolution,
				cache:      make(map[ivec]float64, 1024),
			},
			maxIdx:    oc.maxIdx,
			todo:      []cube{root},
			unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			tris, err := RenderAll(sub)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstEr == nil {
				firstEr = err
			}
			result = append(result, tris...)
		}()
	}
	wg.Wait()
	if firstEr != nil {
		return nil, firstEr
	}
	return result, nil
}

// SaveSTL meshes f over bounds and writes the result to an STL file.
func SaveSTL(path string, f Field3, bounds r3.Box, cfg Settings) error {
	if cfg.Workers <= 1 {
		oc, err := NewOctreeRenderer(f, bounds, cfg.Resolution)
		if err != nil {
			return err
		}
		return CreateSTL(path, oc)
	}
	tris, err := MeshAll(f, bounds, cfg)
	if err != nil {
		return err
	}
	return createSTLFromSlice(path, tris)
}
