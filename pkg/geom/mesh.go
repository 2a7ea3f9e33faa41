package geom

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which module this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// boxFace describes one face of a unit box by its corner offsets
// (in half-extent multiples) and outward normal.
type boxFace struct {
	corners [4][3]float64
	normal  [3]float64
}

// boxFaces lists the 6 faces of an axis-aligned box centered at the origin,
// corners wound counterclockwise as seen from outside.
var boxFaces = [6]boxFace{
	{[4][3]float64{{1, -1, -1}, {1, -1, 1}, {1, 1, 1}, {1, 1, -1}}, [3]float64{1, 0, 0}},
	{[4][3]float64{{-1, -1, 1}, {-1, -1, -1}, {-1, 1, -1}, {-1, 1, 1}}, [3]float64{-1, 0, 0}},
	{[4][3]float64{{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {-1, 1, 1}}, [3]float64{0, 1, 0}},
	{[4][3]float64{{-1, -1, 1}, {1, -1, 1}, {1, -1, -1}, {-1, -1, -1}}, [3]float64{0, -1, 0}},
	{[4][3]float64{{-1, -1, 1}, {-1, 1, 1}, {1, 1, 1}, {1, -1, 1}}, [3]float64{0, 0, 1}},
	{[4][3]float64{{1, -1, -1}, {1, 1, -1}, {-1, 1, -1}, {-1, -1, -1}}, [3]float64{0, 0, -1}},
}

// BoxMesh builds a triangle mesh for a box of the given size placed by the
// given transform. Each face carries its own 4 vertices so normals stay flat
// (24 vertices, 12 triangles).
func BoxMesh(size Vec, t Transform) *Mesh {
	half := size.MulScalar(0.5)

	mesh := &Mesh{
		Vertices: make([]float32, 0, 24*3),
		Normals:  make([]float32, 0, 24*3),
		Indices:  make([]uint32, 0, 36),
	}

	for _, face := range boxFaces {
		base := uint32(len(mesh.Vertices) / 3)
		n := t.Direction(V(face.normal[0], face.normal[1], face.normal[2]))
		for _, c := range face.corners {
			p := t.Point(V(c[0]*half.X, c[1]*half.Y, c[2]*half.Z))
			mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}

	return mesh
}
