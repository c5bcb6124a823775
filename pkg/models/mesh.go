// Package models loads triangle meshes from OBJ and glTF files.
package models

import (
	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Every vertex carries its own texture
// coordinate and normal, so a position shared by faces with different
// texture coordinates appears once per combination.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// HasTexCoords reports whether the source file supplied texture
	// coordinates. When false every UV is zero.
	HasTexCoords bool

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2 // v measured up from the bottom of the texture
}

// Face is a triangle of indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// Positions returns the vertex positions as flat xyz triples.
func (m *Mesh) Positions() []float64 {
	out := make([]float64, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Position.X, v.Position.Y, v.Position.Z)
	}
	return out
}

// TexCoords returns the vertex texture coordinates as flat uv pairs,
// aligned with Positions.
func (m *Mesh) TexCoords() []float64 {
	out := make([]float64, 0, len(m.Vertices)*2)
	for _, v := range m.Vertices {
		out = append(out, v.UV.X, v.UV.Y)
	}
	return out
}

// Face returns the vertex indices of triangle i.
func (m *Mesh) Face(i int) [3]int {
	return m.Faces[i].V
}

// Triangle returns the positions of the three vertices of face i.
func (m *Mesh) Triangle(i int) [3]math3d.Vec3 {
	f := m.Faces[i].V
	return [3]math3d.Vec3{
		m.Vertices[f[0]].Position,
		m.Vertices[f[1]].Position,
		m.Vertices[f[2]].Position,
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// CalculateSmoothNormals sets every vertex normal to the normalized sum of
// the unnormalized normals of the faces that use it, so larger faces
// weigh more.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		if m.Vertices[i].Normal.LenSq() > 0 {
			m.Vertices[i].Normal.NormalizeInPlace()
		}
	}
}

// Transform applies a transformation matrix to all vertices. Normals only
// receive the linear part, which is exact for rotations and uniform
// scales.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		if v.Normal.LenSq() > 0 {
			v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
		}
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = make([]MeshVertex, len(m.Vertices))
	clone.Faces = make([]Face, len(m.Faces))
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return &clone
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// Normalize recenters the mesh on the origin and scales it uniformly so
// its largest extent spans [-1, 1].
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	size := m.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent == 0 {
		return
	}
	center := m.Center()
	m.Transform(math3d.ScaleUniform(2 / extent).Mul(math3d.Translate(center.Negate())))
}
