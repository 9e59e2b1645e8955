// Package models loads Wavefront OBJ/MTL models into compact indexed meshes.
package models

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a compacted, indexed model. Vertex attributes live in flat
// buffers; faces live in per-material index lists.
type Mesh struct {
	Name string

	Vertices  []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex, or empty
	TexCoords []float32 // u, v per vertex, or empty

	Objects   []*Object
	Materials MaterialMap

	// Bounding box of the vertex positions (after any load transform)
	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3

	defaultMaterial *Material
}

// Object is a named collection of groups.
type Object struct {
	Name   string
	Groups []*Group
}

// Group is a named collection of material groups.
type Group struct {
	Name           string
	MaterialGroups []*MaterialGroup
}

// MaterialGroup holds the triangles of a group that share one material.
// Indices reference vertices of the owning Mesh, three per triangle.
type MaterialGroup struct {
	Name     string // Material name as referenced by usemtl ("" for none)
	Material *Material
	Indices  []uint32
}

// TriangleCount returns the number of triangles in the group.
func (mg *MaterialGroup) TriangleCount() int {
	return len(mg.Indices) / 3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	def := DefaultMaterial
	return &Mesh{
		Name:            name,
		Vertices:        make([]float32, 0),
		Materials:       MaterialMap{},
		defaultMaterial: &def,
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	n := 0
	m.EachMaterialGroup(func(_ *Object, _ *Group, mg *MaterialGroup) {
		n += mg.TriangleCount()
	})
	return n
}

// HasNormals reports whether every vertex carries a normal.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// HasTexCoords reports whether every vertex carries a texture coordinate.
func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) > 0
}

// GetVertex returns the position, normal, and UV for vertex i.
// Missing attributes are returned as zero values.
func (m *Mesh) GetVertex(i int) (pos, normal mgl32.Vec3, uv mgl32.Vec2) {
	pos = mgl32.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
	if m.HasNormals() {
		normal = mgl32.Vec3{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
	}
	if m.HasTexCoords() {
		uv = mgl32.Vec2{m.TexCoords[2*i], m.TexCoords[2*i+1]}
	}
	return pos, normal, uv
}

// EachMaterialGroup calls fn for every material group in tree order.
func (m *Mesh) EachMaterialGroup(fn func(obj *Object, grp *Group, mg *MaterialGroup)) {
	for _, obj := range m.Objects {
		for _, grp := range obj.Groups {
			for _, mg := range grp.MaterialGroups {
				fn(obj, grp, mg)
			}
		}
	}
}

// Object returns the named object, or nil.
func (m *Mesh) Object(name string) *Object {
	for _, obj := range m.Objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

// Group returns the named group of the object, or nil.
func (o *Object) Group(name string) *Group {
	for _, g := range o.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// MaterialGroup returns the material group for the named material, or nil.
func (g *Group) MaterialGroup(material string) *MaterialGroup {
	for _, mg := range g.MaterialGroups {
		if mg.Name == material {
			return mg
		}
	}
	return nil
}

// Material returns the named material, or nil if the mesh does not define it.
func (m *Mesh) Material(name string) *Material {
	return m.Materials.Lookup(name)
}

// bindMaterial returns the material a group named name should render with.
func (m *Mesh) bindMaterial(name string) *Material {
	if mat := m.Materials.Lookup(name); mat != nil {
		return mat
	}
	return m.defaultMaterial
}

// CalculateBounds computes the axis-aligned bounding box from the vertex buffer.
func (m *Mesh) CalculateBounds() {
	if m.VertexCount() == 0 {
		return
	}

	m.BoundsMin, _, _ = m.GetVertex(0)
	m.BoundsMax = m.BoundsMin

	for i := 1; i < m.VertexCount(); i++ {
		p, _, _ := m.GetVertex(i)
		for a := range 3 {
			m.BoundsMin[a] = min(m.BoundsMin[a], p[a])
			m.BoundsMax[a] = max(m.BoundsMax[a], p[a])
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() mgl32.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Mul(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() mgl32.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CenteredTranslation returns the offset that moves the bounding box center
// to the origin.
func (m *Mesh) CenteredTranslation() mgl32.Vec3 {
	return m.Center().Mul(-1)
}

// ScaleFactor returns the largest uniform scale at which the model fits in a
// width x height x depth box. Axes with zero extent are ignored; 1 is
// returned if every axis is flat.
func (m *Mesh) ScaleFactor(width, height, depth float32) float32 {
	size := m.Size()
	limits := [3]float32{width, height, depth}
	f := float32(0)
	for a := range 3 {
		if size[a] <= 0 {
			continue
		}
		s := limits[a] / size[a]
		if f == 0 || s < f {
			f = s
		}
	}
	if f == 0 {
		return 1
	}
	return f
}

// Trim removes empty material groups, then groups and objects left empty.
func (m *Mesh) Trim() {
	objects := m.Objects[:0]
	for _, obj := range m.Objects {
		groups := obj.Groups[:0]
		for _, grp := range obj.Groups {
			mgs := grp.MaterialGroups[:0]
			for _, mg := range grp.MaterialGroups {
				if len(mg.Indices) > 0 {
					mgs = append(mgs, mg)
				}
			}
			grp.MaterialGroups = mgs
			if len(mgs) > 0 {
				groups = append(groups, grp)
			}
		}
		obj.Groups = groups
		if len(groups) > 0 {
			objects = append(objects, obj)
		}
	}
	m.Objects = objects
}

// Validate checks the structural invariants of the mesh: attribute buffers
// are either empty or sized for every vertex, and every index list holds
// whole triangles of in-range indices.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	n := m.VertexCount()
	if len(m.Normals) != 0 && len(m.Normals) != 3*n {
		return fmt.Errorf("normal buffer has %d floats, want %d", len(m.Normals), 3*n)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != 2*n {
		return fmt.Errorf("texcoord buffer has %d floats, want %d", len(m.TexCoords), 2*n)
	}

	var err error
	m.EachMaterialGroup(func(obj *Object, grp *Group, mg *MaterialGroup) {
		if err != nil {
			return
		}
		if len(mg.Indices)%3 != 0 {
			err = fmt.Errorf("%s/%s/%s: %d indices is not a multiple of 3", obj.Name, grp.Name, mg.Name, len(mg.Indices))
			return
		}
		for _, idx := range mg.Indices {
			if int(idx) >= n {
				err = fmt.Errorf("%s/%s/%s: index %d out of range (%d vertices)", obj.Name, grp.Name, mg.Name, idx, n)
				return
			}
		}
	})
	return err
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:            m.Name,
		Vertices:        append([]float32(nil), m.Vertices...),
		Normals:         append([]float32(nil), m.Normals...),
		TexCoords:       append([]float32(nil), m.TexCoords...),
		Materials:       m.Materials.Clone(),
		BoundsMin:       m.BoundsMin,
		BoundsMax:       m.BoundsMax,
		defaultMaterial: m.defaultMaterial,
	}
	for _, obj := range m.Objects {
		o := &Object{Name: obj.Name}
		for _, grp := range obj.Groups {
			g := &Group{Name: grp.Name}
			for _, mg := range grp.MaterialGroups {
				g.MaterialGroups = append(g.MaterialGroups, &MaterialGroup{
					Name:     mg.Name,
					Material: clone.bindMaterial(mg.Name),
					Indices:  append([]uint32(nil), mg.Indices...),
				})
			}
			o.Groups = append(o.Groups, g)
		}
		clone.Objects = append(clone.Objects, o)
	}
	return clone
}
