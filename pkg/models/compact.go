package models

import (
	"fmt"

	"go.uber.org/zap"
)

// compact converts the parse-time tree into an indexed Mesh. Identical
// (position, texcoord, normal) triples share one output vertex.
func (b *builder) compact(name string) (*Mesh, error) {
	if err := b.checkAttributes(); err != nil {
		return nil, err
	}

	mesh := NewMesh(name)
	ids := make(map[Element]uint32)

	emit := func(e Element) uint32 {
		if b.noTexCoords {
			e.VT = Absent
		}
		if b.noNormals {
			e.VN = Absent
		}
		if id, ok := ids[e]; ok {
			return id
		}

		id := uint32(len(ids))
		ids[e] = id
		p := b.vertices[e.V]
		mesh.Vertices = append(mesh.Vertices, p[0], p[1], p[2])
		if !b.noTexCoords {
			t := b.texCoords[e.VT]
			mesh.TexCoords = append(mesh.TexCoords, t[0], t[1])
		}
		if !b.noNormals {
			n := b.normals[e.VN]
			mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		}
		return id
	}

	err := each(b.objects, func(lo *loaderObject) error {
		obj := &Object{Name: lo.name}
		mesh.Objects = append(mesh.Objects, obj)

		return each(lo.groups, func(lg *loaderGroup) error {
			grp := &Group{Name: lg.name}
			obj.Groups = append(obj.Groups, grp)

			return each(lg.matGroups, func(lm *loaderMatGroup) error {
				mg := &MaterialGroup{
					Name:    lm.material,
					Indices: make([]uint32, 0, 3*len(lm.faces)),
				}
				grp.MaterialGroups = append(grp.MaterialGroups, mg)
				for _, tri := range lm.faces {
					for _, e := range tri {
						mg.Indices = append(mg.Indices, emit(e))
					}
				}
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	b.bindMaterials(mesh)
	if !b.bounds.Empty() {
		mesh.BoundsMin = b.bounds.Min
		mesh.BoundsMax = b.bounds.Max
	}
	mesh.Trim()

	b.log.Debug("mesh compacted",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("elements", b.elementCount()),
		zap.Bool("normals", mesh.HasNormals()),
		zap.Bool("texcoords", mesh.HasTexCoords()))
	return mesh, nil
}

// checkAttributes validates every stored element against the final raw
// arrays before any vertex is emitted. A bad position aborts the load; a bad
// texcoord or normal suppresses that attribute for the whole mesh, so no
// partially filled buffer is ever produced.
func (b *builder) checkAttributes() error {
	return b.eachElement(func(e Element) error {
		if e.V < 0 || e.V >= len(b.vertices) {
			return newLoadError(ErrInvariant, b.path, 0,
				fmt.Errorf("vertex index %d out of range (%d vertices)", e.V+1, len(b.vertices)))
		}
		if !b.noTexCoords && (e.VT == Absent || e.VT >= len(b.texCoords)) {
			if e.VT == Absent {
				b.dropTexCoords("")
			} else {
				b.dropTexCoords("texture coordinate index out of range", zap.Int("index", e.VT+1))
			}
		}
		if !b.noNormals && (e.VN == Absent || e.VN >= len(b.normals)) {
			if e.VN == Absent {
				b.dropNormals("")
			} else {
				b.dropNormals("normal index out of range", zap.Int("index", e.VN+1))
			}
		}
		return nil
	})
}

// eachElement walks every stored face vertex in tree order.
func (b *builder) eachElement(fn func(Element) error) error {
	return each(b.objects, func(lo *loaderObject) error {
		return each(lo.groups, func(lg *loaderGroup) error {
			return each(lg.matGroups, func(lm *loaderMatGroup) error {
				for _, tri := range lm.faces {
					for _, e := range tri {
						if err := fn(e); err != nil {
							return err
						}
					}
				}
				return nil
			})
		})
	})
}

func (b *builder) elementCount() int {
	n := 0
	_ = b.eachElement(func(Element) error {
		n++
		return nil
	})
	return n
}

// bindMaterials copies every material the mesh references into it and
// attaches each material group to its material. Unknown names fall back to
// the mesh's own copy of DefaultMaterial.
func (b *builder) bindMaterials(mesh *Mesh) {
	mesh.EachMaterialGroup(func(_ *Object, _ *Group, mg *MaterialGroup) {
		if mg.Name == "" {
			mg.Material = mesh.defaultMaterial
			return
		}
		if mat := mesh.Materials.Lookup(mg.Name); mat != nil {
			mg.Material = mat
			return
		}
		if src := b.lookupMaterial(mg.Name); src != nil {
			c := *src
			mesh.Materials[mg.Name] = &c
			mg.Material = &c
			return
		}
		mg.Material = mesh.defaultMaterial
	})

	// Materials defined by this load but not referenced are still part of
	// the model.
	for name, mat := range b.materials {
		if mesh.Materials.Lookup(name) == nil {
			c := *mat
			mesh.Materials[name] = &c
		}
	}
}
