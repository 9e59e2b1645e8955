package models

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ToGLTF converts the mesh into a glTF document. Each Object becomes a node
// with its own mesh; each material group of each group becomes one
// triangle primitive. All primitives share one set of vertex accessors.
func (m *Mesh) ToGLTF() (*gltf.Document, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh: %w", err)
	}

	doc := gltf.NewDocument()
	if m.VertexCount() == 0 {
		return doc, nil
	}

	attrs := gltf.PrimitiveAttributes{
		gltf.POSITION: modeler.WritePosition(doc, toVec3s(m.Vertices)),
	}
	if m.HasNormals() {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, toVec3s(m.Normals))
	}
	if m.HasTexCoords() {
		uvs := make([][2]float32, len(m.TexCoords)/2)
		for i := range uvs {
			// glTF puts the texture origin at the top left.
			uvs[i] = [2]float32{m.TexCoords[2*i], 1 - m.TexCoords[2*i+1]}
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}

	materials := make(map[*Material]int)
	materialIndex := func(mat *Material) int {
		if idx, ok := materials[mat]; ok {
			return idx
		}
		doc.Materials = append(doc.Materials, gltfMaterial(mat))
		idx := len(doc.Materials) - 1
		materials[mat] = idx
		return idx
	}

	for _, obj := range m.Objects {
		gm := &gltf.Mesh{Name: obj.Name}
		for _, grp := range obj.Groups {
			for _, mg := range grp.MaterialGroups {
				prim := &gltf.Primitive{
					Attributes: attrs,
					Indices:    gltf.Index(modeler.WriteIndices(doc, mg.Indices)),
					Mode:       gltf.PrimitiveTriangles,
				}
				if mg.Material != nil {
					prim.Material = gltf.Index(materialIndex(mg.Material))
				}
				gm.Primitives = append(gm.Primitives, prim)
			}
		}
		if len(gm.Primitives) == 0 {
			continue
		}

		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: obj.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	return doc, nil
}

// SaveGLB writes the mesh as a binary glTF file.
func SaveGLB(m *Mesh, path string) error {
	doc, err := m.ToGLTF()
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// gltfMaterial maps an MTL material onto the metallic-roughness model.
func gltfMaterial(mat *Material) *gltf.Material {
	roughness := math.Sqrt(2 / (max(float64(mat.Ns), 0) + 2))
	gm := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{
				float64(mat.Kd[0]),
				float64(mat.Kd[1]),
				float64(mat.Kd[2]),
				float64(mat.Tr),
			},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(roughness),
		},
	}
	if mat.Tr < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}
	return gm
}

func toVec3s(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}
