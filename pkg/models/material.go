package models

import "github.com/go-gl/mathgl/mgl32"

// Material is a Wavefront MTL material record.
type Material struct {
	Name  string
	Ka    mgl32.Vec3 // Ambient color
	Kd    mgl32.Vec3 // Diffuse color
	Ks    mgl32.Vec3 // Specular color
	Tr    float32    // Transparency (1 = opaque)
	Ns    float32    // Specular exponent
	Illum int        // Illumination model id

	// Texture map references, stored as written in the library.
	MapKa string
	MapKd string
	MapKs string
	MapTr string
	Bump  string
	Decal string
}

// DefaultMaterial is used for every material group whose material name
// cannot be resolved.
var DefaultMaterial = Material{
	Ka:    mgl32.Vec3{1, 1, 1},
	Kd:    mgl32.Vec3{0.9, 0.9, 0.9},
	Ks:    mgl32.Vec3{0.8, 0.8, 0.8},
	Tr:    1,
	Ns:    0,
	Illum: 1,
}

// NewMaterial returns a material with factory defaults and the given name.
func NewMaterial(name string) Material {
	m := DefaultMaterial
	m.Name = name
	return m
}

// MaterialMap holds materials keyed by name.
type MaterialMap map[string]*Material

// Lookup returns the named material, or nil.
func (mm MaterialMap) Lookup(name string) *Material {
	if mm == nil {
		return nil
	}
	return mm[name]
}

// Clone returns a deep copy of the map.
func (mm MaterialMap) Clone() MaterialMap {
	out := make(MaterialMap, len(mm))
	for name, m := range mm {
		c := *m
		out[name] = &c
	}
	return out
}
