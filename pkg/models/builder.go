package models

import (
	"errors"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// builder is the load-scoped state of one OBJ load. It implements both
// GeometryHandler and MaterialHandler; an mtllib directive runs a second
// Parser that feeds the same builder.
type builder struct {
	log     *zap.Logger
	mtlLog  *zap.Logger
	path    string
	dir     string
	bufSize int

	// Raw caches, in file order.
	vertices  []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec3
	bounds    Bounds

	faceArgs []Element
	objects  *orderedmap.OrderedMap[string, *loaderObject]
	next     pendingSwitch
	cur      cursor

	// Set once any face vertex lacks a usable texcoord or normal.
	noTexCoords bool
	noNormals   bool

	materials MaterialMap // load-local
	global    MaterialMap // optional shared map, read as fallback
	share     bool        // redefinitions consult global; results are promoted
	promoted  []string

	// Material record being assembled from an MTL library.
	mat struct {
		valid bool
		def   Material
	}
}

func newBuilder(path string, log *zap.Logger) *builder {
	return &builder{
		log:       log,
		mtlLog:    log.Named("mtl"),
		path:      path,
		dir:       filepath.Dir(path),
		bufSize:   DefaultBufferSize,
		bounds:    EmptyBounds(),
		objects:   orderedmap.New[string, *loaderObject](),
		materials: MaterialMap{},
	}
}

var (
	_ GeometryHandler = (*builder)(nil)
	_ MaterialHandler = (*builder)(nil)
)

// OBJ directives

func (b *builder) Vertex(p mgl32.Vec3) {
	b.vertices = append(b.vertices, p)
	b.bounds.Extend(p)
}

func (b *builder) Normal(n mgl32.Vec3) {
	b.normals = append(b.normals, n)
}

func (b *builder) TexCoord(t mgl32.Vec3) {
	b.texCoords = append(b.texCoords, t)
}

func (b *builder) FaceArg(e Element) {
	b.faceArgs = append(b.faceArgs, e)
}

// Face applies any pending switch, then fan-triangulates the buffered face
// arguments into the current material group.
func (b *builder) Face() error {
	switch {
	case b.cur.object == nil || b.next.hasObject:
		b.switchObject()
	case b.cur.group == nil || b.next.hasGroup:
		b.switchGroup()
	case b.cur.matGroup == nil || b.next.hasMaterial:
		b.switchMaterial()
	}

	args := b.faceArgs
	b.faceArgs = b.faceArgs[:0]

	if len(args) < 3 {
		b.log.Warn("too few arguments to f, face dropped", zap.Int("args", len(args)))
		return nil
	}

	resolved := make([]Element, len(args))
	for i, e := range args {
		r, err := b.resolve(e)
		if err != nil {
			return err
		}
		resolved[i] = r
	}

	b.cur.matGroup.faces = append(b.cur.matGroup.faces, fan(resolved)...)
	if len(args) > 3 {
		b.log.Debug("face tessellated", zap.Int("triangles", len(args)-2))
	}
	return nil
}

// MaterialLib parses a material library next to the OBJ file. A library
// that cannot be opened or read is only a warning; materials committed
// before a read failure are kept.
func (b *builder) MaterialLib(name string) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dir, name)
	}

	tok, err := OpenTokenizer(path, b.bufSize)
	if err != nil {
		b.log.Warn("cannot open material library", zap.String("mtllib", path), zap.Error(err))
		return nil
	}
	defer tok.Close()

	err = NewParser(tok, path, b.mtlLog).ParseMTL(b)
	if errors.Is(err, ErrIO) {
		b.log.Warn("cannot read material library", zap.String("mtllib", path), zap.Error(err))
		b.mat.valid = false
		return nil
	}
	return err
}

func (b *builder) UseMaterial(name string) {
	if b.next.hasMaterial && b.next.material != name {
		b.log.Warn("multiple material definitions, overwriting",
			zap.String("old", b.next.material), zap.String("new", name))
	}
	b.next.material = name
	b.next.hasMaterial = true
}

func (b *builder) Group(name string) {
	if b.next.hasGroup && b.next.group != name {
		b.log.Warn("multiple group definitions, overwriting",
			zap.String("old", b.next.group), zap.String("new", name))
	}
	b.next.group = name
	b.next.hasGroup = true
}

func (b *builder) Object(name string) {
	if b.next.hasObject && b.next.object != name {
		b.log.Warn("multiple object definitions, overwriting",
			zap.String("old", b.next.object), zap.String("new", name))
	}
	b.next.object = name
	b.next.hasObject = true
}

// switchObject selects the pending object and always re-resolves the group
// (and through it the material group) inside it.
func (b *builder) switchObject() {
	name := b.next.object
	b.cur.object = getOrCreate(b.objects, name, func() *loaderObject {
		return newLoaderObject(name)
	})
	b.next.hasObject = false
	b.switchGroup()
}

func (b *builder) switchGroup() {
	name := b.next.group
	b.cur.group = getOrCreate(b.cur.object.groups, name, func() *loaderGroup {
		return newLoaderGroup(name)
	})
	b.next.hasGroup = false
	b.switchMaterial()
}

// switchMaterial selects the material group for the pending material name.
// Unknown materials still get a group; it is bound to DefaultMaterial.
func (b *builder) switchMaterial() {
	name := b.next.material
	if name != "" && b.lookupMaterial(name) == nil {
		b.log.Warn("invalid material reference", zap.String("material", name))
	}
	b.cur.matGroup = getOrCreate(b.cur.group.matGroups, name, func() *loaderMatGroup {
		return &loaderMatGroup{material: name}
	})
	b.next.hasMaterial = false
}

func (b *builder) lookupMaterial(name string) *Material {
	if m := b.materials.Lookup(name); m != nil {
		return m
	}
	return b.global.Lookup(name)
}

// MTL directives

// NewMaterial starts a material record. A redefinition is seeded from the
// earlier definition so the library can override individual properties.
func (b *builder) NewMaterial(name string) {
	b.commitMaterial()

	switch {
	case b.materials.Lookup(name) != nil:
		b.mtlLog.Warn("material redefinition", zap.String("material", name))
		b.mat.def = *b.materials[name]
	case b.share && b.global.Lookup(name) != nil:
		b.mtlLog.Warn("material redefinition", zap.String("material", name), zap.Bool("global", true))
		b.mat.def = *b.global[name]
	default:
		b.mat.def = NewMaterial(name)
	}
	b.mat.def.Name = name
	b.mat.valid = true
}

// editMaterial returns the record being assembled, or nil (with a warning)
// when no newmtl has been seen yet.
func (b *builder) editMaterial(property string) *Material {
	if !b.mat.valid {
		b.mtlLog.Warn("attempt to set property without material reference", zap.String("property", property))
		return nil
	}
	return &b.mat.def
}

func (b *builder) Ambient(c mgl32.Vec3) {
	if m := b.editMaterial("Ka"); m != nil {
		m.Ka = c
	}
}

func (b *builder) Diffuse(c mgl32.Vec3) {
	if m := b.editMaterial("Kd"); m != nil {
		m.Kd = c
	}
}

func (b *builder) Specular(c mgl32.Vec3) {
	if m := b.editMaterial("Ks"); m != nil {
		m.Ks = c
	}
}

func (b *builder) Shininess(ns float32) {
	if m := b.editMaterial("Ns"); m != nil {
		m.Ns = ns
	}
}

func (b *builder) Transparency(tr float32) {
	if m := b.editMaterial("Tr"); m != nil {
		m.Tr = tr
	}
}

func (b *builder) Illumination(model int) {
	if m := b.editMaterial("illum"); m != nil {
		m.Illum = model
	}
}

func (b *builder) TextureMap(kind, file string) {
	m := b.editMaterial(kind)
	if m == nil {
		return
	}
	switch kind {
	case "map_Ka":
		m.MapKa = file
	case "map_Kd":
		m.MapKd = file
	case "map_Ks":
		m.MapKs = file
	case "map_Tr":
		m.MapTr = file
	case "bump":
		m.Bump = file
	case "decal":
		m.Decal = file
	}
}

func (b *builder) EndLibrary() {
	b.commitMaterial()
}

// commitMaterial stores the record being assembled, if any.
func (b *builder) commitMaterial() {
	if !b.mat.valid {
		return
	}
	m := b.mat.def
	b.materials[m.Name] = &m
	if b.share && b.global != nil {
		b.promoted = append(b.promoted, m.Name)
	}
	b.mat.valid = false
}

// promote copies materials defined during this load into the shared map.
func (b *builder) promote() {
	for _, name := range b.promoted {
		if m := b.materials[name]; m != nil {
			c := *m
			b.global[name] = &c
		}
	}
	b.promoted = nil
}
