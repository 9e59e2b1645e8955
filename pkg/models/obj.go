package models

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// OBJLoader loads Wavefront OBJ files and their MTL material libraries.
//
// A loader keeps state between loads only through its material maps. It must
// not be used from more than one goroutine at a time.
type OBJLoader struct {
	// Options
	KeepMaterials   bool // If true, materials from earlier loads stay visible to later ones
	GlobalMaterials bool // If true, redefinitions consult the shared map and new materials are promoted into it

	BufferSize int         // Tokenizer read chunk size (DefaultBufferSize if <= 0)
	Logger     *zap.Logger // Diagnostics sink (stderr at warn level if nil)

	global    MaterialMap
	materials MaterialMap
	loading   atomic.Bool
}

// LoadOptions controls the transform applied to raw vertices before
// compaction. Scaling runs before translation.
type LoadOptions struct {
	MaxDimension float32     // Scale so the largest extent equals this (0 disables)
	Origin       *mgl32.Vec3 // Move the bounding box center here (nil disables)
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		KeepMaterials:   false,
		GlobalMaterials: false,
		BufferSize:      DefaultBufferSize,
	}
}

// Use installs a shared material map. It is read as a fallback for unknown
// names and, with GlobalMaterials set, receives materials defined by
// successful loads. The caller must not modify it during a load.
func (l *OBJLoader) Use(global MaterialMap) {
	l.global = global
}

// Materials returns the materials kept from earlier loads (KeepMaterials).
func (l *OBJLoader) Materials() MaterialMap {
	return l.materials
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	return l.LoadFileWith(path, LoadOptions{})
}

// LoadFileWith loads an OBJ file from disk and applies opts.
func (l *OBJLoader) LoadFileWith(path string, opts LoadOptions) (*Mesh, error) {
	if !l.loading.CompareAndSwap(false, true) {
		return nil, newLoadError(ErrReentrant, path, 0, fmt.Errorf("load of %s rejected", path))
	}
	defer l.loading.Store(false)

	tok, err := OpenTokenizer(path, l.BufferSize)
	if err != nil {
		return nil, newLoadError(ErrIO, path, 0, fmt.Errorf("failed to open OBJ file: %w", err))
	}
	defer tok.Close()

	return l.load(tok, path, opts)
}

// Load parses an OBJ from a reader. name locates material libraries
// (relative to its directory) and labels diagnostics.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	return l.LoadWith(r, name, LoadOptions{})
}

// LoadWith parses an OBJ from a reader and applies opts.
func (l *OBJLoader) LoadWith(r io.Reader, name string, opts LoadOptions) (*Mesh, error) {
	if !l.loading.CompareAndSwap(false, true) {
		return nil, newLoadError(ErrReentrant, name, 0, fmt.Errorf("load of %s rejected", name))
	}
	defer l.loading.Store(false)

	return l.load(NewTokenizer(r, l.BufferSize), name, opts)
}

func (l *OBJLoader) load(tok *Tokenizer, name string, opts LoadOptions) (*Mesh, error) {
	log := l.logger()
	b := newBuilder(name, log)
	if l.BufferSize > 0 {
		b.bufSize = l.BufferSize
	}
	if l.KeepMaterials && l.materials != nil {
		b.materials = l.materials.Clone()
	}
	b.global = l.global
	b.share = l.GlobalMaterials

	if err := NewParser(tok, name, log).ParseOBJ(b); err != nil {
		return nil, asLoadError(ErrUnknown, name, err)
	}

	if opts.MaxDimension > 0 {
		b.scale(opts.MaxDimension)
	}
	if opts.Origin != nil {
		b.translate(*opts.Origin)
	}

	mesh, err := b.compact(name)
	if err != nil {
		return nil, asLoadError(ErrInvariant, name, err)
	}

	if l.KeepMaterials {
		l.materials = b.materials
	} else {
		l.materials = nil
	}
	b.promote()

	log.Debug("model loaded",
		zap.String("file", name),
		zap.Int("objects", len(mesh.Objects)),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()))
	return mesh, nil
}

func (l *OBJLoader) logger() *zap.Logger {
	log := l.Logger
	if log == nil {
		log = defaultLogger
	}
	return log.Named(LoggerName)
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// ParseMaterials parses an MTL library from r into a new MaterialMap.
func ParseMaterials(r io.Reader, name string, log *zap.Logger) (MaterialMap, error) {
	if log == nil {
		log = defaultLogger
	}
	b := newBuilder(name, log.Named(LoggerName))
	if err := NewParser(NewTokenizer(r, DefaultBufferSize), name, b.mtlLog).ParseMTL(b); err != nil {
		return nil, asLoadError(ErrUnknown, name, err)
	}
	return b.materials, nil
}

// LoadMaterialLibrary reads an MTL file from disk, typically to seed a
// shared map for OBJLoader.Use.
func LoadMaterialLibrary(path string, log *zap.Logger) (MaterialMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newLoadError(ErrIO, path, 0, fmt.Errorf("failed to open MTL file: %w", err))
	}
	defer f.Close()

	return ParseMaterials(f, path, log)
}
