package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// GeometryHandler receives OBJ directives from a Parser, one call per line
// (FaceArg is called once per face vertex, followed by Face).
type GeometryHandler interface {
	Vertex(p mgl32.Vec3)
	Normal(n mgl32.Vec3)
	TexCoord(t mgl32.Vec3)
	FaceArg(e Element)
	Face() error
	MaterialLib(name string) error
	UseMaterial(name string)
	Group(name string)
	Object(name string)
}

// MaterialHandler receives MTL directives from a Parser.
type MaterialHandler interface {
	NewMaterial(name string)
	Ambient(c mgl32.Vec3)
	Diffuse(c mgl32.Vec3)
	Specular(c mgl32.Vec3)
	Shininess(ns float32)
	Transparency(tr float32)
	Illumination(model int)
	TextureMap(kind, file string)
	EndLibrary()
}

// Directives recognized by the OBJ grammar but not supported.
var unsupportedOBJ = map[string]bool{
	"vp": true, "s": true, "l": true, "p": true, "cstype": true, "deg": true,
	"bmat": true, "step": true, "curv": true, "curv2": true, "surf": true,
	"parm": true, "trim": true, "hole": true, "scrv": true, "sp": true,
	"end": true, "con": true, "mg": true, "bevel": true, "c_interp": true,
	"d_interp": true, "lod": true, "shadow_obj": true, "trace_obj": true,
	"ctech": true, "stech": true, "usemap": true, "maplib": true,
}

// Directives recognized by the MTL grammar but not supported.
var unsupportedMTL = map[string]bool{
	"d": true, "Ni": true, "Ke": true, "Tf": true, "sharpness": true,
	"map_Ns": true, "disp": true, "refl": true, "Pr": true, "Pm": true,
	"Ps": true, "Pc": true, "Pcr": true, "aniso": true, "anisor": true,
	"map_Pr": true, "map_Pm": true, "map_Ke": true, "norm": true,
}

// textureMaps maps MTL texture directives to the Material field they set.
var textureMaps = map[string]string{
	"map_Ka":   "map_Ka",
	"map_Kd":   "map_Kd",
	"map_Ks":   "map_Ks",
	"map_d":    "map_Tr",
	"map_Tr":   "map_Tr",
	"bump":     "bump",
	"map_Bump": "bump",
	"map_bump": "bump",
	"decal":    "decal",
}

// Parser groups tokens into logical lines and dispatches each line's
// directive to a handler.
type Parser struct {
	tok  *Tokenizer
	path string
	log  *zap.Logger

	peek    Token
	hasPeek bool
}

// NewParser creates a parser reading from tok. path is used in diagnostics
// and errors only.
func NewParser(tok *Tokenizer, path string, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{tok: tok, path: path, log: log}
}

// ParseOBJ parses the stream with the OBJ grammar.
func (p *Parser) ParseOBJ(h GeometryHandler) error {
	for {
		line := p.nextLine()
		if p.tok.Err() != nil {
			return p.streamErr()
		}
		if line == nil {
			break
		}
		if err := p.dispatchOBJ(h, line); err != nil {
			return err
		}
	}
	return p.streamErr()
}

// ParseMTL parses the stream with the MTL grammar.
func (p *Parser) ParseMTL(h MaterialHandler) error {
	for {
		line := p.nextLine()
		if p.tok.Err() != nil {
			return p.streamErr()
		}
		if line == nil {
			break
		}
		if err := p.dispatchMTL(h, line); err != nil {
			return err
		}
	}
	if err := p.streamErr(); err != nil {
		return err
	}
	h.EndLibrary()
	return nil
}

func (p *Parser) streamErr() error {
	err := p.tok.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTokenTooLong):
		return newLoadError(ErrResourceExhausted, p.path, p.tok.Line(), err)
	default:
		return newLoadError(ErrIO, p.path, p.tok.Line(), err)
	}
}

func (p *Parser) next() (Token, bool) {
	if p.hasPeek {
		p.hasPeek = false
		return p.peek, true
	}
	return p.tok.Next()
}

// nextLine returns the tokens of the next logical line, or nil at the end of
// the stream. A trailing backslash joins the following physical line.
func (p *Parser) nextLine() []Token {
	first, ok := p.next()
	if !ok {
		return nil
	}
	line := []Token{first}
	cur := first.Line
	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		if tok.Line != cur {
			if !trimContinuation(&line) {
				p.peek, p.hasPeek = tok, true
				break
			}
			cur = tok.Line
		}
		line = append(line, tok)
	}
	trimContinuation(&line)
	return line
}

// trimContinuation strips a trailing '\' from the line and reports whether
// one was present.
func trimContinuation(line *[]Token) bool {
	l := *line
	if len(l) < 2 {
		return false
	}
	last := &l[len(l)-1]
	if !strings.HasSuffix(last.Text, `\`) {
		return false
	}
	last.Text = strings.TrimSuffix(last.Text, `\`)
	if last.Text == "" {
		*line = l[:len(l)-1]
	}
	return true
}

func (p *Parser) dispatchOBJ(h GeometryHandler, line []Token) error {
	kw, args, num := line[0].Text, line[1:], line[0].Line

	switch kw {
	case "v":
		v, err := p.floats(kw, num, args, 3, 3, true)
		if err != nil {
			return err
		}
		h.Vertex(mgl32.Vec3{v[0], v[1], v[2]})

	case "vn":
		v, err := p.floats(kw, num, args, 3, 3, false)
		if err != nil {
			return err
		}
		h.Normal(mgl32.Vec3{v[0], v[1], v[2]})

	case "vt":
		v, err := p.floats(kw, num, args, 1, 3, false)
		if err != nil {
			return err
		}
		var t mgl32.Vec3
		copy(t[:], v)
		h.TexCoord(t)

	case "f":
		for _, a := range args {
			e, err := parseFaceVertex(a.Text)
			if err != nil {
				return syntaxErrorf(p.path, num, "f: %v", err)
			}
			h.FaceArg(e)
		}
		if err := h.Face(); err != nil {
			return p.callbackErr(num, err)
		}

	case "g":
		h.Group(joinArgs(args))

	case "o":
		h.Object(joinArgs(args))

	case "usemtl":
		h.UseMaterial(joinArgs(args))

	case "mtllib":
		if len(args) == 0 {
			p.log.Warn("mtllib without a library name", zap.String("file", p.path), zap.Int("line", num))
		}
		for _, a := range args {
			if err := h.MaterialLib(a.Text); err != nil {
				return p.callbackErr(num, err)
			}
		}

	default:
		p.ignore(kw, num, unsupportedOBJ[kw])
	}
	return nil
}

func (p *Parser) dispatchMTL(h MaterialHandler, line []Token) error {
	kw, args, num := line[0].Text, line[1:], line[0].Line

	switch kw {
	case "newmtl":
		h.NewMaterial(joinArgs(args))

	case "Ka", "Kd", "Ks":
		if len(args) > 0 && !isNumber(args[0].Text) {
			// "Ka spectral file.rfl" and "Ka xyz x y z" forms.
			p.ignore(kw+" "+args[0].Text, num, true)
			return nil
		}
		c, err := p.color(kw, num, args)
		if err != nil {
			return err
		}
		switch kw {
		case "Ka":
			h.Ambient(c)
		case "Kd":
			h.Diffuse(c)
		default:
			h.Specular(c)
		}

	case "Ns", "Tr":
		v, err := p.floats(kw, num, args, 1, 1, false)
		if err != nil {
			return err
		}
		if kw == "Ns" {
			h.Shininess(v[0])
		} else {
			h.Transparency(v[0])
		}

	case "illum":
		if len(args) != 1 {
			return syntaxErrorf(p.path, num, "illum: expected 1 argument, got %d", len(args))
		}
		n, err := strconv.Atoi(args[0].Text)
		if err != nil {
			return syntaxErrorf(p.path, num, "illum: invalid model %q", args[0].Text)
		}
		h.Illumination(n)

	default:
		if field, ok := textureMaps[kw]; ok {
			if len(args) == 0 {
				return syntaxErrorf(p.path, num, "%s: missing file name", kw)
			}
			// Options precede the file name.
			h.TextureMap(field, args[len(args)-1].Text)
			return nil
		}
		p.ignore(kw, num, unsupportedMTL[kw])
	}
	return nil
}

func (p *Parser) ignore(kw string, line int, known bool) {
	if known {
		p.log.Debug("unsupported directive ignored",
			zap.String("directive", kw), zap.String("file", p.path), zap.Int("line", line))
		return
	}
	p.log.Warn("unknown directive ignored",
		zap.String("directive", kw), zap.String("file", p.path), zap.Int("line", line))
}

// callbackErr attaches the source location to an error raised by a handler.
func (p *Parser) callbackErr(line int, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return newLoadError(errorKind(err), p.path, line, err)
}

// errorKind returns the sentinel err wraps, or ErrUnknown.
func errorKind(err error) error {
	for _, kind := range []error{ErrIO, ErrSyntax, ErrResourceExhausted, ErrInvariant, ErrReentrant} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrUnknown
}

// floats parses between lo and hi numeric arguments. With extra set,
// arguments beyond hi are ignored instead of rejected.
func (p *Parser) floats(kw string, line int, args []Token, lo, hi int, extra bool) ([]float32, error) {
	if len(args) < lo || (!extra && len(args) > hi) {
		if lo == hi {
			return nil, syntaxErrorf(p.path, line, "%s: expected %d numbers, got %d", kw, lo, len(args))
		}
		return nil, syntaxErrorf(p.path, line, "%s: expected %d to %d numbers, got %d", kw, lo, hi, len(args))
	}
	n := min(len(args), hi)
	out := make([]float32, n)
	for i := range n {
		f, err := strconv.ParseFloat(args[i].Text, 32)
		if err != nil {
			return nil, syntaxErrorf(p.path, line, "%s: invalid number %q", kw, args[i].Text)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// color parses an MTL color: either "r g b" or a single gray value.
func (p *Parser) color(kw string, line int, args []Token) (mgl32.Vec3, error) {
	if len(args) != 1 && len(args) != 3 {
		return mgl32.Vec3{}, syntaxErrorf(p.path, line, "%s: expected 3 numbers, got %d", kw, len(args))
	}
	v, err := p.floats(kw, line, args, len(args), len(args), false)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	if len(v) == 1 {
		return mgl32.Vec3{v[0], v[0], v[0]}, nil
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn.
// Missing components are returned as 0.
func parseFaceVertex(s string) (Element, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return Element{}, errors.New("too many components in face vertex " + strconv.Quote(s))
	}

	var e Element
	var err error

	// Position (required)
	e.V, err = strconv.Atoi(parts[0])
	if err != nil {
		return Element{}, errors.New("invalid vertex index " + strconv.Quote(parts[0]))
	}

	// Texcoord (optional)
	if len(parts) > 1 && parts[1] != "" {
		e.VT, err = strconv.Atoi(parts[1])
		if err != nil {
			return Element{}, errors.New("invalid texture index " + strconv.Quote(parts[1]))
		}
	}

	// Normal (optional)
	if len(parts) > 2 && parts[2] != "" {
		e.VN, err = strconv.Atoi(parts[2])
		if err != nil {
			return Element{}, errors.New("invalid normal index " + strconv.Quote(parts[2]))
		}
	}

	return e, nil
}

func joinArgs(args []Token) string {
	words := make([]string, len(args))
	for i, a := range args {
		words[i] = a.Text
	}
	return strings.Join(words, " ")
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 32)
	return err == nil
}
