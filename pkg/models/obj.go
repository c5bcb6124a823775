package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

var (
	// ErrIndexRange is returned for face references to vertices, texture
	// coordinates or normals that have not been declared.
	ErrIndexRange = errors.New("index out of range")

	// ErrMalformed is returned for directives with missing or extra fields.
	ErrMalformed = errors.New("malformed directive")
)

// ParseError records the line of an OBJ file that failed to parse.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// objRef identifies one face corner: 0-based indices into the position,
// texture coordinate and normal lists, -1 when absent.
type objRef struct {
	p, t, n int
}

type objParser struct {
	positions []math3d.Vec3
	texcoords []math3d.Vec2
	normals   []math3d.Vec3

	mesh    *Mesh
	corners map[objRef]int
}

// ParseOBJ reads OBJ data from r. It understands v, vt, vn and f; other
// directives such as o, g, s, usemtl and mtllib are ignored. Faces may
// use any of the forms a, a/b, a//c and a/b/c with positive or negative
// (relative) indices, and polygons with more than three corners are
// triangulated as a fan around the first corner.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	p := &objParser{
		mesh:    NewMesh(name),
		corners: make(map[objRef]int),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	m := p.mesh
	if !m.hasNormals() {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	return m, nil
}

func (p *objParser) parseLine(text string) error {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	args := fields[1:]
	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3, 4)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := parseFloats(args, 1, 3)
		if err != nil {
			return err
		}
		p.texcoords = append(p.texcoords, math3d.V2(v[0], v[1]))
	case "vn":
		v, err := parseFloats(args, 3, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, math3d.V3(v[0], v[1], v[2]))
	case "f":
		return p.parseFace(args)
	}
	return nil
}

// parseFloats parses between lo and hi numbers. The result always has
// length hi, with missing values left at zero.
func parseFloats(args []string, lo, hi int) ([]float64, error) {
	if len(args) < lo || len(args) > hi {
		return nil, fmt.Errorf("%w: want %d to %d values, got %d", ErrMalformed, lo, hi, len(args))
	}
	out := make([]float64, hi)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face needs at least 3 vertices, got %d", ErrMalformed, len(args))
	}

	idx := make([]int, len(args))
	for i, a := range args {
		ref, err := p.parseRef(a)
		if err != nil {
			return err
		}
		idx[i] = p.vertex(ref)
	}

	for i := 1; i+1 < len(idx); i++ {
		p.mesh.Faces = append(p.mesh.Faces, Face{V: [3]int{idx[0], idx[i], idx[i+1]}})
	}
	return nil
}

// parseRef parses one face corner.
func (p *objParser) parseRef(s string) (objRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objRef{}, fmt.Errorf("%w: face vertex %q", ErrMalformed, s)
	}

	ref := objRef{p: -1, t: -1, n: -1}
	var err error
	if ref.p, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return objRef{}, fmt.Errorf("position: %w", err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.t, err = resolveIndex(parts[1], len(p.texcoords)); err != nil {
			return objRef{}, fmt.Errorf("texcoord: %w", err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.n, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return objRef{}, fmt.Errorf("normal: %w", err)
		}
	}
	return ref, nil
}

// resolveIndex converts a 1-based or negative OBJ index into a 0-based one
// against a list of n elements.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("%w: %d with %d defined", ErrIndexRange, i, n)
}

// vertex returns the mesh vertex for ref, adding it on first use.
func (p *objParser) vertex(ref objRef) int {
	if i, ok := p.corners[ref]; ok {
		return i
	}

	v := MeshVertex{Position: p.positions[ref.p]}
	if ref.t >= 0 {
		v.UV = p.texcoords[ref.t]
		p.mesh.HasTexCoords = true
	}
	if ref.n >= 0 {
		v.Normal = p.normals[ref.n]
	}

	i := len(p.mesh.Vertices)
	p.mesh.Vertices = append(p.mesh.Vertices, v)
	p.corners[ref] = i
	return i
}
