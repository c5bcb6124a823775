package models

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for extensions other than
// .obj, .glb and .gltf.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Load loads a mesh, choosing the loader by file extension. For glTF
// files the embedded base color image is returned too; it is nil for OBJ
// files and for glTF files without one.
func Load(path string) (*Mesh, image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		m, err := LoadOBJ(path)
		return m, nil, err
	case ".glb", ".gltf":
		return LoadGLBWithTexture(path)
	default:
		return nil, nil, fmt.Errorf("%w %q (use .obj, .glb or .gltf)", ErrUnsupportedFormat, ext)
	}
}
