package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/arvsrao/tiny-render-course/pkg/math3d"
)

// LoadGLB loads a glTF or binary glTF (.glb) file. All triangle
// primitives of all meshes are merged into one Mesh. Texture coordinates
// are flipped so v runs up from the bottom of the image, matching OBJ.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return meshFromDocument(doc, filepath.Base(path))
}

// LoadGLBWithTexture loads a glTF file together with the base color
// texture of its first textured material, falling back to the first
// decodable image. The image is nil when the file carries none.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := meshFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	return mesh, baseColorImage(doc, filepath.Dir(path)), nil
}

func meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			if err := addPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
		}
	}

	if !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// addPrimitive appends the vertices and triangles of prim. Non-triangle
// primitives (points, lines, strips) are skipped.
func addPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read texcoords: %w", err)
		}
		mesh.HasTexCoords = true
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: vec3(p)}
		if i < len(normals) {
			v.Normal = vec3(normals[i])
		}
		if i < len(uvs) {
			// glTF puts v=0 at the top of the image.
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	// glTF front faces are counter-clockwise, the same winding the
	// lighting normal expects, so indices are used as stored.
	for i := 0; i+2 < len(indices); i += 3 {
		f := Face{V: [3]int{base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2])}}
		for _, idx := range f.V {
			if idx >= len(mesh.Vertices) {
				return fmt.Errorf("%w: vertex %d of %d", ErrIndexRange, idx-base, len(positions))
			}
		}
		mesh.Faces = append(mesh.Faces, f)
	}
	return nil
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// baseColorImage returns the first decodable image, preferring those used
// as a material's base color.
func baseColorImage(doc *gltf.Document, dir string) image.Image {
	var order []int
	for _, mat := range doc.Materials {
		if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
			continue
		}
		tex := mat.PBRMetallicRoughness.BaseColorTexture.Index
		if tex < len(doc.Textures) && doc.Textures[tex].Source != nil {
			order = append(order, *doc.Textures[tex].Source)
		}
	}
	for i := range doc.Images {
		order = append(order, i)
	}

	for _, i := range order {
		if i < 0 || i >= len(doc.Images) {
			continue
		}
		data := imageData(doc, doc.Images[i], dir)
		if len(data) == 0 {
			continue
		}
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return img
		}
	}
	return nil
}

// imageData returns the encoded bytes of img, read from its buffer view
// or from a file next to the document.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf) {
			return nil
		}
		return buf[bv.ByteOffset:end]
	}
	if img.URI == "" {
		return nil
	}
	if img.IsEmbeddedResource() {
		data, err := img.MarshalData()
		if err != nil {
			return nil
		}
		return data
	}
	data, err := os.ReadFile(filepath.Join(dir, img.URI))
	if err != nil {
		return nil
	}
	return data
}
