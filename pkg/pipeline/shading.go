package pipeline

import (
	"fmt"
	"strings"
)

// Shading selects how Render colors each triangle.
type Shading int

const (
	// ShadingFlat fills each face with a random color, depth tested.
	ShadingFlat Shading = iota
	// ShadingLit fills faces facing the light with grey proportional to
	// the cosine between the face normal and the light.
	ShadingLit
	// ShadingTextured samples the texture and scales it by the same
	// intensity as ShadingLit.
	ShadingTextured
	// ShadingWireframe outlines every face.
	ShadingWireframe
)

var shadingNames = [...]string{
	ShadingFlat:      "flat",
	ShadingLit:       "lit",
	ShadingTextured:  "textured",
	ShadingWireframe: "wireframe",
}

func (s Shading) String() string {
	if s < 0 || int(s) >= len(shadingNames) {
		return fmt.Sprintf("Shading(%d)", int(s))
	}
	return shadingNames[s]
}

// ParseShading returns the shading with the given name.
func ParseShading(name string) (Shading, error) {
	for i, n := range shadingNames {
		if strings.EqualFold(n, name) {
			return Shading(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shading %q", name)
}

// NeedsDepth reports whether the shading writes the depth buffer.
func (s Shading) NeedsDepth() bool {
	return s != ShadingWireframe
}
