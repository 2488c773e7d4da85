// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for lit, colour-banded meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for lit, colour-banded meshes.
//
//go:embed mesh.frag
var MeshFragmentShader string

// BboxVertexShader is the vertex shader for bounding box rendering.
//
//go:embed bbox.vert
var BboxVertexShader string

// BboxFragmentShader is the fragment shader for bounding box rendering.
//
//go:embed bbox.frag
var BboxFragmentShader string
