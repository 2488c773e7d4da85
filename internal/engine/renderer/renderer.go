// Package renderer draws OBJ meshes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/renderer/shaders"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/logger"
)

// Vertex attribute locations shared with mesh.vert.
const (
	locPosition = 0
	locNormal   = 1
	locColor    = 2
)

// bboxColor is the wireframe colour (opaque dark grey).
var bboxColor = [4]float32{0.2, 0.2, 0.2, 1}

// attribute describes how one stream is fed to the vertex shader.
type attribute struct {
	location   uint32
	size       int32
	glType     uint32
	normalized bool
}

// meshAttributes lists the three streams in upload order. Colours are bytes
// normalised to [0, 1] by the GPU.
var meshAttributes = [3]attribute{
	{location: locPosition, size: model.ComponentsPerCorner, glType: gl.FLOAT},
	{location: locNormal, size: model.ComponentsPerCorner, glType: gl.FLOAT},
	{location: locColor, size: model.ComponentsPerCorner, glType: gl.UNSIGNED_BYTE, normalized: true},
}

// DrawCount returns the vertex count passed to DrawArrays: three per face.
func DrawCount(m *model.Mesh) int32 {
	if m == nil {
		return 0
	}
	return int32(m.FaceCount * model.CornersPerFace)
}

// Renderer owns the GPU resources for one mesh.
type Renderer struct {
	mesh *shader.Program
	bbox *shader.Program

	vao         uint32
	vbos        [3]uint32
	vertexCount int32

	bboxVAO uint32
	bboxVBO uint32

	log *zap.Logger
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New() (*Renderer, error) {
	r := &Renderer{log: logger.Named("renderer")}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.mesh, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader,
		"uProjection", "uView", "uModel", "uLightDir", "uAmbient", "uDiffuse")
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}

	r.bbox, err = shader.NewProgram(shaders.BboxVertexShader, shaders.BboxFragmentShader,
		"uMVP", "uColor")
	if err != nil {
		r.mesh.Delete()
		return nil, fmt.Errorf("bbox shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(int32(len(r.vbos)), &r.vbos[0])
	gl.GenVertexArrays(1, &r.bboxVAO)
	gl.GenBuffers(1, &r.bboxVBO)

	return r, nil
}

// Upload replaces the GPU buffers with the mesh streams.
func (r *Renderer) Upload(m *model.Mesh) {
	r.vertexCount = DrawCount(m)
	if m == nil || r.vertexCount == 0 {
		return
	}

	gl.BindVertexArray(r.vao)

	uploadStream(r.vbos[0], meshAttributes[0], len(m.Positions)*4, unsafe.Pointer(&m.Positions[0]))
	uploadStream(r.vbos[1], meshAttributes[1], len(m.Normals)*4, unsafe.Pointer(&m.Normals[0]))
	uploadStream(r.vbos[2], meshAttributes[2], len(m.Colors), unsafe.Pointer(&m.Colors[0]))

	gl.BindVertexArray(0)

	// Bounding box lines in model space
	lines := debug.BBoxWireframe(m.BBox, debug.DefaultBBoxPadding)
	gl.BindVertexArray(r.bboxVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.bboxVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(lines)*4, gl.Ptr(lines), gl.STATIC_DRAW)
	gl.VertexAttribPointer(locPosition, 3, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(locPosition)
	gl.BindVertexArray(0)

	r.log.Debug("mesh uploaded",
		zap.Int32("vertices", r.vertexCount),
		zap.Int("faces", m.FaceCount),
	)
}

// UploadColors refreshes only the colour stream, after Mesh.Recolor.
func (r *Renderer) UploadColors(m *model.Mesh) {
	if m == nil || len(m.Colors) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbos[2])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.Colors), unsafe.Pointer(&m.Colors[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func uploadStream(vbo uint32, a attribute, size int, data unsafe.Pointer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, size, data, gl.STATIC_DRAW)
	gl.VertexAttribPointer(a.location, a.size, a.glType, a.normalized, 0, nil)
	gl.EnableVertexAttribArray(a.location)
}

// Draw renders the uploaded mesh with the scene's transforms and light.
// The caller binds the target and clears it.
func (r *Renderer) Draw(s *scene.Scene, aspect float32) {
	if r.vertexCount == 0 {
		return
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if s.CullFaces {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	mdl, view, proj := s.Matrices(aspect)
	dir, ambient, diffuse := s.Light.Uniforms()

	r.mesh.Use()
	r.mesh.SetMat4("uProjection", proj)
	r.mesh.SetMat4("uView", view)
	r.mesh.SetMat4("uModel", mdl)
	r.mesh.SetVec3("uLightDir", dir)
	r.mesh.SetFloat("uAmbient", ambient)
	r.mesh.SetFloat("uDiffuse", diffuse)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.vertexCount)

	if s.ShowBBox {
		r.bbox.Use()
		r.bbox.SetMat4("uMVP", proj.Mul(view).Mul(mdl))
		r.bbox.SetVec4("uColor", bboxColor)
		gl.BindVertexArray(r.bboxVAO)
		gl.DrawArrays(gl.LINES, 0, debug.BBoxWireframeVertexCount)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Clear clears the current target.
func (r *Renderer) Clear(rgba [4]float32) {
	gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads the current read buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		gl.DeleteBuffers(int32(len(r.vbos)), &r.vbos[0])
	}
	if r.bboxVAO != 0 {
		gl.DeleteVertexArrays(1, &r.bboxVAO)
		gl.DeleteBuffers(1, &r.bboxVBO)
	}
	if r.mesh != nil {
		r.mesh.Delete()
	}
	if r.bbox != nil {
		r.bbox.Delete()
	}
}
