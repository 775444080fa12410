// Package renderer draws rasterizer batches with OpenGL.
package renderer

import (
	"fmt"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/biocartoon/internal/engine/lighting"
	"github.com/Faultbox/biocartoon/internal/engine/shader"
	"github.com/Faultbox/biocartoon/internal/logger"
	"github.com/Faultbox/biocartoon/internal/raster"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background color.RGBA
	Light      lighting.Light
}

// Renderer uploads a raster.Batch each frame and draws it in screen space.
type Renderer struct {
	config Config

	program  *shader.Program
	uScreen  int32
	uDepth   int32
	uLight   int32
	uAmbient int32

	triVAO, triVBO   uint32
	lineVAO, lineVBO uint32
}

// Vertex shader maps pixel coordinates (Y down) and view depth to clip
// space. Depth is normalized over the batch's depth range.
const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;

uniform vec2 uScreen;
uniform vec2 uDepth;

out vec3 vNormal;
out vec4 vColor;

void main() {
	float z = (aPos.z - uDepth.x) / max(uDepth.y - uDepth.x, 1e-6);
	gl_Position = vec4(aPos.x / uScreen.x * 2.0 - 1.0,
	                   1.0 - aPos.y / uScreen.y * 2.0,
	                   clamp(z, 0.0, 1.0) * 2.0 - 1.0, 1.0);
	vNormal = aNormal;
	vColor = aColor;
}
`

// Fragment shader is a two-sided headlight.
const fragmentShaderSource = `
#version 410 core

in vec3 vNormal;
in vec4 vColor;

uniform vec3 uLight;
uniform float uAmbient;

out vec4 FragColor;

void main() {
	float d = abs(dot(normalize(vNormal), uLight));
	FragColor = vec4(vColor.rgb * (uAmbient + (1.0 - uAmbient) * d), vColor.a);
}
`

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, 1)

	var err error
	r.program, err = shader.Compile(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uScreen = r.program.MustUniform("uScreen")
	r.uDepth = r.program.MustUniform("uDepth")
	r.uLight = r.program.MustUniform("uLight")
	r.uAmbient = r.program.MustUniform("uAmbient")

	r.triVAO, r.triVBO = newVertexArray()
	r.lineVAO, r.lineVBO = newVertexArray()
	logger.Debug("renderer created",
		zap.Uint32("program", r.program.ID),
		zap.Uint32("triangles", r.triVAO),
		zap.Uint32("lines", r.lineVAO),
	)

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// newVertexArray creates a VAO/VBO pair laid out as raster.Vertex.
func newVertexArray() (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	// Position (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, raster.VertexStride, nil)
	gl.EnableVertexAttribArray(0)

	// Normal (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, raster.VertexStride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	// Color (location = 2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, raster.VertexStride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, vao := range []*uint32{&r.triVAO, &r.lineVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.triVBO, &r.lineVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw uploads b and draws its triangles, then its lines.
func (r *Renderer) Draw(b *raster.Batch) {
	if b.Empty() {
		return
	}
	r.program.Use()
	gl.Uniform2f(r.uScreen, float32(r.config.Width), float32(r.config.Height))
	gl.Uniform2f(r.uDepth, b.MinZ, b.MaxZ)
	l := r.config.Light
	gl.Uniform3f(r.uLight, l.Direction.X, l.Direction.Y, l.Direction.Z)
	gl.Uniform1f(r.uAmbient, l.Ambient)

	draw(r.triVAO, r.triVBO, gl.TRIANGLES, b.Triangles)
	draw(r.lineVAO, r.lineVBO, gl.LINES, b.Lines)
	gl.UseProgram(0)
}

func draw(vao, vbo uint32, mode uint32, verts []raster.Vertex) {
	if len(verts) == 0 {
		return
	}
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*raster.VertexStride, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(verts)))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// ReadPixels returns the framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() []byte {
	pixels := make([]byte, r.config.Width*r.config.Height*4)
	gl.ReadPixels(0, 0, int32(r.config.Width), int32(r.config.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
