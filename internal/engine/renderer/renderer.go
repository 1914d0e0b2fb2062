// Package renderer draws the reference scene: a ground grid, world axes and
// an orbit target marker.
package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// GridExtent is the grid half-size in world units; GridStep the line
	// spacing.
	GridExtent float32
	GridStep   float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program    uint32
	viewProjLo int32
	modelLo    int32

	gridVAO, gridVBO     uint32
	gridVertexCount      int32
	axesVAO, axesVBO     uint32
	markerVAO, markerVBO uint32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.GridExtent <= 0 {
		cfg.GridExtent = 10
	}
	if cfg.GridStep <= 0 {
		cfg.GridStep = 1
	}

	r := &Renderer{config: cfg}

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
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.program, err = createShaderProgram()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.viewProjLo = gl.GetUniformLocation(r.program, gl.Str("uViewProj\x00"))
	r.modelLo = gl.GetUniformLocation(r.program, gl.Str("uModel\x00"))

	if err := r.createGrid(); err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}
	if err := r.createAxes(); err != nil {
		return nil, fmt.Errorf("failed to create axes: %w", err)
	}
	if err := r.createMarker(); err != nil {
		return nil, fmt.Errorf("failed to create target marker: %w", err)
	}

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, vao := range []uint32{r.gridVAO, r.axesVAO, r.markerVAO} {
		if vao != 0 {
			v := vao
			gl.DeleteVertexArrays(1, &v)
		}
	}
	for _, vbo := range []uint32{r.gridVBO, r.axesVBO, r.markerVBO} {
		if vbo != 0 {
			v := vbo
			gl.DeleteBuffers(1, &v)
		}
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
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

// DrawScene draws the grid, axes and target marker from cam's point of view.
// The marker is drawn at target so the orbit pivot stays visible while
// panning.
func (r *Renderer) DrawScene(cam *camera.Camera, target math.Vec3) {
	viewProj := cam.ProjectionMatrix().Mul(cam.ViewMatrix())
	identity := math.Identity()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.viewProjLo, 1, false, viewProj.Ptr())
	gl.UniformMatrix4fv(r.modelLo, 1, false, identity.Ptr())

	gl.BindVertexArray(r.gridVAO)
	gl.DrawArrays(gl.LINES, 0, r.gridVertexCount)

	gl.BindVertexArray(r.axesVAO)
	gl.DrawArrays(gl.LINES, 0, 6)

	marker := math.Translate(target.X, target.Y, target.Z)
	gl.UniformMatrix4fv(r.modelLo, 1, false, marker.Ptr())
	gl.BindVertexArray(r.markerVAO)
	gl.DrawArrays(gl.LINES, 0, 6)

	gl.BindVertexArray(0)
}

// ReadPixels reads the current framebuffer as tightly packed RGBA bytes,
// bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// createShaderProgram compiles and links the line shader.
func createShaderProgram() (uint32, error) {
	vertexShaderSource := `
		#version 410 core

		layout (location = 0) in vec3 aPos;
		layout (location = 1) in vec3 aColor;

		uniform mat4 uViewProj;
		uniform mat4 uModel;

		out vec3 vertexColor;

		void main() {
			gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
			vertexColor = aColor;
		}
	` + "\x00"

	fragmentShaderSource := `
		#version 410 core

		in vec3 vertexColor;
		out vec4 FragColor;

		void main() {
			FragColor = vec4(vertexColor, 1.0);
		}
	` + "\x00"

	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %s", log)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}

// createGrid builds line geometry for the ground grid on the XZ plane.
func (r *Renderer) createGrid() error {
	extent := r.config.GridExtent
	step := r.config.GridStep
	gray := [3]float32{0.35, 0.35, 0.4}

	var vertices []float32
	appendLine := func(a, b math.Vec3) {
		vertices = append(vertices,
			a.X, a.Y, a.Z, gray[0], gray[1], gray[2],
			b.X, b.Y, b.Z, gray[0], gray[1], gray[2],
		)
	}
	for v := -extent; v <= extent; v += step {
		appendLine(math.Vec3{X: v, Z: -extent}, math.Vec3{X: v, Z: extent})
		appendLine(math.Vec3{X: -extent, Z: v}, math.Vec3{X: extent, Z: v})
	}
	r.gridVertexCount = int32(len(vertices) / 6)

	r.gridVAO, r.gridVBO = uploadLines(vertices)
	logger.Debug("grid created",
		zap.Uint32("vao", r.gridVAO),
		zap.Int32("vertices", r.gridVertexCount),
	)
	return nil
}

// createAxes builds the XYZ axis lines (red, green, blue).
func (r *Renderer) createAxes() error {
	const l = 2.0
	vertices := []float32{
		0, 0, 0, 1, 0.2, 0.2,
		l, 0, 0, 1, 0.2, 0.2,
		0, 0, 0, 0.2, 1, 0.2,
		0, l, 0, 0.2, 1, 0.2,
		0, 0, 0, 0.3, 0.5, 1,
		0, 0, l, 0.3, 0.5, 1,
	}
	r.axesVAO, r.axesVBO = uploadLines(vertices)
	return nil
}

// createMarker builds a small cross marking the orbit target.
func (r *Renderer) createMarker() error {
	const s = 0.15
	white := [3]float32{0.9, 0.9, 0.9}
	vertices := []float32{
		-s, 0, 0, white[0], white[1], white[2],
		s, 0, 0, white[0], white[1], white[2],
		0, -s, 0, white[0], white[1], white[2],
		0, s, 0, white[0], white[1], white[2],
		0, 0, -s, white[0], white[1], white[2],
		0, 0, s, white[0], white[1], white[2],
	}
	r.markerVAO, r.markerVBO = uploadLines(vertices)
	return nil
}

// uploadLines uploads interleaved position+color line vertices and returns
// the VAO/VBO pair.
func uploadLines(vertices []float32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}
