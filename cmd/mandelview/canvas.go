package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stewi1014/mandelzoom/fractal"
)

const vertexShader = `
#version 460 core

in vec2 vert;
uniform mat3 hint;
out vec2 uv;

void main() {
	uv = vec2((vert.x + 1.0) / 2.0, (1.0 - vert.y) / 2.0);
	vec3 pos = hint * vec3(vert, 1.0);
	gl_Position = vec4(pos.xy, 0.0, 1.0);
}
`

const fragmentShader = `
#version 460 core

in vec2 uv;
uniform sampler2D image;
out vec4 outputColor;

void main() {
	outputColor = texture(image, uv);
}
`

// canvas draws the last presented render as a full window textured quad. The
// zoom hint is applied as a vertex transform, so it never touches the texture.
// All methods need the GL context current on the calling thread.
type canvas struct {
	vao, vbo     uint32
	program      uint32
	texture      uint32
	vertexAttrib uint32
	hintLocation int32

	hint    mgl32.Mat3
	pending *fractal.RenderTarget
	loaded  bool

	width, height int
}

// hintMatrix scales clip space by zoom about an origin given as fractions of the
// canvas, measured from the top left.
func hintMatrix(originX, originY, zoom float64) mgl32.Mat3 {
	ox := float32(2*originX - 1)
	oy := float32(1 - 2*originY)
	z := float32(zoom)

	return mgl32.Translate2D(ox, oy).
		Mul3(mgl32.Scale2D(z, z)).
		Mul3(mgl32.Translate2D(-ox, -oy))
}

func (c *canvas) init() error {
	version := gl.GoStr(gl.GetString(gl.VERSION))
	slog.Info("OpenGL version", "version", version)

	gl.DebugMessageCallback(glDebugMessage, nil)
	if glDebug {
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	verticies := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	if err := c.loadProgram(); err != nil {
		return err
	}

	gl.GenTextures(1, &c.texture)
	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	c.hint = mgl32.Ident3()
	gl.ClearColor(0, 0, 0, 1)
	return nil
}

func (c *canvas) loadProgram() error {
	vertex, err := compileShader(vertexShader+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(fragmentShader+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fragment)

	c.program = gl.CreateProgram()
	gl.AttachShader(c.program, vertex)
	gl.AttachShader(c.program, fragment)
	gl.BindFragDataLocation(c.program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(c.program)

	var status int32
	gl.GetProgramiv(c.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(c.program, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(c.program, l, nil, gl.Str(log))
		return fmt.Errorf("failed to link program: %v", log)
	}

	gl.UseProgram(c.program)
	c.hintLocation = gl.GetUniformLocation(c.program, gl.Str("hint\x00"))
	gl.Uniform1i(gl.GetUniformLocation(c.program, gl.Str("image\x00")), 0)

	c.vertexAttrib = uint32(gl.GetAttribLocation(c.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(c.vertexAttrib)
	gl.VertexAttribPointerWithOffset(c.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)
	return nil
}

func (c *canvas) showHint(originX, originY, zoom float64) {
	c.hint = hintMatrix(originX, originY, zoom)
}

func (c *canvas) clearHint() {
	c.hint = mgl32.Ident3()
}

// present queues target for upload on the next draw.
func (c *canvas) present(target *fractal.RenderTarget) {
	c.pending = target
}

func (c *canvas) resize(width, height int) {
	c.width, c.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (c *canvas) draw() {
	if c.pending != nil {
		c.upload(c.pending)
		c.pending = nil
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)
	if !c.loaded {
		return
	}

	gl.UseProgram(c.program)
	gl.UniformMatrix3fv(c.hintLocation, 1, false, &c.hint[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

func (c *canvas) upload(target *fractal.RenderTarget) {
	format := uint32(gl.RGB)
	if target.Format == fractal.RGBA {
		format = gl.RGBA
	}

	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(target.Width), int32(target.Height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(target.Pix),
	)
	c.loaded = true
}

func (c *canvas) delete() {
	gl.DeleteTextures(1, &c.texture)
	gl.DeleteProgram(c.program)
	gl.DeleteBuffers(1, &c.vbo)
	gl.DeleteVertexArrays(1, &c.vao)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, log)
	}

	return shader, nil
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	level := slog.LevelDebug
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		level = slog.LevelError
	case gl.DEBUG_SEVERITY_MEDIUM:
		level = slog.LevelWarn
	case gl.DEBUG_SEVERITY_LOW:
		level = slog.LevelInfo
	}

	typeStr := "other"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "deprecatedBehavior"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	}

	slog.Log(context.Background(), level, message, "source", source, "type", typeStr, "id", id)
}
