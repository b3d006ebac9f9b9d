package shaders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type ShaderProgram struct {
	Id           uint32
	VertShaderId uint32
	FragShaderId uint32
	GeomShaderId uint32
}

func (sp *ShaderProgram) AttachShader(shader Shader) error {

	switch shader.Type {
	case ShaderType_Vertex:
		sp.VertShaderId = shader.Id
	case ShaderType_Fragment:
		sp.FragShaderId = shader.Id
	case ShaderType_Geometry:
		sp.GeomShaderId = shader.Id
	default:
		return fmt.Errorf("unknown shader type '%d' for shader id '%d'", shader.Type, shader.Id)
	}

	gl.AttachShader(sp.Id, shader.Id)
	return nil
}

// Link links the program and deletes the attached shaders, which the program no longer needs
func (sp *ShaderProgram) Link() error {

	gl.LinkProgram(sp.Id)

	if sp.VertShaderId != 0 {
		gl.DeleteShader(sp.VertShaderId)
	}

	if sp.FragShaderId != 0 {
		gl.DeleteShader(sp.FragShaderId)
	}

	if sp.GeomShaderId != 0 {
		gl.DeleteShader(sp.GeomShaderId)
	}

	var linked int32
	gl.GetProgramiv(sp.Id, gl.LINK_STATUS, &linked)
	if linked == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetProgramiv(sp.Id, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength)+1))
	gl.GetProgramInfoLog(sp.Id, logLength, nil, log)
	return errors.New("linking shader program failed. Err: " + gl.GoStr(log))
}

func (sp *ShaderProgram) Bind() {
	gl.UseProgram(sp.Id)
}

func (sp *ShaderProgram) UnBind() {
	gl.UseProgram(0)
}

// UniformLocation returns -1 when the uniform does not exist or was optimized out
func (sp *ShaderProgram) UniformLocation(name string) int32 {
	return gl.GetUniformLocation(sp.Id, gl.Str(name+"\x00"))
}

func (sp *ShaderProgram) Delete() {

	if sp.Id == 0 {
		return
	}

	gl.DeleteProgram(sp.Id)
	sp.Id = 0
}
