package effects

import (
	"fmt"
	_ "unsafe"

	"github.com/bloeys/nrend/assets"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/scene"
	"github.com/bloeys/nrend/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// @TODO: Move the noescape uniform setters into a small gl wrapper package once
// more than matrices need them.

var (
	lastEffectId uint32
)

type TextureSlot uint32

const (
	TextureSlot_Diffuse TextureSlot = iota
	TextureSlot_Normal
	TextureSlot_Specular
	TextureSlot_Gloss

	TextureSlot_Count
)

func (s TextureSlot) UniformName() string {

	switch s {
	case TextureSlot_Diffuse:
		return "gDiffuseMap"
	case TextureSlot_Normal:
		return "gNormalMap"
	case TextureSlot_Specular:
		return "gSpecularMap"
	case TextureSlot_Gloss:
		return "gGlossMap"
	default:
		return ""
	}
}

func (s TextureSlot) setterName() string {

	switch s {
	case TextureSlot_Diffuse:
		return "SetDiffuseMap"
	case TextureSlot_Normal:
		return "SetNormalMap"
	case TextureSlot_Specular:
		return "SetSpecularMap"
	case TextureSlot_Gloss:
		return "SetGlossinessMap"
	default:
		return "SetTexture"
	}
}

const (
	UnifWorldViewProj = "gWorldViewProj"
	UnifWorld         = "gWorld"
	UnifInvView       = "gInvView"
)

type matrixKind uint8

const (
	matrixKind_WorldViewProj matrixKind = iota
	matrixKind_World
	matrixKind_InvView

	matrixKind_Count
)

var matrixSetterNames = [matrixKind_Count]string{
	matrixKind_WorldViewProj: "SetWorldViewProjectionMatrix",
	matrixKind_World:         "SetWorldMatrix",
	matrixKind_InvView:       "SetInverseViewMatrix",
}

// Effect is a shader program plus the state it is drawn with: its textures,
// one sampler object per technique and the currently active technique.
//
// Setters on uniforms the shader does not have do nothing and log once.
type Effect struct {
	Id         uint32
	Name       string
	ShaderProg shaders.ShaderProgram
	Technique  Technique

	// Transparent effects draw both faces and leave the depth buffer untouched
	Transparent bool

	Samplers [Technique_Count]uint32
	Textures [TextureSlot_Count]uint32

	MatrixLocs  [matrixKind_Count]int32
	TextureLocs [TextureSlot_Count]int32

	matrixWarned [matrixKind_Count]bool
}

var (
	_ scene.EffectSink  = &Effect{}
	_ renderer.Material = &Effect{}
)

func (e *Effect) MaterialId() uint32 {
	return e.Id
}

// Bind makes the program current and binds every texture slot with the active technique's sampler
func (e *Effect) Bind() {

	e.ShaderProg.Bind()

	if e.Transparent {
		gl.Disable(gl.CULL_FACE)
		gl.DepthMask(false)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.DepthMask(true)
	}

	sampler := e.Samplers[e.Technique]
	for slot := TextureSlot(0); slot < TextureSlot_Count; slot++ {

		if e.TextureLocs[slot] == -1 {
			continue
		}

		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		gl.BindTexture(gl.TEXTURE_2D, e.Textures[slot])
		gl.BindSampler(uint32(slot), sampler)
	}
}

func (e *Effect) UnBind() {
	gl.UseProgram(0)
}

func (e *Effect) ToggleTechnique() {
	e.Technique = e.Technique.Next()
	logging.InfoLog.Printf("%s Sampler State active\n", e.Technique)
}

func (e *Effect) SetWorldViewProjectionMatrix(m *mgl32.Mat4) {
	e.setMatrix(matrixKind_WorldViewProj, m)
}

func (e *Effect) SetWorldMatrix(m *mgl32.Mat4) {
	e.setMatrix(matrixKind_World, m)
}

func (e *Effect) SetInverseViewMatrix(m *mgl32.Mat4) {
	e.setMatrix(matrixKind_InvView, m)
}

func (e *Effect) setMatrix(kind matrixKind, m *mgl32.Mat4) {

	loc := e.MatrixLocs[kind]
	if loc == -1 || e.ShaderProg.Id == 0 {

		if !e.matrixWarned[kind] {
			logging.WarnLog.Printf("%s failed on effect '%s'\n", matrixSetterNames[kind], e.Name)
			e.matrixWarned[kind] = true
		}

		return
	}

	internalSetUnifMat4(e.ShaderProg.Id, loc, m)
}

//go:noescape
//go:linkname internalSetUnifMat4 github.com/bloeys/nrend/effects.SetUnifMat4
func internalSetUnifMat4(shaderProgId uint32, unifLoc int32, mat4 *mgl32.Mat4)

// SetUnifMat4 uploads a column major matrix. Called through internalSetUnifMat4 so m does not escape to the heap.
func SetUnifMat4(shaderProgId uint32, unifLoc int32, mat4 *mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(shaderProgId, unifLoc, 1, false, &mat4[0])
}

// SetTexture assigns tex to a slot. It fails when the texture is invalid or the shader has no such slot.
func (e *Effect) SetTexture(slot TextureSlot, tex assets.Texture) error {

	if slot >= TextureSlot_Count {
		return fmt.Errorf("SetTexture failed: unknown texture slot %d", slot)
	}

	if tex.TexID == 0 {
		return fmt.Errorf("%s failed: no texture given", slot.setterName())
	}

	if e.TextureLocs[slot] == -1 {
		return fmt.Errorf("%s failed: effect '%s' has no %s", slot.setterName(), e.Name, slot.UniformName())
	}

	e.Textures[slot] = tex.TexID
	return nil
}

func (e *Effect) SetDiffuseMap(tex assets.Texture) error {
	return e.SetTexture(TextureSlot_Diffuse, tex)
}

func (e *Effect) SetNormalMap(tex assets.Texture) error {
	return e.SetTexture(TextureSlot_Normal, tex)
}

func (e *Effect) SetSpecularMap(tex assets.Texture) error {
	return e.SetTexture(TextureSlot_Specular, tex)
}

func (e *Effect) SetGlossinessMap(tex assets.Texture) error {
	return e.SetTexture(TextureSlot_Gloss, tex)
}

// Delete frees the program and samplers. Textures are owned by the assets cache.
func (e *Effect) Delete() {

	e.ShaderProg.Delete()

	for i := 0; i < len(e.Samplers); i++ {
		if e.Samplers[i] != 0 {
			gl.DeleteSamplers(1, &e.Samplers[i])
			e.Samplers[i] = 0
		}
	}
}

func getNewEffectId() uint32 {
	lastEffectId++
	return lastEffectId
}

// newEffect returns an effect with no program, every location invalid and the point technique active
func newEffect(name string) *Effect {

	e := &Effect{
		Id:        getNewEffectId(),
		Name:      name,
		Technique: Technique_Point,
	}

	for i := range e.MatrixLocs {
		e.MatrixLocs[i] = -1
	}

	for i := range e.TextureLocs {
		e.TextureLocs[i] = -1
	}

	return e
}

func NewEffect(name, shaderPath string) (*Effect, error) {

	shdrProg, err := shaders.LoadAndCompileCombinedShader(shaderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create effect '%s': %w", name, err)
	}

	return newEffectFromProgram(name, shdrProg)
}

func NewEffectSrc(name string, shaderSrc []byte) (*Effect, error) {

	shdrProg, err := shaders.LoadAndCompileCombinedShaderSrc(shaderSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create effect '%s': %w", name, err)
	}

	return newEffectFromProgram(name, shdrProg)
}

func newEffectFromProgram(name string, shdrProg shaders.ShaderProgram) (*Effect, error) {

	e := newEffect(name)
	e.ShaderProg = shdrProg

	for t := Technique(0); t < Technique_Count; t++ {

		e.Samplers[t] = NewSampler(t)
		if e.Samplers[t] == 0 {
			e.Delete()
			return nil, fmt.Errorf("failed to create %s sampler for effect '%s'", t, name)
		}
	}

	matrixUnifs := [matrixKind_Count]string{
		matrixKind_WorldViewProj: UnifWorldViewProj,
		matrixKind_World:         UnifWorld,
		matrixKind_InvView:       UnifInvView,
	}
	for i, unif := range matrixUnifs {

		e.MatrixLocs[i] = shdrProg.UniformLocation(unif)
		if e.MatrixLocs[i] == -1 {
			logging.WarnLog.Printf("Effect '%s': matrix uniform %s not valid\n", name, unif)
		}
	}

	defaults := [TextureSlot_Count]assets.Texture{
		TextureSlot_Diffuse:  assets.DefaultDiffuseTex,
		TextureSlot_Normal:   assets.DefaultNormalTex,
		TextureSlot_Specular: assets.DefaultSpecularTex,
		TextureSlot_Gloss:    assets.DefaultGlossTex,
	}
	for slot := TextureSlot(0); slot < TextureSlot_Count; slot++ {

		e.TextureLocs[slot] = shdrProg.UniformLocation(slot.UniformName())
		if e.TextureLocs[slot] == -1 {
			continue
		}

		gl.ProgramUniform1i(shdrProg.Id, e.TextureLocs[slot], int32(slot))
		e.Textures[slot] = defaults[slot].TexID
	}

	return e, nil
}
