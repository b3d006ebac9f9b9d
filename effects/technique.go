package effects

import "github.com/go-gl/gl/v4.1-core/gl"

// Technique is the texture filtering used when sampling an effect's textures
type Technique int

const (
	Technique_Point Technique = iota
	Technique_Linear
	Technique_Anisotropic

	Technique_Count
)

// Next returns the technique after t, wrapping from anisotropic back to point
func (t Technique) Next() Technique {
	return (t + 1) % Technique_Count
}

func (t Technique) String() string {

	switch t {
	case Technique_Point:
		return "POINT"
	case Technique_Linear:
		return "LINEAR"
	case Technique_Anisotropic:
		return "ANISOTROPIC"
	default:
		return "UNKNOWN"
	}
}

const MaxAnisotropy = 16

// NewSampler creates a GL sampler object configured for t
func NewSampler(t Technique) uint32 {

	var id uint32
	gl.GenSamplers(1, &id)
	if id == 0 {
		return 0
	}

	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, gl.REPEAT)

	switch t {
	case Technique_Point:
		gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	case Technique_Linear:
		gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	case Technique_Anisotropic:

		var maxSupported float32
		gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &maxSupported)

		gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.SamplerParameterf(id, gl.TEXTURE_MAX_ANISOTROPY, min(maxSupported, MaxAnisotropy))
	}

	return id
}
