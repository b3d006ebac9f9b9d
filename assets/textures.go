package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mandykoh/prism"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type ColorFormat int

const (
	ColorFormat_Unknown ColorFormat = iota
	ColorFormat_RGBA8
	ColorFormat_SRGBA8
)

func (c ColorFormat) GlInternalFormat() int32 {

	switch c {
	case ColorFormat_SRGBA8:
		return gl.SRGB8_ALPHA8
	default:
		return gl.RGBA8
	}
}

type TextureLoadOptions struct {
	TryLoadFromCache bool
	WriteToCache     bool
	GenMipMaps       bool
	// NoSrgba must be set for textures holding data rather than colors (normal, specular and gloss maps)
	NoSrgba bool
	// MaxSize downscales textures whose width or height is larger. Zero means no limit.
	MaxSize int
}

type Texture struct {
	// Path only exists for textures that were loaded from disk
	Path   string
	TexID  uint32
	Width  int32
	Height int32
	Format ColorFormat
}

func (t *Texture) Delete() {

	if t.TexID == 0 {
		return
	}

	if t.Path != "" {
		delete(Textures, t.Path)
	}

	gl.DeleteTextures(1, &t.TexID)
	t.TexID = 0
}

var (
	// Textures is the cache of textures loaded from disk, keyed by path
	Textures = make(map[string]Texture)

	DefaultDiffuseTex  Texture
	DefaultNormalTex   Texture
	DefaultSpecularTex Texture
	DefaultGlossTex    Texture
)

// InitDefaultTextures creates the 1x1 textures bound to slots that have no texture of their own.
// Needs a current GL context.
func InitDefaultTextures() error {

	var err error
	defaults := []struct {
		tex *Texture
		c   color.NRGBA
	}{
		{&DefaultDiffuseTex, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		// Flat tangent space normal pointing out of the surface
		{&DefaultNormalTex, color.NRGBA{R: 128, G: 128, B: 255, A: 255}},
		{&DefaultSpecularTex, color.NRGBA{A: 255}},
		{&DefaultGlossTex, color.NRGBA{A: 255}},
	}

	for _, d := range defaults {

		*d.tex, err = NewTextureFromImage(SolidImage(d.c, 1, 1), &TextureLoadOptions{NoSrgba: true})
		if err != nil {
			return fmt.Errorf("creating default texture: %w", err)
		}
	}

	return nil
}

func DeleteDefaultTextures() {
	DefaultDiffuseTex.Delete()
	DefaultNormalTex.Delete()
	DefaultSpecularTex.Delete()
	DefaultGlossTex.Delete()
}

func SolidImage(c color.NRGBA, width, height int) *image.NRGBA {

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}

	return img
}

// DecodeImage decodes PNG, JPEG, BMP, TIFF or WebP data into tightly packed NRGBA pixels
func DecodeImage(data []byte) (*image.NRGBA, string, error) {

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	return prism.ConvertImageToNRGBA(img, runtime.NumCPU()), format, nil
}

// FitToMaxSize scales img down, keeping its aspect ratio, so neither side exceeds maxSize.
// The image is returned as is if it already fits.
func FitToMaxSize(img *image.NRGBA, maxSize int) *image.NRGBA {

	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}

	w, h := maxSize, maxSize
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*maxSize/b.Dx())
	} else {
		w = max(1, b.Dx()*maxSize/b.Dy())
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func LoadTexture(path string, opts *TextureLoadOptions) (Texture, error) {

	if opts == nil {
		opts = &TextureLoadOptions{}
	}

	if opts.TryLoadFromCache {
		if tex, ok := Textures[path]; ok {
			return tex, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Texture{}, fmt.Errorf("reading texture '%s': %w", path, err)
	}

	img, _, err := DecodeImage(data)
	if err != nil {
		return Texture{}, fmt.Errorf("decoding texture '%s': %w", path, err)
	}

	tex, err := NewTextureFromImage(img, opts)
	if err != nil {
		return Texture{}, fmt.Errorf("texture '%s': %w", path, err)
	}
	tex.Path = path

	if opts.WriteToCache {
		Textures[path] = tex
	}

	return tex, nil
}

// NewTextureFromImage uploads img as a 2D texture. Filtering is left to sampler objects.
func NewTextureFromImage(img *image.NRGBA, opts *TextureLoadOptions) (Texture, error) {

	if opts == nil {
		opts = &TextureLoadOptions{}
	}

	img = FitToMaxSize(img, opts.MaxSize)

	b := img.Bounds()
	tex := Texture{
		Width:  int32(b.Dx()),
		Height: int32(b.Dy()),
		Format: ColorFormat_SRGBA8,
	}

	if opts.NoSrgba {
		tex.Format = ColorFormat_RGBA8
	}

	if tex.Width == 0 || tex.Height == 0 {
		return Texture{}, fmt.Errorf("texture has no pixels (%dx%d)", tex.Width, tex.Height)
	}

	gl.GenTextures(1, &tex.TexID)
	if tex.TexID == 0 {
		return Texture{}, fmt.Errorf("failed to generate texture. GlError=%d", gl.GetError())
	}

	gl.BindTexture(gl.TEXTURE_2D, tex.TexID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, tex.Format.GlInternalFormat(), tex.Width, tex.Height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	if opts.GenMipMaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex, nil
}
