package buffers

import (
	"github.com/bloeys/nrend/assert"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type BufUsage int

// Meshes upload their vertices and indices once, so static draw is the only usage.
// Full docs for buffer usage can be found here: https://registry.khronos.org/OpenGL-Refpages/gl4/html/glBufferData.xhtml
const (
	BufUsage_Unknown BufUsage = iota

	//Buffer is set only once and used many times
	BufUsage_Static_Draw
)

func (b BufUsage) ToGL() uint32 {

	if b == BufUsage_Static_Draw {
		return gl.STATIC_DRAW
	}

	assert.T(false, "Unexpected BufUsage value '%v'", b)
	return 0
}
