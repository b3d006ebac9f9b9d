package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMouseButtonsFromState(t *testing.T) {

	assert.Equal(t, MouseButtons_None, MouseButtonsFromState(false, false))
	assert.Equal(t, MouseButtons_Left, MouseButtonsFromState(true, false))
	assert.Equal(t, MouseButtons_Right, MouseButtonsFromState(false, true))
	assert.Equal(t, MouseButtons_Both, MouseButtonsFromState(true, true))
}

func TestSnapshot(t *testing.T) {

	s := &Snapshot{Dx: 3, Dy: -2, Buttons: MouseButtons_Right}
	s.Down[Key_Forward] = true
	s.Clicked[Key_ToggleSampler] = true

	assert.True(t, s.KeyDown(Key_Forward))
	assert.False(t, s.KeyDown(Key_Backward))
	assert.True(t, s.KeyClicked(Key_ToggleSampler))
	assert.False(t, s.KeyClicked(Key_Forward))

	assert.False(t, s.KeyDown(Key_Count))
	assert.False(t, s.KeyDown(Key(-1)))

	dx, dy, btns := s.RelativeMouse()
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(-2), dy)
	assert.Equal(t, MouseButtons_Right, btns)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "StrafeLeft", Key_StrafeLeft.String())
	assert.Equal(t, "Unknown", Key_Count.String())
}
