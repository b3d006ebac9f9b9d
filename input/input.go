// Package input defines the logical controls the renderer reacts to.
//
// Device specific code (see input/sdlinput) maps physical keys and mouse buttons
// onto these, so camera and scene code never sees a keycode.
package input

type Key int

const (
	Key_Forward Key = iota
	Key_Backward
	Key_StrafeLeft
	Key_StrafeRight
	Key_Boost
	Key_Exit
	Key_ToggleSampler

	Key_Count
)

func (k Key) String() string {

	switch k {
	case Key_Forward:
		return "Forward"
	case Key_Backward:
		return "Backward"
	case Key_StrafeLeft:
		return "StrafeLeft"
	case Key_StrafeRight:
		return "StrafeRight"
	case Key_Boost:
		return "Boost"
	case Key_Exit:
		return "Exit"
	case Key_ToggleSampler:
		return "ToggleSampler"
	default:
		return "Unknown"
	}
}

// MouseButtons is the state of the left and right mouse buttons.
// Left, Right and Both never overlap: holding both is its own state.
type MouseButtons int

const (
	MouseButtons_None MouseButtons = iota
	MouseButtons_Left
	MouseButtons_Right
	MouseButtons_Both
)

func MouseButtonsFromState(leftDown, rightDown bool) MouseButtons {

	switch {
	case leftDown && rightDown:
		return MouseButtons_Both
	case leftDown:
		return MouseButtons_Left
	case rightDown:
		return MouseButtons_Right
	default:
		return MouseButtons_None
	}
}

type Source interface {
	KeyDown(k Key) bool
	// KeyClicked is true only on the frame the key went down
	KeyClicked(k Key) bool
	// RelativeMouse returns the mouse motion since the last frame
	RelativeMouse() (dx, dy float32, btns MouseButtons)
}

// Snapshot is a fixed input state, used for replays and tests
type Snapshot struct {
	Down    [Key_Count]bool
	Clicked [Key_Count]bool
	Dx, Dy  float32
	Buttons MouseButtons
}

var _ Source = &Snapshot{}

func (s *Snapshot) KeyDown(k Key) bool {

	if k < 0 || k >= Key_Count {
		return false
	}

	return s.Down[k]
}

func (s *Snapshot) KeyClicked(k Key) bool {

	if k < 0 || k >= Key_Count {
		return false
	}

	return s.Clicked[k]
}

func (s *Snapshot) RelativeMouse() (dx, dy float32, btns MouseButtons) {
	return s.Dx, s.Dy, s.Buttons
}
