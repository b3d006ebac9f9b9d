// Package sdlinput tracks keyboard and mouse state from SDL events and exposes
// it as an input.Source.
//
// The engine feeds every polled event into the Handle* functions, after calling
// EventLoopStart once per frame to reset the per-frame state (clicks, releases, motion).
package sdlinput

import (
	"fmt"

	"github.com/bloeys/nrend/config"
	"github.com/bloeys/nrend/input"
	"github.com/veandco/go-sdl2/sdl"
)

type keyState struct {
	Key                 sdl.Keycode
	State               int
	IsPressedThisFrame  bool
	IsReleasedThisFrame bool
}

type mouseBtnState struct {
	Btn   int
	State int

	IsPressedThisFrame  bool
	IsReleasedThisFrame bool
}

type mouseMotionState struct {
	XDelta int32
	YDelta int32
	XPos   int32
	YPos   int32
}

var (
	mouseMotion = mouseMotionState{}
	mouseBtnMap = make(map[int]mouseBtnState)
	keyMap      = make(map[sdl.Keycode]keyState)

	isQuitRequested bool
)

func EventLoopStart() {

	for k, v := range keyMap {
		v.IsPressedThisFrame = false
		v.IsReleasedThisFrame = false
		keyMap[k] = v
	}

	for k, v := range mouseBtnMap {
		v.IsPressedThisFrame = false
		v.IsReleasedThisFrame = false
		mouseBtnMap[k] = v
	}

	mouseMotion.XDelta = 0
	mouseMotion.YDelta = 0

	isQuitRequested = false
}

func ClearKeyboardState() {
	clear(keyMap)
}

func ClearMouseState() {
	clear(mouseBtnMap)
	mouseMotion = mouseMotionState{}
}

func HandleQuitEvent(e *sdl.QuitEvent) {
	isQuitRequested = true
}

func IsQuitClicked() bool {
	return isQuitRequested
}

func HandleKeyboardEvent(e *sdl.KeyboardEvent) {

	ks, ok := keyMap[e.Keysym.Sym]
	if !ok {
		ks = keyState{Key: e.Keysym.Sym}
	}

	ks.State = int(e.State)
	ks.IsPressedThisFrame = e.State == sdl.PRESSED && e.Repeat == 0
	ks.IsReleasedThisFrame = e.State == sdl.RELEASED && e.Repeat == 0

	keyMap[ks.Key] = ks
}

func HandleMouseBtnEvent(e *sdl.MouseButtonEvent) {

	mb, ok := mouseBtnMap[int(e.Button)]
	if !ok {
		mb = mouseBtnState{Btn: int(e.Button)}
	}

	mb.State = int(e.State)
	mb.IsPressedThisFrame = e.State == sdl.PRESSED
	mb.IsReleasedThisFrame = e.State == sdl.RELEASED

	mouseBtnMap[int(e.Button)] = mb
}

// HandleMouseMotionEvent accumulates relative motion, since several motion events can arrive in one frame
func HandleMouseMotionEvent(e *sdl.MouseMotionEvent) {

	mouseMotion.XPos = e.X
	mouseMotion.YPos = e.Y

	mouseMotion.XDelta += e.XRel
	mouseMotion.YDelta += e.YRel
}

// GetMouseMotion returns how many pixels were moved this frame
func GetMouseMotion() (xDelta, yDelta int32) {
	return mouseMotion.XDelta, mouseMotion.YDelta
}

func GetMousePos() (x, y int32) {
	return mouseMotion.XPos, mouseMotion.YPos
}

func KeyClicked(kc sdl.Keycode) bool {

	ks, ok := keyMap[kc]
	if !ok {
		return false
	}

	return ks.IsPressedThisFrame
}

func KeyReleased(kc sdl.Keycode) bool {

	ks, ok := keyMap[kc]
	if !ok {
		return false
	}

	return ks.IsReleasedThisFrame
}

func KeyDown(kc sdl.Keycode) bool {

	ks, ok := keyMap[kc]
	if !ok {
		return false
	}

	return ks.State == sdl.PRESSED
}

func MouseDown(mb int) bool {

	btn, ok := mouseBtnMap[mb]
	if !ok {
		return false
	}

	return btn.State == sdl.PRESSED
}

func MouseClicked(mb int) bool {

	btn, ok := mouseBtnMap[mb]
	if !ok {
		return false
	}

	return btn.IsPressedThisFrame
}

// Bindings maps every logical key onto an SDL keycode
type Bindings [input.Key_Count]sdl.Keycode

func DefaultBindings() Bindings {

	var b Bindings
	b[input.Key_Forward] = sdl.K_w
	b[input.Key_Backward] = sdl.K_s
	b[input.Key_StrafeLeft] = sdl.K_a
	b[input.Key_StrafeRight] = sdl.K_d
	b[input.Key_Boost] = sdl.K_LSHIFT
	b[input.Key_Exit] = sdl.K_ESCAPE
	b[input.Key_ToggleSampler] = sdl.K_F2
	return b
}

// BindingsFromConfig resolves the SDL key names in the config
func BindingsFromConfig(kb config.KeyBindings) (Bindings, error) {

	names := [input.Key_Count]string{
		input.Key_Forward:       kb.Forward,
		input.Key_Backward:      kb.Backward,
		input.Key_StrafeLeft:    kb.StrafeLeft,
		input.Key_StrafeRight:   kb.StrafeRight,
		input.Key_Boost:         kb.Boost,
		input.Key_Exit:          kb.Exit,
		input.Key_ToggleSampler: kb.ToggleSampler,
	}

	var b Bindings
	for i, name := range names {

		kc := sdl.GetKeyFromName(name)
		if kc == sdl.K_UNKNOWN {
			return Bindings{}, fmt.Errorf("unknown key name '%s' bound to %s", name, input.Key(i))
		}

		b[i] = kc
	}

	return b, nil
}

// Source reads the event driven state through a set of bindings
type Source struct {
	Bindings Bindings
}

var _ input.Source = &Source{}

func NewSource(b Bindings) *Source {
	return &Source{Bindings: b}
}

func (s *Source) KeyDown(k input.Key) bool {

	if k < 0 || k >= input.Key_Count {
		return false
	}

	return KeyDown(s.Bindings[k])
}

func (s *Source) KeyClicked(k input.Key) bool {

	if k < 0 || k >= input.Key_Count {
		return false
	}

	return KeyClicked(s.Bindings[k])
}

func (s *Source) RelativeMouse() (dx, dy float32, btns input.MouseButtons) {

	x, y := GetMouseMotion()
	btns = input.MouseButtonsFromState(MouseDown(sdl.BUTTON_LEFT), MouseDown(sdl.BUTTON_RIGHT))
	return float32(x), float32(y), btns
}
