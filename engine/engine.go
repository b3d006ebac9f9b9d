package engine

import (
	"fmt"
	"runtime"

	"github.com/bloeys/nrend/assert"
	"github.com/bloeys/nrend/input/sdlinput"
	"github.com/bloeys/nrend/timing"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	isInited  = false
	isRunning = false
)

// Game is driven by Run once per frame in the order Update, Render, FrameEnd
type Game interface {
	Init()
	Update()
	Render()
	FrameEnd()
	DeInit()
}

type Window struct {
	SDLWin         *sdl.Window
	Title          string
	EventCallbacks []func(sdl.Event)
}

var _ WindowSizer = &Window{}

// Size is the drawable size in pixels, which can differ from the window size on high dpi displays
func (w *Window) Size() (width, height int32) {
	return w.SDLWin.GLGetDrawableSize()
}

func (w *Window) handleInputs() {

	sdlinput.EventLoopStart()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {

		//Fire callbacks
		for i := 0; i < len(w.EventCallbacks); i++ {
			w.EventCallbacks[i](event)
		}

		//Internal processing
		switch e := event.(type) {

		case *sdl.KeyboardEvent:
			sdlinput.HandleKeyboardEvent(e)

		case *sdl.MouseButtonEvent:
			sdlinput.HandleMouseBtnEvent(e)

		case *sdl.MouseMotionEvent:
			sdlinput.HandleMouseMotionEvent(e)

		case *sdl.QuitEvent:
			sdlinput.HandleQuitEvent(e)
		}
	}
}

func (w *Window) updateTitle() {
	w.SDLWin.SetTitle(fmt.Sprintf("%s | FPS: %.0f", w.Title, timing.GetAvgFPS()))
}

func (w *Window) Destroy() error {
	return w.SDLWin.Destroy()
}

func Init() error {

	isInited = true

	runtime.LockOSThread()
	timing.Init()
	err := initSDL()

	return err
}

func initSDL() error {

	err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO)
	if err != nil {
		return err
	}

	sdl.ShowCursor(1)

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)

	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	// Depth and stencil live in the device's offscreen framebuffer, the window only needs color
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 0)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 0)

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	return nil
}

// CreateOpenGLWindow creates a window an OpenGL context can be made for. The context
// itself is created by the rendering device.
func CreateOpenGLWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, x, y, width, height, WindowFlags_OPENGL|flags)
}

func CreateOpenGLWindowCentered(title string, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, WindowFlags_OPENGL|flags)
}

func createWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {

	assert.T(isInited, "engine.Init() was not called!")

	sdlWin, err := sdl.CreateWindow(title, x, y, width, height, uint32(flags))
	if err != nil {
		return nil, err
	}

	win := &Window{
		SDLWin:         sdlWin,
		Title:          title,
		EventCallbacks: make([]func(sdl.Event), 0),
	}

	return win, nil
}

// Run calls g.Init, then runs frames until Quit is called, then calls g.DeInit
func Run(g Game, w *Window) {

	isRunning = true
	g.Init()

	titleTimer := float32(0)
	for isRunning {

		timing.FrameStarted()
		w.handleInputs()

		g.Update()
		g.Render()
		g.FrameEnd()

		timing.FrameEnded()

		titleTimer += timing.DT()
		if titleTimer >= 1 {
			titleTimer = 0
			w.updateTitle()
		}
	}

	g.DeInit()
}

func Quit() {
	isRunning = false
}

func DeInit() {
	sdl.Quit()
}
