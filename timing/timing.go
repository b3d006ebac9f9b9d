package timing

import "time"

// Timer tracks per-frame elapsed time and a once-per-second FPS average.
type Timer struct {
	Start      time.Time
	FrameStart time.Time
	Dt         float32

	fpsWindowStart time.Time
	framesInWindow int
	avgFps         float32
}

func (t *Timer) Init(now time.Time) {
	t.Start = now
	t.FrameStart = now
	t.fpsWindowStart = now
	t.Dt = 0
	t.framesInWindow = 0
	t.avgFps = 0
}

func (t *Timer) FrameStarted(now time.Time) {
	t.FrameStart = now
}

func (t *Timer) FrameEnded(now time.Time) {

	t.Dt = float32(now.Sub(t.FrameStart).Seconds())
	t.framesInWindow++

	windowLen := now.Sub(t.fpsWindowStart)
	if windowLen >= time.Second {
		t.avgFps = float32(float64(t.framesInWindow) / windowLen.Seconds())
		t.framesInWindow = 0
		t.fpsWindowStart = now
	}
}

// DT returns the duration of the last completed frame in seconds
func (t *Timer) DT() float32 {
	return t.Dt
}

// GetAvgFPS returns the frame rate averaged over the last full second
func (t *Timer) GetAvgFPS() float32 {
	return t.avgFps
}

// ElapsedTime returns seconds since Init
func (t *Timer) ElapsedTime(now time.Time) float64 {
	return now.Sub(t.Start).Seconds()
}

var defaultTimer Timer

func Init() {
	defaultTimer.Init(time.Now())
}

func FrameStarted() {
	defaultTimer.FrameStarted(time.Now())
}

func FrameEnded() {
	defaultTimer.FrameEnded(time.Now())
}

// DT is the last frame time in seconds of the default timer
func DT() float32 {
	return defaultTimer.DT()
}

func GetAvgFPS() float32 {
	return defaultTimer.GetAvgFPS()
}

func ElapsedTime() float64 {
	return defaultTimer.ElapsedTime(time.Now())
}
