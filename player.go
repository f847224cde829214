package mqsprite

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ModePlayer steps through a mode's frames at its declared playback
// rate. Preview widgets call Update(dt) each tick and draw whatever
// Frame() returns. There is no global clock — callers drive it.
type ModePlayer struct {
	mode  *Mode
	time  float64
	frame int

	// Loop restarts the clip after the last frame; when false the
	// player stops on it instead.
	Loop bool

	// Playing gates Update. NewModePlayer starts playing.
	Playing bool
}

// NewModePlayer returns a looping player positioned on frame 0.
func NewModePlayer(mode *Mode) *ModePlayer {
	return &ModePlayer{mode: mode, Loop: true, Playing: true}
}

// Update advances the clock by dt seconds, stepping frames at the
// mode's framesPerSecond. A rate of zero or less holds the current
// frame.
func (p *ModePlayer) Update(dt float64) {
	if !p.Playing || p.mode == nil || len(p.mode.Frames) == 0 {
		return
	}
	if p.mode.FramesPerSecond <= 0 {
		return
	}
	step := 1.0 / float64(p.mode.FramesPerSecond)
	p.time += dt
	for p.time >= step {
		p.time -= step
		p.frame++
		if p.frame < len(p.mode.Frames) {
			continue
		}
		if p.Loop {
			p.frame = 0
			continue
		}
		p.frame = len(p.mode.Frames) - 1
		p.Playing = false
		p.time = 0
		return
	}
}

// FrameIndex returns the current frame index.
func (p *ModePlayer) FrameIndex() int { return p.frame }

// Frame returns the current frame, or nil for an empty mode.
func (p *ModePlayer) Frame() *Frame {
	if p.mode == nil || len(p.mode.Frames) == 0 {
		return nil
	}
	return &p.mode.Frames[p.frame]
}

// Rewind resets the player to frame 0 and resumes playback.
func (p *ModePlayer) Rewind() {
	p.time = 0
	p.frame = 0
	p.Playing = true
}

// PointTween eases a point between two positions, for smooth anchor
// and pivot scrubbing in previews. Call Update(dt) each tick.
type PointTween struct {
	tx, ty *gween.Tween
	last   Point
	Done   bool
}

// TweenPoint creates a tween from one point to another over the given
// duration (seconds) using the easing function.
func TweenPoint(from, to Point, duration float32, fn ease.TweenFunc) *PointTween {
	return &PointTween{
		tx:   gween.New(float32(from.X), float32(to.X), duration, fn),
		ty:   gween.New(float32(from.Y), float32(to.Y), duration, fn),
		last: from,
	}
}

// Update advances the tween by dt seconds and returns the current
// point, rounded to pixel coordinates.
func (t *PointTween) Update(dt float32) Point {
	if t.Done {
		return t.last
	}
	x, doneX := t.tx.Update(dt)
	y, doneY := t.ty.Update(dt)
	t.last = Point{
		X: int(math.Round(float64(x))),
		Y: int(math.Round(float64(y))),
	}
	t.Done = doneX && doneY
	return t.last
}

// TweenAnchor tweens between the anchors of two frames of a mode.
// Returns nil if either index is out of range.
func TweenAnchor(m *Mode, from, to int, duration float32, fn ease.TweenFunc) *PointTween {
	if m == nil || from < 0 || to < 0 || from >= len(m.Frames) || to >= len(m.Frames) {
		return nil
	}
	return TweenPoint(m.Frames[from].Anchor, m.Frames[to].Anchor, duration, fn)
}

// TweenPivot tweens one pivot slot between two frames of a mode.
// Returns nil if the pivot slot is not in use or an index is out of
// range.
func TweenPivot(m *Mode, pivot, from, to int, duration float32, fn ease.TweenFunc) *PointTween {
	if m == nil || pivot < 0 || pivot >= m.NumPivots {
		return nil
	}
	if from < 0 || to < 0 || from >= len(m.Frames) || to >= len(m.Frames) {
		return nil
	}
	return TweenPoint(m.Frames[from].Pivots[pivot], m.Frames[to].Pivots[pivot], duration, fn)
}
