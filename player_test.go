package mqsprite

import (
	"testing"

	"github.com/tanema/gween/ease"
)

// testMode builds a mode with the given fps and frame count.
func testMode(fps, frames int) *Mode {
	m := &Mode{Width: 8, Height: 8, NumPivots: 1, FramesPerSecond: fps}
	for i := 0; i < frames; i++ {
		m.Frames = append(m.Frames, Frame{
			Anchor: Point{i * 10, 0},
			Raster: NewRaster(8, 8),
		})
		m.Frames[i].Pivots[0] = Point{i * 100, i * 100}
	}
	return m
}

func TestModePlayerStepsAtDeclaredRate(t *testing.T) {
	p := NewModePlayer(testMode(10, 4)) // 0.1s per frame

	p.Update(0.05)
	if p.FrameIndex() != 0 {
		t.Errorf("after 0.05s: frame = %d, want 0", p.FrameIndex())
	}
	p.Update(0.05)
	if p.FrameIndex() != 1 {
		t.Errorf("after 0.10s: frame = %d, want 1", p.FrameIndex())
	}
	// A large dt steps several frames at once.
	p.Update(0.2)
	if p.FrameIndex() != 3 {
		t.Errorf("after 0.30s: frame = %d, want 3", p.FrameIndex())
	}
	if p.Frame() == nil || p.Frame().Anchor.X != 30 {
		t.Error("Frame() does not track FrameIndex()")
	}
}

func TestModePlayerLoops(t *testing.T) {
	p := NewModePlayer(testMode(10, 2))
	p.Update(0.2) // past the end
	if p.FrameIndex() != 0 {
		t.Errorf("frame = %d, want 0 after looping", p.FrameIndex())
	}
	if !p.Playing {
		t.Error("looping player stopped")
	}
}

func TestModePlayerStopsWithoutLoop(t *testing.T) {
	p := NewModePlayer(testMode(10, 2))
	p.Loop = false
	p.Update(1.0)
	if p.FrameIndex() != 1 {
		t.Errorf("frame = %d, want last frame", p.FrameIndex())
	}
	if p.Playing {
		t.Error("player still playing past the end")
	}

	p.Rewind()
	if p.FrameIndex() != 0 || !p.Playing {
		t.Error("Rewind did not reset the player")
	}
}

func TestModePlayerZeroRateHolds(t *testing.T) {
	p := NewModePlayer(testMode(0, 3))
	p.Update(10)
	if p.FrameIndex() != 0 {
		t.Errorf("frame = %d, want 0 with zero fps", p.FrameIndex())
	}

	empty := NewModePlayer(&Mode{FramesPerSecond: 8})
	empty.Update(1)
	if empty.Frame() != nil {
		t.Error("empty mode returned a frame")
	}
}

func TestTweenPointLinear(t *testing.T) {
	tw := TweenPoint(Point{0, 0}, Point{100, 50}, 1, ease.Linear)

	mid := tw.Update(0.5)
	if mid.X != 50 || mid.Y != 25 {
		t.Errorf("midpoint = %v, want (50,25)", mid)
	}
	end := tw.Update(0.5)
	if end.X != 100 || end.Y != 50 {
		t.Errorf("endpoint = %v, want (100,50)", end)
	}
	if !tw.Done {
		t.Error("tween not done at full duration")
	}
	// Past the end the tween holds its final value.
	if hold := tw.Update(1); hold != end {
		t.Errorf("after done: %v, want %v", hold, end)
	}
}

func TestTweenAnchorAndPivotBounds(t *testing.T) {
	m := testMode(10, 2)

	tw := TweenAnchor(m, 0, 1, 1, ease.Linear)
	if tw == nil {
		t.Fatal("valid anchor tween is nil")
	}
	if got := tw.Update(1); got.X != 10 {
		t.Errorf("anchor end = %v, want X=10", got)
	}

	if TweenAnchor(m, 0, 5, 1, ease.Linear) != nil {
		t.Error("out-of-range frame accepted")
	}
	if TweenPivot(m, m.NumPivots, 0, 1, 1, ease.Linear) != nil {
		t.Error("unused pivot slot accepted")
	}
	if tw := TweenPivot(m, 0, 0, 1, 1, ease.Linear); tw == nil {
		t.Error("valid pivot tween is nil")
	}
}
