package controls

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/sceneview/pkg/math"
)

// fakeSource records attach/detach and pointer-capture calls.
type fakeSource struct {
	attached map[Sink]bool
	captures []bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{attached: make(map[Sink]bool)}
}

func (f *fakeSource) Attach(s Sink)          { f.attached[s] = true }
func (f *fakeSource) Detach(s Sink)          { delete(f.attached, s) }
func (f *fakeSource) CapturePointer(on bool) { f.captures = append(f.captures, on) }

func touchDown(c *Controls, id int32, x, y float32) {
	c.PointerDown(PointerEvent{ID: id, Pos: math.Vec2{X: x, Y: y}, Touch: true})
}

func touchMove(c *Controls, id int32, x, y float32) {
	c.PointerMove(PointerEvent{ID: id, Pos: math.Vec2{X: x, Y: y}, Touch: true})
}

func touchUp(c *Controls, id int32, x, y float32) {
	c.PointerUp(PointerEvent{ID: id, Pos: math.Vec2{X: x, Y: y}, Touch: true})
}

func TestModifierSwapsRotateToPan(t *testing.T) {
	c := newTestControls()
	angle0 := c.GetAzimuthalAngle()

	c.PointerDown(PointerEvent{
		ID: 0, Pos: math.Vec2{X: 400, Y: 300},
		Button: ButtonLeft, Mods: Modifiers{Shift: true},
	})
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 450, Y: 300}})
	c.PointerUp(PointerEvent{ID: 0, Pos: math.Vec2{X: 450, Y: 300}})

	if c.Target.LengthSq() == 0 {
		t.Error("shift-drag on rotate button did not pan")
	}
	if got := c.GetAzimuthalAngle(); !almostEq(got, angle0, 1e-5) {
		t.Errorf("shift-drag rotated: azimuth %v -> %v", angle0, got)
	}
}

func TestModifierSwapsPanToRotate(t *testing.T) {
	c := newTestControls()

	c.PointerDown(PointerEvent{
		ID: 0, Pos: math.Vec2{X: 400, Y: 300},
		Button: ButtonRight, Mods: Modifiers{Ctrl: true},
	})
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 450, Y: 300}})
	c.PointerUp(PointerEvent{ID: 0, Pos: math.Vec2{X: 450, Y: 300}})

	if c.Target.LengthSq() != 0 {
		t.Errorf("ctrl-drag on pan button moved target: %+v", c.Target)
	}
	if got := c.GetAzimuthalAngle(); almostEq(got, 0, 1e-6) {
		t.Error("ctrl-drag on pan button did not rotate")
	}
}

func TestCustomButtonMapping(t *testing.T) {
	c := newTestControls()
	c.Buttons.Left = ActionDolly
	before := c.GetDistance()

	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}, Button: ButtonLeft})
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 400}})
	c.PointerUp(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 400}})

	// Downward drag dollies out.
	if got := c.GetDistance(); got <= before {
		t.Errorf("dolly drag distance %v -> %v, want increase", before, got)
	}
}

func TestButtonMappedToNone(t *testing.T) {
	c := newTestControls()
	c.Buttons.Middle = ActionNone
	pos := c.Cam.Position

	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}, Button: ButtonMiddle})
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 500, Y: 400}})
	c.PointerUp(PointerEvent{ID: 0, Pos: math.Vec2{X: 500, Y: 400}})

	if c.Cam.Position.DistanceSq(pos) > 1e-8 {
		t.Error("drag on unmapped button moved the camera")
	}
}

func TestButtonChordKeepsSinglePointer(t *testing.T) {
	c := newTestControls()
	src := newFakeSource()
	c.Bind(src)
	ends := 0
	c.AddListener(EventEnd, func() { ends++ })

	// A second button pressed mid-drag arrives as another down with the
	// same pointer id. The registry must stay at one slot so the release
	// does not strand the gesture in a touch state.
	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}, Button: ButtonLeft})
	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 410, Y: 300}, Button: ButtonRight})

	if got := c.totalPointers(); got != 1 {
		t.Fatalf("pointer count after chord = %d, want 1", got)
	}

	// The later button's action wins: the drag pans.
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 460, Y: 300}})
	if c.Target.LengthSq() == 0 {
		t.Error("chorded drag did not follow the later button's action")
	}

	c.PointerUp(PointerEvent{ID: 0, Pos: math.Vec2{X: 460, Y: 300}})
	if ends != 1 {
		t.Errorf("end fired %d times after chord release, want 1", ends)
	}
	if len(src.captures) != 2 || !src.captures[0] || src.captures[1] {
		t.Errorf("captures = %v, want [true false]", src.captures)
	}

	// No gesture may survive the release.
	pos := c.Cam.Position
	target := c.Target
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 600, Y: 400}})
	if c.Cam.Position.DistanceSq(pos) > 1e-8 || c.Target.DistanceSq(target) > 1e-8 {
		t.Error("move after chord release still moved the camera")
	}
}

func TestRepeatedTouchDownSameFinger(t *testing.T) {
	c := newTestControls()

	touchDown(c, 1, 300, 300)
	touchDown(c, 1, 320, 300)

	if got := c.totalPointers(); got != 1 {
		t.Fatalf("pointer count after duplicate finger down = %d, want 1", got)
	}

	// Still a one-finger gesture: a second distinct finger upgrades it.
	touchDown(c, 2, 500, 300)
	if got := c.totalPointers(); got != 2 {
		t.Errorf("pointer count after second finger = %d, want 2", got)
	}
}

func TestDisabledRotateIgnoresDrag(t *testing.T) {
	c := newTestControls()
	c.EnableRotate = false

	dragRotate(c, math.Vec2{X: 400, Y: 300}, math.Vec2{X: 500, Y: 300})

	if got := c.GetAzimuthalAngle(); !almostEq(got, 0, 1e-6) {
		t.Errorf("rotate disabled but azimuth moved to %v", got)
	}
}

func TestTouchPinchZoomsIn(t *testing.T) {
	c := newTestControls()
	before := c.GetDistance()

	touchDown(c, 1, 300, 300)
	touchDown(c, 2, 500, 300)
	// Spread the fingers: 200px -> 300px.
	touchMove(c, 2, 600, 300)

	if got := c.GetDistance(); got >= before {
		t.Errorf("pinch out distance %v -> %v, want decrease", before, got)
	}
}

func TestTwoFingerLiftReroutesWithoutIdle(t *testing.T) {
	c := newTestControls()
	c.Touches.One = TouchPan

	ends := 0
	c.AddListener(EventEnd, func() { ends++ })

	touchDown(c, 1, 300, 300)
	touchDown(c, 2, 500, 300)
	touchMove(c, 2, 550, 300)

	// Lifting one of two fingers must not end the gesture.
	touchUp(c, 2, 550, 300)
	if ends != 0 {
		t.Fatalf("end fired %d times on partial lift", ends)
	}

	// The remaining finger continues as the configured one-finger gesture.
	target := c.Target
	touchMove(c, 1, 350, 300)
	if c.Target.DistanceSq(target) == 0 {
		t.Error("remaining finger did not pan after reroute")
	}

	touchUp(c, 1, 350, 300)
	if ends != 1 {
		t.Errorf("end fired %d times after final lift, want 1", ends)
	}
}

func TestTouchRerouteAnchorsAtRemainingFinger(t *testing.T) {
	c := newTestControls()
	c.Touches.One = TouchPan

	touchDown(c, 1, 300, 300)
	touchDown(c, 2, 500, 300)
	touchUp(c, 2, 500, 300)

	// The reroute re-anchors at the surviving finger, so a no-op move there
	// must not jump the target.
	target := c.Target
	touchMove(c, 1, 300, 300)
	if c.Target.DistanceSq(target) > 1e-10 {
		t.Errorf("stationary finger after reroute jumped target by %v", c.Target.Sub(target))
	}
}

func TestTouchDollyRotate(t *testing.T) {
	c := newTestControls()
	c.Touches.Two = TouchDollyRotate
	before := c.GetDistance()

	touchDown(c, 1, 300, 300)
	touchDown(c, 2, 500, 300)
	touchMove(c, 2, 600, 350)

	if got := c.GetDistance(); got >= before {
		t.Errorf("dolly-rotate spread distance %v -> %v, want decrease", before, got)
	}
	if c.Target.LengthSq() != 0 {
		t.Errorf("dolly-rotate moved target: %+v", c.Target)
	}
	if almostEq(c.GetAzimuthalAngle(), 0, 1e-7) && almostEq(c.GetPolarAngle(), gomath.Pi/2, 1e-7) {
		t.Error("dolly-rotate did not rotate")
	}
}

func TestThirdFingerIgnored(t *testing.T) {
	c := newTestControls()

	touchDown(c, 1, 300, 300)
	touchDown(c, 2, 500, 300)
	pos := c.Cam.Position
	touchDown(c, 3, 400, 500)
	touchMove(c, 3, 400, 100)

	if c.Cam.Position.DistanceSq(pos) > 1e-8 {
		t.Error("third finger affected the camera")
	}
}

func TestKeyboardPansTarget(t *testing.T) {
	c := newTestControls()

	c.KeyDown(KeyEvent{Code: c.Keys.Left})

	if c.Target.LengthSq() == 0 {
		t.Error("arrow key did not pan")
	}
	// Panning moves camera and target together.
	if got := c.GetDistance(); !almostEq(got, 5, 1e-4) {
		t.Errorf("pan changed distance to %v, want 5", got)
	}
}

func TestKeyboardModifierRotates(t *testing.T) {
	c := newTestControls()

	c.KeyDown(KeyEvent{Code: c.Keys.Left, Mods: Modifiers{Ctrl: true}})

	if c.Target.LengthSq() != 0 {
		t.Errorf("modified arrow key moved target: %+v", c.Target)
	}
	if almostEq(c.GetAzimuthalAngle(), 0, 1e-7) {
		t.Error("modified arrow key did not rotate")
	}
}

func TestUnknownKeyIgnored(t *testing.T) {
	c := newTestControls()
	pos := c.Cam.Position

	c.KeyDown(KeyEvent{Code: 999})

	if c.Cam.Position.DistanceSq(pos) != 0 {
		t.Error("unknown key moved the camera")
	}
	if c.Target.LengthSq() != 0 {
		t.Error("unknown key moved the target")
	}
}

func TestPointerCaptureBracketsGesture(t *testing.T) {
	c := newTestControls()
	src := newFakeSource()
	c.Bind(src)

	if !src.attached[Sink(c)] {
		t.Fatal("Bind did not attach the controls")
	}

	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}, Button: ButtonLeft})
	c.PointerUp(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}})

	if len(src.captures) != 2 || !src.captures[0] || src.captures[1] {
		t.Errorf("captures = %v, want [true false]", src.captures)
	}
}

func TestCaptureHeldAcrossTouchReroute(t *testing.T) {
	c := newTestControls()
	src := newFakeSource()
	c.Bind(src)

	touchDown(c, 1, 300, 300)
	touchDown(c, 2, 500, 300)
	touchUp(c, 2, 500, 300)

	for _, on := range src.captures {
		if !on {
			t.Fatal("capture released while a finger is still down")
		}
	}

	touchUp(c, 1, 300, 300)
	if last := src.captures[len(src.captures)-1]; last {
		t.Error("capture not released after last finger lifted")
	}
}

func TestDisposeDetachesAndReleasesCapture(t *testing.T) {
	c := newTestControls()
	src := newFakeSource()
	c.Bind(src)

	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}, Button: ButtonLeft})
	c.Dispose()

	if src.attached[Sink(c)] {
		t.Error("Dispose did not detach the controls")
	}
	if last := src.captures[len(src.captures)-1]; last {
		t.Error("Dispose did not release pointer capture")
	}
}

func TestPointerCancelEndsGesture(t *testing.T) {
	c := newTestControls()
	ends := 0
	c.AddListener(EventEnd, func() { ends++ })

	c.PointerDown(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}, Button: ButtonLeft})
	c.PointerCancel(PointerEvent{ID: 0, Pos: math.Vec2{X: 400, Y: 300}})

	if ends != 1 {
		t.Errorf("cancel fired %d end events, want 1", ends)
	}

	// A move after cancel must be inert.
	pos := c.Cam.Position
	c.PointerMove(PointerEvent{ID: 0, Pos: math.Vec2{X: 500, Y: 400}})
	if c.Cam.Position.DistanceSq(pos) > 1e-8 {
		t.Error("move after cancel moved the camera")
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
		ok   bool
	}{
		{"rotate", ActionRotate, true},
		{"dolly", ActionDolly, true},
		{"pan", ActionPan, true},
		{"none", ActionNone, true},
		{"twirl", ActionNone, false},
		{"", ActionNone, false},
	}
	for _, tc := range cases {
		got, ok := ParseAction(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseAction(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseTouchAction(t *testing.T) {
	cases := []struct {
		in   string
		want TouchAction
		ok   bool
	}{
		{"rotate", TouchRotate, true},
		{"pan", TouchPan, true},
		{"dolly-pan", TouchDollyPan, true},
		{"dolly-rotate", TouchDollyRotate, true},
		{"none", TouchNone, true},
		{"pinch", TouchNone, false},
	}
	for _, tc := range cases {
		got, ok := ParseTouchAction(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseTouchAction(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
