package controls

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// gestureState is the single active gesture of the state machine.
type gestureState int

const (
	stateNone gestureState = iota
	stateRotate
	stateDolly
	statePan
	stateTouchRotate
	stateTouchPan
	stateTouchDollyPan
	stateTouchDollyRotate
)

// Action is the logical operation a mouse button maps to.
type Action int

const (
	ActionNone Action = iota
	ActionRotate
	ActionDolly
	ActionPan
)

// TouchAction is the gesture a touch-pointer count maps to.
type TouchAction int

const (
	TouchNone TouchAction = iota
	TouchRotate
	TouchPan
	TouchDollyPan
	TouchDollyRotate
)

// MouseMap assigns an action to each mouse button.
type MouseMap struct {
	Left, Middle, Right Action
}

// TouchMap assigns a gesture to one- and two-finger touches.
type TouchMap struct {
	One, Two TouchAction
}

// KeyMap holds the raw key codes that pan the camera. The codes are opaque
// to this package; they only need to match what the bound event source
// delivers.
type KeyMap struct {
	Up, Down, Left, Right int
}

// Default key codes for the pan arrows, matching the scancodes the SDL
// event pump delivers so the zero configuration works out of the box.
const (
	defaultKeyUp    = 82
	defaultKeyDown  = 81
	defaultKeyLeft  = 80
	defaultKeyRight = 79
)

// DefaultKeys returns the arrow-key mapping.
func DefaultKeys() KeyMap {
	return KeyMap{
		Up:    defaultKeyUp,
		Down:  defaultKeyDown,
		Left:  defaultKeyLeft,
		Right: defaultKeyRight,
	}
}

// ParseAction maps a config string to a mouse Action.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "rotate":
		return ActionRotate, true
	case "dolly":
		return ActionDolly, true
	case "pan":
		return ActionPan, true
	case "none":
		return ActionNone, true
	}
	return ActionNone, false
}

// ParseTouchAction maps a config string to a TouchAction.
func ParseTouchAction(s string) (TouchAction, bool) {
	switch s {
	case "rotate":
		return TouchRotate, true
	case "pan":
		return TouchPan, true
	case "dolly-pan":
		return TouchDollyPan, true
	case "dolly-rotate":
		return TouchDollyRotate, true
	case "none":
		return TouchNone, true
	}
	return TouchNone, false
}

// maxPointers bounds the registry; two simultaneous touches cover every
// supported gesture, so the slots live in a fixed arena instead of a map.
const maxPointers = 2

type pointerSlot struct {
	id  int32
	pos math.Vec2
}

func (c *Controls) addPointer(e PointerEvent) {
	// One slot per distinct id: a repeated down for a pointer already held
	// (a second mouse button chording onto the same pointer) refreshes its
	// position instead of inserting a duplicate.
	for i := 0; i < c.pointerCount; i++ {
		if c.pointers[i].id == e.ID {
			c.pointers[i].pos = e.Pos
			return
		}
	}
	if c.pointerCount >= maxPointers {
		c.extraPointers++
		return
	}
	c.pointers[c.pointerCount] = pointerSlot{id: e.ID, pos: e.Pos}
	c.pointerCount++
}

func (c *Controls) removePointer(id int32) {
	for i := 0; i < c.pointerCount; i++ {
		if c.pointers[i].id == id {
			copy(c.pointers[i:c.pointerCount-1], c.pointers[i+1:c.pointerCount])
			c.pointerCount--
			return
		}
	}
	if c.extraPointers > 0 {
		c.extraPointers--
	}
}

// totalPointers counts every pointer currently down, tracked or overflow.
func (c *Controls) totalPointers() int {
	return c.pointerCount + c.extraPointers
}

func (c *Controls) trackPointer(e PointerEvent) {
	for i := 0; i < c.pointerCount; i++ {
		if c.pointers[i].id == e.ID {
			c.pointers[i].pos = e.Pos
			return
		}
	}
}

// otherPointer returns the last known position of the active pointer that is
// not id. Insertion order is touch order, so with two fingers down this is
// always the other finger.
func (c *Controls) otherPointer(id int32) (math.Vec2, bool) {
	for i := 0; i < c.pointerCount; i++ {
		if c.pointers[i].id != id {
			return c.pointers[i].pos, true
		}
	}
	return math.Vec2{}, false
}

// PointerDown implements Sink. The first pointer captures the input device so
// the gesture cannot be interleaved with an unrelated pointer stream.
func (c *Controls) PointerDown(e PointerEvent) {
	if !c.Enabled {
		return
	}
	if c.totalPointers() == 0 && c.source != nil {
		c.source.CapturePointer(true)
	}
	c.addPointer(e)

	if e.Touch {
		c.onTouchStart(e)
	} else {
		c.onMouseDown(e)
	}
}

// PointerMove implements Sink.
func (c *Controls) PointerMove(e PointerEvent) {
	if !c.Enabled {
		return
	}
	c.trackPointer(e)

	if e.Touch {
		c.onTouchMove(e)
	} else {
		c.onMouseMove(e)
	}
}

// PointerUp implements Sink. When the last pointer lifts the gesture ends;
// when one of two touch pointers lifts, the gesture re-routes directly onto
// the remaining pointer without passing through the idle state.
func (c *Controls) PointerUp(e PointerEvent) {
	c.removePointer(e.ID)

	switch c.totalPointers() {
	case 0:
		if c.source != nil {
			c.source.CapturePointer(false)
		}
		c.dispatch(EventEnd)
		c.state = stateNone
	case 1:
		// Overflow pointers have no tracked position to reroute onto.
		if c.pointerCount == 1 {
			p := c.pointers[0]
			c.onTouchStart(PointerEvent{ID: p.id, Pos: p.pos, Touch: true})
		}
	}
}

// PointerCancel implements Sink; a cancelled pointer is treated as lifted.
func (c *Controls) PointerCancel(e PointerEvent) {
	c.PointerUp(e)
}

// Wheel implements Sink. Wheel ticks are only processed while no pointer
// gesture is active; each tick is bracketed by start and end notifications.
func (c *Controls) Wheel(e WheelEvent) {
	if !c.Enabled || !c.EnableZoom || c.state != stateNone {
		return
	}

	c.dispatch(EventStart)
	c.updateZoomParameters(e.Pos)
	if e.DeltaY < 0 {
		c.dollyIn(c.zoomScale(e.DeltaY))
	} else if e.DeltaY > 0 {
		c.dollyOut(c.zoomScale(e.DeltaY))
	}
	c.Update()
	c.dispatch(EventEnd)
}

// KeyDown implements Sink. Arrow keys pan by KeyPanSpeed pixels; with a
// modifier held they rotate instead (the keyboard has no dedicated pan
// button, so the swap runs opposite to the mouse mapping).
func (c *Controls) KeyDown(e KeyEvent) {
	if !c.Enabled || !c.EnablePan {
		return
	}

	h := float32(c.height)
	needsUpdate := true

	switch e.Code {
	case c.Keys.Up:
		if e.Mods.Any() {
			c.rotateUp(2 * gomath.Pi * c.RotateSpeed / h)
		} else {
			c.pan(0, c.KeyPanSpeed)
		}
	case c.Keys.Down:
		if e.Mods.Any() {
			c.rotateUp(-2 * gomath.Pi * c.RotateSpeed / h)
		} else {
			c.pan(0, -c.KeyPanSpeed)
		}
	case c.Keys.Left:
		if e.Mods.Any() {
			c.rotateLeft(2 * gomath.Pi * c.RotateSpeed / h)
		} else {
			c.pan(c.KeyPanSpeed, 0)
		}
	case c.Keys.Right:
		if e.Mods.Any() {
			c.rotateLeft(-2 * gomath.Pi * c.RotateSpeed / h)
		} else {
			c.pan(-c.KeyPanSpeed, 0)
		}
	default:
		logger.Debug("ignoring unmapped key", zap.Int("code", e.Code))
		needsUpdate = false
	}

	if needsUpdate {
		c.Update()
	}
}

func (c *Controls) onMouseDown(e PointerEvent) {
	var action Action
	switch e.Button {
	case ButtonLeft:
		action = c.Buttons.Left
	case ButtonMiddle:
		action = c.Buttons.Middle
	case ButtonRight:
		action = c.Buttons.Right
	default:
		action = ActionNone
	}

	switch action {
	case ActionDolly:
		if !c.EnableZoom {
			return
		}
		c.updateZoomParameters(e.Pos)
		c.dollyStart = e.Pos
		c.state = stateDolly

	case ActionRotate:
		if e.Mods.Any() {
			if !c.EnablePan {
				return
			}
			c.panStart = e.Pos
			c.state = statePan
		} else {
			if !c.EnableRotate {
				return
			}
			c.rotateStart = e.Pos
			c.state = stateRotate
		}

	case ActionPan:
		if e.Mods.Any() {
			if !c.EnableRotate {
				return
			}
			c.rotateStart = e.Pos
			c.state = stateRotate
		} else {
			if !c.EnablePan {
				return
			}
			c.panStart = e.Pos
			c.state = statePan
		}

	default:
		c.state = stateNone
	}

	if c.state != stateNone {
		c.dispatch(EventStart)
	}
}

func (c *Controls) onMouseMove(e PointerEvent) {
	switch c.state {
	case stateRotate:
		if !c.EnableRotate {
			return
		}
		c.handleMouseMoveRotate(e)
	case stateDolly:
		if !c.EnableZoom {
			return
		}
		c.handleMouseMoveDolly(e)
	case statePan:
		if !c.EnablePan {
			return
		}
		c.handleMouseMovePan(e)
	}
}

func (c *Controls) handleMouseMoveRotate(e PointerEvent) {
	c.rotateEnd = e.Pos
	delta := c.rotateEnd.Sub(c.rotateStart).Scale(c.RotateSpeed)

	h := float32(c.height)
	c.rotateLeft(2 * gomath.Pi * delta.X / h)
	c.rotateUp(2 * gomath.Pi * delta.Y / h)

	c.rotateStart = c.rotateEnd
	c.Update()
}

func (c *Controls) handleMouseMoveDolly(e PointerEvent) {
	c.dollyEnd = e.Pos
	delta := c.dollyEnd.Sub(c.dollyStart)

	if delta.Y > 0 {
		c.dollyOut(c.zoomScale(delta.Y))
	} else if delta.Y < 0 {
		c.dollyIn(c.zoomScale(delta.Y))
	}

	c.dollyStart = c.dollyEnd
	c.Update()
}

func (c *Controls) handleMouseMovePan(e PointerEvent) {
	c.panEnd = e.Pos
	delta := c.panEnd.Sub(c.panStart).Scale(c.PanSpeed)

	c.pan(delta.X, delta.Y)

	c.panStart = c.panEnd
	c.Update()
}

func (c *Controls) onTouchStart(e PointerEvent) {
	c.trackPointer(e)

	switch c.totalPointers() {
	case 1:
		switch c.Touches.One {
		case TouchRotate:
			if !c.EnableRotate {
				return
			}
			c.rotateStart = c.touchCentroid(e)
			c.state = stateTouchRotate
		case TouchPan:
			if !c.EnablePan {
				return
			}
			c.panStart = c.touchCentroid(e)
			c.state = stateTouchPan
		default:
			c.state = stateNone
		}

	case 2:
		switch c.Touches.Two {
		case TouchDollyPan:
			if !c.EnableZoom && !c.EnablePan {
				return
			}
			if c.EnableZoom {
				c.touchDollyStart(e)
			}
			if c.EnablePan {
				c.panStart = c.touchCentroid(e)
			}
			c.state = stateTouchDollyPan
		case TouchDollyRotate:
			if !c.EnableZoom && !c.EnableRotate {
				return
			}
			if c.EnableZoom {
				c.touchDollyStart(e)
			}
			if c.EnableRotate {
				c.rotateStart = c.touchCentroid(e)
			}
			c.state = stateTouchDollyRotate
		default:
			c.state = stateNone
		}

	default:
		c.state = stateNone
	}

	if c.state != stateNone {
		c.dispatch(EventStart)
	}
}

func (c *Controls) onTouchMove(e PointerEvent) {
	switch c.state {
	case stateTouchRotate:
		if !c.EnableRotate {
			return
		}
		c.touchMoveRotate(e)
		c.Update()
	case stateTouchPan:
		if !c.EnablePan {
			return
		}
		c.touchMovePan(e)
		c.Update()
	case stateTouchDollyPan:
		if !c.EnableZoom && !c.EnablePan {
			return
		}
		if c.EnableZoom {
			c.touchMoveDolly(e)
		}
		if c.EnablePan {
			c.touchMovePan(e)
		}
		c.Update()
	case stateTouchDollyRotate:
		if !c.EnableZoom && !c.EnableRotate {
			return
		}
		if c.EnableZoom {
			c.touchMoveDolly(e)
		}
		if c.EnableRotate {
			c.touchMoveRotate(e)
		}
		c.Update()
	}
}

// touchCentroid returns the gesture anchor: the pointer position for a single
// touch, the midpoint of both fingers for a two-finger gesture.
func (c *Controls) touchCentroid(e PointerEvent) math.Vec2 {
	if other, ok := c.otherPointer(e.ID); ok {
		return e.Pos.Mid(other)
	}
	return e.Pos
}

func (c *Controls) touchDollyStart(e PointerEvent) {
	other, ok := c.otherPointer(e.ID)
	if !ok {
		return
	}
	c.dollyStart = math.Vec2{Y: e.Pos.Distance(other)}
}

func (c *Controls) touchMoveRotate(e PointerEvent) {
	c.rotateEnd = c.touchCentroid(e)
	delta := c.rotateEnd.Sub(c.rotateStart).Scale(c.RotateSpeed)

	h := float32(c.height)
	c.rotateLeft(2 * gomath.Pi * delta.X / h)
	c.rotateUp(2 * gomath.Pi * delta.Y / h)

	c.rotateStart = c.rotateEnd
}

func (c *Controls) touchMovePan(e PointerEvent) {
	c.panEnd = c.touchCentroid(e)
	delta := c.panEnd.Sub(c.panStart).Scale(c.PanSpeed)

	c.pan(delta.X, delta.Y)
	c.panStart = c.panEnd
}

func (c *Controls) touchMoveDolly(e PointerEvent) {
	other, ok := c.otherPointer(e.ID)
	if !ok {
		return
	}
	c.dollyEnd = math.Vec2{Y: e.Pos.Distance(other)}

	if c.dollyStart.Y > 0 {
		ratio := float32(gomath.Pow(float64(c.dollyEnd.Y/c.dollyStart.Y), float64(c.ZoomSpeed)))
		c.dollyOut(ratio)
	}
	c.dollyStart = c.dollyEnd

	c.updateZoomParameters(c.touchCentroid(e))
}

// rotateLeft orbits the camera left around the up axis by angle radians.
func (c *Controls) rotateLeft(angle float32) {
	c.sphericalDelta.Theta -= angle
}

// rotateUp orbits the camera toward the up pole by angle radians.
func (c *Controls) rotateUp(angle float32) {
	c.sphericalDelta.Phi -= angle
}

// pan accumulates a screen-space pixel delta as a world-space target offset.
func (c *Controls) pan(deltaX, deltaY float32) {
	switch c.Cam.Kind {
	case camera.Perspective:
		offset := c.Cam.Position.Sub(c.Target)
		// half of the frustum height at target distance
		targetDistance := offset.Length() * float32(gomath.Tan(float64(c.Cam.FovY)/2))
		c.panLeft(2 * deltaX * targetDistance / float32(c.height))
		c.panUp(2 * deltaY * targetDistance / float32(c.height))
	case camera.Orthographic:
		c.panLeft(deltaX * (c.Cam.Right - c.Cam.Left) / c.Cam.Zoom / float32(c.width))
		c.panUp(deltaY * (c.Cam.Top - c.Cam.Bottom) / c.Cam.Zoom / float32(c.height))
	default:
		c.warnUnsupported("pan")
		c.EnablePan = false
	}
}

func (c *Controls) panLeft(distance float32) {
	// camera local X axis
	x := math.Vec3{X: 1}.ApplyQuat(c.Cam.Quaternion)
	c.panOffset = c.panOffset.AddScaled(x, -distance)
}

func (c *Controls) panUp(distance float32) {
	var y math.Vec3
	if c.ScreenSpacePanning {
		y = math.Vec3{Y: 1}.ApplyQuat(c.Cam.Quaternion)
	} else {
		// stay in the plane orthogonal to the up vector
		x := math.Vec3{X: 1}.ApplyQuat(c.Cam.Quaternion)
		y = c.Cam.Up.Cross(x)
	}
	c.panOffset = c.panOffset.AddScaled(y, distance)
}

// zoomScale converts a wheel/drag delta to a multiplicative dolly step.
func (c *Controls) zoomScale(delta float32) float32 {
	normalized := abs32(delta * 0.01)
	return float32(gomath.Pow(0.95, float64(c.ZoomSpeed*normalized)))
}

func (c *Controls) dollyIn(scale float32) {
	switch c.Cam.Kind {
	case camera.Perspective, camera.Orthographic:
		c.scale *= scale
	default:
		c.warnUnsupported("dolly")
		c.EnableZoom = false
	}
}

func (c *Controls) dollyOut(scale float32) {
	switch c.Cam.Kind {
	case camera.Perspective, camera.Orthographic:
		c.scale /= scale
	default:
		c.warnUnsupported("dolly")
		c.EnableZoom = false
	}
}

// updateZoomParameters captures the cursor for zoom-to-cursor: its normalized
// device coordinates and, for a perspective camera, the world-space ray from
// the camera through it. The ray is captured once per gesture rather than
// re-derived per frame, which would let the anchor point drift mid-gesture.
func (c *Controls) updateZoomParameters(pos math.Vec2) {
	if !c.ZoomToCursor {
		return
	}
	c.performCursorZoom = true

	c.mouseNDC = math.Vec2{
		X: 2*pos.X/float32(c.width) - 1,
		Y: 1 - 2*pos.Y/float32(c.height),
	}

	far := c.Cam.Unproject(math.Vec3{X: c.mouseNDC.X, Y: c.mouseNDC.Y, Z: 1})
	c.dollyDirection = far.Sub(c.Cam.Position).Normalize()
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
