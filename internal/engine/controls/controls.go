// Package controls implements orbit/pan/dolly camera controls driven by
// pointer, touch, wheel and keyboard input.
//
// The camera orbits a target point. Input handlers accumulate angular, pan
// and scale deltas; the owning render loop calls Update once per frame to
// apply them (damped over several frames or all at once) and to report
// whether the camera actually moved.
package controls

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

const (
	// changeEps is the movement tolerance below which Update reports no change.
	changeEps = 1e-6
	// poleEps keeps the polar angle strictly inside (0, pi) so the up-aligned
	// frame stays well-defined.
	poleEps = 1e-6
)

var infinity = float32(gomath.Inf(1))

// Controls converts pointer, touch, wheel and keyboard input into a camera
// transform orbiting Target. Configuration fields may be changed between
// frames; they are read, not written, during a gesture (except where a
// capability is disabled after an unsupported-camera warning).
type Controls struct {
	Cam    *camera.Camera
	Target math.Vec3

	Enabled      bool
	EnableRotate bool
	EnablePan    bool
	EnableZoom   bool

	EnableDamping bool
	DampingFactor float32

	RotateSpeed float32
	PanSpeed    float32
	ZoomSpeed   float32
	KeyPanSpeed float32 // pixels moved per arrow key press

	MinDistance, MaxDistance     float32
	MinZoom, MaxZoom             float32 // orthographic only
	MinPolarAngle, MaxPolarAngle float32 // radians, within [0, pi]
	// Azimuth interval, radians. May wrap through +-pi when min > max after
	// normalization. Leave infinite for an unbounded orbit.
	MinAzimuthAngle, MaxAzimuthAngle float32

	AutoRotate      bool
	AutoRotateSpeed float32 // 2.0 is one orbit per 30s at 60fps

	ZoomToCursor       bool
	ScreenSpacePanning bool // pan in screen space instead of the plane orthogonal to Up

	Buttons MouseMap
	Touches TouchMap
	Keys    KeyMap

	width, height int

	state             gestureState
	spherical         math.Spherical
	sphericalDelta    math.Spherical
	scale             float32
	panOffset         math.Vec3
	performCursorZoom bool
	mouseNDC          math.Vec2
	dollyDirection    math.Vec3

	rotateStart, rotateEnd math.Vec2
	panStart, panEnd       math.Vec2
	dollyStart, dollyEnd   math.Vec2

	pointers      [maxPointers]pointerSlot
	pointerCount  int
	extraPointers int // pointers beyond the arena; they idle the gesture

	source EventSource

	listeners      []listener
	nextListenerID int

	lastPosition   math.Vec3
	lastQuaternion math.Quat
	lastTarget     math.Vec3

	target0   math.Vec3
	position0 math.Vec3
	zoom0     float32
}

// New creates controls for cam with defaults matching a free orbit: every
// gesture enabled, no damping, unbounded azimuth, full polar range.
func New(cam *camera.Camera) *Controls {
	c := &Controls{
		Cam:                cam,
		Enabled:            true,
		EnableRotate:       true,
		EnablePan:          true,
		EnableZoom:         true,
		DampingFactor:      0.05,
		RotateSpeed:        1,
		PanSpeed:           1,
		ZoomSpeed:          1,
		KeyPanSpeed:        7,
		MinDistance:        0,
		MaxDistance:        infinity,
		MinZoom:            0,
		MaxZoom:            infinity,
		MinPolarAngle:      0,
		MaxPolarAngle:      gomath.Pi,
		MinAzimuthAngle:    -infinity,
		MaxAzimuthAngle:    infinity,
		AutoRotateSpeed:    2,
		ScreenSpacePanning: true,
		Buttons:            MouseMap{Left: ActionRotate, Middle: ActionDolly, Right: ActionPan},
		Touches:            TouchMap{One: TouchRotate, Two: TouchDollyPan},
		Keys:               DefaultKeys(),
		scale:              1,
		width:              800,
		height:             600,
	}
	c.SaveState()
	c.Update()
	return c
}

// SetViewport tells the controls the size of the viewport in pixels. Rotation
// and pan speeds are expressed relative to it.
func (c *Controls) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.width = width
	c.height = height
}

// Bind attaches the controls to an input source. Events flow in until
// Dispose is called.
func (c *Controls) Bind(src EventSource) {
	c.source = src
	src.Attach(c)
}

// Dispose detaches the controls from their input source, releases any pointer
// capture and drops all listeners.
func (c *Controls) Dispose() {
	if c.source != nil {
		c.source.CapturePointer(false)
		c.source.Detach(c)
		c.source = nil
	}
	c.listeners = nil
}

// SaveState snapshots target, position and zoom as the baseline for Reset.
func (c *Controls) SaveState() {
	c.target0 = c.Target
	c.position0 = c.Cam.Position
	c.zoom0 = c.Cam.Zoom
}

// Reset reverts target, position and zoom to the last saved baseline.
func (c *Controls) Reset() {
	c.Target = c.target0
	c.Cam.Position = c.position0
	c.Cam.Zoom = c.zoom0

	c.dispatch(EventChange)
	c.Update()
	c.state = stateNone
}

// GetDistance returns the current orbit radius.
func (c *Controls) GetDistance() float32 {
	return c.Cam.Position.Distance(c.Target)
}

// GetPolarAngle returns the current polar angle in radians.
func (c *Controls) GetPolarAngle() float32 {
	return c.spherical.Phi
}

// GetAzimuthalAngle returns the current azimuth in radians.
func (c *Controls) GetAzimuthalAngle() float32 {
	return c.spherical.Theta
}

// Update applies the accumulated deltas to the camera transform. It must be
// called once per displayed frame so damping decay and auto-rotation progress
// even without new input. Returns true when the transform moved beyond
// tolerance, letting the caller skip a redundant render.
func (c *Controls) Update() bool {
	// Orbit math happens in a frame where Up is the +Y pole.
	quat := math.QuatFromUnitVectors(c.Cam.Up, math.Vec3{Y: 1})
	quatInv := quat.Invert()

	// Re-derive the spherical offset every frame instead of integrating it,
	// so clamping errors cannot accumulate as drift.
	offset := c.Cam.Position.Sub(c.Target).ApplyQuat(quat)
	c.spherical.SetFromVec3(offset)

	if c.AutoRotate && c.state == stateNone {
		c.rotateLeft(c.autoRotationAngle())
	}

	if c.EnableDamping {
		c.spherical.Theta += c.sphericalDelta.Theta * c.DampingFactor
		c.spherical.Phi += c.sphericalDelta.Phi * c.DampingFactor
	} else {
		c.spherical.Theta += c.sphericalDelta.Theta
		c.spherical.Phi += c.sphericalDelta.Phi
	}

	c.clampAzimuth()
	c.spherical.Phi = clamp32(c.spherical.Phi, c.MinPolarAngle, c.MaxPolarAngle)
	c.spherical.MakeSafe(poleEps)

	if c.EnableDamping {
		c.Target = c.Target.AddScaled(c.panOffset, c.DampingFactor)
	} else {
		c.Target = c.Target.Add(c.panOffset)
	}

	// When zooming to the cursor (or for an orthographic camera, whose dolly
	// is a projection zoom) the radius change is resolved after the transform
	// below, once the new view is known.
	if (c.ZoomToCursor && c.performCursorZoom) || c.Cam.Kind == camera.Orthographic {
		c.spherical.Radius = c.clampDistance(c.spherical.Radius)
	} else {
		c.spherical.Radius = c.clampDistance(c.spherical.Radius * c.scale)
	}

	offset = c.spherical.Vec3().ApplyQuat(quatInv)
	c.Cam.Position = c.Target.Add(offset)
	c.Cam.LookAt(c.Target)

	if c.EnableDamping {
		c.sphericalDelta.Theta *= 1 - c.DampingFactor
		c.sphericalDelta.Phi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Scale(1 - c.DampingFactor)
	} else {
		c.sphericalDelta = math.Spherical{}
		c.panOffset = math.Vec3{}
	}

	zoomChanged := false
	if c.ZoomToCursor && c.performCursorZoom {
		zoomChanged = c.applyCursorZoom()
	} else if c.Cam.Kind == camera.Orthographic && c.scale != 1 {
		prevZoom := c.Cam.Zoom
		c.Cam.Zoom = clamp32(c.Cam.Zoom/c.scale, c.MinZoom, c.MaxZoom)
		zoomChanged = c.Cam.Zoom != prevZoom
	}

	c.scale = 1
	c.performCursorZoom = false

	if zoomChanged ||
		c.lastPosition.DistanceSq(c.Cam.Position) > changeEps ||
		8*(1-c.lastQuaternion.Dot(c.Cam.Quaternion)) > changeEps ||
		c.lastTarget.DistanceSq(c.Target) > changeEps {
		c.dispatch(EventChange)
		c.lastPosition = c.Cam.Position
		c.lastQuaternion = c.Cam.Quaternion
		c.lastTarget = c.Target
		return true
	}
	return false
}

// clampAzimuth constrains spherical.Theta to the configured interval,
// supporting intervals that wrap through +-pi.
func (c *Controls) clampAzimuth() {
	min, max := c.MinAzimuthAngle, c.MaxAzimuthAngle
	if !isFinite(min) || !isFinite(max) {
		return
	}

	const pi = gomath.Pi
	if min < -pi {
		min += 2 * pi
	} else if min > pi {
		min -= 2 * pi
	}
	if max < -pi {
		max += 2 * pi
	} else if max > pi {
		max -= 2 * pi
	}

	if min <= max {
		c.spherical.Theta = clamp32(c.spherical.Theta, min, max)
		return
	}

	// Interval wraps through +-pi: clamp toward the bound nearer along the
	// shorter arc, chosen by which side of the interval midpoint we are on.
	if c.spherical.Theta > (min+max)/2 {
		c.spherical.Theta = max32(min, c.spherical.Theta)
	} else {
		c.spherical.Theta = min32(max, c.spherical.Theta)
	}
}

func (c *Controls) clampDistance(dist float32) float32 {
	return clamp32(dist, c.MinDistance, c.MaxDistance)
}

func (c *Controls) autoRotationAngle() float32 {
	return 2 * gomath.Pi / 60 / 60 * c.AutoRotateSpeed
}

func (c *Controls) warnUnsupported(capability string) {
	logger.Warn("camera kind does not support capability, disabling it",
		zap.String("kind", c.Cam.Kind.String()),
		zap.String("capability", capability),
	)
}

func clamp32(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func isFinite(f float32) bool {
	return !gomath.IsInf(float64(f), 0)
}
