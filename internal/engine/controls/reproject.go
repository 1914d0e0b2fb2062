package controls

import (
	gomath "math"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/pkg/math"
)

// tiltLimit is cos(70 deg). When the view ray is closer than that to lying in
// the orbit plane, re-deriving the target by ray-plane intersection becomes
// unstable and a plain look-at is used instead.
var tiltLimit = float32(gomath.Cos(70 * gomath.Pi / 180))

// applyCursorZoom runs after the orbit transform has been rebuilt for this
// frame. It applies the pending dolly scale so the world point captured by
// updateZoomParameters stays under the cursor, then re-derives the target so
// it again sits at the orbit radius along the view direction. Returns whether
// the projection or radius actually changed.
func (c *Controls) applyCursorZoom() bool {
	zoomChanged := false
	var newRadius float32
	haveRadius := false

	switch c.Cam.Kind {
	case camera.Perspective:
		// Slide the camera along the captured cursor ray by the radius
		// change; the orientation is untouched, so the anchor point keeps
		// its screen position.
		prevRadius := c.spherical.Radius
		newRadius = c.clampDistance(prevRadius * c.scale)
		radiusDelta := prevRadius - newRadius
		c.Cam.Position = c.Cam.Position.AddScaled(c.dollyDirection, radiusDelta)
		zoomChanged = radiusDelta != 0
		haveRadius = true

	case camera.Orthographic:
		// Unproject the cursor before and after the zoom change and shift
		// the camera by the difference.
		anchor := math.Vec3{X: c.mouseNDC.X, Y: c.mouseNDC.Y}
		before := c.Cam.Unproject(anchor)

		prevZoom := c.Cam.Zoom
		c.Cam.Zoom = clamp32(c.Cam.Zoom/c.scale, c.MinZoom, c.MaxZoom)
		zoomChanged = c.Cam.Zoom != prevZoom

		after := c.Cam.Unproject(anchor)
		c.Cam.Position = c.Cam.Position.Sub(after).Add(before)

		newRadius = c.spherical.Radius
		haveRadius = true

	default:
		c.warnUnsupported("zoom to cursor")
		c.ZoomToCursor = false
	}

	if haveRadius {
		dir := c.Cam.Forward()
		if c.ScreenSpacePanning {
			c.Target = c.Cam.Position.AddScaled(dir, newRadius)
		} else {
			denom := c.Cam.Up.Dot(dir)
			if abs32(denom) < tiltLimit {
				// view ray grazes the orbit plane
				c.Cam.LookAt(c.Target)
			} else {
				t := c.Target.Sub(c.Cam.Position).Dot(c.Cam.Up) / denom
				c.Target = c.Cam.Position.AddScaled(dir, t)
			}
		}
	}

	return zoomChanged
}
