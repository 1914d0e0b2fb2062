package config

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/controls"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Apply copies the configuration surface onto live controls. Angles are
// converted from degrees to radians; zero maxima become unbounded. Unknown
// button or touch mapping strings are logged and leave the current mapping
// in place.
func (cc *ControlsConfig) Apply(c *controls.Controls) {
	c.EnableRotate = cc.EnableRotate
	c.EnablePan = cc.EnablePan
	c.EnableZoom = cc.EnableZoom

	c.EnableDamping = cc.EnableDamping
	if cc.DampingFactor > 0 {
		c.DampingFactor = cc.DampingFactor
	}

	if cc.RotateSpeed > 0 {
		c.RotateSpeed = cc.RotateSpeed
	}
	if cc.PanSpeed > 0 {
		c.PanSpeed = cc.PanSpeed
	}
	if cc.ZoomSpeed > 0 {
		c.ZoomSpeed = cc.ZoomSpeed
	}
	if cc.KeyPanSpeed > 0 {
		c.KeyPanSpeed = cc.KeyPanSpeed
	}

	c.MinDistance = cc.MinDistance
	c.MaxDistance = orUnbounded(cc.MaxDistance)
	c.MinZoom = cc.MinZoom
	c.MaxZoom = orUnbounded(cc.MaxZoom)

	c.MinPolarAngle = deg2rad(cc.MinPolarDeg)
	c.MaxPolarAngle = deg2rad(cc.MaxPolarDeg)

	if cc.LimitAzimuth {
		c.MinAzimuthAngle = deg2rad(cc.MinAzimuthDeg)
		c.MaxAzimuthAngle = deg2rad(cc.MaxAzimuthDeg)
	} else {
		c.MinAzimuthAngle = float32(gomath.Inf(-1))
		c.MaxAzimuthAngle = float32(gomath.Inf(1))
	}

	c.ZoomToCursor = cc.ZoomToCursor
	c.ScreenSpacePanning = cc.ScreenSpacePanning

	c.AutoRotate = cc.AutoRotate
	if cc.AutoRotateSpeed != 0 {
		c.AutoRotateSpeed = cc.AutoRotateSpeed
	}

	applyAction(cc.MouseLeft, "mouse_left", &c.Buttons.Left)
	applyAction(cc.MouseMiddle, "mouse_middle", &c.Buttons.Middle)
	applyAction(cc.MouseRight, "mouse_right", &c.Buttons.Right)
	applyTouchAction(cc.TouchOne, "touch_one", &c.Touches.One)
	applyTouchAction(cc.TouchTwo, "touch_two", &c.Touches.Two)
}

func applyAction(s, field string, dst *controls.Action) {
	if s == "" {
		return
	}
	a, ok := controls.ParseAction(s)
	if !ok {
		logger.Warn("unknown mouse action in config, keeping default",
			zap.String("field", field),
			zap.String("value", s))
		return
	}
	*dst = a
}

func applyTouchAction(s, field string, dst *controls.TouchAction) {
	if s == "" {
		return
	}
	a, ok := controls.ParseTouchAction(s)
	if !ok {
		logger.Warn("unknown touch action in config, keeping default",
			zap.String("field", field),
			zap.String("value", s))
		return
	}
	*dst = a
}

func orUnbounded(v float32) float32 {
	if v <= 0 {
		return float32(gomath.Inf(1))
	}
	return v
}

func deg2rad(d float32) float32 {
	return d * gomath.Pi / 180
}
