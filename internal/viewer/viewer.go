// Package viewer implements the interactive scene viewer: the main loop
// wiring window, input, orbit controls and renderer together.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/capture"
	"github.com/Faultbox/sceneview/internal/engine/controls"
	"github.com/Faultbox/sceneview/internal/engine/input"
	"github.com/Faultbox/sceneview/internal/engine/renderer"
	"github.com/Faultbox/sceneview/internal/engine/window"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Viewer is the main application instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	pump     *input.Pump
	cam      *camera.Camera
	controls *controls.Controls
	capture  *capture.Capture

	wantScreenshot bool
}

// New creates a viewer from the loaded configuration.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	v := &Viewer{cfg: cfg}

	// Window first: it owns the OpenGL context everything else needs.
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	width, height := v.window.GetSize()
	aspect := float32(width) / float32(height)
	v.cam = camera.NewPerspective(45*gomath.Pi/180, aspect, 0.1, 1000)
	v.cam.Position = math.Vec3{X: 6, Y: 4, Z: 6}

	v.controls = controls.New(v.cam)
	v.controls.SetViewport(width, height)
	v.controls.Keys = input.ArrowKeys()
	cfg.Controls.Apply(v.controls)
	// The configured state is the one R should come back to.
	v.controls.SaveState()

	v.capture = capture.New("screenshots", "sceneview")

	v.pump = input.New(width, height)
	v.pump.OnResize = v.onResize
	v.pump.OnKey = v.onKey
	v.controls.Bind(v.pump)

	logger.Info("viewer initialized")
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	movedFrames := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.pump.Poll() {
			v.running = false
			break
		}

		moved := v.controls.Update()
		if moved {
			movedFrames++
		}

		v.renderer.Begin()
		v.renderer.DrawScene(v.cam, v.controls.Target)

		// Read the framebuffer before the swap so the shot matches what is
		// about to be displayed.
		if v.wantScreenshot {
			v.wantScreenshot = false
			pixels, w, h := v.renderer.ReadPixels()
			if path, err := v.capture.SavePixels(pixels, w, h); err != nil {
				logger.Error("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("path", path))
			}
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Int("camera_moves", movedFrames),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			movedFrames = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.controls != nil {
		v.controls.Dispose()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) onResize(width, height int) {
	v.renderer.Resize(width, height)
	v.controls.SetViewport(width, height)
	v.cam.Aspect = float32(width) / float32(height)
	logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

func (v *Viewer) onKey(scancode int) {
	switch scancode {
	case input.ScancodeEscape:
		v.running = false
	case input.ScancodeR:
		v.controls.Reset()
		logger.Info("camera reset")
	case input.ScancodeSpace:
		v.controls.AutoRotate = !v.controls.AutoRotate
		logger.Info("auto-rotate toggled", zap.Bool("enabled", v.controls.AutoRotate))
	case input.ScancodeF12:
		v.wantScreenshot = true
	}
}
