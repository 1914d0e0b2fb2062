// Package input polls SDL2 events and normalizes them for the controls layer.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/sceneview/internal/engine/controls"
	"github.com/Faultbox/sceneview/pkg/math"
)

// mousePointerID is the synthetic pointer id used for the single mouse
// pointer. Touch fingers use their SDL finger ids offset above it.
const mousePointerID int32 = 0

// Scancodes re-exported as plain ints so SDL-free callers can match key
// events without importing the SDL bindings.
const (
	ScancodeEscape = int(sdl.SCANCODE_ESCAPE)
	ScancodeR      = int(sdl.SCANCODE_R)
	ScancodeSpace  = int(sdl.SCANCODE_SPACE)
	ScancodeF12    = int(sdl.SCANCODE_F12)
)

// ArrowKeys returns the pan key map for the arrow scancodes this pump
// delivers.
func ArrowKeys() controls.KeyMap {
	return controls.KeyMap{
		Up:    int(sdl.SCANCODE_UP),
		Down:  int(sdl.SCANCODE_DOWN),
		Left:  int(sdl.SCANCODE_LEFT),
		Right: int(sdl.SCANCODE_RIGHT),
	}
}

// Pump polls the SDL event queue once per frame and forwards normalized
// pointer, wheel and key events to attached sinks. It implements
// controls.EventSource.
type Pump struct {
	sinks []controls.Sink

	width  int
	height int

	// Buttons currently held on the single mouse pointer. SDL emits one
	// down/up pair per button, but the pointer id stays the same, so only
	// the first down and the last up are forwarded as pointer transitions.
	mouseButtons int

	// OnResize is called when the window is resized, before the resize is
	// used to scale touch coordinates.
	OnResize func(width, height int)
	// OnKey is called for key-down events not consumed elsewhere, with the
	// SDL scancode. The viewer uses it for quit and toggle keys.
	OnKey func(scancode int)
}

// New creates a pump for a window of the given pixel size.
func New(width, height int) *Pump {
	return &Pump{width: width, height: height}
}

// Attach registers a sink to receive normalized events.
func (p *Pump) Attach(s controls.Sink) {
	p.sinks = append(p.sinks, s)
}

// Detach unregisters a previously attached sink.
func (p *Pump) Detach(s controls.Sink) {
	for i, have := range p.sinks {
		if have == s {
			p.sinks = append(p.sinks[:i], p.sinks[i+1:]...)
			return
		}
	}
}

// CapturePointer keeps mouse events flowing to this window while a button is
// held, even when the cursor leaves the window.
func (p *Pump) CapturePointer(capture bool) {
	sdl.CaptureMouse(capture)
}

// Poll drains the SDL event queue. Returns true when the application should
// quit.
func (p *Pump) Poll() bool {
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				p.width = int(e.Data1)
				p.height = int(e.Data2)
				if p.OnResize != nil {
					p.OnResize(p.width, p.height)
				}
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				ev := controls.KeyEvent{
					Code: int(e.Keysym.Scancode),
					Mods: modifiers(),
				}
				for _, s := range p.sinks {
					s.KeyDown(ev)
				}
				if p.OnKey != nil {
					p.OnKey(int(e.Keysym.Scancode))
				}
			}

		case *sdl.MouseButtonEvent:
			// Touch devices synthesize mouse events; the finger events
			// already cover those.
			if e.Which == sdl.TOUCH_MOUSEID {
				continue
			}
			btn, ok := mouseButton(e.Button)
			if !ok {
				continue
			}
			ev := controls.PointerEvent{
				ID:     mousePointerID,
				Pos:    math.Vec2{X: float32(e.X), Y: float32(e.Y)},
				Button: btn,
				Mods:   modifiers(),
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				p.mouseButtons++
				if p.mouseButtons > 1 {
					continue // chord joins the active gesture
				}
				for _, s := range p.sinks {
					s.PointerDown(ev)
				}
			} else if e.Type == sdl.MOUSEBUTTONUP {
				if p.mouseButtons > 0 {
					p.mouseButtons--
				}
				if p.mouseButtons > 0 {
					continue
				}
				for _, s := range p.sinks {
					s.PointerUp(ev)
				}
			}

		case *sdl.MouseMotionEvent:
			if e.Which == sdl.TOUCH_MOUSEID {
				continue
			}
			ev := controls.PointerEvent{
				ID:   mousePointerID,
				Pos:  math.Vec2{X: float32(e.X), Y: float32(e.Y)},
				Mods: modifiers(),
			}
			for _, s := range p.sinks {
				s.PointerMove(ev)
			}

		case *sdl.MouseWheelEvent:
			mx, my, _ := sdl.GetMouseState()
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			// SDL wheel deltas are detents with scroll-up positive; the
			// controls expect browser convention, scroll-up negative.
			ev := controls.WheelEvent{
				Pos:    math.Vec2{X: float32(mx), Y: float32(my)},
				DeltaY: -dy * wheelDetentPixels,
				Mods:   modifiers(),
			}
			for _, s := range p.sinks {
				s.Wheel(ev)
			}

		case *sdl.TouchFingerEvent:
			ev := controls.PointerEvent{
				ID:    fingerPointerID(e.FingerID),
				Pos:   p.touchPos(e.X, e.Y),
				Touch: true,
			}
			switch e.Type {
			case sdl.FINGERDOWN:
				for _, s := range p.sinks {
					s.PointerDown(ev)
				}
			case sdl.FINGERMOTION:
				for _, s := range p.sinks {
					s.PointerMove(ev)
				}
			case sdl.FINGERUP:
				for _, s := range p.sinks {
					s.PointerUp(ev)
				}
			}
		}
	}

	return quit
}

// wheelDetentPixels converts one wheel detent into the pixel-sized delta the
// dolly scale law expects.
const wheelDetentPixels = 100

// touchPos converts SDL's normalized finger coordinates to pixels.
func (p *Pump) touchPos(nx, ny float32) math.Vec2 {
	return math.Vec2{X: nx * float32(p.width), Y: ny * float32(p.height)}
}

// fingerPointerID maps an SDL finger id into the pointer id space above the
// mouse pointer.
func fingerPointerID(id sdl.FingerID) int32 {
	return int32(id) + 1
}

func mouseButton(b uint8) (controls.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return controls.ButtonLeft, true
	case sdl.BUTTON_MIDDLE:
		return controls.ButtonMiddle, true
	case sdl.BUTTON_RIGHT:
		return controls.ButtonRight, true
	}
	return 0, false
}

func modifiers() controls.Modifiers {
	mod := sdl.GetModState()
	return controls.Modifiers{
		Ctrl:  mod&sdl.KMOD_CTRL != 0,
		Shift: mod&sdl.KMOD_SHIFT != 0,
		Alt:   mod&sdl.KMOD_ALT != 0,
		Meta:  mod&sdl.KMOD_GUI != 0,
	}
}
