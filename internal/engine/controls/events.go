package controls

import "github.com/Faultbox/sceneview/pkg/math"

// MouseButton identifies a pressed mouse button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers holds the modifier-key flags accompanying an input event.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// Any reports whether any rotate/pan-swapping modifier is held.
func (m Modifiers) Any() bool {
	return m.Ctrl || m.Shift || m.Meta
}

// PointerEvent is a normalized pointer-down/move/up/cancel event.
type PointerEvent struct {
	ID     int32
	Pos    math.Vec2
	Button MouseButton // mouse pointers only
	Touch  bool
	Mods   Modifiers
}

// WheelEvent is a normalized scroll-wheel event.
type WheelEvent struct {
	Pos    math.Vec2
	DeltaY float32
	Mods   Modifiers
}

// KeyEvent is a normalized key-down event carrying the raw key code.
type KeyEvent struct {
	Code int
	Mods Modifiers
}

// Sink receives normalized input events. Controls implements Sink.
type Sink interface {
	PointerDown(PointerEvent)
	PointerMove(PointerEvent)
	PointerUp(PointerEvent)
	PointerCancel(PointerEvent)
	Wheel(WheelEvent)
	KeyDown(KeyEvent)
}

// EventSource is an input pump the controls can attach to. CapturePointer
// routes all pointer events to the attached sink until released, so a
// gesture's start/move/end sequence is never interleaved with an unrelated
// pointer stream.
type EventSource interface {
	Attach(Sink)
	Detach(Sink)
	CapturePointer(bool)
}

// EventKind selects which controls notification a listener receives.
type EventKind int

const (
	// EventStart fires when a gesture begins.
	EventStart EventKind = iota
	// EventChange fires when Update moved the camera beyond tolerance.
	EventChange
	// EventEnd fires when a gesture finishes.
	EventEnd
)

type listener struct {
	id   int
	kind EventKind
	fn   func()
}

// AddListener registers fn for the given notification kind and returns an id
// usable with RemoveListener. Listeners run synchronously in registration
// order.
func (c *Controls) AddListener(kind EventKind, fn func()) int {
	c.nextListenerID++
	c.listeners = append(c.listeners, listener{id: c.nextListenerID, kind: kind, fn: fn})
	return c.nextListenerID
}

// RemoveListener unregisters a listener by id.
func (c *Controls) RemoveListener(id int) {
	for i, l := range c.listeners {
		if l.id == id {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

func (c *Controls) dispatch(kind EventKind) {
	for _, l := range c.listeners {
		if l.kind == kind {
			l.fn()
		}
	}
}
