package coastline

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed by the next Update.
func (e *Editor) InjectPress(x, y float64) {
	e.InjectEvent(PointerEvent{Kind: PointerDown, ScreenX: x, ScreenY: y, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move at the given screen coordinates. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (e *Editor) InjectMove(x, y float64) {
	e.InjectEvent(PointerEvent{Kind: PointerMove, ScreenX: x, ScreenY: y, Button: MouseButtonLeft})
}

// InjectRelease queues a left-button release at the given screen
// coordinates.
func (e *Editor) InjectRelease(x, y float64) {
	e.InjectEvent(PointerEvent{Kind: PointerUp, ScreenX: x, ScreenY: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes frames frames.
// Minimum frames is 2 (press + release).
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// InjectEvent queues an arbitrary pointer event.
func (e *Editor) InjectEvent(ev PointerEvent) {
	e.injectQueue = append(e.injectQueue, ev)
}

// Injecting reports whether injected events are waiting.
func (e *Editor) Injecting() bool { return len(e.injectQueue) > 0 }

// processInjected pops one queued event and feeds it through the pointer
// state machine. It reports whether an event was consumed, in which case
// real input should be skipped this frame.
func (e *Editor) processInjected() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	ev := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	e.HandlePointer(ev)
	return true
}
