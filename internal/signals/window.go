package signals

// #region window

// DefaultWindowSize is the default capacity of the raw-frame window used by
// emergency detection.
const DefaultWindowSize = 20

// Window is a fixed-capacity ring of recent raw frames. The emergency
// detector inspects raw values here, not derived scores. Oldest frames drop
// silently on overflow.
type Window struct {
	frames []Frame
	max    int
}

// NewWindow creates a window with the given capacity (DefaultWindowSize when
// capacity <= 0).
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &Window{max: capacity}
}

// Push appends a frame, evicting the oldest when full.
func (w *Window) Push(f Frame) {
	w.frames = append(w.frames, f)
	if len(w.frames) > w.max {
		w.frames = w.frames[1:]
	}
}

// Len returns the number of frames currently held.
func (w *Window) Len() int {
	return len(w.frames)
}

// Last returns up to n most recent frames, oldest first.
func (w *Window) Last(n int) []Frame {
	if n <= 0 || len(w.frames) == 0 {
		return nil
	}
	if n > len(w.frames) {
		n = len(w.frames)
	}
	out := make([]Frame, n)
	copy(out, w.frames[len(w.frames)-n:])
	return out
}

// #endregion window
