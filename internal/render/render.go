// Package render draws composed frames onto concrete surfaces: an in-memory
// capture, PNG files, or an OS window.
package render

import (
	"sync"

	"github.com/chromaworks/aircanvas/core"
)

// Capture retains every presented frame in memory. It backs tests and
// headless runs that only need the composed output.
type Capture struct {
	mu     sync.Mutex
	frames []core.Frame
}

// NewCapture returns an empty capture renderer.
func NewCapture() *Capture {
	return &Capture{}
}

// Present records the frame.
func (c *Capture) Present(frame core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
	return nil
}

// Frames returns a copy of everything presented so far.
func (c *Capture) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// Last returns the most recent frame, if any.
func (c *Capture) Last() (core.Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return core.Frame{}, false
	}
	return c.frames[len(c.frames)-1], true
}
