package preview

import (
	"sync"
	"time"
)

// DefaultTransitionDuration bounds the navigation overlay flash.
const DefaultTransitionDuration = 350 * time.Millisecond

// Transition drives the brief overlay flash shown before a native form
// submission proceeds. The overlay is always cleared after the bounded
// duration; submission is never blocked by it.
type Transition struct {
	mu      sync.Mutex
	visible bool
}

// Run shows the overlay, waits at most d, then clears it and invokes
// proceed. A non-positive d uses DefaultTransitionDuration.
func (t *Transition) Run(d time.Duration, proceed func()) {
	if d <= 0 {
		d = DefaultTransitionDuration
	}

	t.mu.Lock()
	t.visible = true
	t.mu.Unlock()

	time.AfterFunc(d, func() {
		t.mu.Lock()
		t.visible = false
		t.mu.Unlock()
		if proceed != nil {
			proceed()
		}
	})
}

// Visible reports whether the overlay is currently shown.
func (t *Transition) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}
