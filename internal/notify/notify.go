// Package notify holds the single transient message shown to the user after
// an action succeeds or fails.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays visible unless dismissed.
const DefaultTTL = 3000 * time.Millisecond

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Message struct {
	Kind Kind
	Text string
	At   time.Time
}

// Channel keeps at most one message. A new message replaces the visible one
// and restarts the expiry window; there is no queue.
type Channel struct {
	mu       sync.Mutex
	ttl      time.Duration
	current  Message
	visible  bool
	gen      uint64
	timer    *time.Timer
	onChange func(msg Message, visible bool)
}

func New(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{ttl: ttl}
}

// OnChange registers fn to run after every show or clear. fn runs on the
// notifying goroutine or, for expiry, on the timer goroutine.
func (c *Channel) OnChange(fn func(msg Message, visible bool)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Channel) Notify(kind Kind, text string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.current = Message{Kind: kind, Text: text, At: time.Now()}
	c.visible = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(gen) })
	msg, fn := c.current, c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(msg, true)
	}
}

func (c *Channel) Success(text string) { c.Notify(Success, text) }
func (c *Channel) Error(text string)   { c.Notify(Error, text) }

// Clear dismisses the visible message, if any.
func (c *Channel) Clear() {
	c.mu.Lock()
	c.gen++
	c.clearLocked()
}

// Current returns the visible message.
func (c *Channel) Current() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.visible
}

func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		// Replaced or cleared since this timer was armed.
		c.mu.Unlock()
		return
	}
	c.clearLocked()
}

// clearLocked must be called with mu held; it releases it.
func (c *Channel) clearLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	wasVisible := c.visible
	c.current = Message{}
	c.visible = false
	fn := c.onChange
	c.mu.Unlock()

	if wasVisible && fn != nil {
		fn(Message{}, false)
	}
}
