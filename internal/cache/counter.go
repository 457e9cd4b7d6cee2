package cache

import "sync"

// SafeCounter is a thread-safe counter. The engine draws labelNumberIndex
// values from one of these; it advances exactly once per group, not per point.
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

// NewSafeCounter creates a counter starting at zero.
func NewSafeCounter() *SafeCounter {
	return &SafeCounter{}
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// Next returns the current value and advances the counter.
func (c *SafeCounter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.v
	c.v++
	return v
}
