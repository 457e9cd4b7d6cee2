package cache

import (
	"sync"
	"testing"
)

func TestNewSafeCounterStartsAtZero(t *testing.T) {
	c := NewSafeCounter()
	if c == nil {
		t.Fatal("expected non-nil counter")
	}
	if c.Value() != 0 {
		t.Errorf("value = %d, want 0", c.Value())
	}
}

func TestNextAdvancesOncePerCall(t *testing.T) {
	c := NewSafeCounter()
	if got := c.Next(); got != 0 {
		t.Errorf("first Next = %d, want 0", got)
	}
	if got := c.Next(); got != 1 {
		t.Errorf("second Next = %d, want 1", got)
	}
	if c.Value() != 2 {
		t.Errorf("value after two Next = %d, want 2", c.Value())
	}
}

func TestSetResets(t *testing.T) {
	c := NewSafeCounter()
	c.Next()
	c.Next()
	c.Set(0)
	if got := c.Next(); got != 0 {
		t.Errorf("Next after Set(0) = %d, want 0", got)
	}
}

func TestNextIsRaceFree(t *testing.T) {
	c := NewSafeCounter()
	var wg sync.WaitGroup
	seen := make([]bool, 100)
	var mu sync.Mutex
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := c.Next()
			mu.Lock()
			if n < 100 {
				seen[n] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	for i, ok := range seen {
		if !ok {
			t.Fatalf("value %d never issued", i)
		}
	}
}
