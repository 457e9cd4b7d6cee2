//go:build !debug

package channel

// New returns the channel the store writer drains. Production builds buffer
// so persistence stays off the event path.
func New[T any](size int) Channel[T] {
	return NewBuffered[T](size)
}
