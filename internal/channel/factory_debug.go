//go:build debug

package channel

// New ignores size in debug builds: an unbuffered channel forces each store
// command to be drained before the engine's next mutation.
func New[T any](size int) Channel[T] {
	return NewUnbuffered[T]()
}
