package channel

// Unbuffered wraps an unbuffered Go channel. Debug builds run the store
// writer on one of these so each command is persisted before the next event
// is processed, which makes interleaving bugs reproducible.
type Unbuffered[T any] struct {
	ch chan T
}

func NewUnbuffered[T any]() *Unbuffered[T] {
	return &Unbuffered[T]{ch: make(chan T)}
}

// Send blocks until the drain loop takes the value.
func (u *Unbuffered[T]) Send(v T) {
	u.ch <- v
}

func (u *Unbuffered[T]) Receive() <-chan T {
	return u.ch
}

// Len is always 0; nothing can wait in an unbuffered channel.
func (u *Unbuffered[T]) Len() int {
	return 0
}

func (u *Unbuffered[T]) Close() {
	close(u.ch)
}
