package channel

// Buffered wraps a buffered Go channel. Store commands queue here so a slow
// backend never stalls the pointer-event path.
type Buffered[T any] struct {
	ch chan T
}

func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

// Send enqueues a value, blocking only when the buffer is full.
func (b *Buffered[T]) Send(v T) {
	b.ch <- v
}

func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len reports how many commands are waiting to be drained.
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

func (b *Buffered[T]) Close() {
	close(b.ch)
}
