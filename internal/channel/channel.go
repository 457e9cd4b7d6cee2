// Package channel abstracts the command stream between the engine and the
// write-behind store writer. The split interfaces let the writer hand its
// drain loop a receive-only view while the engine keeps the send side.
package channel

// Receiver is the drain side: the store writer ranges over Receive and polls
// Len for its queue-depth gauge.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender is the submit side the engine holds.
type Sender[T any] interface {
	Send(T)
}

// Channel combines both ends plus shutdown.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}
