package channel

import "sync"

// Latest is a single-slot mailbox: a Send overwrites whatever value has not
// been taken yet. Producers never block; the consumer polls with Take.
type Latest[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool

	overwritten uint64
}

// NewLatest creates an empty mailbox.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{}
}

// Send stores v, replacing any value that has not been taken.
func (l *Latest[T]) Send(v T) {
	l.mu.Lock()
	if l.pending {
		l.overwritten++
	}
	l.value = v
	l.pending = true
	l.mu.Unlock()
}

// Take returns the pending value and clears the slot.
func (l *Latest[T]) Take() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if !l.pending {
		return zero, false
	}
	v := l.value
	l.value = zero
	l.pending = false
	return v, true
}

// Overwritten returns how many values were replaced before being taken.
func (l *Latest[T]) Overwritten() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overwritten
}
