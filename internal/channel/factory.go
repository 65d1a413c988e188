//go:build !debug

package channel

// New creates the command queue used by the dispatcher workers.
// In production builds this is a buffered channel of the given size.
func New[T any](size int) Channel[T] {
	return NewBuffered[T](size)
}
