//go:build debug

package channel

// New creates the command queue used by the dispatcher workers.
// Debug builds ignore size and hand values over synchronously.
func New[T any](size int) Channel[T] {
	return NewUnbuffered[T]()
}
