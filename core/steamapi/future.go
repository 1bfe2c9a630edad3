package steamapi

// Future is a one-shot container for the result of an asynchronous call.
// It is produced by Go and consumed with non-blocking Poll calls.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on a new goroutine and returns a Future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.value, f.err = fn()
		close(f.done)
	}()
	return f
}

// Completed returns an already-resolved Future. Mostly useful in tests.
func Completed[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Poll reports whether the future has resolved, without blocking. Once it
// returns ready=true the value and error are stable.
func (f *Future[T]) Poll() (value T, err error, ready bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}
