package service

import (
	"context"
	"errors"
	"fmt"
)

// ErrCanceled is returned by a Future that was canceled before it completed.
var ErrCanceled = errors.New("operation canceled")

// Future is the result of an asynchronous operation. The operation runs in
// its own goroutine with a context that is canceled by Cancel.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelCauseFunc
	value  T
	err    error
}

// Go starts fn asynchronously. A panic in fn completes the future with an
// error.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancelCause(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel(nil)
		defer func() {
			if r := recover(); r != nil {
				f.err = errors.Join(f.err, fmt.Errorf("operation panicked: %v", r))
			}
		}()
		f.value, f.err = fn(ctx)
		if f.err != nil && errors.Is(context.Cause(ctx), ErrCanceled) {
			f.err = errors.Join(ErrCanceled, f.err)
		}
	}()
	return f
}

// Done is closed once the operation completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Cancel cancels the context of the operation. The operation still needs to
// return; Wait reports its result.
func (f *Future[T]) Cancel() {
	f.cancel(ErrCanceled)
}

// Wait blocks until the operation completed or ctx is done and returns the
// result of the operation. If ctx is done first, its error is returned and
// the operation keeps running.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
