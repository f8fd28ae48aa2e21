package actorutil

import (
	"context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/primetalk/goio/io"
)

var ErrNilResult = errors.New("result is nil")

// SafeBackgroundTask runs a blocking call from inside an actor. Panics, nil
// results and timeouts reach the caller as errors. With a timeout set, the
// context handed to the call expires together with the task.
type SafeBackgroundTask[T any] struct {
	ctx       actor.Context
	fn        func(context.Context) (*T, error)
	timeout   time.Duration
	onError   func(error)
	recover   func(error) T
	onSuccess func(T)
}

func NewBackgroundTask[T any](ctx actor.Context, fn func(context.Context) (*T, error)) *SafeBackgroundTask[T] {
	return &SafeBackgroundTask[T]{
		ctx: ctx,
		fn:  fn,
	}
}

func NewBackgroundTaskErr(ctx actor.Context, fn func(context.Context) error) *SafeBackgroundTask[struct{}] {
	return NewBackgroundTask(ctx, func(c context.Context) (*struct{}, error) {
		if err := fn(c); err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	})
}

func (t *SafeBackgroundTask[T]) WithTimeout(timeout time.Duration) *SafeBackgroundTask[T] {
	t.timeout = timeout
	return t
}

func (t *SafeBackgroundTask[T]) OnError(fn func(error)) *SafeBackgroundTask[T] {
	t.onError = fn
	return t
}

// Recover turns a failure into a value that goes to OnSuccess.
func (t *SafeBackgroundTask[T]) Recover(fn func(error) T) *SafeBackgroundTask[T] {
	t.recover = fn
	return t
}

func (t *SafeBackgroundTask[T]) OnSuccess(fn func(T)) *SafeBackgroundTask[T] {
	t.onSuccess = fn
	return t
}

// Run blocks until the task completes or times out.
func (t *SafeBackgroundTask[T]) Run() {
	callCtx, cancel := context.Background(), context.CancelFunc(func() {})
	if t.timeout > 0 {
		callCtx, cancel = context.WithTimeout(callCtx, t.timeout)
	}
	defer cancel()

	task := io.Map(io.Eval(func() (*T, error) { return t.fn(callCtx) }), func(a *T) T {
		if a == nil {
			panic(ErrNilResult)
		}
		return *a
	})
	if t.timeout > 0 {
		task = io.WithTimeout[T](t.timeout)(task)
	}

	result := io.RunSync(task)
	value := result.Value
	if result.Error != nil {
		switch {
		case t.recover != nil:
			value = t.recover(result.Error)
		case t.onError != nil:
			t.onError(result.Error)
			return
		default:
			return
		}
	}

	if t.onSuccess != nil {
		t.onSuccess(value)
	}
}

// Respond runs the task and answers req with its value. Pair it with
// Recover so failures are answered too.
func Respond[T Response](t *SafeBackgroundTask[T], req ExtendedRequest) {
	t.OnSuccess(func(v T) {
		req.Respond(t.ctx, v)
	}).Run()
}
