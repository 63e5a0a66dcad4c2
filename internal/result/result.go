package result

// State identifies which variant a Result holds.
type State int

const (
	StateLoading State = iota
	StateSuccess
	StateError
)

// Result is the outcome of one outbound request: Loading while in flight,
// then exactly one of Success or Error. A terminal value is never followed
// by another emission for the same invocation; callers decide whether to
// re-invoke after an error.
type Result[T any] struct {
	state   State
	data    T
	message string
}

func Loading[T any](message string) Result[T] {
	return Result[T]{state: StateLoading, message: message}
}

func Ok[T any](data T) Result[T] {
	return Result[T]{state: StateSuccess, data: data}
}

func Err[T any](message string) Result[T] {
	return Result[T]{state: StateError, message: message}
}

func (r Result[T]) State() State    { return r.state }
func (r Result[T]) IsLoading() bool { return r.state == StateLoading }
func (r Result[T]) IsSuccess() bool { return r.state == StateSuccess }
func (r Result[T]) IsError() bool   { return r.state == StateError }

// Data returns the payload and true only for the Success variant.
func (r Result[T]) Data() (T, bool) {
	if r.state != StateSuccess {
		var zero T
		return zero, false
	}
	return r.data, true
}

// MustData returns the payload of a Success result and panics otherwise.
// Reserved for call sites that have already checked IsSuccess.
func (r Result[T]) MustData() T {
	if r.state != StateSuccess {
		panic("result: MustData on non-success result")
	}
	return r.data
}

// Message returns the loading or error message; empty for Success.
func (r Result[T]) Message() string { return r.message }

// Map converts a Result's payload type while preserving the variant.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	switch r.state {
	case StateSuccess:
		return Ok(fn(r.data))
	case StateLoading:
		return Loading[U](r.message)
	default:
		return Err[U](r.message)
	}
}
