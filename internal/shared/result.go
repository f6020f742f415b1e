package shared

// Result is the {data, error} envelope returned by every server operation.
// Exactly one of Data and Error is set.
type Result[T any] struct {
	Data  *T         `json:"data"`
	Error *ErrorCode `json:"error"`
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Data: &v}
}

// Fail wraps err as its error code.
func Fail[T any](err error) Result[T] {
	code := CodeOf(err)
	if code == "" {
		code = CodeFailedRequest
	}
	return Result[T]{Error: &code}
}

// Err returns the envelope error, or nil on success.
func (r Result[T]) Err() error {
	if r.Error == nil {
		return nil
	}
	return *r.Error
}

// Value returns the payload or its zero value.
func (r Result[T]) Value() T {
	var zero T
	if r.Data == nil {
		return zero
	}
	return *r.Data
}
