package ws2300

import "errors"

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// permanent marks err as not worth retrying.
func permanent(err error) error {
	return &permanentError{err: err}
}

// retry runs fn up to attempts times and returns the first success. Between
// failed attempts it calls backoff (if set) with the 0-based index of the
// attempt that just failed and its error. A permanent error stops the loop at once and is
// returned unwrapped. Otherwise the last error is returned.
func retry[T any](attempts int, backoff func(attempt int, err error), fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		var v T
		v, err = fn(attempt)
		if err == nil {
			return v, nil
		}

		var p *permanentError
		if errors.As(err, &p) {
			return zero, p.err
		}

		if backoff != nil && attempt < attempts-1 {
			backoff(attempt, err)
		}
	}

	return zero, err
}
