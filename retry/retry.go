// Package retry implements the engine's two retry shapes: a built-in
// N-attempts wrapper, or a caller-supplied Fn->Fn wrapper — grounded on the
// teacher's pkg/engine/retry_policy.go (InternalRetryPolicy.Execute:
// sequential attempts, no backoff, final failure raises the last error),
// generalized to the spec's simpler no-backoff contract and shared between
// the staleness analyser's store queries and the execution engine's node
// dispatch.
package retry

// Wrapper executes op, retrying according to whatever policy it closes
// over, and returns the final error (nil on eventual success). A
// caller-supplied Fn->Fn retry (spec.md §6) is already a Wrapper: no
// adaptation needed.
type Wrapper func(op func() error) error

// Attempts returns a Wrapper that calls op up to n times (n<1 is treated as
// 1: always at least one attempt), stopping early on success. shouldRetry,
// if non-nil, decides whether a given error is worth retrying; nil retries
// any error. Attempts are strictly sequential with no backoff, matching
// spec.md §4.I.
func Attempts(n int, shouldRetry func(error) bool) Wrapper {
	if n < 1 {
		n = 1
	}
	return func(op func() error) error {
		var lastErr error
		for i := 0; i < n; i++ {
			err := op()
			if err == nil {
				return nil
			}
			lastErr = err
			if shouldRetry != nil && !shouldRetry(err) {
				return err
			}
		}
		return lastErr
	}
}

// None runs op exactly once.
func None() Wrapper { return Attempts(1, nil) }

// Do runs a typed operation through w, threading the result out through a
// closure since Wrapper itself is error-only.
func Do[T any](w Wrapper, op func() (T, error)) (T, error) {
	var result T
	err := w(func() error {
		v, err := op()
		if err == nil {
			result = v
		}
		return err
	})
	return result, err
}
