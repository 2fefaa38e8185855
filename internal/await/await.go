/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package await bounds blocking collaborator calls with a context. The
// underlying SDK calls are not cancellable, so the call always runs to
// completion on its own goroutine; if the context expires first the caller
// gets the context error and the late result is discarded. Any cleanup the
// closure performs (such as closing a session) still happens.
package await

import "context"

// ErrFunc runs fn and waits for it to finish or for ctx to expire.
func ErrFunc(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BytesFunc runs fn and waits for its payload, or for ctx to expire.
func BytesFunc(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	type outcome struct {
		payload []byte
		err     error
	}

	done := make(chan outcome, 1)
	go func() {
		payload, err := fn()
		done <- outcome{payload, err}
	}()

	select {
	case out := <-done:
		return out.payload, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
