/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package await

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrFuncReturnsResult(t *testing.T) {
	want := errors.New("boom")
	got := ErrFunc(context.Background(), func() error { return want })
	require.Equal(t, want, got)
}

func TestBytesFuncReturnsPayload(t *testing.T) {
	payload, err := BytesFunc(context.Background(), func() ([]byte, error) {
		return []byte("v1"), nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), payload)
}

func TestExpiredContextDiscardsResultButRunsToCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := make(chan struct{})
	_, err := BytesFunc(ctx, func() ([]byte, error) {
		defer close(ran)
		time.Sleep(20 * time.Millisecond)
		return []byte("late"), nil
	})
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("closure did not run to completion after cancellation")
	}
}
