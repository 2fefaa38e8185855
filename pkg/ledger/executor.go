/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger issues submit and evaluate calls through request-scoped
// sessions and normalizes their results. Every call opens one session,
// operates, and releases it exactly once, error paths included.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simpleasset/gateway/internal/await"
	"github.com/simpleasset/gateway/pkg/errcode"
	"github.com/simpleasset/gateway/pkg/metrics"
	"github.com/simpleasset/gateway/pkg/session"
)

// Ack acknowledges a submitted transaction. The ID is a gateway-side
// correlation id, not the ledger transaction id: the gateway performs no
// retry, so a lost acknowledgment means the caller must decide whether to
// resubmit (a transfer that committed without its ack being seen would be
// double-applied by a blind retry).
type Ack struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
}

// Opener is the session collaborator the executor drives.
type Opener interface {
	Open(ctx context.Context, label, networkName, contractName string) (*session.Session, error)
}

// Executor runs contract operations for enrolled identities.
type Executor struct {
	sessions     Opener
	networkName  string
	contractName string
	metrics      *metrics.Operations
	logger       *zap.Logger
}

// NewExecutor builds an executor targeting one channel and contract.
// metrics may be nil.
func NewExecutor(sessions Opener, networkName, contractName string, m *metrics.Operations, logger *zap.Logger) *Executor {
	return &Executor{
		sessions:     sessions,
		networkName:  networkName,
		contractName: contractName,
		metrics:      m,
		logger:       logger.Named("ledger"),
	}
}

// Submit sends a state-changing call through ordering and endorsement.
func (e *Executor) Submit(ctx context.Context, label, fn string, args ...string) (*Ack, error) {
	start := time.Now()
	_, err := e.run(ctx, label, errcode.SubmissionFailed, func(c session.Contract) ([]byte, error) {
		return c.Submit(fn, args...)
	})
	e.metrics.Observe("submit_"+fn, start, err)
	if err != nil {
		return nil, err
	}

	e.logger.Info("transaction submitted", zap.String("label", label), zap.String("fn", fn))
	return &Ack{ID: uuid.NewString(), Operation: fn}, nil
}

// Evaluate runs a read-only call against local ledger state. It never goes
// through ordering and never mutates.
func (e *Executor) Evaluate(ctx context.Context, label, fn string, args ...string) ([]byte, error) {
	start := time.Now()
	payload, err := e.run(ctx, label, errcode.EvaluationFailed, func(c session.Contract) ([]byte, error) {
		return c.Evaluate(fn, args...)
	})
	e.metrics.Observe("evaluate_"+fn, start, err)
	return payload, err
}

// History returns the ordered sequence of past writes for key, exactly as
// the network reports it.
func (e *Executor) History(ctx context.Context, label, key string) ([]TransactionRecord, error) {
	payload, err := e.Evaluate(ctx, label, "history", key)
	if err != nil {
		return nil, err
	}
	return ParseHistory(payload)
}

// run opens a session, executes op, and guarantees the session is released
// once — even when the caller's context expires before the ledger call
// finishes, in which case the call runs to completion on its own goroutine,
// closes the session there, and its result is discarded.
func (e *Executor) run(ctx context.Context, label string, kind errcode.Kind, op func(session.Contract) ([]byte, error)) ([]byte, error) {
	sess, err := e.sessions.Open(ctx, label, e.networkName, e.contractName)
	if err != nil {
		return nil, err
	}

	payload, err := await.BytesFunc(ctx, func() ([]byte, error) {
		defer sess.Close()
		return op(sess.Contract)
	})
	if err != nil {
		return nil, errcode.Wrap(err, kind, "ledger call failed for %q", label)
	}

	return payload, nil
}
