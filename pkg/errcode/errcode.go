/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package errcode defines the failure kinds surfaced by the gateway core.
// Every operation returns either a nil error or an *Error carrying one of
// these kinds, so callers can distinguish failures without string matching.
package errcode

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies a class of gateway failure.
type Kind string

const (
	// NotFound indicates a credential store lookup for an absent label.
	NotFound Kind = "NOT_FOUND"
	// AlreadyExists indicates an insert for a label that is already stored.
	AlreadyExists Kind = "ALREADY_EXISTS"
	// AlreadyEnrolled indicates a bootstrap enrollment for an enrolled label.
	AlreadyEnrolled Kind = "ALREADY_ENROLLED"
	// UnknownIdentity indicates the caller referenced an identity with no
	// stored credentials. Authorization-adjacent: maps to 401 at the boundary.
	UnknownIdentity Kind = "UNKNOWN_IDENTITY"
	// AuthorityUnreachable indicates the certificate authority could not be
	// contacted at the transport level.
	AuthorityUnreachable Kind = "AUTHORITY_UNREACHABLE"
	// EnrollmentFailed indicates the authority rejected an enroll call.
	EnrollmentFailed Kind = "ENROLLMENT_FAILED"
	// RegistrationFailed indicates the authority rejected a register call.
	RegistrationFailed Kind = "REGISTRATION_FAILED"
	// NetworkUnreachable indicates the ledger network or channel could not
	// be connected or resolved.
	NetworkUnreachable Kind = "NETWORK_UNREACHABLE"
	// ContractNotFound indicates the named smart contract could not be
	// resolved within a connected channel.
	ContractNotFound Kind = "CONTRACT_NOT_FOUND"
	// SubmissionFailed indicates a state-changing ledger call failed. The
	// gateway performs no retry; the underlying transaction may or may not
	// have committed if the failure was a lost acknowledgment.
	SubmissionFailed Kind = "SUBMISSION_FAILED"
	// EvaluationFailed indicates a read-only ledger call failed.
	EvaluationFailed Kind = "EVALUATION_FAILED"
)

// Error is a gateway failure with a machine-distinguishable kind and an
// optional wrapped cause.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// New returns an *Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause. A nil cause
// yields a nil error so call sites can wrap unconditionally.
func Wrap(cause error, kind Kind, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Kind returns the failure kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause supports github.com/pkg/errors cause chains.
func (e *Error) Cause() error {
	return e.cause
}

// KindOf extracts the failure kind from err, walking the cause chain.
// Errors produced outside the taxonomy report an empty kind.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.kind
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// HasKind reports whether err carries the given kind anywhere in its chain.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
