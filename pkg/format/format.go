/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

// Package format maps core results and failures onto the two boundary
// encodings: structured JSON for programmatic callers and rendered HTML
// fragments for interactive ones. The choice of encoding belongs to the
// route, never to the executor.
package format

import (
	"net/http"

	"github.com/simpleasset/gateway/pkg/errcode"
)

// SuccessBody is the structured success envelope.
type SuccessBody struct {
	Payload interface{} `json:"PAYLOAD"`
}

// ErrorBody is the structured failure envelope. Code is the machine
// distinguishable failure kind; Message is for humans.
type ErrorBody struct {
	Message string `json:"ERR_MSG"`
	Code    string `json:"CODE,omitempty"`
}

// Success wraps a payload in the structured envelope.
func Success(payload interface{}) SuccessBody {
	return SuccessBody{Payload: payload}
}

// Error builds the structured failure envelope for err.
func Error(err error) ErrorBody {
	return ErrorBody{
		Message: err.Error(),
		Code:    string(errcode.KindOf(err)),
	}
}

// StatusOf maps a failure kind to its HTTP status. "Caller not recognized"
// and "ledger call failed" stay distinct codes.
func StatusOf(err error) int {
	switch errcode.KindOf(err) {
	case errcode.UnknownIdentity:
		return http.StatusUnauthorized
	case errcode.NotFound:
		return http.StatusNotFound
	case errcode.AlreadyExists, errcode.AlreadyEnrolled:
		return http.StatusConflict
	case errcode.AuthorityUnreachable, errcode.NetworkUnreachable:
		return http.StatusServiceUnavailable
	case errcode.ContractNotFound, errcode.EnrollmentFailed, errcode.RegistrationFailed,
		errcode.SubmissionFailed, errcode.EvaluationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
