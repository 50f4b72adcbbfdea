// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package synth

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a synthesis failure.
type ErrorKind int

const (
	// KindTransport: the backend could not be reached, timed out, refused
	// the request or returned a non-success status.
	KindTransport ErrorKind = iota
	// KindSchema: the backend answered but the payload is not valid Flower
	// DNA (malformed JSON, missing or unknown field, wrong type, out of
	// range, bad colour).
	KindSchema
	// KindBusy: another synthesis call is still outstanding.
	KindBusy
	// KindRequest: the request itself is invalid (unknown mood).
	KindRequest
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindSchema:
		return "schema"
	case KindBusy:
		return "busy"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *SynthesisError of that kind.
var (
	ErrTransport = errors.New("synthesis transport error")
	ErrSchema    = errors.New("synthesis schema error")
	ErrBusy      = errors.New("synthesis already in progress")
	ErrRequest   = errors.New("invalid synthesis request")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindSchema:
		return ErrSchema
	case KindBusy:
		return ErrBusy
	default:
		return ErrRequest
	}
}

// SynthesisError is returned by Client.Synthesize for every failure.
//
// # Examples
//
//	res, err := client.Synthesize(ctx, req)
//	switch {
//	case errors.Is(err, synth.ErrBusy):
//	    // ignore the extra click
//	case errors.Is(err, synth.ErrTransport):
//	    // offer a retry
//	}
type SynthesisError struct {
	Kind      ErrorKind
	RequestID string
	Backend   string
	Cause     error
}

// Error implements error.
func (e *SynthesisError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Backend != "" {
		msg += " (" + e.Backend + ")"
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *SynthesisError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind ErrorKind, requestID, backend string, cause error) *SynthesisError {
	return &SynthesisError{Kind: kind, RequestID: requestID, Backend: backend, Cause: cause}
}
