package classify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	ErrHTTP              = errors.New("classification service returned an error status")
	ErrNetwork           = errors.New("network error")
	ErrUnreachable       = errors.New("classification service unreachable")
	ErrMalformedResponse = errors.New("malformed classification response")
	ErrServerReported    = errors.New("classification service reported an error")
	ErrResponseTooLarge  = errors.New("response body too large")
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("error %d", e.Status)
	}
	return fmt.Sprintf("error %d: %s", e.Status, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

// Reason separates an unreachable service from other transport faults.
type Reason int

const (
	ReasonGeneric Reason = iota
	ReasonUnreachable
)

func (r Reason) String() string {
	if r == ReasonUnreachable {
		return "unreachable"
	}
	return "generic"
}

// NetworkError is a transport failure before any status was received.
type NetworkError struct {
	Reason Reason
	Cause  error
}

func (e *NetworkError) Error() string {
	if e.Reason == ReasonUnreachable {
		return fmt.Sprintf("could not connect to the classification service: %v", e.Cause)
	}
	return fmt.Sprintf("network error: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func (e *NetworkError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return true
	case ErrUnreachable:
		return e.Reason == ReasonUnreachable
	}
	return false
}

// MalformedResponseError is a 2xx response whose body is not the expected JSON.
type MalformedResponseError struct {
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from the classification service: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// ServerReportedError is a well-formed response whose status is not success.
type ServerReportedError struct {
	Message string
}

func (e *ServerReportedError) Error() string {
	return e.Message
}

func (e *ServerReportedError) Is(target error) bool {
	return target == ErrServerReported
}

func newNetworkError(err error) *NetworkError {
	return &NetworkError{Reason: networkReason(err), Cause: err}
}

func networkReason(err error) Reason {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonGeneric
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return ReasonUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return ReasonUnreachable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout() {
		return ReasonUnreachable
	}
	return ReasonGeneric
}
