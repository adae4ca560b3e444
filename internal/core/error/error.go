package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing key.
	RedisNotFoundMessage = "not found"
)

// Kind classifies a failure so callers can pick the right degradation path
// without inspecting the wrapped cause.
type Kind string

const (
	// KindConfiguration covers missing or invalid provider credentials/settings.
	// Fatal for the call; never mutates conversation state.
	KindConfiguration Kind = "configuration"
	// KindContractViolation covers a malformed extraction-provider response.
	// Recovered locally via partial extraction.
	KindContractViolation Kind = "contract_violation"
	// KindProviderTransient covers network failures and timeouts on provider calls.
	KindProviderTransient Kind = "provider_transient"
	// KindAnalysisContract covers malformed analysis-provider output. Not locally
	// recoverable; the caller must use the deterministic fallback analyzer.
	KindAnalysisContract Kind = "analysis_contract"
	// KindInternal is everything else.
	KindInternal Kind = "internal"
)

// Error wraps an underlying error with a kind, an HTTP status and a safe message.
type Error struct {
	Err     error
	Kind    Kind
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}

// New creates a new Error with the provided information.
func New(err error, status int, message string) *Error {
	return &Error{
		Err:     err,
		Kind:    KindInternal,
		Status:  status,
		Message: message,
	}
}

// Configuration wraps a missing/invalid configuration failure.
func Configuration(err error, message string) *Error {
	return &Error{Err: err, Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: message}
}

// ContractViolation wraps a malformed extraction-provider response.
func ContractViolation(err error, message string) *Error {
	return &Error{Err: err, Kind: KindContractViolation, Status: http.StatusBadGateway, Message: message}
}

// ProviderTransient wraps a network/timeout failure talking to a provider.
func ProviderTransient(err error, message string) *Error {
	return &Error{Err: err, Kind: KindProviderTransient, Status: http.StatusGatewayTimeout, Message: message}
}

// AnalysisContract wraps malformed analysis-provider output.
func AnalysisContract(err error, message string) *Error {
	return &Error{Err: err, Kind: KindAnalysisContract, Status: http.StatusBadGateway, Message: message}
}

// KindOf returns the Kind carried by err, or KindInternal when err does not
// carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
