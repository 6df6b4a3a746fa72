package etherscan

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies the outcome of one API call.
type ErrorKind int

const (
	NoError ErrorKind = iota
	// NetworkError covers transport failures, timeouts and empty or unparseable bodies.
	NetworkError
	NoRecorsFoundError
	NoTransactionsFoundError
	ProRequiredError
	MaxRateError
	InvalidAPIKeyError
	InvalidAddressFormatError
	InvalidModuleNameError
	InvalidActionNameError
	InvalidParameterError
	// UnknownError means the service reported a failure this package does not recognise.
	UnknownError
)

// NoRecordsFoundError is the correctly spelled alias of NoRecorsFoundError.
const NoRecordsFoundError = NoRecorsFoundError

var kindNames = map[ErrorKind]string{
	NoError:                   "NoError",
	NetworkError:              "NetworkError",
	NoRecorsFoundError:        "NoRecorsFoundError",
	NoTransactionsFoundError:  "NoTransactionsFoundError",
	ProRequiredError:          "ProRequiredError",
	MaxRateError:              "MaxRateError",
	InvalidAPIKeyError:        "InvalidAPIKeyError",
	InvalidAddressFormatError: "InvalidAddressFormatError",
	InvalidModuleNameError:    "InvalidModuleNameError",
	InvalidActionNameError:    "InvalidActionNameError",
	InvalidParameterError:     "InvalidParameterError",
	UnknownError:              "UnknownError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Transient reports whether repeating the same call may succeed.
func (k ErrorKind) Transient() bool {
	return k == NetworkError || k == MaxRateError
}

// Error is returned by every client method whose call did not classify as NoError.
type Error struct {
	Kind ErrorKind

	// Message is the diagnostic text reported by the service, if any.
	Message string

	// Module and Action identify the endpoint that failed.
	Module string
	Action string

	// Err is the underlying transport error for NetworkError.
	Err error
}

func (e *Error) Error() string {
	prefix := "etherscan"
	if e.Module != "" || e.Action != "" {
		prefix = fmt.Sprintf("etherscan %s/%s", e.Module, e.Action)
	}
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", prefix, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", prefix, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, ErrMaxRate) works for
// any *Error of kind MaxRateError.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Module == "" && t.Action == "" && t.Err == nil
}

// Sentinels for use with errors.Is.
var (
	ErrNetwork              = &Error{Kind: NetworkError}
	ErrNoRecordsFound       = &Error{Kind: NoRecorsFoundError}
	ErrNoTransactionsFound  = &Error{Kind: NoTransactionsFoundError}
	ErrProRequired          = &Error{Kind: ProRequiredError}
	ErrMaxRate              = &Error{Kind: MaxRateError}
	ErrInvalidAPIKey        = &Error{Kind: InvalidAPIKeyError}
	ErrInvalidAddressFormat = &Error{Kind: InvalidAddressFormatError}
	ErrInvalidModuleName    = &Error{Kind: InvalidModuleNameError}
	ErrInvalidActionName    = &Error{Kind: InvalidActionNameError}
	ErrInvalidParameter     = &Error{Kind: InvalidParameterError}
	ErrUnknown              = &Error{Kind: UnknownError}
)

// KindOf maps err onto the ErrorKind enumeration. A nil error is NoError;
// context cancellation and deadlines are NetworkError; errors not produced by
// this package are UnknownError.
func KindOf(err error) ErrorKind {
	if err == nil {
		return NoError
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NetworkError
	}
	return UnknownError
}
