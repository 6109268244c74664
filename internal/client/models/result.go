package models

import "errors"

// FailureKind classifies why an operation did not succeed.
type FailureKind int

const (
	// KindNone marks a successful result.
	KindNone FailureKind = iota
	// KindValidation is a local input error caught before any network call.
	KindValidation
	// KindRejected is a business-rule failure reported by the server.
	KindRejected
	// KindTransport covers network, timeout, malformed and unexpected responses.
	KindTransport
	// KindStorage is a failure of the local durable store.
	KindStorage
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindRejected:
		return "rejected"
	case KindTransport:
		return "transport"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Failure is the error type returned across the session/feed boundary.
// Message is always suitable for showing to the user.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewValidationFailure builds a KindValidation failure.
func NewValidationFailure(msg string) *Failure {
	return &Failure{Kind: KindValidation, Message: msg}
}

// Result is the outcome of a session operation: {success, message}.
type Result struct {
	Success bool
	Message string
	Kind    FailureKind
}

// OK is the successful Result.
func OK() Result {
	return Result{Success: true}
}

// ResultFrom converts err into a Result. A nil error is success; a *Failure
// keeps its kind and message; anything else is a transport failure carrying
// err's text.
func ResultFrom(err error) Result {
	if err == nil {
		return OK()
	}
	var f *Failure
	if errors.As(err, &f) {
		return Result{Success: false, Message: f.Message, Kind: f.Kind}
	}
	return Result{Success: false, Message: err.Error(), Kind: KindTransport}
}
