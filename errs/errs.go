package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for propagation and display
type Kind string

const (
	KindGeneration        Kind = "generation_failure"
	KindProbe             Kind = "probe_failure"
	KindEncode            Kind = "encode_failure"
	KindMissingInput      Kind = "missing_input"
	KindInvalidCredential Kind = "invalid_credential"
	KindCredentialExpired Kind = "credential_expired"
	KindPublish           Kind = "publish_failure"
	KindQuotaExceeded     Kind = "quota_exceeded"
)

// Error carries the failure kind, the operation that raised it and the cause
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Generation(op string, err error, message string) *Error {
	return &Error{Kind: KindGeneration, Op: op, Err: err, Message: message}
}

func Probe(op string, err error, message string) *Error {
	return &Error{Kind: KindProbe, Op: op, Err: err, Message: message}
}

func Encode(op string, err error, message string) *Error {
	return &Error{Kind: KindEncode, Op: op, Err: err, Message: message}
}

func MissingInput(op, message string) *Error {
	return &Error{Kind: KindMissingInput, Op: op, Message: message}
}

func InvalidCredential(op string, err error, message string) *Error {
	return &Error{Kind: KindInvalidCredential, Op: op, Err: err, Message: message}
}

func CredentialExpired(op, message string) *Error {
	return &Error{Kind: KindCredentialExpired, Op: op, Message: message}
}

func Publish(op string, err error, message string) *Error {
	return &Error{Kind: KindPublish, Op: op, Err: err, Message: message}
}

func QuotaExceeded(op string, err error, message string) *Error {
	return &Error{Kind: KindQuotaExceeded, Op: op, Err: err, Message: message}
}

// KindOf extracts the Kind from err, walking wrapped errors.
// Errors that do not wrap an *Error return the zero Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
