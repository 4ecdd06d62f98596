package certificate

import (
	"errors"
	"fmt"
)

// Kind classifies issuance failures so that the transport layer can map them
// to meaningful status codes.
type Kind int

const (
	// KindUnknown is the zero value, an unclassified failure.
	KindUnknown Kind = iota
	// KindMalformedRequest means the request body could not be decoded or
	// misses required fields.
	KindMalformedRequest
	// KindLedgerUnavailable means the record store could not be reached.
	KindLedgerUnavailable
	// KindTemplate means the certificate template could not be loaded or parsed.
	KindTemplate
	// KindRender means template substitution failed.
	KindRender
	// KindEngineUnavailable means the rendering engine could not be started.
	KindEngineUnavailable
	// KindExportTimeout means the PDF export did not complete in time.
	KindExportTimeout
	// KindPublish means the artifact could not be written to object storage.
	KindPublish
)

func (k Kind) String() string {
	switch k {
	case KindMalformedRequest:
		return "malformed request"
	case KindLedgerUnavailable:
		return "ledger unavailable"
	case KindTemplate:
		return "template error"
	case KindRender:
		return "render error"
	case KindEngineUnavailable:
		return "render engine unavailable"
	case KindExportTimeout:
		return "export timeout"
	case KindPublish:
		return "publish error"
	}
	return "unknown error"
}

// Error is a classified issuance failure wrapping its cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown if err is not an issuance error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
