package domain

import "errors"

// ErrStoreUnavailable wraps any spreadsheet store failure. Callers must
// not assume the mutation applied when they see it.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrBadRequest marks caller errors such as missing required fields.
var ErrBadRequest = errors.New("bad request")

// DeliveryKind classifies outbound push failures.
type DeliveryKind string

const (
	// DeliveryQuotaExceeded means the provider reported its monthly
	// message limit.
	DeliveryQuotaExceeded DeliveryKind = "quota_exceeded"
	// DeliveryFailed is any other push failure.
	DeliveryFailed DeliveryKind = "delivery_failed"
)

// DeliveryError is a classified push failure carrying the provider's
// message. It is surfaced to notify callers as structured JSON, never
// raised as an unhandled fault.
type DeliveryError struct {
	Kind    DeliveryKind
	Message string
}

func (e *DeliveryError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
