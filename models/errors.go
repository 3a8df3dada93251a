package models

import "fmt"

// ValidationError signals a missing or malformed request field, rejected
// at the boundary before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError signals an absent tab, venue, order or payment.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConfigurationError signals a venue that is not set up for mobile-money
// payments. Raised before any external call is made.
type ConfigurationError struct {
	VenueID string
	Reason  string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("venue %s: %s", e.VenueID, e.Reason)
}

// GatewayError signals an authentication or payment-request failure
// against the external gateway.
type GatewayError struct {
	Op      string
	Message string
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %s", e.Op, e.Message)
}

// InvalidStateError signals a state-machine transition attempted from a
// non-eligible state. The original state is always preserved.
type InvalidStateError struct {
	Kind   string
	ID     string
	Reason string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.ID, e.Reason)
}

// CallbackParseError signals a malformed or unmatchable webhook body. It
// is swallowed internally; the gateway is always acknowledged.
type CallbackParseError struct {
	Reason string
}

func (e CallbackParseError) Error() string {
	return "callback parse: " + e.Reason
}
