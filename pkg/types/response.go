// Package types holds the JSON envelopes every API response uses.
package types

// SuccessEnvelope wraps successful payloads under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Details carries structured context,
// such as which booking limit was breached, only when the error code
// permits exposing it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under the error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
