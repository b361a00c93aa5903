package dto

import "time"

// ErrorDetail is one entry of the uniform error envelope.
type ErrorDetail struct {
	Timestamp string `json:"timestamp"`
	Code      int    `json:"code"`
	Detail    string `json:"detail"`
}

// ErrorEnvelope is the single response shape every failure maps to.
type ErrorEnvelope struct {
	Error []ErrorDetail `json:"error"`
}

// NewErrorEnvelope stamps an envelope with the current time.
func NewErrorEnvelope(status int, detail string) ErrorEnvelope {
	return ErrorEnvelope{Error: []ErrorDetail{{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Code:      status,
		Detail:    detail,
	}}}
}
