// Package dto defines data transfer objects for API requests and responses.
package dto

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// IncompleteFlagsResponse is returned when trip completion is blocked by
// unresolved flagged cost entries.
type IncompleteFlagsResponse struct {
	Error           string `json:"error"`
	Code            string `json:"code"`
	UnresolvedFlags int    `json:"unresolved_flags"`
}
