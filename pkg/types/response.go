package types

// APIError is the body written for every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
