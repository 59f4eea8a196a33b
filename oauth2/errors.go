package oauth2

import "errors"

// Error codes returned in the "error" member of a token endpoint error
// response (RFC 6749 §5.2).
const (
	ErrorInvalidGrant         = "invalid_grant"
	ErrorInvalidRequest       = "invalid_request"
	ErrorInvalidToken         = "invalid_token"
	ErrorServerError          = "server_error"
	ErrorUnsupportedGrantType = "unsupported_grant_type"
)

// Error is the structured OAuth2 error body, serialised as
// {"error": "<code>", "error_description": "<text>"}.
// It implements the error interface so service methods can return it directly.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func NewError(code, description string) *Error {
	return &Error{Code: code, Description: description}
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// AsError extracts a structured *Error from an error chain. Anything that is
// not already a protocol error is reported as server_error so that no internal
// fault ever reaches the wire unwrapped.
func AsError(err error) *Error {
	var oauthErr *Error
	if errors.As(err, &oauthErr) {
		return oauthErr
	}
	return NewError(ErrorServerError, "An unexpected error occurred.")
}
