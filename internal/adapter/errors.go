package adapter

import "errors"

// Sentinel errors returned by the transport. Callers match them with
// errors.Is; the client facade re-exports them under its own names.
var (
	// ErrTransport covers network failures and non-2xx responses other
	// than authentication rejections.
	ErrTransport = errors.New("config server request failed")

	// ErrUnauthorized means the server rejected the request signature
	// (HTTP 401/403). Retrying with the same credentials cannot succeed,
	// so the transport never retries these.
	ErrUnauthorized = errors.New("config server rejected request signature")

	// ErrDecode means the response body was not valid for the expected
	// structure.
	ErrDecode = errors.New("config server response malformed")
)
