package apogo

import (
	"errors"

	"github.com/apogo/apogo/internal/adapter"
)

// ErrKeyNotFound is returned by [Client.Get] when no configured namespace
// defines the requested key.
var ErrKeyNotFound = errors.New("key not found in any namespace")

// Transport error kinds, re-exported so callers can match them with
// errors.Is without importing internal packages.
var (
	// ErrTransport covers network failures and non-2xx responses other
	// than authentication rejections.
	ErrTransport = adapter.ErrTransport

	// ErrAuth means the server rejected the request signature. The
	// client never retries these; fix the secret instead.
	ErrAuth = adapter.ErrUnauthorized

	// ErrDecode means a response body was not valid for the expected
	// structure.
	ErrDecode = adapter.ErrDecode
)
