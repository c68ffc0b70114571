package types

// PublicHTTPErrorType is the machine-readable error class exposed to API
// consumers. Internal error details never leak through these.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric           PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeInvalidPayload    PublicHTTPErrorType = "invalid_payload"
	PublicHTTPErrorTypeKeyNotFound       PublicHTTPErrorType = "key_not_found"
	PublicHTTPErrorTypeInvalidPassphrase PublicHTTPErrorType = "invalid_passphrase"
	PublicHTTPErrorTypeUnauthorized      PublicHTTPErrorType = "unauthorized"
)
