package errors

import (
	"net/http"
)

// Enrichers for the error taxonomy shared by the services, the transport and
// the client:
//   - BadRequest: a draft, patch or identifier is malformed (validation)
//   - Unauthorized: no usable identity could be read from the request
//   - Forbidden: the actor is not allowed to perform the operation (permission)
//   - NotFound: the target no longer exists
//   - Unavailable: the remote could not be reached (network)
func BadRequest() ErrorEnricher   { return WithCode(http.StatusBadRequest) }
func Unauthorized() ErrorEnricher { return WithCode(http.StatusUnauthorized) }
func Forbidden() ErrorEnricher    { return WithCode(http.StatusForbidden) }
func NotFound() ErrorEnricher     { return WithCode(http.StatusNotFound) }
func Unavailable() ErrorEnricher  { return WithCode(http.StatusServiceUnavailable) }

// Code returns the code carried by err, DefaultCode if err does not carry one
// and 0 for a nil error.
func Code(err error) int {
	if err == nil {
		return 0
	}

	if err, ok := err.(Error); ok {
		return err.Code()
	}
	return DefaultCode
}

func IsNotFound(err error) bool   { return Code(err) == http.StatusNotFound }
func IsForbidden(err error) bool  { return Code(err) == http.StatusForbidden }
func IsBadRequest(err error) bool { return Code(err) == http.StatusBadRequest }
