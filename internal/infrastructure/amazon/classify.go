package amazon

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pricepulse/backend/internal/domain"
)

// remoteError is a single entry in the error list PA-API attaches to failure
// responses.
type remoteError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type errorEnvelope struct {
	Errors []remoteError `json:"Errors"`
}

// classify maps an HTTP failure status and remote error payload into the
// local taxonomy. Classification is driven primarily by status and
// secondarily by the remote-supplied error code.
func classify(status int, body []byte) *domain.APIError {
	code, message := parseRemoteError(body)
	if message == "" {
		message = http.StatusText(status)
	}

	apiErr := &domain.APIError{
		Message:    message,
		StatusCode: status,
		Body:       string(body),
	}

	switch {
	case status == http.StatusTooManyRequests || isThrottleCode(code):
		apiErr.Err = domain.ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden || isAuthCode(code):
		apiErr.Err = domain.ErrAuthFailed
	case status == http.StatusNotFound || strings.Contains(code, "ItemNotFound"):
		apiErr.Err = domain.ErrProductNotFound
	case status >= 500:
		apiErr.Err = domain.ErrTransient
	default:
		apiErr.Err = domain.ErrUpstreamFormat
	}

	return apiErr
}

// parseRemoteError pulls the first machine code and message out of a failure
// body. Bodies that are not the expected envelope yield empty strings.
func parseRemoteError(body []byte) (code, message string) {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", ""
	}
	if len(envelope.Errors) == 0 {
		return "", ""
	}
	return envelope.Errors[0].Code, envelope.Errors[0].Message
}

func isThrottleCode(code string) bool {
	return strings.Contains(code, "TooManyRequests") || strings.Contains(code, "Throttl")
}

func isAuthCode(code string) bool {
	return strings.Contains(code, "Signature") ||
		strings.Contains(code, "UnrecognizedClient") ||
		strings.Contains(code, "AccessDenied") ||
		strings.Contains(code, "InvalidAssociate")
}
