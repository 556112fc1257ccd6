package outcome

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/teemow/calassist/internal/backend"
)

// Detail extracts the explanation to show for a failed backend call.
//
// For a 4xx *backend.StatusError it prefers the JSON "detail" field. A body
// that is not JSON is returned as trimmed text. A JSON body without a detail,
// an empty body, and any other error yield the error string. Only err is
// inspected.
func Detail(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientError() {
		if detail, ok := statusErr.Detail(); ok {
			return detail
		}
		body := bytes.TrimSpace(statusErr.Body)
		if len(body) > 0 && !json.Valid(body) {
			return string(body)
		}
	}
	return err.Error()
}

// Classify returns the Kind for a failed round trip. A nil error is a success.
// Every *backend.TransportError and a malformed body are transport failures.
// The chat relay narrows that kind to backend.IsUnreachable errors.
func Classify(err error) Kind {
	if err == nil {
		return KindSuccess
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.IsClientError() {
			return KindBackendRejection
		}
		return KindUnknown
	}

	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return KindTransport
	}
	if errors.Is(err, backend.ErrMalformedResponse) {
		return KindTransport
	}
	return KindUnknown
}
