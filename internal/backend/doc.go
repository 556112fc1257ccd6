// Package backend is the HTTP client for the remote assistant backend.
//
// The backend owns all calendar and language logic. This package only
// forwards opaque strings to two endpoints:
//
//   - POST /configure_calendar binds Google Calendar credentials to a session,
//     identified by the X-Session-ID header
//   - POST /chat relays one user message and returns the assistant reply
//
// Failures are reported as typed errors so callers can tell a backend that
// refused the request (*StatusError) from one that could not be reached
// (*TransportError):
//
//	resp, err := client.Chat(ctx, backend.ChatRequest{SessionID: id, Message: text})
//	var statusErr *backend.StatusError
//	if errors.As(err, &statusErr) && statusErr.IsClientError() {
//	    // rejected, statusErr.Body holds the error payload
//	}
package backend
