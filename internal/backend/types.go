package backend

import "encoding/json"

// Endpoint paths on the assistant backend.
const (
	PathConfigureCalendar = "/configure_calendar"
	PathChat              = "/chat"
)

// SessionHeader carries the session identifier on configuration requests.
const SessionHeader = "X-Session-ID"

// ConfigureCalendarRequest is the body of POST /configure_calendar.
type ConfigureCalendarRequest struct {
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ConfigureCalendarResponse is the success body of POST /configure_calendar.
// Message is nil when the backend did not send one.
type ConfigureCalendarResponse struct {
	Message *string `json:"message,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the success body of POST /chat.
// Reply is nil when the backend did not send one.
type ChatResponse struct {
	Reply *string `json:"reply,omitempty"`
}

// errorBody is the error payload shape used by the backend on 4xx responses.
type errorBody struct {
	Detail *json.RawMessage `json:"detail"`
}
