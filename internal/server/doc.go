// Package server serves the browser front-end: a single HTML page backed by
// a small JSON API that creates sessions, relays chat turns and submits
// calendar credentials.
//
// Each page load creates a new session, mirroring the lifetime of a browser
// tab. Sessions live in a session.Manager and expire after a period of
// inactivity. Requests for the same session are serialized so that a
// transcript is only ever mutated by one request at a time.
//
// Routes:
//
//	GET    /                            HTML page
//	POST   /api/sessions                create a session
//	GET    /api/sessions/{id}           session ID and calendar status
//	DELETE /api/sessions/{id}           drop the session when the page closes
//	GET    /api/sessions/{id}/messages  transcript
//	POST   /api/sessions/{id}/chat      {"message": "..."}
//	POST   /api/sessions/{id}/configure {"refresh_token", "client_id", "client_secret"}
//	GET    /healthz, /readyz            probes
//
// Prometheus metrics are served separately by MetricsServer.
package server
