// Package session holds the per-conversation state of the assistant front-end.
//
// A Session owns a stable identifier, generated once when the Session is
// created, and an append-only transcript of user and assistant messages. The
// identifier is sent with every request to the assistant backend so the
// backend can bind calendar credentials and conversation context to it.
//
// A Session is mutated only by the sequential flow of a single conversation
// and therefore carries no locking. The Manager type keeps several sessions
// side by side for the web UI, where each browser page load starts its own
// conversation.
package session
