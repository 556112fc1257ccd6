// Package chat relays user messages to the assistant backend and records
// each turn in the session transcript.
//
// A turn is recorded in two steps. The user's text is appended before the
// backend is called, and exactly one assistant entry is appended afterwards,
// whatever the outcome: the reply on success, or the rendered error text.
// After N non-empty sends a transcript therefore holds 2N alternating entries.
package chat
