// Package credentials validates calendar credentials entered by the user and
// forwards them to the backend for the current session.
//
// The three values are treated as opaque strings. They are never logged in
// clear, never stored, and only leave the process in the body of the
// configuration request.
package credentials
