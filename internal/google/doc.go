// Package google holds the Google specific pieces of the front-end: the
// calendar OAuth scope, the setup guide shown to users, and a helper that
// builds the consent URL for a user's own OAuth client.
//
// No token exchange happens here. The refresh token the user obtains is
// forwarded to the backend untouched.
package google
