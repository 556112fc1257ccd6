// Package cmd implements the command-line interface for calassist.
//
// This package provides the following commands:
//   - chat: interactive terminal chat with the calendar assistant (default)
//   - configure: submit Google Calendar credentials for a new session
//   - serve: start the browser front-end
//   - setup: print how to obtain Google Calendar credentials
//   - version: display version information
//
// The chat command runs when no subcommand is specified.
package cmd
