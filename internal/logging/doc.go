// Package logging holds the slog attribute helpers and handler construction
// shared by every calassist package.
//
//	logger := logging.WithOperation(slog.Default(), "chat")
//	logger.Info("chat turn completed",
//	    logging.SessionHash(sess.ID()),
//	    logging.Status(logging.StatusSuccess))
//
// Session identifiers are logged only as hashes. Credential values never
// reach a log line; SanitizeToken reports a length instead.
package logging
