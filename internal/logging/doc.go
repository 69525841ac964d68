// Package logging provides structured logging utilities for the tickdone application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (username anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "ticktick.Sync")
//	logger.Info("syncing account",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("signed on",
//	    logging.UserHash(username))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Usernames are hashed to prevent PII leakage while allowing correlation
//   - Session cookies and tokens are never logged directly
package logging
