// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of secrets (API keys, tokens, passwords)
//   - Partial masking of account numbers appearing in log values
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - API keys and authentication tokens (including OpenAI sk- keys)
//   - Secret values detected by pattern matching (passwords, JWTs, bearer tokens)
//   - Bank account numbers found in receipt text, masked to first-3/last-2 form
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets or customer account data in logs that may be shared
// or stored.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("reputation check",
//	    "api_key", "sk-abc123",          // Sanitized to ***REDACTED***
//	    "ocr_text", "Pay to 0123456789", // Account number masked
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
