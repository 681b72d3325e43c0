package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no receipt image is specified.
	// This error occurs when the analyze command is run without a positional
	// argument or --list file.
	ErrNoTarget = errors.New("no receipt image specified: provide an image path or use --list")

	// ErrInvalidTimeout is returned when the per-producer timeout is not positive.
	// A timeout of zero or negative would fail every producer immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent analyses, effectively
	// stopping batch processing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrMissingAPIKey is returned when no OpenAI API key is available.
	// The key is read from the OPENAI_API_KEY environment variable or the
	// configuration file.
	ErrMissingAPIKey = errors.New("missing OpenAI API key: set OPENAI_API_KEY or add api_key to the config file")
)
