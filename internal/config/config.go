package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultUnitTimeout is the per-producer deadline during analysis.
	// Thirty seconds comfortably covers a vision API round trip while
	// keeping a hung producer from stalling the whole analysis.
	DefaultUnitTimeout = 30 * time.Second

	// DefaultBatchSize of 5 concurrent analyses balances throughput with
	// vision API rate limits. Higher values risk 429 responses; lower
	// values are safer but slower for large batches.
	DefaultBatchSize = 5

	// DefaultVisionModel is the OpenAI model used for receipt extraction.
	// gpt-4o-mini handles receipt images well at a fraction of the cost
	// of the full model.
	DefaultVisionModel = "gpt-4o-mini"

	// DefaultServeAddress is the listen address for the HTTP API server.
	DefaultServeAddress = ":8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "receiptscan"

	// APIKeyEnvVar is the environment variable holding the OpenAI API key.
	APIKeyEnvVar = "OPENAI_API_KEY"
)

// Config holds all configuration options for receiptscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., VisionConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// OpenAIAPIKey authenticates requests to the vision API.
	// Populated from the OPENAI_API_KEY environment variable or the
	// configuration file; never from a CLI flag, to keep it out of
	// shell history and process listings.
	OpenAIAPIKey string

	// VisionModel is the OpenAI model name for receipt extraction.
	VisionModel string

	// UnitTimeout is the per-producer deadline during analysis.
	// Each producer (vision, forensic, metadata, reputation) gets its
	// own deadline; a slow producer is recorded as timed out without
	// affecting the others.
	UnitTimeout time.Duration

	// BatchSize is the number of concurrent analyses when processing
	// multiple receipts.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .receiptscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// EditingSoftware overrides the built-in editing-software denylist
	// used by the metadata engine. Empty means use the default list.
	EditingSoftware []string

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of receipt image paths to analyze.
	Targets []string

	// DBDir is the directory path for the SQLite fraud and report store.
	// Defaults to the XDG data directory (~/.local/share/receiptscan on Linux).
	DBDir string

	// SaveToDB indicates whether to persist analysis reports to the database.
	SaveToDB bool

	// ServeAddress is the listen address for the HTTP API server.
	ServeAddress string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, model name).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OpenAIAPIKey: os.Getenv(APIKeyEnvVar),
		VisionModel:  DefaultVisionModel,
		UnitTimeout:  DefaultUnitTimeout,
		BatchSize:    DefaultBatchSize,
		ServeAddress: DefaultServeAddress,
		DBDir:        XDGDataDir(),
		SaveToDB:     true,
	}
}

// XDGDataDir returns the XDG data directory for receiptscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/receiptscan
// On macOS: ~/Library/Application Support/receiptscan
// On Windows: %LOCALAPPDATA%\receiptscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for receiptscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/receiptscan
// On macOS: ~/Library/Application Support/receiptscan
// On Windows: %APPDATA%\receiptscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any analysis begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one receipt to analyze
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero would fail every producer immediately
	if c.UnitTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no analyses
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// The vision producer cannot run without an API key
	if c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}

	return nil
}
