// Package config provides configuration structures and utilities for
// receiptscan. It defines the main options for receipt analysis, the
// vision model, persistence, and report generation preferences.
package config
