// Package report renders analysis reports in multiple output formats.
//
// Three writers are provided:
//   - JSONWriter for programmatic consumption (the canonical wire format)
//   - TextWriter for human-readable terminal output
//   - MarkdownWriter for documentation and sharing
//
// All writers implement the Writer interface, and MultiWriter fans a
// report out to several destinations at once.
package report
