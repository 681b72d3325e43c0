// Package main provides the entry point for the receiptscan CLI.
//
// receiptscan analyzes receipt images for signs of fraud. It combines
// vision-based text extraction, image forensics, metadata checks, and
// fraud-history lookups into a single trust score and verdict.
//
// Usage:
//
//	receiptscan analyze <image-path>
//	receiptscan serve --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for receiptscan.
func main() {
	Execute()
}
