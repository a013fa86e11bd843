// Package main provides the entry point for the simscan CLI.
//
// Simscan detects structural similarity between student code submissions.
// It extracts submission archives, canonicalizes and parses the target
// source file from each, and ranks every pair by winnowing-fingerprint
// similarity.
//
// Usage:
//
//	simscan scan -t top.v ./submissions
//	simscan history --limit 10
//
// See --help for all available options.
package main

// main is the entry point for simscan.
func main() {
	Execute()
}
