// Package main provides the entry point for the casescan CLI.
//
// Casescan is a document-forensics tool for multi-volume legal case
// files. It indexes scanned PDF volumes with OCR fallback, extracts
// structured legal fields, and detects copied text between documents
// attributed to different case participants.
//
// Usage:
//
//	casescan index <case-dir>
//	casescan search <query>
//
// See --help for all available options.
package main

// main is the entry point for casescan.
func main() {
	Execute()
}
