// Package main provides the entry point for the chronoscan CLI.
//
// chronoscan queries the Wayback Machine CDX index for every archived URL
// under a domain and reports the ones that look like exposed configuration,
// database dumps, source code, documents or credentials.
//
// Usage:
//
//	chronoscan -d example.com
//	chronoscan -l targets.txt --format markdown
//	chronoscan history example.com
//
// See --help for all available options.
package main

// main is the entry point for chronoscan.
func main() {
	Execute()
}
