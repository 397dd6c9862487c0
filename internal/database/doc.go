// Package database provides SQLite-based run history for chronoscan.
//
// Each scan is stored as a row in runs together with its findings, so past
// results for a target can be listed, shown again and compared.
//
// The driver is modernc.org/sqlite, a CGO-free implementation that keeps
// cross-compilation simple. WAL mode lets batch scans write while the
// history command reads.
package database
