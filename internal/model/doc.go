// Package model defines the core data structures used throughout chronoscan.
//
// This package contains the following main types:
//   - Category: A named class of sensitive artifact (Configuration, Database, ...)
//   - Severity: The display severity assigned to each category
//   - Finding: A single archived URL assigned to exactly one category
//   - ScanReport: The per-target run state, from fetched snapshots to findings
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The classify, pipeline, report, and database packages all need
// these types.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
