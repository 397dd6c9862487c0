// Package pipeline runs a scan as an ordered sequence of steps.
//
// A scan pipeline fetches the archived URLs of a target, classifies them,
// writes the report and records the run in history. Each stage is a Step that
// receives the shared ScanReport. A step may end the run early with ErrHalt,
// which is a normal terminal state rather than a failure; final steps still
// run afterwards.
//
// BatchProcessor scans several targets concurrently with errgroup.
package pipeline
