// Package model defines the core data structures used throughout simscan.
//
// This package contains the following main types:
//   - Submission: An extracted submission archive on disk
//   - Candidate: A discovered instance of the target file
//   - PairResult: The similarity score for one unordered file pair
//   - Report: The ordered collection of all pair results for a run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (pipeline, report, database) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
