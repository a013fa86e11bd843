// Package log provides logging with optional anonymization of
// student-identifying information, built on top of the standard slog
// package.
//
// Submission archives are commonly named after the student who uploaded
// them, and that name survives in every extracted path the scanner logs.
// When a similarity report or its logs are shared for review, those names
// should not travel with them. The MaskingHandler rewrites path-valued
// log attributes so that each directory component is replaced by a stable
// pseudonym derived from its hash: the same submission keeps the same
// pseudonym throughout a log, so warnings remain correlatable without
// naming anyone.
//
// The target filename itself (the last path component) is kept, since it
// is the instructor's name for the assignment file, not the student's.
package log
