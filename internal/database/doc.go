// Package database persists run history for later review.
//
// Each scan invocation is stored as a run record together with its pair
// results and the canonical-text digest of every candidate file. Only
// results are persisted; fingerprint sets are recomputed from source on
// every run. The store is a single SQLite file under the XDG data
// directory, shared by the scan and history commands.
package database
