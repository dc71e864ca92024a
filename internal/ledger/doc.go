// Package ledger provides the durable per-stage record of completed work.
//
// Each pipeline stage owns one ledger keyed by a stable identifier (video ID
// or artifact file name). A key's presence is the sole authority that the
// item is done; a stage runner consults the ledger before processing and
// records each completion immediately, bounding the blast radius of a crash
// to the single in-flight item.
//
// # Storage
//
// The persisted form is an indented JSON file with sorted keys, so it is
// diffable and safe to hand-edit: deleting one entry forces exactly that key
// to be reprocessed on the next run. Writes are full-file atomic rewrites.
// An advisory lock file next to the ledger enforces the single-writer
// discipline the flush-per-item design assumes.
package ledger
