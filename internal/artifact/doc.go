// Package artifact defines the durable per-stage output files and their
// fixed formats: transcripts (title, labelled metadata lines, section
// marker, body), descriptions (hook, delimited link block, capped hashtag
// line), and long-form posts (YAML front matter plus body).
//
// Artifact base names are the video ID, so reprocessing a key always rewrites
// the same path; writes go through fileutil.WriteFileAtomic, making them
// naturally idempotent even though ledger writes are not transactionally
// coupled to them.
package artifact
