// Package pipeline wires the four stages together: fetch transcripts from
// the channel's uploads, generate descriptions, transform transcripts into
// long-form posts, and publish descriptions back to the videos. Each stage
// is a stage.Runner with its own ledger and catalog source, so stages can
// run independently and resume where they left off.
package pipeline
