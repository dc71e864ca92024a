// Package services defines shared utilities consumed by the stage runners and
// the external API clients.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     into the outcomes the stage runner acts on: fatal (abort the run),
//     unavailable (skip without a ledger entry), transient (isolate and
//     continue).
//   - The Pacer, which spaces external calls at a fixed interval to protect
//     the shared API quota.
//
// Use these helpers when wiring new stage logic so operational behaviour stays
// uniform across the pipeline.
package services
