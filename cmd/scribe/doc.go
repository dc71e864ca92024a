// Package main hosts the scribe CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces one command per pipeline stage plus
// operator utilities for status reporting and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands can
// focus on wiring their stage.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
