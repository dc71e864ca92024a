// Package captions retrieves timed transcripts for catalog items.
//
// The endpoint signals "no captions" with an empty or missing payload rather
// than an error status, so absence surfaces as the unavailable marker: the
// fetch stage records it in the run summary only and re-offers the item on
// every future run in case captions appear later.
package captions
