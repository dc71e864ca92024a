// Package stage implements the generic control loop every pipeline stage
// runs: enumerate candidates from a catalog source, filter against the
// stage's ledger, process the remaining items strictly sequentially, persist
// each artifact and ledger entry before moving on, and keep going past
// per-item failures.
//
// The loop gives each stage the same guarantees: reruns skip completed work,
// a crash loses at most the in-flight item, an item that cannot produce
// output today is re-offered tomorrow, and one bad item never prevents the
// rest of the catalog from being attempted. Fatal conditions (catalog not
// resolvable, credentials missing) are the only errors that escape.
package stage
