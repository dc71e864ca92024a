// Package catalog supplies candidate work items to the stage runners.
//
// Two implementations sit behind the Source interface: ChannelSource pages
// the remote catalog API (50 entries per page, following the continuation
// token), and DirSource scans a prior stage's artifact directory. This is
// how stages chain: one stage's output directory is the next stage's
// catalog.
package catalog
