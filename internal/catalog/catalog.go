package catalog

import (
	"context"
	"time"
)

// Item is one candidate unit of work for a stage. Key is the stable
// identifier the stage's ledger is keyed by: the video ID for items that
// come from the remote catalog, the artifact file name for items that come
// from a prior stage's output directory.
type Item struct {
	Key         string
	Title       string
	PublishedAt time.Time
	Description string
	// Path is the artifact file backing a directory-scanned item; empty for
	// remote catalog items.
	Path string
}

// Source produces the ordered set of candidate work items for a stage.
type Source interface {
	Enumerate(ctx context.Context) ([]Item, error)
}
