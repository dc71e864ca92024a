package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/services"
	"scribe/internal/services/youtube"
)

type fakeCatalogAPI struct {
	uploads    string
	resolveErr error
	pages      map[string]*youtube.PlaylistPage
	pageCalls  int
}

func (f *fakeCatalogAPI) ResolveUploads(ctx context.Context, channelID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.uploads, nil
}

func (f *fakeCatalogAPI) PlaylistPage(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistPage, error) {
	f.pageCalls++
	page, ok := f.pages[pageToken]
	if !ok {
		return nil, fmt.Errorf("unexpected token %q", pageToken)
	}
	return page, nil
}

func playlistItems(ids ...string) []youtube.PlaylistItem {
	items := make([]youtube.PlaylistItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, youtube.PlaylistItem{
			VideoID:     id,
			Title:       "Video " + id,
			PublishedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return items
}

func TestChannelSourceFollowsPagination(t *testing.T) {
	api := &fakeCatalogAPI{
		uploads: "UU1",
		pages: map[string]*youtube.PlaylistPage{
			"":     {Items: playlistItems("a", "b"), NextPageToken: "t2"},
			"t2":   {Items: playlistItems("c"), NextPageToken: "last"},
			"last": {Items: playlistItems("d")},
		},
	}
	source, err := NewChannelSource(api, "UCx", 0)
	if err != nil {
		t.Fatal(err)
	}

	items, err := source.Enumerate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("item count = %d", len(items))
	}
	if items[0].Key != "a" || items[3].Key != "d" {
		t.Fatalf("order wrong: %+v", items)
	}
	if api.pageCalls != 3 {
		t.Fatalf("page calls = %d", api.pageCalls)
	}
}

func TestChannelSourceMaxItemsStopsPaginationEarly(t *testing.T) {
	api := &fakeCatalogAPI{
		uploads: "UU1",
		pages: map[string]*youtube.PlaylistPage{
			"":   {Items: playlistItems("a", "b"), NextPageToken: "t2"},
			"t2": {Items: playlistItems("c"), NextPageToken: "t3"},
		},
	}
	source, err := NewChannelSource(api, "UCx", 2)
	if err != nil {
		t.Fatal(err)
	}

	items, err := source.Enumerate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("item count = %d", len(items))
	}
	if api.pageCalls != 1 {
		t.Fatalf("pagination should stop once satisfied, got %d calls", api.pageCalls)
	}
}

func TestChannelSourcePropagatesFatalResolution(t *testing.T) {
	api := &fakeCatalogAPI{
		resolveErr: services.Wrap(services.ErrNotFound, "youtube", "resolve uploads", "missing", nil),
	}
	source, err := NewChannelSource(api, "UCx", 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = source.Enumerate(context.Background())
	if !services.IsFatal(err) {
		t.Fatalf("expected fatal, got %v", err)
	}
}

func TestDirSourceSkipsInternalFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"b.md":          "two",
		"a.md":          "one",
		"_ledger.json":  "{}",
		"_summary.json": "{}",
		".hidden.md":    "x",
		"notes.txt":     "y",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	source, err := NewDirSource(dir, ".md")
	if err != nil {
		t.Fatal(err)
	}
	items, err := source.Enumerate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("item count = %d: %+v", len(items), items)
	}
	if items[0].Key != "a.md" || items[1].Key != "b.md" {
		t.Fatalf("ordering wrong: %+v", items)
	}
	if items[0].Path != filepath.Join(dir, "a.md") {
		t.Fatalf("path wrong: %q", items[0].Path)
	}
}

func TestDirSourceMissingDirectoryIsEmpty(t *testing.T) {
	source, err := NewDirSource(filepath.Join(t.TempDir(), "nope"), ".md")
	if err != nil {
		t.Fatal(err)
	}
	items, err := source.Enumerate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(items))
	}
}

func TestDirSourceHonorsCancelledContext(t *testing.T) {
	source, err := NewDirSource(t.TempDir(), ".md")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := source.Enumerate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
