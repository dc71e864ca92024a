package catalog

import (
	"context"
	"errors"

	"scribe/internal/services/youtube"
)

// ChannelSource enumerates a channel's uploads through the paginated catalog
// API. Resolution failures are fatal for the run; they are returned as-is so
// the stage runner can distinguish them from per-item trouble.
type ChannelSource struct {
	api       youtube.CatalogAPI
	channelID string
	maxItems  int
}

var _ Source = (*ChannelSource)(nil)

// NewChannelSource builds a source for channelID. maxItems > 0 truncates the
// candidate list and stops pagination early once satisfied.
func NewChannelSource(api youtube.CatalogAPI, channelID string, maxItems int) (*ChannelSource, error) {
	if api == nil {
		return nil, errors.New("catalog api required")
	}
	if channelID == "" {
		return nil, errors.New("channel id required")
	}
	return &ChannelSource{api: api, channelID: channelID, maxItems: maxItems}, nil
}

// Enumerate resolves the uploads playlist and follows the continuation token
// until it is absent or maxItems is reached.
func (s *ChannelSource) Enumerate(ctx context.Context) ([]Item, error) {
	playlistID, err := s.api.ResolveUploads(ctx, s.channelID)
	if err != nil {
		return nil, err
	}

	var items []Item
	pageToken := ""
	for {
		page, err := s.api.PlaylistPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, entry := range page.Items {
			items = append(items, Item{
				Key:         entry.VideoID,
				Title:       entry.Title,
				PublishedAt: entry.PublishedAt,
				Description: entry.Description,
			})
			if s.maxItems > 0 && len(items) >= s.maxItems {
				return items, nil
			}
		}
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}
