package pipeline

import (
	"context"
	"log/slog"

	"scribe/internal/artifact"
	"scribe/internal/catalog"
	"scribe/internal/ledger"
	"scribe/internal/services/captions"
	"scribe/internal/services/youtube"
	"scribe/internal/stage"
)

// FetchConfig carries the fetch stage settings.
type FetchConfig struct {
	ChannelID      string
	MaxVideos      int
	TranscriptsDir string
}

// NewFetch builds the fetch stage: enumerate the channel's uploads, pull the
// caption track for each video, and write one transcript artifact per video.
// Videos without captions are reported as unavailable and re-offered on
// every later run.
func NewFetch(cfg FetchConfig, api youtube.CatalogAPI, fetcher captions.Fetcher, led *ledger.Ledger, logger *slog.Logger, opts ...stage.Option) (*stage.Runner, error) {
	source, err := catalog.NewChannelSource(api, cfg.ChannelID, cfg.MaxVideos)
	if err != nil {
		return nil, err
	}
	processor := &fetchProcessor{fetcher: fetcher, dir: cfg.TranscriptsDir}
	return stage.NewRunner(StageFetch, source, led, processor, logger, opts...)
}

type fetchProcessor struct {
	fetcher captions.Fetcher
	dir     string
}

func (p *fetchProcessor) Process(ctx context.Context, item catalog.Item) (stage.Result, error) {
	segments, err := p.fetcher.Transcript(ctx, item.Key)
	if err != nil {
		return stage.Result{}, err
	}

	path := artifactPath(p.dir, item.Key)
	transcript := artifact.Transcript{
		VideoID:     item.Key,
		Title:       item.Title,
		URL:         watchURL(item.Key),
		PublishedAt: item.PublishedAt,
		Body:        captions.Join(segments),
	}
	if err := artifact.WriteTranscript(path, transcript); err != nil {
		return stage.Result{}, err
	}
	return stage.Result{
		ArtifactPath: path,
		Entry:        ledger.Entry{Title: item.Title, Artifact: path},
	}, nil
}
