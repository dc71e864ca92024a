package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"scribe/internal/artifact"
	"scribe/internal/catalog"
	"scribe/internal/ledger"
	"scribe/internal/services/youtube"
	"scribe/internal/stage"
)

// PublishConfig carries the publish stage settings.
type PublishConfig struct {
	DescriptionsDir string
	// DryRun suppresses the remote write; everything up to it still runs.
	DryRun bool
}

// NewPublish builds the publish stage: scan the description artifacts and
// push each one to its video with a read-modify-write that replaces only the
// description field. Ledger keys are video IDs, recovered from the artifact
// file names. A crash between the remote write and the ledger flush causes
// one repeated (idempotent) write on the next run.
func NewPublish(cfg PublishConfig, api youtube.PublishAPI, led *ledger.Ledger, logger *slog.Logger, opts ...stage.Option) (*stage.Runner, error) {
	dirSource, err := catalog.NewDirSource(cfg.DescriptionsDir, artifactExt)
	if err != nil {
		return nil, err
	}
	processor := &publishProcessor{api: api, dryRun: cfg.DryRun}
	return stage.NewRunner(StagePublish, &descriptionSource{inner: dirSource}, led, processor, logger, opts...)
}

// descriptionSource rekeys directory-scanned description artifacts by video
// ID so the publish ledger matches the fetch ledger's key space.
type descriptionSource struct {
	inner catalog.Source
}

func (s *descriptionSource) Enumerate(ctx context.Context) ([]catalog.Item, error) {
	items, err := s.inner.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Key = videoIDFromName(items[i].Key)
		items[i].Title = items[i].Key
	}
	return items, nil
}

type publishProcessor struct {
	api    youtube.PublishAPI
	dryRun bool
}

func (p *publishProcessor) Process(ctx context.Context, item catalog.Item) (stage.Result, error) {
	data, err := os.ReadFile(item.Path)
	if err != nil {
		return stage.Result{}, fmt.Errorf("read description %s: %w", item.Path, err)
	}
	rendered := artifact.ParseDescription(string(data)).Render()

	video, err := p.api.Video(ctx, item.Key)
	if err != nil {
		return stage.Result{}, err
	}

	if video.Description != rendered && !p.dryRun {
		updated := *video
		updated.Description = rendered
		if err := p.api.UpdateVideo(ctx, &updated); err != nil {
			return stage.Result{}, err
		}
	}
	return stage.Result{
		ArtifactPath: item.Path,
		Entry:        ledger.Entry{Title: video.Title, Artifact: item.Path},
	}, nil
}
