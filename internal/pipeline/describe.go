package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"scribe/internal/artifact"
	"scribe/internal/catalog"
	"scribe/internal/config"
	"scribe/internal/ledger"
	"scribe/internal/services/llm"
	"scribe/internal/stage"
)

const describeSystemPrompt = "You write YouTube video descriptions. " +
	"Given a video transcript, write a single short paragraph that hooks a " +
	"viewer into watching. Plain text only, no markdown, no hashtags, no links."

// DescribeConfig carries the describe stage settings.
type DescribeConfig struct {
	TranscriptsDir  string
	DescriptionsDir string
	ChannelName     string
	Links           []config.Link
	Hashtags        []string
}

// NewDescribe builds the describe stage: scan the transcript artifacts,
// generate a hook paragraph for each via the completion client, and write
// one description artifact per transcript. The link block and hashtag line
// come from configuration, not the model.
func NewDescribe(cfg DescribeConfig, completer llm.Completer, led *ledger.Ledger, logger *slog.Logger, opts ...stage.Option) (*stage.Runner, error) {
	source, err := catalog.NewDirSource(cfg.TranscriptsDir, artifactExt)
	if err != nil {
		return nil, err
	}
	processor := &describeProcessor{cfg: cfg, completer: completer}
	return stage.NewRunner(StageDescribe, source, led, processor, logger, opts...)
}

type describeProcessor struct {
	cfg       DescribeConfig
	completer llm.Completer
}

func (p *describeProcessor) Process(ctx context.Context, item catalog.Item) (stage.Result, error) {
	data, err := os.ReadFile(item.Path)
	if err != nil {
		return stage.Result{}, fmt.Errorf("read transcript %s: %w", item.Path, err)
	}
	transcript, err := artifact.ParseTranscript(string(data))
	if err != nil {
		return stage.Result{}, fmt.Errorf("parse transcript %s: %w", item.Path, err)
	}

	prompt := fmt.Sprintf("Video title: %s\n\nTranscript:\n%s", transcript.Title, transcript.Body)
	hook, err := p.completer.Complete(ctx, describeSystemPrompt, prompt)
	if err != nil {
		return stage.Result{}, err
	}

	description := artifact.Description{
		Hook:     hook,
		Channel:  p.cfg.ChannelName,
		Hashtags: p.cfg.Hashtags,
	}
	for _, link := range p.cfg.Links {
		description.Links = append(description.Links, artifact.DescriptionLink{Label: link.Label, URL: link.URL})
	}

	path := artifactPath(p.cfg.DescriptionsDir, transcript.VideoID)
	if err := artifact.WriteDescription(path, description); err != nil {
		return stage.Result{}, err
	}
	return stage.Result{
		ArtifactPath: path,
		Entry:        ledger.Entry{Title: transcript.Title, Artifact: path},
	}, nil
}
