package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"scribe/internal/artifact"
	"scribe/internal/catalog"
	"scribe/internal/ledger"
	"scribe/internal/services/llm"
	"scribe/internal/stage"
)

const transformSystemPrompt = "You turn video transcripts into long-form " +
	"blog posts. Rewrite the transcript as a well-structured article in " +
	"markdown: an introduction, section headings, and a closing paragraph. " +
	"Keep the speaker's voice. Do not invent facts that are not in the " +
	"transcript. Do not include a title heading; the title is added separately."

// Classifier assigns a category to a transcript for its post's front matter.
type Classifier interface {
	Classify(t artifact.Transcript) string
}

// StaticClassifier assigns every post the same configured category.
type StaticClassifier struct {
	Category string
}

// Classify implements Classifier.
func (c StaticClassifier) Classify(artifact.Transcript) string {
	return c.Category
}

// TransformConfig carries the transform stage settings.
type TransformConfig struct {
	TranscriptsDir  string
	DescriptionsDir string
	PostsDir        string
	Project         string
	Tags            []string
}

// NewTransform builds the transform stage: scan the transcript artifacts,
// render each into a long-form post with YAML front matter, and write one
// post artifact per transcript. When a description artifact already exists
// for the video its hook paragraph becomes the post's short description.
func NewTransform(cfg TransformConfig, completer llm.Completer, classifier Classifier, led *ledger.Ledger, logger *slog.Logger, opts ...stage.Option) (*stage.Runner, error) {
	source, err := catalog.NewDirSource(cfg.TranscriptsDir, artifactExt)
	if err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, errors.New("transform stage requires a classifier")
	}
	processor := &transformProcessor{cfg: cfg, completer: completer, classifier: classifier}
	return stage.NewRunner(StageTransform, source, led, processor, logger, opts...)
}

type transformProcessor struct {
	cfg        TransformConfig
	completer  llm.Completer
	classifier Classifier
}

func (p *transformProcessor) Process(ctx context.Context, item catalog.Item) (stage.Result, error) {
	data, err := os.ReadFile(item.Path)
	if err != nil {
		return stage.Result{}, fmt.Errorf("read transcript %s: %w", item.Path, err)
	}
	transcript, err := artifact.ParseTranscript(string(data))
	if err != nil {
		return stage.Result{}, fmt.Errorf("parse transcript %s: %w", item.Path, err)
	}

	prompt := fmt.Sprintf("Video title: %s\n\nTranscript:\n%s", transcript.Title, transcript.Body)
	body, err := p.completer.Complete(ctx, transformSystemPrompt, prompt)
	if err != nil {
		return stage.Result{}, err
	}

	category := p.classifier.Classify(transcript)
	post := artifact.Post{
		Meta: artifact.PostMeta{
			Title:       transcript.Title,
			Slug:        artifact.Slug(transcript.Title),
			Description: p.shortDescription(transcript.VideoID),
			Date:        transcript.PublishedAt,
			Category:    category,
			VideoID:     transcript.VideoID,
			Project:     p.cfg.Project,
			Tags:        p.cfg.Tags,
		},
		Body: body,
	}

	path := artifactPath(p.cfg.PostsDir, transcript.VideoID)
	if err := artifact.WritePost(path, post); err != nil {
		return stage.Result{}, err
	}
	return stage.Result{
		ArtifactPath: path,
		Entry:        ledger.Entry{Title: transcript.Title, Artifact: path, Category: category},
	}, nil
}

// shortDescription reuses the hook paragraph of an already-generated
// description artifact when one exists for the video.
func (p *transformProcessor) shortDescription(videoID string) string {
	data, err := os.ReadFile(artifactPath(p.cfg.DescriptionsDir, videoID))
	if err != nil {
		return ""
	}
	return artifact.ParseDescription(string(data)).Hook
}
