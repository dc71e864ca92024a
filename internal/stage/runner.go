package stage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"scribe/internal/catalog"
	"scribe/internal/ledger"
	"scribe/internal/logging"
	"scribe/internal/services"
)

// Processor handles one catalog item: it calls the external resource and/or
// a local transform and writes the item's artifact. On success it returns
// the ledger entry to record. An unavailable marker means no artifact could
// be produced this time; a fatal marker aborts the whole run.
type Processor interface {
	Process(ctx context.Context, item catalog.Item) (Result, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, item catalog.Item) (Result, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, item catalog.Item) (Result, error) {
	return f(ctx, item)
}

// Result is the successful outcome of processing one item.
type Result struct {
	ArtifactPath string
	Entry        ledger.Entry
}

// Runner drives one stage: enumerate candidates, skip completed work, process
// the rest one at a time, record each completion durably before moving on,
// and isolate per-item failures so a single bad item never stops the run.
type Runner struct {
	name      string
	source    catalog.Source
	ledger    *ledger.Ledger
	processor Processor
	logger    *slog.Logger
	progress  io.Writer
	dryRun    bool
	only      string
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress sets the writer for human-readable per-item progress lines.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.progress = w
		}
	}
}

// WithDryRun makes the runner perform every step except ledger recording.
// Processors that cause external side effects check the same flag themselves.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithOnly restricts the run to a single catalog key and bypasses the ledger
// skip-check for it, forcing reprocessing.
func WithOnly(key string) Option {
	return func(r *Runner) { r.only = key }
}

// NewRunner builds a stage runner.
func NewRunner(name string, source catalog.Source, led *ledger.Ledger, processor Processor, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if name == "" {
		return nil, errors.New("stage name required")
	}
	if source == nil || led == nil || processor == nil {
		return nil, errors.New("stage runner requires source, ledger, and processor")
	}
	runner := &Runner{
		name:      name,
		source:    source,
		ledger:    led,
		processor: processor,
		logger:    logging.NewComponentLogger(logger, name),
		progress:  io.Discard,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Pending enumerates the candidates a run would actually process: the
// catalog minus completed keys, honoring the Only restriction.
func (r *Runner) Pending(ctx context.Context) ([]catalog.Item, error) {
	candidates, err := r.candidates(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]catalog.Item, 0, len(candidates))
	for _, item := range candidates {
		if r.only == "" && r.ledger.Has(item.Key) {
			continue
		}
		pending = append(pending, item)
	}
	return pending, nil
}

// Run executes the stage loop. Catalog enumeration failures and fatal
// service errors abort the run and propagate; everything else is contained.
// The returned summary is complete even when err is non-nil for a mid-run
// fatal condition.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := newSummary(r.name)
	defer summary.finish()

	candidates, err := r.candidates(ctx)
	if err != nil {
		return summary, err
	}
	summary.Candidates = len(candidates)

	total := len(candidates)
	for i, item := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if r.only == "" && r.ledger.Has(item.Key) {
			summary.add(item, StatusSkipped, "")
			r.progressLine(i+1, total, item.Title, "skipped")
			continue
		}

		result, err := r.processor.Process(ctx, item)
		switch {
		case err == nil:
		case services.IsUnavailable(err):
			// No ledger entry: the item is re-offered on every future run.
			summary.add(item, StatusUnavailable, "")
			r.progressLine(i+1, total, item.Title, "unavailable")
			r.logger.Info("no output produced",
				logging.String(logging.FieldItemKey, item.Key),
				logging.String("title", item.Title))
			continue
		case services.IsFatal(err):
			return summary, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return summary, err
		default:
			summary.add(item, StatusFailed, "")
			r.progressLine(i+1, total, item.Title, "failed")
			r.logger.Error("item processing failed",
				logging.String(logging.FieldItemKey, item.Key),
				logging.String("title", item.Title),
				logging.Error(err))
			continue
		}

		if !r.dryRun {
			if err := r.ledger.Record(item.Key, result.Entry); err != nil {
				// The artifact exists but completion was not durably
				// recorded; the item will be reprocessed next run.
				summary.add(item, StatusFailed, result.ArtifactPath)
				r.progressLine(i+1, total, item.Title, "failed")
				r.logger.Error("ledger flush failed",
					logging.String(logging.FieldItemKey, item.Key),
					logging.Error(err))
				continue
			}
		}
		summary.add(item, StatusProcessed, result.ArtifactPath)
		r.progressLine(i+1, total, item.Title, "ok")
	}

	r.logger.Info("run complete",
		logging.String(logging.FieldRunID, summary.RunID),
		logging.Int("candidates", summary.Candidates),
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("unavailable", summary.Unavailable),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

func (r *Runner) candidates(ctx context.Context) ([]catalog.Item, error) {
	candidates, err := r.source.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	if r.only == "" {
		return candidates, nil
	}
	for _, item := range candidates {
		if item.Key == r.only {
			return []catalog.Item{item}, nil
		}
	}
	return nil, fmt.Errorf("item %q not present in the catalog", r.only)
}

func (r *Runner) progressLine(i, n int, title, status string) {
	fmt.Fprintf(r.progress, "[%d/%d] %s ... %s\n", i, n, title, status)
}
