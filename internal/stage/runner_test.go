package stage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"scribe/internal/catalog"
	"scribe/internal/ledger"
	"scribe/internal/logging"
	"scribe/internal/services"
)

type sliceSource struct {
	items []catalog.Item
	err   error
}

func (s *sliceSource) Enumerate(ctx context.Context) ([]catalog.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func items(keys ...string) []catalog.Item {
	out := make([]catalog.Item, 0, len(keys))
	for _, key := range keys {
		out = append(out, catalog.Item{Key: key, Title: "Video " + key})
	}
	return out
}

func newTestLedger(t *testing.T) (*ledger.Ledger, *ledger.MemoryStore) {
	t.Helper()
	store := ledger.NewMemoryStore()
	led, err := ledger.Open(store, "test stage")
	if err != nil {
		t.Fatal(err)
	}
	return led, store
}

func okProcessor(processed *[]string) Processor {
	return ProcessorFunc(func(ctx context.Context, item catalog.Item) (Result, error) {
		if processed != nil {
			*processed = append(*processed, item.Key)
		}
		return Result{
			ArtifactPath: item.Key + ".md",
			Entry:        ledger.Entry{Title: item.Title, Artifact: item.Key + ".md"},
		}, nil
	})
}

func TestRunProcessesAllCandidates(t *testing.T) {
	led, store := newTestLedger(t)
	var processed []string
	runner, err := NewRunner("fetch", &sliceSource{items: items("a", "b", "c")}, led, okProcessor(&processed), logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 3 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("summary wrong: %s", summary.Line())
	}
	if len(processed) != 3 {
		t.Fatalf("processed %v", processed)
	}
	// Each completion flushed individually, not batched at end of run.
	if store.SaveCount() != 3 {
		t.Fatalf("flush count = %d, want 3", store.SaveCount())
	}
}

func TestRerunIsIdempotent(t *testing.T) {
	led, store := newTestLedger(t)
	source := &sliceSource{items: items("a", "b", "c")}
	var processed []string
	runner, err := NewRunner("fetch", source, led, okProcessor(&processed), logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	firstSaves := store.SaveCount()
	processed = nil

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(processed) != 0 {
		t.Fatalf("second run reprocessed %v", processed)
	}
	if summary.Skipped != 3 || summary.Processed != 0 {
		t.Fatalf("summary wrong: %s", summary.Line())
	}
	if store.SaveCount() != firstSaves {
		t.Fatal("second run wrote ledger entries")
	}
}

func TestScenarioMixedAvailability(t *testing.T) {
	// Catalog [A(has captions), B(no captions), C(has captions)], empty
	// ledger: artifacts for A and C, 2 ledger entries, 1 unavailable line.
	led, _ := newTestLedger(t)
	processor := ProcessorFunc(func(ctx context.Context, item catalog.Item) (Result, error) {
		if item.Key == "B" {
			return Result{}, services.Wrap(services.ErrUnavailable, "fetch", "captions", "no captions", nil)
		}
		return Result{ArtifactPath: item.Key + ".md", Entry: ledger.Entry{Artifact: item.Key + ".md"}}, nil
	})
	var progress bytes.Buffer
	runner, err := NewRunner("fetch", &sliceSource{items: items("A", "B", "C")}, led, processor, logging.NewNop(), WithProgress(&progress))
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 2 || summary.Unavailable != 1 || summary.Failed != 0 {
		t.Fatalf("summary wrong: %s", summary.Line())
	}
	if led.Len() != 2 || !led.Has("A") || !led.Has("C") || led.Has("B") {
		t.Fatalf("ledger wrong: %v", led.Keys())
	}
	if !strings.Contains(progress.String(), "[2/3] Video B ... unavailable") {
		t.Fatalf("progress lines wrong:\n%s", progress.String())
	}
}

func TestUnavailableIsRetriedNextRun(t *testing.T) {
	led, _ := newTestLedger(t)
	attempts := map[string]int{}
	processor := ProcessorFunc(func(ctx context.Context, item catalog.Item) (Result, error) {
		attempts[item.Key]++
		return Result{}, services.Wrap(services.ErrUnavailable, "fetch", "captions", "", nil)
	})
	runner, err := NewRunner("fetch", &sliceSource{items: items("a")}, led, processor, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 2; run++ {
		if _, err := runner.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if attempts["a"] != 2 {
		t.Fatalf("unavailable item not re-offered: %v", attempts)
	}
	if led.Len() != 0 {
		t.Fatal("unavailable outcomes must not create ledger entries")
	}
}

func TestPerItemFailureIsolation(t *testing.T) {
	led, _ := newTestLedger(t)
	processor := ProcessorFunc(func(ctx context.Context, item catalog.Item) (Result, error) {
		if item.Key == "b" {
			return Result{}, errors.New("network reset")
		}
		return Result{Entry: ledger.Entry{}}, nil
	})
	runner, err := NewRunner("describe", &sliceSource{items: items("a", "b", "c")}, led, processor, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Fatalf("summary wrong: %s", summary.Line())
	}
	// processed = candidates - skipped - failed - unavailable
	if summary.Processed != summary.Candidates-summary.Skipped-summary.Failed-summary.Unavailable {
		t.Fatalf("summary arithmetic broken: %s", summary.Line())
	}
	if !led.Has("a") || !led.Has("c") || led.Has("b") {
		t.Fatalf("ledger wrong: %v", led.Keys())
	}
}

func TestFatalErrorAbortsRun(t *testing.T) {
	led, _ := newTestLedger(t)
	source := &sliceSource{err: services.Wrap(services.ErrNotFound, "youtube", "resolve uploads", "missing channel", nil)}
	runner, err := NewRunner("fetch", source, led, okProcessor(nil), logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = runner.Run(context.Background())
	if !services.IsFatal(err) {
		t.Fatalf("expected fatal propagation, got %v", err)
	}
}

func TestFatalDuringProcessingAborts(t *testing.T) {
	led, _ := newTestLedger(t)
	var attempted []string
	processor := ProcessorFunc(func(ctx context.Context, item catalog.Item) (Result, error) {
		attempted = append(attempted, item.Key)
		if item.Key == "b" {
			return Result{}, services.Wrap(services.ErrConfiguration, "publish", "credentials", "revoked", nil)
		}
		return Result{}, nil
	})
	runner, err := NewRunner("publish", &sliceSource{items: items("a", "b", "c")}, led, processor, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if !services.IsFatal(err) {
		t.Fatalf("expected fatal, got %v", err)
	}
	if len(attempted) != 2 {
		t.Fatalf("run should stop at the fatal item: %v", attempted)
	}
	// Work completed before the fatal condition stays recorded.
	if summary.Processed != 1 || !led.Has("a") {
		t.Fatalf("completed work lost: %s", summary.Line())
	}
}

func TestCrashSafetyLedgerFlushFailure(t *testing.T) {
	led, store := newTestLedger(t)
	store.FailAfter(1, errors.New("disk full"))

	runner, err := NewRunner("fetch", &sliceSource{items: items("a", "b", "c")}, led, okProcessor(nil), logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Exactly the entries that flushed are durable; the failed one counts
	// as failed and will be retried next run.
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Fatalf("summary wrong: %s", summary.Line())
	}
	snapshot := store.Snapshot()
	if snapshot.TotalEntries != 2 {
		t.Fatalf("durable entries = %d, want 2", snapshot.TotalEntries)
	}
	if led.Has("b") {
		t.Fatal("unflushed entry must not appear complete")
	}
}

func TestDryRunSkipsLedger(t *testing.T) {
	led, store := newTestLedger(t)
	var progress bytes.Buffer
	runner, err := NewRunner("publish", &sliceSource{items: items("a")}, led, okProcessor(nil), logging.NewNop(),
		WithDryRun(true), WithProgress(&progress))
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 {
		t.Fatalf("summary wrong: %s", summary.Line())
	}
	if store.SaveCount() != 0 || led.Len() != 0 {
		t.Fatal("dry run must not advance the ledger")
	}
	if !strings.Contains(progress.String(), "[1/1] Video a ... ok") {
		t.Fatalf("dry run console output should match a real run: %q", progress.String())
	}

	// A later real run still treats the item as pending.
	real, err := NewRunner("publish", &sliceSource{items: items("a")}, led, okProcessor(nil), logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	summary2, err := real.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary2.Processed != 1 || summary2.Skipped != 0 {
		t.Fatalf("item should still be pending after dry run: %s", summary2.Line())
	}
}

func TestOnlyBypassesLedgerSkip(t *testing.T) {
	led, _ := newTestLedger(t)
	if err := led.Record("b", ledger.Entry{}); err != nil {
		t.Fatal(err)
	}
	var processed []string
	runner, err := NewRunner("publish", &sliceSource{items: items("a", "b", "c")}, led, okProcessor(&processed), logging.NewNop(), WithOnly("b"))
	if err != nil {
		t.Fatal(err)
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(processed) != 1 || processed[0] != "b" {
		t.Fatalf("processed %v, want just b", processed)
	}
	if summary.Candidates != 1 {
		t.Fatalf("candidates = %d", summary.Candidates)
	}
}

func TestOnlyUnknownKeyFails(t *testing.T) {
	led, _ := newTestLedger(t)
	runner, err := NewRunner("publish", &sliceSource{items: items("a")}, led, okProcessor(nil), logging.NewNop(), WithOnly("zz"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestPendingListsOnlyUnfinishedWork(t *testing.T) {
	led, _ := newTestLedger(t)
	if err := led.Record("a", ledger.Entry{}); err != nil {
		t.Fatal(err)
	}
	runner, err := NewRunner("fetch", &sliceSource{items: items("a", "b", "c")}, led, okProcessor(nil), logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	pending, err := runner.Pending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].Key != "b" || pending[1].Key != "c" {
		t.Fatalf("pending wrong: %+v", pending)
	}
}

func TestCancelledContextStopsRun(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx, cancel := context.WithCancel(context.Background())
	var processed int
	processor := ProcessorFunc(func(ctx context.Context, item catalog.Item) (Result, error) {
		processed++
		cancel()
		return Result{}, nil
	})
	runner, err := NewRunner("fetch", &sliceSource{items: items("a", "b", "c")}, led, processor, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if processed != 1 {
		t.Fatalf("processed = %d after cancel", processed)
	}
	// The item completed before cancellation is durably recorded.
	if !led.Has("a") {
		t.Fatal("completed item lost on cancellation")
	}
}

func TestProgressLineFormat(t *testing.T) {
	led, _ := newTestLedger(t)
	var progress bytes.Buffer
	runner, err := NewRunner("fetch", &sliceSource{items: items("a", "b")}, led, okProcessor(nil), logging.NewNop(), WithProgress(&progress))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "[1/2] Video a ... ok\n[2/2] Video b ... ok\n"
	if progress.String() != want {
		t.Fatalf("progress = %q, want %q", progress.String(), want)
	}
}
