package stage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scribe/internal/catalog"
	"scribe/internal/fileutil"
)

// ItemStatus is the per-item outcome recorded in a run summary.
type ItemStatus string

const (
	StatusProcessed   ItemStatus = "processed"
	StatusSkipped     ItemStatus = "skipped"
	StatusUnavailable ItemStatus = "unavailable"
	StatusFailed      ItemStatus = "failed"
)

// SummaryItem is one candidate's outcome. For the fetch stage the status
// doubles as the transcript-availability flag: processed items had captions,
// unavailable ones did not.
type SummaryItem struct {
	Key      string     `json:"key"`
	Title    string     `json:"title"`
	Status   ItemStatus `json:"status"`
	Artifact string     `json:"artifact,omitempty"`
}

// Summary is the ephemeral per-run report. It is written for operators and
// never consulted by later runs.
type Summary struct {
	RunID       string        `json:"runId"`
	Stage       string        `json:"stage"`
	StartedAt   time.Time     `json:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt"`
	Candidates  int           `json:"candidates"`
	Processed   int           `json:"processed"`
	Skipped     int           `json:"skipped"`
	Unavailable int           `json:"unavailable"`
	Failed      int           `json:"failed"`
	Items       []SummaryItem `json:"items"`
}

func newSummary(stage string) *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		Stage:     stage,
		StartedAt: time.Now().UTC(),
	}
}

func (s *Summary) finish() {
	s.FinishedAt = time.Now().UTC()
}

func (s *Summary) add(item catalog.Item, status ItemStatus, artifact string) {
	s.Items = append(s.Items, SummaryItem{
		Key:      item.Key,
		Title:    item.Title,
		Status:   status,
		Artifact: artifact,
	})
	switch status {
	case StatusProcessed:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	case StatusUnavailable:
		s.Unavailable++
	case StatusFailed:
		s.Failed++
	}
}

// Line renders the end-of-run counts for console output.
func (s *Summary) Line() string {
	return fmt.Sprintf("%s: %d candidates, %d processed, %d skipped, %d unavailable, %d failed",
		s.Stage, s.Candidates, s.Processed, s.Skipped, s.Unavailable, s.Failed)
}

// Save writes the summary as indented JSON. Summary files carry a leading
// underscore in their name so directory-scan catalogs never pick them up.
func (s *Summary) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("persist run summary: %w", err)
	}
	return nil
}
