package pipeline

import (
	"path/filepath"
	"strings"
)

// Stage names used in ledgers, summaries, and log component fields.
const (
	StageFetch     = "fetch"
	StageDescribe  = "describe"
	StageTransform = "transform"
	StagePublish   = "publish"
)

const artifactExt = ".md"

// Ledger and summary files live inside the stage artifact directories. The
// leading underscore keeps directory-scan catalogs from offering them as
// work items, and the stage name keeps the two stages that share the
// descriptions directory apart.

// LedgerPath returns a stage's ledger file location inside dir.
func LedgerPath(dir, stage string) string {
	return filepath.Join(dir, "_"+stage+"_ledger.json")
}

// SummaryPath returns a stage's run summary location inside dir.
func SummaryPath(dir, stage string) string {
	return filepath.Join(dir, "_"+stage+"_summary.json")
}

// artifactPath maps a video ID to its deterministic artifact location. The
// same ID always maps to the same path, so reprocessing overwrites rather
// than accumulates.
func artifactPath(dir, videoID string) string {
	return filepath.Join(dir, videoID+artifactExt)
}

// videoIDFromName recovers the video ID from an artifact file name.
func videoIDFromName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), artifactExt)
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
