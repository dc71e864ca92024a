package artifact

import (
	"fmt"
	"strings"
	"time"

	"scribe/internal/fileutil"
)

const sectionMarker = "---"

// Transcript is the fetch stage's artifact: raw caption text plus the fixed
// header fields later stages parse back out.
type Transcript struct {
	VideoID     string
	Title       string
	URL         string
	PublishedAt time.Time
	Body        string
}

// Render produces the transcript file form: a title line, labelled metadata
// lines, a section marker, then the free-form body.
func (t Transcript) Render() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.TrimSpace(t.Title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Video ID: %s\n", t.VideoID)
	fmt.Fprintf(&b, "URL: %s\n", t.URL)
	fmt.Fprintf(&b, "Published: %s\n", t.PublishedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")
	b.WriteString(sectionMarker)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(t.Body))
	b.WriteString("\n")
	return b.String()
}

// WriteTranscript renders and atomically writes the transcript to path.
func WriteTranscript(path string, t Transcript) error {
	return fileutil.WriteFileAtomic(path, []byte(t.Render()), 0o644)
}

// ParseTranscript reads the transcript file form back into its fields.
func ParseTranscript(data string) (Transcript, error) {
	var t Transcript
	lines := strings.Split(data, "\n")

	bodyStart := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "# ") && t.Title == "":
			t.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		case strings.HasPrefix(trimmed, "Video ID:"):
			t.VideoID = strings.TrimSpace(strings.TrimPrefix(trimmed, "Video ID:"))
		case strings.HasPrefix(trimmed, "URL:"):
			t.URL = strings.TrimSpace(strings.TrimPrefix(trimmed, "URL:"))
		case strings.HasPrefix(trimmed, "Published:"):
			published, err := time.Parse(time.RFC3339, strings.TrimSpace(strings.TrimPrefix(trimmed, "Published:")))
			if err != nil {
				return Transcript{}, fmt.Errorf("parse transcript published field: %w", err)
			}
			t.PublishedAt = published
		case trimmed == sectionMarker:
			bodyStart = i + 1
		}
		if bodyStart >= 0 {
			break
		}
	}

	if t.VideoID == "" {
		return Transcript{}, fmt.Errorf("transcript missing Video ID field")
	}
	if bodyStart < 0 || bodyStart >= len(lines) {
		return Transcript{}, fmt.Errorf("transcript missing section marker")
	}
	t.Body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return t, nil
}
