package artifact

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"scribe/internal/fileutil"
)

// PostMeta is the structured metadata block at the head of a transformed
// long-form document.
type PostMeta struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Description string    `yaml:"description,omitempty"`
	Date        time.Time `yaml:"date"`
	Category    string    `yaml:"category"`
	VideoID     string    `yaml:"videoId"`
	Project     string    `yaml:"project,omitempty"`
	Tags        []string  `yaml:"tags,omitempty"`
}

// Post is the transform stage's artifact: front matter plus the rendered
// long-form body.
type Post struct {
	Meta PostMeta
	Body string
}

// Render produces the post file form: a fenced YAML metadata block followed
// by the body.
func (p Post) Render() (string, error) {
	meta, err := yaml.Marshal(p.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal post metadata: %w", err)
	}
	var b strings.Builder
	b.WriteString(sectionMarker)
	b.WriteString("\n")
	b.Write(meta)
	b.WriteString(sectionMarker)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(p.Body))
	b.WriteString("\n")
	return b.String(), nil
}

// WritePost renders and atomically writes the post to path.
func WritePost(path string, p Post) error {
	rendered, err := p.Render()
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, []byte(rendered), 0o644)
}

// ParsePost reads the post file form back into metadata and body.
func ParsePost(data string) (Post, error) {
	var p Post
	trimmed := strings.TrimPrefix(data, sectionMarker+"\n")
	if trimmed == data {
		return p, fmt.Errorf("post missing front matter")
	}
	parts := strings.SplitN(trimmed, "\n"+sectionMarker+"\n", 2)
	if len(parts) != 2 {
		return p, fmt.Errorf("post front matter not terminated")
	}
	if err := yaml.Unmarshal([]byte(parts[0]), &p.Meta); err != nil {
		return p, fmt.Errorf("parse post metadata: %w", err)
	}
	p.Body = strings.TrimSpace(parts[1])
	return p, nil
}
