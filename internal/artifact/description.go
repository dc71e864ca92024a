package artifact

import (
	"strings"

	"scribe/internal/fileutil"
)

// MaxHashtags caps the trailing hashtag line of a description.
const MaxHashtags = 3

// DescriptionLink is one labelled URL in the delimited link block.
type DescriptionLink struct {
	Label string
	URL   string
}

// Description is the describe stage's artifact and the text the publish
// stage pushes to the remote video: a hook paragraph, a delimited link
// block, and a trailing hashtag line.
type Description struct {
	Hook     string
	Channel  string
	Links    []DescriptionLink
	Hashtags []string
}

// Render produces the description file form.
func (d Description) Render() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(d.Hook))
	b.WriteString("\n")

	if d.Channel != "" || len(d.Links) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionMarker)
		b.WriteString("\n")
		if channel := strings.TrimSpace(d.Channel); channel != "" {
			b.WriteString(channel)
			b.WriteString("\n")
		}
		for _, link := range d.Links {
			b.WriteString(strings.TrimSpace(link.Label))
			b.WriteString(": ")
			b.WriteString(strings.TrimSpace(link.URL))
			b.WriteString("\n")
		}
		b.WriteString(sectionMarker)
		b.WriteString("\n")
	}

	if tags := NormalizeHashtags(d.Hashtags); len(tags) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(tags, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// WriteDescription renders and atomically writes the description to path.
func WriteDescription(path string, d Description) error {
	return fileutil.WriteFileAtomic(path, []byte(d.Render()), 0o644)
}

// NormalizeHashtags lower-cases, strips whitespace, prefixes '#', drops
// empties and duplicates, and caps the result at MaxHashtags.
func NormalizeHashtags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, MaxHashtags)
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.Join(strings.Fields(tag), ""))
		cleaned = strings.TrimPrefix(cleaned, "#")
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, "#"+cleaned)
		if len(out) == MaxHashtags {
			break
		}
	}
	return out
}

// ParseDescription splits the description file form back into hook, channel
// line, links, and hashtags, so a parsed description renders back to the
// same file form.
func ParseDescription(data string) Description {
	var d Description
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return d
	}

	lines := strings.Split(trimmed, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if strings.HasPrefix(last, "#") {
		for _, field := range strings.Fields(last) {
			d.Hashtags = append(d.Hashtags, strings.TrimPrefix(field, "#"))
		}
		lines = lines[:len(lines)-1]
	}

	inBlock := false
	for _, line := range lines {
		if strings.TrimSpace(line) == sectionMarker {
			inBlock = !inBlock
			continue
		}
		if !inBlock {
			d.Hook += line + "\n"
			continue
		}
		// Link lines carry a "Label: URL" separator; the bare line is the
		// channel name.
		if label, url, ok := strings.Cut(line, ": "); ok {
			d.Links = append(d.Links, DescriptionLink{
				Label: strings.TrimSpace(label),
				URL:   strings.TrimSpace(url),
			})
		} else if channel := strings.TrimSpace(line); channel != "" {
			d.Channel = channel
		}
	}
	d.Hook = strings.TrimSpace(d.Hook)
	return d
}
