package captions

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scribe/internal/services"
)

// Segment is one timed span of transcript text.
type Segment struct {
	Text     string
	Start    float64
	Duration float64
}

// Fetcher defines the transcript retrieval operation the fetch stage needs.
type Fetcher interface {
	Transcript(ctx context.Context, videoID string) ([]Segment, error)
}

// Client retrieves timed transcripts from the captions endpoint.
type Client struct {
	baseURL    string
	language   string
	pacer      *services.Pacer
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a captions client.
func New(baseURL, language string, pacer *services.Pacer, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("captions base url required")
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "en"
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		pacer:      pacer,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcript returns the ordered caption segments for a video. A video
// without captions yields an unavailable marker, never a plain error: the
// endpoint signals absence with an empty payload, and captions may appear
// later, so the caller retries the item on future runs.
func (c *Client) Transcript(ctx context.Context, videoID string) ([]Segment, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, errors.New("video id required")
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse captions url: %w", err)
	}
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", c.language)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrUnavailable, "captions", "transcript",
			fmt.Sprintf("no captions for %s", videoID), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("captions returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read captions body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, services.Wrap(services.ErrUnavailable, "captions", "transcript",
			fmt.Sprintf("no captions for %s", videoID), nil)
	}

	var payload transcriptXML
	if err := xml.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse captions for %s: %w", videoID, err)
	}
	if len(payload.Texts) == 0 {
		return nil, services.Wrap(services.ErrUnavailable, "captions", "transcript",
			fmt.Sprintf("empty transcript for %s", videoID), nil)
	}

	segments := make([]Segment, 0, len(payload.Texts))
	for _, text := range payload.Texts {
		// The payload escapes entities twice (&amp;#39;), so unescape twice.
		cleaned := html.UnescapeString(html.UnescapeString(text.Value))
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     cleaned,
			Start:    text.Start,
			Duration: text.Duration,
		})
	}
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrUnavailable, "captions", "transcript",
			fmt.Sprintf("empty transcript for %s", videoID), nil)
	}
	return segments, nil
}

// Join flattens segments into a single plain-text body, one sentence flow
// with single spaces between segments.
func Join(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, segment.Text)
	}
	return strings.Join(parts, " ")
}

type transcriptXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Value    string  `xml:",chardata"`
}
