package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scribe/internal/services"
)

const pageSize = 50

// PlaylistItem is one catalog entry from the uploads playlist.
type PlaylistItem struct {
	VideoID     string
	Title       string
	Description string
	PublishedAt time.Time
}

// PlaylistPage is one page of catalog entries plus the continuation token,
// empty when no further pages exist.
type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

// Video is the full remote metadata snapshot the publish stage reads and
// writes back. Fields other than Description are never owned by the
// pipeline; they are read so the write-back can echo them unchanged.
type Video struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	Tags        []string
}

// CatalogAPI defines the read operations the channel catalog source needs.
type CatalogAPI interface {
	ResolveUploads(ctx context.Context, channelID string) (string, error)
	PlaylistPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error)
}

// PublishAPI defines the read-modify-write operations the publish stage needs.
type PublishAPI interface {
	Video(ctx context.Context, videoID string) (*Video, error)
	UpdateVideo(ctx context.Context, video *Video) error
}

// Client talks to the catalog API. Read calls authenticate with an API key;
// write calls require an OAuth-equipped HTTP client injected via
// WithHTTPClient. Every call first waits on the pacer.
type Client struct {
	apiKey     string
	baseURL    string
	pacer      *services.Pacer
	httpClient *http.Client
}

var (
	_ CatalogAPI = (*Client)(nil)
	_ PublishAPI = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The publish stage passes
// an oauth2-wrapped client here so write calls carry bearer credentials.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a catalog API client.
func New(apiKey, baseURL string, pacer *services.Pacer, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		pacer:      pacer,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ResolveUploads maps a channel ID to its uploads playlist ID. An unknown
// channel is fatal for the whole run, not a per-item failure.
func (c *Client) ResolveUploads(ctx context.Context, channelID string) (string, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return "", services.Wrap(services.ErrConfiguration, "youtube", "resolve uploads", "channel id required", nil)
	}
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)

	var payload channelListResponse
	if err := c.get(ctx, "/channels", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", services.Wrap(services.ErrNotFound, "youtube", "resolve uploads",
			fmt.Sprintf("channel %s not found", channelID), nil)
	}
	uploads := payload.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", services.Wrap(services.ErrNotFound, "youtube", "resolve uploads",
			fmt.Sprintf("channel %s has no uploads playlist", channelID), nil)
	}
	return uploads, nil
}

// PlaylistPage fetches one page of up to 50 playlist entries. Pass the token
// from the previous page to continue; an empty NextPageToken ends pagination.
func (c *Client) PlaylistPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, errors.New("playlist id required")
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprintf("%d", pageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var payload playlistItemsResponse
	if err := c.get(ctx, "/playlistItems", params, &payload); err != nil {
		return nil, err
	}

	page := &PlaylistPage{NextPageToken: payload.NextPageToken}
	for _, item := range payload.Items {
		videoID := item.Snippet.ResourceID.VideoID
		if videoID == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		page.Items = append(page.Items, PlaylistItem{
			VideoID:     videoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: published,
		})
	}
	return page, nil
}

// Video reads the current remote metadata for one video. A missing or
// inaccessible video is an expected per-item absence, not an error.
func (c *Client) Video(ctx context.Context, videoID string) (*Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, errors.New("video id required")
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var payload videoListResponse
	if err := c.get(ctx, "/videos", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, services.Wrap(services.ErrUnavailable, "youtube", "read video",
			fmt.Sprintf("video %s not accessible", videoID), nil)
	}
	item := payload.Items[0]
	return &Video{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		CategoryID:  item.Snippet.CategoryID,
		Tags:        item.Snippet.Tags,
	}, nil
}

// UpdateVideo writes back the full snippet with only the description owned
// by the pipeline; title, category, and tags must already carry the remote
// values so nothing else is overwritten.
func (c *Client) UpdateVideo(ctx context.Context, video *Video) error {
	if video == nil || strings.TrimSpace(video.ID) == "" {
		return errors.New("video with id required")
	}
	if strings.TrimSpace(video.CategoryID) == "" {
		return errors.New("category id required for update")
	}

	body := videoUpdateRequest{ID: video.ID}
	body.Snippet.Title = video.Title
	body.Snippet.Description = video.Description
	body.Snippet.CategoryID = video.CategoryID
	body.Snippet.Tags = video.Tags

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode video update: %w", err)
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	endpoint, err := url.Parse(c.baseURL + "/videos")
	if err != nil {
		return fmt.Errorf("parse videos url: %w", err)
	}
	params := url.Values{}
	params.Set("part", "snippet")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute video update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("video update returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", path, err)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "youtube", strings.TrimPrefix(path, "/"), "resource not found", nil)
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

type channelListResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			CategoryID  string   `json:"categoryId"`
			Tags        []string `json:"tags"`
		} `json:"snippet"`
	} `json:"items"`
}

type videoUpdateRequest struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		CategoryID  string   `json:"categoryId"`
		Tags        []string `json:"tags,omitempty"`
	} `json:"snippet"`
}
