package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"scribe/internal/fileutil"
	"scribe/internal/services"
)

// Credentials is the persisted token record for the publish stage.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// Manager loads the credential record and hands out an HTTP client whose
// token source rewrites the record whenever the remote refresh flow issues
// new short-lived credentials. Persistence happens before the triggering
// call's result is returned to the caller, so a crash mid-run never loses a
// rotated refresh token.
type Manager struct {
	path string
	conf *oauth2.Config

	mu   sync.Mutex
	last *oauth2.Token
}

// NewManager builds a credential manager over the record at path.
func NewManager(path, clientID, clientSecret, tokenURL string) (*Manager, error) {
	if path == "" {
		return nil, errors.New("credentials path required")
	}
	return &Manager{
		path: path,
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
	}, nil
}

// Load reads the credential record. Absence is a fatal precondition for the
// publish stage, distinct from any per-item failure.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrConfiguration, "auth", "load credentials",
				fmt.Sprintf("credential record %s not found; authorize the publish client first", m.path), nil)
		}
		return services.Wrap(services.ErrConfiguration, "auth", "load credentials", "", err)
	}

	var record Credentials
	if err := json.Unmarshal(data, &record); err != nil {
		return services.Wrap(services.ErrConfiguration, "auth", "load credentials", "parse record", err)
	}
	if record.RefreshToken == "" && record.AccessToken == "" {
		return services.Wrap(services.ErrConfiguration, "auth", "load credentials", "record holds no tokens", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &oauth2.Token{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		TokenType:    record.TokenType,
		Expiry:       record.Expiry,
	}
	return nil
}

// HTTPClient returns an HTTP client that attaches bearer credentials and
// transparently persists refreshed tokens. Load must have succeeded first.
func (m *Manager) HTTPClient(ctx context.Context) (*http.Client, error) {
	m.mu.Lock()
	token := m.last
	m.mu.Unlock()
	if token == nil {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "http client", "credentials not loaded", nil)
	}
	source := &persistingSource{
		manager: m,
		base:    m.conf.TokenSource(ctx, token),
	}
	return oauth2.NewClient(ctx, source), nil
}

// persistingSource wraps the refreshing token source so every rotation is
// written back to durable storage before control returns to the caller.
type persistingSource struct {
	manager *Manager
	base    oauth2.TokenSource
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if err := s.manager.persistIfChanged(token); err != nil {
		return nil, err
	}
	return token, nil
}

func (m *Manager) persistIfChanged(token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last != nil && m.last.AccessToken == token.AccessToken && m.last.RefreshToken == token.RefreshToken {
		return nil
	}

	record := Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	// The refresh response may omit the refresh token; keep the current one.
	if record.RefreshToken == "" && m.last != nil {
		record.RefreshToken = m.last.RefreshToken
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(m.path, data, 0o600); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}

	persisted := *token
	persisted.RefreshToken = record.RefreshToken
	m.last = &persisted
	return nil
}
