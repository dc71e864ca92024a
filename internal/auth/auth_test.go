package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/services"
)

func writeRecord(t *testing.T, path string, record Credentials) {
	t.Helper()
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingRecordIsFatal(t *testing.T) {
	manager, err := NewManager(filepath.Join(t.TempDir(), "credentials.json"), "id", "secret", "http://127.0.0.1:0/token")
	if err != nil {
		t.Fatal(err)
	}
	err = manager.Load()
	if err == nil {
		t.Fatal("expected error for missing record")
	}
	if !services.IsFatal(err) {
		t.Fatalf("missing credentials must be fatal, got %v", err)
	}
}

func TestLoadRejectsEmptyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	writeRecord(t, path, Credentials{})

	manager, err := NewManager(path, "id", "secret", "http://127.0.0.1:0/token")
	if err != nil {
		t.Fatal(err)
	}
	if err := manager.Load(); !services.IsFatal(err) {
		t.Fatalf("empty record must be fatal, got %v", err)
	}
}

func TestRefreshPersistsBeforeCallReturns(t *testing.T) {
	var persisted bool

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	path := filepath.Join(t.TempDir(), "credentials.json")
	writeRecord(t, path, Credentials{
		AccessToken:  "stale-token",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
	})

	manager, err := NewManager(path, "id", "secret", tokenServer.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := manager.Load(); err != nil {
		t.Fatal(err)
	}

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// By the time the API call arrives, the rotated token must already
		// be on disk.
		data, err := os.ReadFile(path)
		if err != nil {
			t.Error(err)
			return
		}
		var record Credentials
		if err := json.Unmarshal(data, &record); err != nil {
			t.Error(err)
			return
		}
		if record.AccessToken != "fresh-token" {
			t.Errorf("record not persisted before call: %+v", record)
			return
		}
		if record.RefreshToken != "refresh-1" {
			t.Errorf("refresh token lost on merge: %+v", record)
			return
		}
		persisted = true
		w.Write([]byte(`{}`))
	}))
	defer apiServer.Close()

	client, err := manager.HTTPClient(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Get(apiServer.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if !persisted {
		t.Fatal("api call never observed the persisted record")
	}
}

func TestHTTPClientRequiresLoad(t *testing.T) {
	manager, err := NewManager(filepath.Join(t.TempDir(), "credentials.json"), "id", "secret", "http://127.0.0.1:0/token")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.HTTPClient(context.Background()); err == nil {
		t.Fatal("expected error before Load")
	}
}
