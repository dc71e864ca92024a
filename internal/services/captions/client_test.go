package captions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/services"
)

func TestTranscriptParsesSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("v"); got != "v1" {
			t.Fatalf("video id = %q", got)
		}
		if got := r.URL.Query().Get("lang"); got != "en" {
			t.Fatalf("lang = %q", got)
		}
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.1">hello world</text>
  <text start="2.6" dur="3.0">it&amp;#39;s a test</text>
</transcript>`))
	}))
	defer server.Close()

	client, err := New(server.URL, "en", services.NewPacer(0))
	if err != nil {
		t.Fatal(err)
	}
	segments, err := client.Transcript(context.Background(), "v1")
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 2 {
		t.Fatalf("segment count = %d", len(segments))
	}
	if segments[0].Text != "hello world" || segments[0].Start != 0.5 || segments[0].Duration != 2.1 {
		t.Fatalf("segment 0 wrong: %+v", segments[0])
	}
	if segments[1].Text != "it's a test" {
		t.Fatalf("entities not unescaped: %q", segments[1].Text)
	}
}

func TestTranscriptEmptyBodyIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The endpoint answers 200 with an empty body when no captions exist.
	}))
	defer server.Close()

	client, err := New(server.URL, "en", services.NewPacer(0))
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Transcript(context.Background(), "nocaps")
	if !services.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestTranscriptNotFoundIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := New(server.URL, "en", services.NewPacer(0))
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Transcript(context.Background(), "gone")
	if !services.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestTranscriptServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := New(server.URL, "en", services.NewPacer(0))
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Transcript(context.Background(), "v1")
	if err == nil {
		t.Fatal("expected error")
	}
	if services.IsUnavailable(err) || services.IsFatal(err) {
		t.Fatalf("server error should be transient, got %v", err)
	}
}

func TestJoin(t *testing.T) {
	segments := []Segment{{Text: "one"}, {Text: "two"}, {Text: "three"}}
	if got := Join(segments); got != "one two three" {
		t.Fatalf("join = %q", got)
	}
}
