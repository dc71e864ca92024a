package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteSendsMessagesAndAuth(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("auth = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  generated text  "}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL, WithModel("test-model"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := client.Complete(context.Background(), "you are a writer", "summarize this")
	if err != nil {
		t.Fatal(err)
	}
	if out != "generated text" {
		t.Fatalf("content = %q", out)
	}
	if captured.Model != "test-model" {
		t.Fatalf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("messages wrong: %+v", captured.Messages)
	}
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client, err := NewClient("k", server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Complete(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected api error")
	}
}

func TestCompleteRequiresKeyAndPrompt(t *testing.T) {
	client, err := NewClient("", "http://127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Complete(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error without api key")
	}
	client2, err := NewClient("k", "http://127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client2.Complete(context.Background(), "", "   "); err == nil {
		t.Fatal("expected error without prompt")
	}
}
