package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/g5becks/srcmd/internal/source"
)

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/NOTES.md":
			_, _ = w.Write([]byte("# Notes\n\nremote content\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := source.NewFetcher()

	attachment, err := fetcher.Fetch(context.Background(), server.URL+"/NOTES.md")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if attachment.Name != "NOTES.md" {
		t.Errorf("Name = %q, want %q", attachment.Name, "NOTES.md")
	}
	if !strings.Contains(attachment.Content, "remote content") {
		t.Errorf("Content = %q, want body", attachment.Content)
	}
}

func TestFetcher_FetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	fetcher := source.NewFetcher()

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/missing.md"); err == nil {
		t.Fatal("Fetch() error = nil, want status error")
	}
}

func TestNameFromBadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := source.NewFetcher()

	attachment, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if attachment.Name == "" {
		t.Error("Name is empty, want fallback")
	}
}
