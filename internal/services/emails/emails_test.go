package emails

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"edgeminer/internal/adapters/github"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/platform/logger"
)

func TestRunCollectsEmails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/edge-infer/contributors", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"login": "alice", "id": 1, "contributions": 9},
			{"login": "ci[bot]", "id": 2, "contributions": 100},
		})
	})
	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"login": "alice", "id": 1, "email": "alice@example.com"})
	})
	mux.HandleFunc("/repos/acme/edge-infer/commits", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("author") != "alice" {
			t.Errorf("author = %q", r.URL.Query().Get("author"))
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"sha": "a", "commit": map[string]any{"author": map[string]any{"email": "alice@work.com"}}},
			{"sha": "b", "commit": map[string]any{"author": map[string]any{"email": "alice@example.com"}}},
			{"sha": "c", "commit": map[string]any{"author": map[string]any{"email": "1+alice@users.noreply.github.com"}}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	input := filepath.Join(dir, "treated.csv")
	if err := os.WriteFile(input, []byte("name,full_name\nedge-infer,acme/edge-infer\nbad-row,notslash\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := New(github.NewClient(github.Options{BaseURL: srv.URL, TokensCSV: "t"}), *logger.Named("emails-test"))
	out, err := svc.Run(context.Background(), Options{
		Input:           input,
		OutDir:          dir,
		MaxContributors: 50,
		MaxEmails:       4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	tb, err := dataset.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tb.Len() != 1 {
		t.Fatalf("rows = %d, want 1 (bot and malformed rows skipped)", tb.Len())
	}
	row := tb.Rows[0]
	if got := tb.Value(row, tb.Col("login")); got != "alice" {
		t.Fatalf("login = %q", got)
	}
	if got := tb.Value(row, tb.Col("email1")); got != "alice@example.com" {
		t.Fatalf("email1 = %q", got)
	}
	if got := tb.Value(row, tb.Col("email2")); got != "alice@work.com" {
		t.Fatalf("email2 = %q", got)
	}
	if got := tb.Value(row, tb.Col("email3")); got != "" {
		t.Fatalf("noreply address kept: %q", got)
	}
}

func TestRunMissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(input, []byte("name\nfoo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := New(github.NewClient(github.Options{}), *logger.Named("emails-test"))
	if _, err := svc.Run(context.Background(), Options{Input: input, OutDir: dir, MaxContributors: 10, MaxEmails: 4}); err == nil {
		t.Fatal("expected error for missing full_name column")
	}
}
