package miner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edgeminer/internal/adapters/github"
	"edgeminer/internal/core/dataset"
	"edgeminer/internal/platform/logger"
	"edgeminer/internal/platform/testkit"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			_ = json.NewEncoder(w).Encode(map[string]any{"total_count": 2, "items": []any{}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": 2,
			"items": []map[string]any{
				{
					"id": 1, "name": "edge-infer", "full_name": "acme/edge-infer",
					"owner":    map[string]any{"login": "acme", "id": 10},
					"html_url": "https://github.com/acme/edge-infer",
					"description": "inference at the edge", "pushed_at": "2025-06-01T00:00:00Z",
					"stargazers_count": 42, "forks": 3, "language": "Go", "size": 100, "score": 1.0,
				},
				{
					"id": 2, "name": "tinyml", "full_name": "acme/tinyml",
					"owner":    map[string]any{"login": "acme", "id": 10},
					"html_url": "https://github.com/acme/tinyml",
					"description": "tiny models", "pushed_at": "2025-05-01T00:00:00Z",
					"stargazers_count": 11, "forks": 0, "language": "C", "size": 50, "score": 0.9,
				},
			},
		})
	})

	commits := func(w http.ResponseWriter, r *http.Request) {
		out := []map[string]any{
			{"sha": "a", "commit": map[string]any{"author": map[string]any{"email": "a@x"}}},
			{"sha": "b", "commit": map[string]any{"author": map[string]any{"email": "b@x"}}},
		}
		_ = json.NewEncoder(w).Encode(out)
	}
	mux.HandleFunc("/repos/acme/edge-infer/commits", commits)
	mux.HandleFunc("/repos/acme/tinyml/commits", commits)

	contributors := func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"login": "alice", "id": 1, "contributions": 9},
			{"login": "bob", "id": 2, "contributions": 4},
			{"login": "carol", "id": 3, "contributions": 1},
		})
	}
	mux.HandleFunc("/repos/acme/edge-infer/contributors", contributors)
	mux.HandleFunc("/repos/acme/tinyml/contributors", contributors)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestQuery(t *testing.T) {
	got := Query("edge ai", "2024-01-01", 10)
	want := "edge ai in:name,description,topics, pushed:>2024-01-01 stars:>10"
	if got != want {
		t.Fatalf("Query = %q, want %q", got, want)
	}
}

func TestRunWritesRawCSV(t *testing.T) {
	srv := testServer(t)
	gh := github.NewClient(github.Options{BaseURL: srv.URL, TokensCSV: "t1"})
	svc := New(gh, nil, *logger.Named("miner-test"))
	testkit.Swap(t, &svc.sleep, func(time.Duration) {})

	dir := t.TempDir()
	out, err := svc.Run(context.Background(), Options{
		Terms:       []string{"edge ai", "edge intelligence"},
		PushedAfter: "2024-01-01",
		MinStars:    10,
		MaxResults:  100,
		PerPage:     100,
		OutDir:      dir,
		CommitsYear: 2024,
		Enrich:      true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "RAW_") || !strings.HasSuffix(out, ".csv") {
		t.Fatalf("unexpected output path %q", out)
	}

	tb, err := dataset.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	wantHeader := CSVHeader(2024)
	if len(tb.Columns) != len(wantHeader) {
		t.Fatalf("header width %d, want %d", len(tb.Columns), len(wantHeader))
	}
	for i, c := range wantHeader {
		if tb.Columns[i] != c {
			t.Fatalf("header[%d] = %q, want %q", i, tb.Columns[i], c)
		}
	}
	// repos found by both terms appear once
	if tb.Len() != 2 {
		t.Fatalf("got %d rows, want 2", tb.Len())
	}
	row := tb.Rows[0]
	if tb.Value(row, tb.Col("name")) != "edge-infer" {
		t.Fatalf("row0 name = %q", tb.Value(row, tb.Col("name")))
	}
	if tb.Value(row, tb.Col("total_commits")) != "2" {
		t.Fatalf("total_commits = %q", tb.Value(row, tb.Col("total_commits")))
	}
	if tb.Value(row, tb.Col("contributors")) != "3" {
		t.Fatalf("contributors = %q", tb.Value(row, tb.Col("contributors")))
	}
	if tb.Value(row, tb.Col("search_term")) != "edge ai" {
		t.Fatalf("search_term = %q", tb.Value(row, tb.Col("search_term")))
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	svc := New(github.NewClient(github.Options{}), nil, *logger.Named("miner-test"))
	_, err := svc.Run(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected validation error for empty options")
	}
}
