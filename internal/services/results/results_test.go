package results

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"edgeminer/internal/platform/httpx"
	"edgeminer/internal/platform/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "tables"), 0o755); err != nil {
		t.Fatal(err)
	}
	csv := "domain,count\nIIoT,2\nRobotics,1\n"
	if err := os.WriteFile(filepath.Join(dir, "tables", "domains_counts.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := chi.NewRouter()
	NewHandler(dir, *logger.Named("results-test")).Mount(m)
	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)
	return srv, dir
}

func getEnvelope(t *testing.T, url string, wantStatus int) httpx.Envelope {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var env httpx.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	env := getEnvelope(t, srv.URL+"/healthz", http.StatusOK)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("envelope status = %d", env.StatusCode)
	}
}

func TestListTables(t *testing.T) {
	srv, _ := newTestServer(t)
	env := getEnvelope(t, srv.URL+"/tables", http.StatusOK)

	items, ok := env.Data.([]any)
	if !ok {
		t.Fatalf("data = %T", env.Data)
	}
	if len(items) != 1 {
		t.Fatalf("tables = %d, want 1 (txt files excluded)", len(items))
	}
	first := items[0].(map[string]any)
	if first["name"] != "tables/domains_counts.csv" {
		t.Fatalf("name = %v", first["name"])
	}
}

func TestGetTableJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	env := getEnvelope(t, srv.URL+"/tables/tables/domains_counts.csv", http.StatusOK)
	data := env.Data.(map[string]any)
	cols := data["columns"].([]any)
	if len(cols) != 2 || cols[0] != "domain" {
		t.Fatalf("columns = %v", cols)
	}
	rows := data["rows"].([]any)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
}

func TestGetTableRaw(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/tables/tables/domains_counts.csv?format=csv")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestGetTableErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	env := getEnvelope(t, srv.URL+"/tables/tables/missing.csv", http.StatusNotFound)
	if env.Error == "" {
		t.Fatal("expected error message in envelope")
	}

	// traversal and non-csv names are rejected
	getEnvelope(t, srv.URL+"/tables/notes.txt", http.StatusUnprocessableEntity)
	getEnvelope(t, srv.URL+"/tables/..%2f..%2fetc%2fpasswd.csv", http.StatusNotFound)
}
