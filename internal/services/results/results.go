// Package results serves the study output directory over a small
// read-only HTTP API so tables can be inspected during analysis
// sessions
package results

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"edgeminer/internal/core/dataset"
	perr "edgeminer/internal/platform/errors"
	"edgeminer/internal/platform/httpx"
	"edgeminer/internal/platform/logger"
)

// Handler serves tables from one results directory
type Handler struct {
	dir string
	log logger.Logger
}

// NewHandler builds a Handler over dir
func NewHandler(dir string, log logger.Logger) *Handler {
	return &Handler{dir: dir, log: log}
}

// Mount registers middleware and routes on the mux
func (h *Handler) Mount(m *chi.Mux) {
	m.Use(middleware.RequestID)
	m.Use(middleware.Recoverer)
	m.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	m.Get("/healthz", h.health)
	m.Get("/tables", h.list)
	// wildcard so nested names like tables/domains_counts.csv resolve;
	// ?format=csv streams the raw file
	m.Get("/tables/*", h.table)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	httpx.RespondOK(w, r, map[string]string{"status": "ok"})
}

// tableInfo is one list entry
type tableInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// list walks the results dir for CSV files, relative paths as names
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var tables []tableInfo
	err := filepath.WalkDir(h.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(h.dir, path)
		if err != nil {
			return err
		}
		tables = append(tables, tableInfo{
			Name:     filepath.ToSlash(rel),
			Size:     info.Size(),
			Modified: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		httpx.RespondError(w, r, perr.Wrapf(err, perr.ErrorCodeUnknown, "walk results dir"))
		return
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	httpx.RespondOK(w, r, tables)
}

// resolve maps a route name onto a file inside the results dir,
// rejecting traversal attempts
func (h *Handler) resolve(name string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	path := filepath.Join(h.dir, clean)
	if !strings.HasPrefix(path, filepath.Clean(h.dir)+string(os.PathSeparator)) {
		return "", perr.InvalidArgf("invalid table name %q", name)
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return "", perr.InvalidArgf("not a csv table: %q", name)
	}
	if _, err := os.Stat(path); err != nil {
		return "", perr.NotFoundf("table %q not found", name)
	}
	return path, nil
}

// tablePayload is the JSON view of a CSV table
type tablePayload struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (h *Handler) table(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	path, err := h.resolve(name)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		http.ServeFile(w, r, path)
		return
	}

	t, err := dataset.ReadFile(path)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondOK(w, r, tablePayload{Name: name, Columns: t.Columns, Rows: t.Rows})
}
