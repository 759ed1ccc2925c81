// Package analyze turns treated study spreadsheets into the result
// tables and figures: domain distributions, ISO 30141 capability
// classes and layers, architectural layers, documentation coverage,
// and Likert overviews
package analyze

import (
	"path/filepath"
	"strconv"

	"edgeminer/internal/platform/logger"
)

// Service runs the analysis pipelines. Each pipeline reads one CSV and
// writes its tables under TablesDir and figures under FigsDir
type Service struct {
	log logger.Logger
}

// New builds a Service
func New(log logger.Logger) *Service { return &Service{log: log} }

func tablePath(dir, name string) string { return filepath.Join(dir, name) }

// ftoa formats weights and proportions without trailing zero noise
func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// pct formats a percentage with two decimals, the way the result tables
// are published
func pct(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
