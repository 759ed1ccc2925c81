// Package treatment runs the dataset cleaning pipeline over raw mining
// exports: concatenate, deduplicate, keep English descriptions, drop
// repositories matching exclusion terms. Every stage is written to its
// own bracket-prefixed CSV so intermediate states stay auditable
package treatment

import (
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"edgeminer/internal/core/dataset"
	perr "edgeminer/internal/platform/errors"
	"edgeminer/internal/platform/logger"
)

// Options drives one treatment run
type Options struct {
	Inputs []string `validate:"required,min=1,dive,required"`
	OutDir string   `validate:"required"`

	// DescColumn is the description column the language filter reads
	DescColumn string `validate:"required"`

	// Extra exclusion terms appended to the built-in list
	ExtraTerms []string
}

// Result reports each stage's output path and row count
type Result struct {
	Stages []Stage
}

// Stage is one pipeline step
type Stage struct {
	Name string
	Path string
	Rows int
}

// Service runs treatment pipelines
type Service struct {
	log      logger.Logger
	validate *validator.Validate
}

// New builds a Service
func New(log logger.Logger) *Service {
	return &Service{log: log, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Run executes the full pipeline and returns the stage summary
func (s *Service) Run(opt Options) (*Result, error) {
	if err := s.validate.Struct(opt); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "treatment options")
	}

	tables := make([]*dataset.Table, 0, len(opt.Inputs))
	for _, path := range opt.Inputs {
		t, err := dataset.ReadFile(path)
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("file", path).Int("rows", t.Len()).Msg("raw input loaded")
		tables = append(tables, t)
	}

	ts := dataset.Timestamp()
	res := &Result{}
	write := func(name string, t *dataset.Table) error {
		path := filepath.Join(opt.OutDir, "["+name+"]"+ts+".csv")
		if err := t.WriteFile(path); err != nil {
			return err
		}
		s.log.Info().Str("stage", name).Str("file", path).Int("rows", t.Len()).Msg("stage written")
		res.Stages = append(res.Stages, Stage{Name: name, Path: path, Rows: t.Len()})
		return nil
	}

	cat := dataset.Concat(tables...)
	if err := write("CONCATENATED", cat); err != nil {
		return nil, err
	}

	dedup, fellBack := dataset.Dedup(cat, dataset.DedupSubset)
	if fellBack {
		s.log.Warn().Strs("subset", dataset.DedupSubset).Msg("identity columns missing, deduplicated on full rows")
	}
	if err := write("NO-DUPLICATED", dedup); err != nil {
		return nil, err
	}

	english, ok := dataset.FilterEnglish(dedup, opt.DescColumn)
	if !ok {
		s.log.Warn().Str("column", opt.DescColumn).Msg("description column missing, language filter kept nothing")
	}
	if err := write("ENGLISH-DESC", english); err != nil {
		return nil, err
	}

	terms := append(append([]string(nil), dataset.ExclusionTerms...), opt.ExtraTerms...)
	final := dataset.FilterExclusion(english, terms)
	if err := write("EXCLUSION-TERM", final); err != nil {
		return nil, err
	}
	return res, nil
}
