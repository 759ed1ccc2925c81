// Package miner orchestrates repository search, enrichment, and the raw
// CSV export
package miner

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"edgeminer/internal/adapters/github"
	"edgeminer/internal/core/dataset"
	perr "edgeminer/internal/platform/errors"
	"edgeminer/internal/platform/logger"
	"edgeminer/internal/platform/store"
)

// Options drives one mining run
type Options struct {
	// Terms are searched one by one; each matching repo records which term
	// found it
	Terms []string `validate:"required,min=1,dive,required"`

	// PushedAfter is the activity cutoff (YYYY-MM-DD)
	PushedAfter string `validate:"required,datetime=2006-01-02"`

	// MinStars filters out low-signal repositories
	MinStars int `validate:"gte=0"`

	// MaxResults caps collected repos per term; the search API stops
	// serving past 1000 anyway
	MaxResults int `validate:"gt=0,lte=1000"`

	PerPage int `validate:"gt=0,lte=100"`

	OutDir string `validate:"required"`

	// CommitsYear is the calendar year counted into the commits_<year>
	// column
	CommitsYear int `validate:"gte=2008"`

	// PageDelay is the courtesy pause between search pages
	PageDelay time.Duration

	// Enrich toggles the per-repo commit and contributor lookups, which
	// dominate run time
	Enrich bool
}

// CSVHeader is the raw export schema. Column names are part of the
// downstream treatment contract, so they stay as-is
func CSVHeader(commitsYear int) []string {
	return []string{
		"name", "full_name", "URL", "desc.",
		"total_commits", "last_commit", fmt.Sprintf("commits_%d", commitsYear),
		"stars", "fork", "forks", "lang", "size", "score",
		"template", "archived", "disabled",
		"contributors_url", "collaborators_url", "contributors",
		"search_term",
	}
}

// Service runs mining jobs
type Service struct {
	gh       *github.Client
	st       *store.Store
	log      logger.Logger
	validate *validator.Validate
	sleep    func(time.Duration)
}

// New builds a Service. st may be a disabled store
func New(gh *github.Client, st *store.Store, log logger.Logger) *Service {
	return &Service{
		gh:       gh,
		st:       st,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		sleep:    time.Sleep,
	}
}

// record is one enriched repository row
type record struct {
	repo         github.Repo
	totalCommits int
	yearCommits  int
	contributors int
	term         string
}

// Run mines all terms and writes RAW_<timestamp>.csv under OutDir,
// returning the file path
func (s *Service) Run(ctx context.Context, opt Options) (string, error) {
	if err := s.validate.Struct(opt); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeValidation, "miner options")
	}
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()
	log.Info().Strs("terms", opt.Terms).Str("pushed_after", opt.PushedAfter).Int("min_stars", opt.MinStars).Msg("mining run started")

	var records []record
	seen := map[int64]bool{}
	for _, term := range opt.Terms {
		found, err := s.mineTerm(ctx, log, opt, term, seen)
		if err != nil {
			return "", err
		}
		records = append(records, found...)
	}

	if opt.Enrich {
		for i := range records {
			s.enrich(ctx, log, &records[i], opt.CommitsYear)
		}
	}

	if err := s.persist(ctx, log, runID, records); err != nil {
		return "", err
	}

	out := filepath.Join(opt.OutDir, "RAW_"+dataset.Timestamp()+".csv")
	t := dataset.New(CSVHeader(opt.CommitsYear)...)
	for _, rec := range records {
		t.Append(rec.row())
	}
	if err := t.WriteFile(out); err != nil {
		return "", err
	}
	log.Info().Int("repos", len(records)).Str("file", out).Msg("mining run finished")
	return out, nil
}

// Query builds the search expression for one term
func Query(term, pushedAfter string, minStars int) string {
	return fmt.Sprintf("%s in:name,description,topics, pushed:>%s stars:>%d", term, pushedAfter, minStars)
}

func (s *Service) mineTerm(ctx context.Context, log logger.Logger, opt Options, term string, seen map[int64]bool) ([]record, error) {
	query := Query(term, opt.PushedAfter, opt.MinStars)
	log.Info().Str("term", term).Str("query", query).Msg("searching")

	var out []record
	collected := 0
	for page := 1; collected < opt.MaxResults; page++ {
		res, err := s.gh.SearchRepositories(ctx, query, "stars", "desc", opt.PerPage, page)
		if err != nil {
			return nil, perr.Wrapf(err, perr.CodeOf(err), "search %q page %d", term, page)
		}
		if len(res.Items) == 0 {
			break
		}
		for _, repo := range res.Items {
			collected++
			if seen[repo.ID] {
				continue
			}
			seen[repo.ID] = true
			out = append(out, record{repo: repo, term: term})
			if collected >= opt.MaxResults {
				break
			}
		}
		log.Debug().Str("term", term).Int("page", page).Int("total_count", res.TotalCount).Int("collected", collected).Msg("search page done")
		if collected >= opt.MaxResults || len(res.Items) < opt.PerPage {
			break
		}
		if opt.PageDelay > 0 {
			s.sleep(opt.PageDelay)
		}
	}
	return out, nil
}

// enrich fills the commit and contributor counts. Lookup failures are
// logged and leave zeros so one flaky repo cannot sink a whole run
func (s *Service) enrich(ctx context.Context, log logger.Logger, rec *record, year int) {
	owner, name := rec.repo.Owner.Login, rec.repo.Name

	total, err := s.gh.CountCommits(ctx, owner, name, time.Time{}, time.Time{})
	if err != nil {
		log.Warn().Err(err).Str("repo", rec.repo.FullName).Msg("total commit count failed")
	}
	rec.totalCommits = total

	since := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
	yc, err := s.gh.CountCommits(ctx, owner, name, since, until)
	if err != nil {
		log.Warn().Err(err).Str("repo", rec.repo.FullName).Int("year", year).Msg("year commit count failed")
	}
	rec.yearCommits = yc

	contribs, err := s.gh.Contributors(ctx, owner, name)
	if err != nil {
		log.Warn().Err(err).Str("repo", rec.repo.FullName).Msg("contributor count failed")
	}
	rec.contributors = len(contribs)
}

func (r record) row() []string {
	p := r.repo
	return []string{
		p.Name, p.FullName, p.HTMLURL, p.Description,
		strconv.Itoa(r.totalCommits), p.PushedAt, strconv.Itoa(r.yearCommits),
		strconv.Itoa(p.Stars), strconv.FormatBool(p.Fork), strconv.Itoa(p.Forks),
		p.Language, strconv.FormatInt(p.Size, 10), strconv.FormatFloat(p.Score, 'f', -1, 64),
		strconv.FormatBool(p.IsTemplate), strconv.FormatBool(p.Archived), strconv.FormatBool(p.Disabled),
		p.ContributorsURL, p.CollaboratorsURL, strconv.Itoa(r.contributors),
		r.term,
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS mined_repos (
	run_id        uuid        NOT NULL,
	repo_id       bigint      NOT NULL,
	full_name     text        NOT NULL,
	url           text        NOT NULL,
	description   text,
	stars         int         NOT NULL,
	total_commits int         NOT NULL,
	contributors  int         NOT NULL,
	search_term   text        NOT NULL,
	mined_at      timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, repo_id)
)`

const insertSQL = `
INSERT INTO mined_repos
	(run_id, repo_id, full_name, url, description, stars, total_commits, contributors, search_term)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (run_id, repo_id) DO NOTHING`

// persist mirrors the run into postgres when the store is enabled
func (s *Service) persist(ctx context.Context, log logger.Logger, runID string, records []record) error {
	if s.st == nil || s.st.PG == nil {
		return nil
	}
	if _, err := s.st.PG.Exec(ctx, schemaSQL); err != nil {
		return err
	}
	for _, rec := range records {
		_, err := s.st.PG.Exec(ctx, insertSQL,
			runID, rec.repo.ID, rec.repo.FullName, rec.repo.HTMLURL, rec.repo.Description,
			rec.repo.Stars, rec.totalCommits, rec.contributors, rec.term)
		if err != nil {
			return err
		}
	}
	log.Debug().Int("rows", len(records)).Msg("run persisted to postgres")
	return nil
}
