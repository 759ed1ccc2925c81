// Package emails collects contributor contact addresses for the survey
// round: public profile emails first, then distinct commit-author emails
package emails

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"edgeminer/internal/adapters/github"
	"edgeminer/internal/core/dataset"
	perr "edgeminer/internal/platform/errors"
	"edgeminer/internal/platform/logger"
)

// Options drives one collection run
type Options struct {
	// Input is a treated CSV with a full_name column
	Input  string `validate:"required"`
	OutDir string `validate:"required"`

	// MaxContributors caps the per-repo contributor fanout
	MaxContributors int `validate:"gt=0,lte=100"`

	// MaxEmails caps addresses kept per contributor
	MaxEmails int `validate:"gt=0,lte=10"`
}

// Service collects emails
type Service struct {
	gh       *github.Client
	log      logger.Logger
	validate *validator.Validate
}

// New builds a Service
func New(gh *github.Client, log logger.Logger) *Service {
	return &Service{gh: gh, log: log, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// usable drops bot accounts and masked addresses
func usable(email string) bool {
	if email == "" {
		return false
	}
	return !strings.Contains(email, "noreply")
}

// Run walks the repositories and writes EMAILS_<timestamp>.csv under
// OutDir, returning the file path
func (s *Service) Run(ctx context.Context, opt Options) (string, error) {
	if err := s.validate.Struct(opt); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeValidation, "emails options")
	}

	in, err := dataset.ReadFile(opt.Input)
	if err != nil {
		return "", err
	}
	fullCol := in.Col("full_name")
	if fullCol < 0 {
		return "", perr.CSVErrf("input %s has no full_name column", opt.Input)
	}

	header := []string{"repo", "login", "contributions"}
	for i := 1; i <= opt.MaxEmails; i++ {
		header = append(header, "email"+strconv.Itoa(i))
	}
	out := dataset.New(header...)

	for _, row := range in.Rows {
		full := strings.TrimSpace(in.Value(row, fullCol))
		owner, name, ok := strings.Cut(full, "/")
		if !ok {
			s.log.Warn().Str("full_name", full).Msg("skipping malformed full_name")
			continue
		}

		contribs, err := s.gh.Contributors(ctx, owner, name)
		if err != nil {
			s.log.Warn().Err(err).Str("repo", full).Msg("contributor listing failed")
			continue
		}
		if len(contribs) > opt.MaxContributors {
			contribs = contribs[:opt.MaxContributors]
		}

		for _, c := range contribs {
			if strings.Contains(c.Login, "[bot]") {
				continue
			}
			emails := s.collect(ctx, owner, name, c.Login, opt.MaxEmails)
			rec := []string{full, c.Login, strconv.Itoa(c.Contributions)}
			for i := 0; i < opt.MaxEmails; i++ {
				if i < len(emails) {
					rec = append(rec, emails[i])
				} else {
					rec = append(rec, "")
				}
			}
			out.Append(rec)
		}
	}

	path := filepath.Join(opt.OutDir, "EMAILS_"+dataset.Timestamp()+".csv")
	if err := out.WriteFile(path); err != nil {
		return "", err
	}
	s.log.Info().Int("rows", out.Len()).Str("file", path).Msg("email collection finished")
	return path, nil
}

// collect merges the profile email with commit-author emails, profile
// first, deduplicated, capped at max
func (s *Service) collect(ctx context.Context, owner, repo, login string, max int) []string {
	seen := map[string]bool{}
	var emails []string
	add := func(e string) {
		if usable(e) && !seen[e] && len(emails) < max {
			seen[e] = true
			emails = append(emails, e)
		}
	}

	user, err := s.gh.UserByLogin(ctx, login)
	if err != nil {
		s.log.Warn().Err(err).Str("login", login).Msg("user lookup failed")
	} else {
		add(user.Email)
	}

	if len(emails) < max {
		commitEmails, err := s.gh.CommitAuthorEmails(ctx, owner, repo, login)
		if err != nil {
			s.log.Warn().Err(err).Str("login", login).Str("repo", owner+"/"+repo).Msg("commit email lookup failed")
		}
		for _, e := range commitEmails {
			add(e)
		}
	}
	return emails
}
