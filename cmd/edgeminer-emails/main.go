// Command edgeminer-emails resolves contributor contact emails for the
// survey round. Tokens come from GITHUB_TOKENS (or GITHUB_TOKEN)
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edgeminer/internal/adapters/github"
	"edgeminer/internal/platform/config"
	"edgeminer/internal/platform/logger"
	"edgeminer/internal/services/emails"
)

func main() {
	var (
		in              = flag.String("in", "", "treated CSV with a full_name column (required)")
		outDir          = flag.String("out", "results/survey", "output directory")
		maxContributors = flag.Int("max-contributors", 10, "contributors resolved per repo")
		maxEmails       = flag.Int("max-emails", 4, "emails kept per contributor")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	log := logger.Named("edgeminer-emails")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gh := config.New().Prefix("GITHUB_")
	client := github.NewClient(github.Options{
		TokensCSV: gh.MayString("TOKENS", gh.MayString("TOKEN", "")),
		Timeout:   gh.MayDuration("TIMEOUT", 30*time.Second),
		UserAgent: "edgeminer-emails",
	})

	out, err := emails.New(client, *log).Run(ctx, emails.Options{
		Input:           *in,
		OutDir:          *outDir,
		MaxContributors: *maxContributors,
		MaxEmails:       *maxEmails,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("email collection failed")
	}
	log.Info().Str("file", out).Msg("done")
}
