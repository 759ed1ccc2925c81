// Command edgeminer-search mines GitHub repositories for the study and
// writes the raw CSV export. Tokens come from GITHUB_TOKENS (or
// GITHUB_TOKEN), never from flags
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"edgeminer/internal/adapters/github"
	"edgeminer/internal/platform/config"
	"edgeminer/internal/platform/logger"
	"edgeminer/internal/platform/store"
	"edgeminer/internal/services/miner"
)

func main() {
	var (
		terms       = flag.String("terms", "edge ai,edge intelligence,edge machine learning", "comma separated search terms")
		pushedAfter = flag.String("pushed-after", "2024-01-01", "activity cutoff YYYY-MM-DD")
		minStars    = flag.Int("min-stars", 10, "minimum stargazer count")
		maxResults  = flag.Int("max", 1000, "max repos collected per term")
		perPage     = flag.Int("per-page", 100, "search page size")
		outDir      = flag.String("out", "results/raw", "output directory")
		year        = flag.Int("year", time.Now().Year(), "calendar year for the commits_<year> column")
		delay       = flag.Duration("delay", 3*time.Second, "courtesy pause between search pages")
		enrich      = flag.Bool("enrich", true, "fetch per-repo commit and contributor counts")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	log := logger.Named("edgeminer-search")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	gh := cfg.Prefix("GITHUB_")
	tokens := gh.MayString("TOKENS", gh.MayString("TOKEN", ""))
	if tokens == "" {
		log.Warn().Msg("no GITHUB_TOKENS set, running with the tokenless quota")
	}

	client := github.NewClient(github.Options{
		TokensCSV:  tokens,
		Timeout:    gh.MayDuration("TIMEOUT", 30*time.Second),
		MaxRetries: gh.MayInt("MAX_RETRIES", 5),
	})

	pg := cfg.Prefix("PG_")
	st, err := store.Open(ctx, store.Config{
		Enabled:  pg.MayBool("ENABLED", false),
		URL:      pg.MayString("URL", ""),
		MaxConns: int32(pg.MayInt("MAX_CONNS", 2)),
	}, *log)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres store open failed")
	}
	defer st.Close()

	var termList []string
	for _, t := range strings.Split(*terms, ",") {
		if t = strings.TrimSpace(t); t != "" {
			termList = append(termList, t)
		}
	}

	out, err := miner.New(client, st, *log).Run(ctx, miner.Options{
		Terms:       termList,
		PushedAfter: *pushedAfter,
		MinStars:    *minStars,
		MaxResults:  *maxResults,
		PerPage:     *perPage,
		OutDir:      *outDir,
		CommitsYear: *year,
		PageDelay:   *delay,
		Enrich:      *enrich,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mining run failed")
	}
	log.Info().Str("file", out).Msg("done")
}
