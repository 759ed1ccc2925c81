// Command edgeminer-dataset runs the treatment pipeline over raw mining
// exports: concatenate, deduplicate, keep English descriptions, apply
// the exclusion terms
package main

import (
	"flag"
	"strings"

	"edgeminer/internal/platform/logger"
	"edgeminer/internal/services/treatment"
)

func main() {
	var (
		in      = flag.String("in", "", "comma separated raw CSV files (required)")
		outDir  = flag.String("out", "results/dataset", "output directory")
		descCol = flag.String("desc-col", "desc.", "description column for the language filter")
		exclude = flag.String("exclude", "", "extra comma separated exclusion terms")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	log := logger.Named("edgeminer-dataset")

	var inputs []string
	for _, p := range strings.Split(*in, ",") {
		if p = strings.TrimSpace(p); p != "" {
			inputs = append(inputs, p)
		}
	}
	var extra []string
	for _, t := range strings.Split(*exclude, ",") {
		if t = strings.TrimSpace(t); t != "" {
			extra = append(extra, strings.ToLower(t))
		}
	}

	res, err := treatment.New(*log).Run(treatment.Options{
		Inputs:     inputs,
		OutDir:     *outDir,
		DescColumn: *descCol,
		ExtraTerms: extra,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("treatment failed")
	}
	for _, st := range res.Stages {
		log.Info().Str("stage", st.Name).Int("rows", st.Rows).Str("file", st.Path).Msg("stage summary")
	}
}
