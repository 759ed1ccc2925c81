// Command edgeminer-analyze runs one analysis pipeline over a treated
// study CSV:
//
//	edgeminer-analyze domains      -input work.csv
//	edgeminer-analyze capabilities -input included.csv
//	edgeminer-analyze layers       -input sa_doc.csv
//	edgeminer-analyze coverage     -input sa_doc.csv -true-like
//	edgeminer-analyze likert       -input survey.csv -only-guidelines
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"edgeminer/internal/platform/logger"
	"edgeminer/internal/services/analyze"
)

func main() {
	logger.Init(logger.FromEnv())
	log := logger.Named("edgeminer-analyze")

	if len(os.Args) < 2 {
		usage()
	}
	pipeline := os.Args[1]
	args := os.Args[2:]

	fs := flag.NewFlagSet(pipeline, flag.ExitOnError)
	input := fs.String("input", "", "input CSV (required)")
	tables := fs.String("tables", "results/tables", "tables output directory")
	figs := fs.String("figs", "results/figs", "figures output directory")

	svc := analyze.New(*log)
	var err error

	switch pipeline {
	case "domains":
		column := fs.String("col", "domain", "domain column")
		idCol := fs.String("id-col", "", "repo id column (row index when empty)")
		topN := fs.Int("top", 0, "plot only the top N domains (0 = all)")
		parse(fs, args)
		err = svc.Domains(analyze.DomainsOptions{
			Input: *input, Column: *column, IDColumn: *idCol,
			TablesDir: *tables, FigsDir: *figs, TopN: *topN,
		})

	case "capabilities":
		parse(fs, args)
		err = svc.Capabilities(analyze.CapabilitiesOptions{
			Input: *input, TablesDir: *tables, FigsDir: *figs,
		})

	case "layers":
		parse(fs, args)
		err = svc.Layers(analyze.LayersOptions{
			Input: *input, TablesDir: *tables, FigsDir: *figs,
		})

	case "coverage":
		trueLike := fs.Bool("true-like", false, "count only true-like values instead of non-empty")
		columns := fs.String("cols", "", "comma separated columns (defaults to the documentation set)")
		out := fs.String("out", "results/tables/column_coverage.csv", "output CSV path")
		parse(fs, args)
		err = svc.Coverage(analyze.CoverageOptions{
			Input: *input, Columns: splitList(*columns), TrueLike: *trueLike, Out: *out,
		})

	case "likert":
		basename := fs.String("basename", "likert_overview", "base name for output files")
		onlyG := fs.Bool("only-guidelines", false, "keep only [Gxx] questions")
		shorten := fs.Bool("shorten-labels", false, "shorten questions to their guideline id")
		parse(fs, args)
		err = svc.Likert(analyze.LikertOptions{
			Input: *input, TablesDir: *tables, FigsDir: *figs,
			Basename: *basename, OnlyGuidelines: *onlyG, ShortenLabels: *shorten,
		})

	default:
		usage()
	}

	if err != nil {
		log.Fatal().Err(err).Str("pipeline", pipeline).Msg("analysis failed")
	}
	log.Info().Str("pipeline", pipeline).Msg("done")
}

func parse(fs *flag.FlagSet, args []string) {
	_ = fs.Parse(args)
	if fs.Lookup("input").Value.String() == "" {
		fmt.Fprintln(os.Stderr, "-input is required")
		fs.Usage()
		os.Exit(2)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: edgeminer-analyze <domains|capabilities|layers|coverage|likert> [flags]")
	os.Exit(2)
}
