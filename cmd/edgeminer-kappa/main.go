// Command edgeminer-kappa computes inter-rater agreement.
//
// Pairwise mode takes repeated -group flags, each naming the target and
// its rater columns:
//
//	edgeminer-kappa pairwise -input Capabilities.csv \
//	  -group "capability_1=iso_mapping_cap_1 - [A]|iso_mapping_cap_1 - [B]|iso_mapping_cap_1 - [C]"
//
// Multilabel mode binarizes ISO 25010 quality labels from two coder
// columns:
//
//	edgeminer-kappa multilabel -input quality.csv -r1 QR_R1 -r2 QR_R2
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"edgeminer/internal/platform/logger"
	"edgeminer/internal/services/kappa"
)

// groupFlags collects repeated -group values
type groupFlags []kappa.Group

func (g *groupFlags) String() string { return fmt.Sprint(*g) }

func (g *groupFlags) Set(v string) error {
	name, raters, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("group %q: want name=colA|colB[|colC...]", v)
	}
	var cols []string
	for _, c := range strings.Split(raters, "|") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return fmt.Errorf("group %q: need at least two rater columns", name)
	}
	*g = append(*g, kappa.Group{Name: strings.TrimSpace(name), Raters: cols})
	return nil
}

func main() {
	logger.Init(logger.FromEnv())
	log := logger.Named("edgeminer-kappa")

	if len(os.Args) < 2 {
		usage()
	}
	mode := os.Args[1]
	args := os.Args[2:]

	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	input := fs.String("input", "", "input CSV (required)")

	svc := kappa.New(*log)
	var err error

	switch mode {
	case "pairwise":
		var groups groupFlags
		fs.Var(&groups, "group", "rating group as name=colA|colB[|colC...] (repeatable)")
		out := fs.String("out", "kappa_results.csv", "output CSV path")
		_ = fs.Parse(args)
		requireInput(fs, *input)
		err = svc.Pairwise(kappa.PairwiseOptions{Input: *input, Groups: groups, Out: *out})

	case "multilabel":
		r1 := fs.String("r1", "QR_R1", "first coder column")
		r2 := fs.String("r2", "QR_R2", "second coder column")
		out := fs.String("out", "multilabel_kappa.csv", "output CSV path")
		normalized := fs.String("normalized", "", "optional path for the normalized input copy")
		_ = fs.Parse(args)
		requireInput(fs, *input)
		err = svc.Multilabel(kappa.MultilabelOptions{
			Input: *input, R1: *r1, R2: *r2, Out: *out, Normalized: *normalized,
		})

	default:
		usage()
	}

	if err != nil {
		log.Fatal().Err(err).Str("mode", mode).Msg("agreement analysis failed")
	}
	log.Info().Str("mode", mode).Msg("done")
}

func requireInput(fs *flag.FlagSet, input string) {
	if input == "" {
		fmt.Fprintln(os.Stderr, "-input is required")
		fs.Usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: edgeminer-kappa <pairwise|multilabel> [flags]")
	os.Exit(2)
}
