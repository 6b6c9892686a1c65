package cli

import (
	"github.com/spf13/pflag"

	"github.com/danieljhkim/corpussplit/internal/config"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// partitionOptions are the flags that choose how a corpus is divided.
type partitionOptions struct {
	percentages string
	seed        int64
	exclude     []string
}

func (o *partitionOptions) register(flags *pflag.FlagSet) {
	flags.StringVarP(&o.percentages, "percentages", "p", "", "Partition fractions, e.g. 0.7,0.2,0.1 or [0.7,0.2,0.1]")
	flags.Int64Var(&o.seed, "seed", 0, "Seed for the deterministic sequencer")
	flags.StringArrayVar(&o.exclude, "exclude", nil, "Glob of entries to leave in place (repeatable)")
}

// resolve applies the flags that were set on top of split and returns the
// fractions, seed and exclusion filter to use.
func (o *partitionOptions) resolve(flags *pflag.FlagSet, split config.SplitConfig, exclude []string) ([]float64, int64, *planner.Filter, error) {
	fractions := split.Percentages
	if flags.Changed("percentages") {
		parsed, err := config.ParsePercentages(o.percentages)
		if err != nil {
			return nil, 0, nil, err
		}
		fractions = parsed
	}

	seed := split.Seed
	if flags.Changed("seed") {
		seed = o.seed
	}

	patterns := append(append([]string(nil), exclude...), o.exclude...)
	filter, err := planner.NewFilter(patterns)
	if err != nil {
		return nil, 0, nil, err
	}
	return fractions, seed, filter, nil
}

// executionOptions are the flags that choose how a plan is carried out.
type executionOptions struct {
	direct   bool
	verify   bool
	dryRun   bool
	manifest string
}

func (o *executionOptions) register(flags *pflag.FlagSet, withVerify bool) {
	flags.BoolVar(&o.direct, "direct", false, "Apply operations in place without staging or rollback")
	if withVerify {
		flags.BoolVar(&o.verify, "verify", false, "Verify staged trees and copies before committing")
	}
	flags.BoolVarP(&o.dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	flags.StringVar(&o.manifest, "manifest", "", "Write a JSON manifest of the run to this file")
}

// resolve merges the flags with the configured defaults.
func (o *executionOptions) resolve(flags *pflag.FlagSet, cfg *config.Config) (direct, verify bool) {
	direct = cfg.Direct
	if flags.Changed("direct") {
		direct = o.direct
	}
	verify = cfg.Verify
	if flags.Changed("verify") {
		verify = o.verify
	}
	return direct, verify
}
