package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/robalobadob/craftle/internal/entropy"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	// Seed pins the entropy source; 0 means unset.
	Seed int64
}

// NewRootCommand creates the craftle command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "craftle",
		Short: "Craftle - guess the crafting recipe",
		Long:  "Backend for a daily crafting-recipe guessing game.",
	}
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "fixed random seed (overrides RANDOM_SEED)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAnalyzeCommand(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// source picks the entropy source: flag, then env seed, then crypto-seeded.
func (o *RootOptions) source(envSeed *int64) entropy.Source {
	switch {
	case o.Seed != 0:
		return entropy.New(o.Seed)
	case envSeed != nil:
		return entropy.New(*envSeed)
	default:
		return entropy.NewRandom()
	}
}
