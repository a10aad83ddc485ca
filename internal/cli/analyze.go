package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/craftle/internal/eligibility"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/recipes"
)

// AnalyzeOptions configures the analyze command.
type AnalyzeOptions struct {
	Out    string
	Format string // "json" | "yaml"; empty follows the output extension
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [recipes-file]",
		Short: "Compute gamemode eligibility for a recipe catalog",
		Long: `Normalize a recipe catalog, compute the gamemodes each group supports
and write the catalog back with enabledGamemodes filled in.

Without a file argument the embedded catalog is analyzed. Output goes to
--out, or stdout; a per-mode summary goes to stderr.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ""
			if len(args) == 1 {
				in = args[0]
			}
			return runAnalyze(rootOpts, opts, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (json|yaml)")
	return cmd
}

func runAnalyze(rootOpts *RootOptions, opts *AnalyzeOptions, in string, stdout, stderr io.Writer) error {
	format, err := outputFormat(opts)
	if err != nil {
		return err
	}
	raw, err := loadRecipes(in)
	if err != nil {
		return err
	}
	cat, traits, err := eligibility.Build(raw, rootOpts.source(nil))
	if err != nil {
		return err
	}
	for _, g := range cat.Groups() {
		tr := traits[g.Key]
		log.Debug().
			Str("group", g.Key).
			Ints("modes", modeInts(g.Modes())).
			Bool("selfCraft", tr.SelfCraft).
			Bool("compact", tr.Compact).
			Int("graphSize", tr.GraphSize).
			Msg("classified")
	}

	b, err := recipes.Encode(recipes.ToRaw(cat.Groups()), format)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if opts.Out == "" {
		_, err = stdout.Write(b)
	} else {
		err = os.WriteFile(opts.Out, b, 0o644)
	}
	if err != nil {
		return err
	}
	writeSummary(stderr, cat)
	return nil
}

func outputFormat(opts *AnalyzeOptions) (recipes.Format, error) {
	switch opts.Format {
	case "":
		return recipes.FormatFor(opts.Out), nil
	case "json":
		return recipes.JSON, nil
	case "yaml":
		return recipes.YAML, nil
	default:
		return 0, fmt.Errorf("invalid format %q: must be json or yaml", opts.Format)
	}
}

func writeSummary(w io.Writer, cat *recipes.Catalog) {
	fmt.Fprintf(w, "%d groups\n", len(cat.Keys()))
	for _, m := range gamemode.All {
		fmt.Fprintf(w, "  %d %-10s %d\n", m, m.String(), len(cat.EligibleGroups(m)))
	}
}

func modeInts(s gamemode.Set) []int {
	out := make([]int, len(s))
	for i, m := range s {
		out[i] = int(m)
	}
	return out
}
