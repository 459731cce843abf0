package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/report"
	"github.com/xiy/reflective-mcp/internal/rhythm"
	"github.com/xiy/reflective-mcp/internal/taxonomy"
)

var (
	outputFormat string
	phaseOffset  float64
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the reference tables, canonical states, archetypes and presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mode, err := report.ParseMode(outputFormat)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := report.Taxonomy(out, taxonomy.All(), mode); err != nil {
			return err
		}
		return report.Morphospace(out, morphospace.States.All(), morphospace.Archetypes.All(), rhythm.Presets.All(), mode)
	},
}

var rhythmCmd = &cobra.Command{
	Use:       "rhythm <preset>",
	Short:     "Plot and tabulate the sequence of a rhythmic preset",
	Args:      cobra.ExactArgs(1),
	ValidArgs: rhythm.Presets.IDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := report.ParseMode(outputFormat)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		seq, err := rhythm.NewGenerator(cfg.DriftSeed).ApplyPreset(args[0], phaseOffset)
		if err != nil {
			return fmt.Errorf("apply preset: %w", err)
		}
		return report.Sequence(cmd.OutOrStdout(), args[0], seq, mode)
	},
}

func init() {
	for _, c := range []*cobra.Command{taxonomyCmd, rhythmCmd} {
		c.Flags().StringVar(&outputFormat, "format", "table", "output format: table or markdown")
	}
	rhythmCmd.Flags().Float64Var(&phaseOffset, "phase-offset", 0, "phase offset in cycles")
}
