package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Spok95/linetrack/internal/seed"
)

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load employees, inputs, breakdowns, sections and OT lists from YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), memoryMode)
		if err != nil {
			return err
		}
		defer a.Close()
		c, err := seedFile(cmd.Context(), a, seedPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "employees %d, inputs %d, breakdowns %d, sections %d, ot lists %d\n",
			c.Employees, c.Inputs, c.Breakdowns, c.Sections, c.OTLists)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "file", "config/fixtures.example.yaml", "fixtures YAML")
}

func seedFile(ctx context.Context, a *app, path string) (seed.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return seed.Counts{}, err
	}
	defer func() { _ = f.Close() }()
	fx, err := seed.Load(f)
	if err != nil {
		return seed.Counts{}, fmt.Errorf("%s: %w", path, err)
	}
	return seed.Apply(ctx, a.seedTargets(), fx)
}

// preload applies --preload, mostly useful together with --memory.
func (a *app) preload(ctx context.Context) error {
	if preloadFile == "" {
		return nil
	}
	c, err := seedFile(ctx, a, preloadFile)
	if err != nil {
		return err
	}
	a.log.Info("fixtures loaded", "file", preloadFile, "sections", c.Sections, "ot_lists", c.OTLists)
	return nil
}
