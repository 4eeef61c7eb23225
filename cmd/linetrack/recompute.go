package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var repair bool

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute every stored section and report derived fields that drifted",
	Long: `recompute derives every stored section again from its raw inputs
(manpower, SMV, daily target and observed counts) and lists the sections
whose stored derived fields disagree. With --repair they are rewritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), memoryMode)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.preload(cmd.Context()); err != nil {
			return err
		}

		rep, err := a.production.Verify(cmd.Context(), repair)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "checked %d sections\n", rep.Checked)
		for _, id := range rep.Malformed {
			fmt.Fprintf(out, "malformed %s\n", id)
		}
		for _, d := range rep.Drifted {
			fmt.Fprintf(out, "drift #%d %s: %s\n", d.SlNo, d.ID, strings.Join(d.Fields, ", "))
		}
		if repair {
			fmt.Fprintf(out, "repaired %d\n", rep.Repaired)
		}
		if len(rep.Drifted) > rep.Repaired || len(rep.Malformed) > 0 {
			return fmt.Errorf("%d drifted, %d malformed", len(rep.Drifted)-rep.Repaired, len(rep.Malformed))
		}
		return nil
	},
}

func init() {
	recomputeCmd.Flags().BoolVar(&repair, "repair", false, "rewrite drifted sections")
}
