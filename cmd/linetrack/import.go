package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Spok95/linetrack/internal/report"
)

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Apply hourly counts from a filled-in entry template",
	Long: `import reads a workbook produced by "export --kind template", applies
every filled hour cell to its section and recomputes it. Each section is
applied as a whole; a bad cell rejects only the section it belongs to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(importPath)
		if err != nil {
			return err
		}
		bySection, err := report.ParseHourlyTemplate(data)
		if err != nil {
			return fmt.Errorf("%s: %w", importPath, err)
		}

		a, err := openApp(cmd.Context(), memoryMode)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.preload(cmd.Context()); err != nil {
			return err
		}

		ids := make([]string, 0, len(bySection))
		for id := range bySection {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		out := cmd.OutOrStdout()
		failed := 0
		for _, id := range ids {
			doc, err := a.production.SetObservations(cmd.Context(), id, bySection[id])
			if err != nil {
				failed++
				a.log.Error("import section failed", "id", id, "err", err)
				continue
			}
			fmt.Fprintf(out, "line %s #%d: %d cells, total output %d, efficiency %s%%\n",
				doc.Data.LineNumber, doc.SlNo, len(bySection[id]), doc.Data.TotalOutput, doc.Data.Efficiency.StringFixed(2))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d sections not imported", failed, len(ids))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importPath, "file", "", "filled-in template workbook")
	_ = importCmd.MarkFlagRequired("file")
}
