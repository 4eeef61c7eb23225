package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/report"
)

var (
	exportKind string
	exportDate string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a report workbook (hourly, inputs, ot or the hourly entry template)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), memoryMode)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.preload(cmd.Context()); err != nil {
			return err
		}

		date := exportDate
		if date == "" {
			date = order.Today(a.loc)
		}
		if !order.ValidDate(date) {
			return fmt.Errorf("date %q must be YYYY-MM-DD", date)
		}
		data, name, err := renderExport(cmd.Context(), a, exportKind, date)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = filepath.Join(a.cfg.Report.Dir, name)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportKind, "kind", "hourly", "hourly, inputs, ot or template")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "report day, YYYY-MM-DD (default today)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default <report.dir>/<kind>_<date>.xlsx)")
}

func renderExport(ctx context.Context, a *app, kind, date string) ([]byte, string, error) {
	name := fmt.Sprintf("%s_%s.xlsx", kind, date)
	switch kind {
	case "hourly", "template":
		docs, err := a.production.ListByDate(ctx, date)
		if err != nil {
			return nil, "", err
		}
		if kind == "template" {
			data, err := report.HourlyTemplate(docs)
			return data, name, err
		}
		data, err := report.Hourly(date, docstore.Data(docs))
		return data, name, err
	case "inputs":
		docs, err := a.inputs.List(ctx, inputs.Filter{Date: date})
		if err != nil {
			return nil, "", err
		}
		data, err := report.Inputs(docstore.Data(docs))
		return data, name, err
	case "ot":
		docs, err := a.overtime.ListByDate(ctx, date)
		if err != nil {
			return nil, "", err
		}
		data, err := report.Overtime(date, docstore.Data(docs))
		return data, name, err
	}
	return nil, "", fmt.Errorf("unknown report kind %q", kind)
}
