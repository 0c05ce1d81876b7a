package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/infrastructure/export"

	"github.com/fatih/color"
)

func printReport(w io.Writer, r application.Report, top int) {
	fmt.Fprintf(w, "Base currency: %s\n", r.Base)
	fmt.Fprintf(w, "Last update:   %s\n\n", r.LastUpdate)

	head := r.Table.Head(top)
	fmt.Fprintf(w, "Top %d of %d rates:\n", len(head), r.Table.Len())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Currency\tRate")
	for _, rec := range head {
		fmt.Fprintf(tw, "%s\t%s\n", rec.Currency, export.FormatRate(rec.Rate))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)

	saved := 0
	for _, o := range r.Outcomes {
		if o.Result.Cancelled {
			fmt.Fprintf(w, "%s %s kept, nothing written\n", color.YellowString("cancelled"), o.Result.Path)
			continue
		}
		saved++
		fmt.Fprintf(w, "%s %s %s\n", color.GreenString("saved"), o.Target.Format, o.Result.Path)
	}
	if saved > 0 {
		fmt.Fprintf(w, "%d file(s) saved.\n", saved)
	}
}
