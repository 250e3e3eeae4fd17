package services

import (
	"fmt"
	"io"
	"text/tabwriter"

	"speedrun_pbs/internal/app"
)

// WriteReportText prints the report as aligned tables, one per game, with
// any expanded history indented under its row
func WriteReportText(w io.Writer, report *app.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s (%s)\n", report.Runner.RunnerName, report.Runner.RunnerURL)
	fmt.Fprintf(tw, "Total Games Run: %d\n", report.GameCount)

	for _, game := range report.Games {
		fmt.Fprintf(tw, "\n%s\t%d categories\n", game.Game.GameName, game.CategoriesRun)
		fmt.Fprintln(tw, "Category\tTime\tPlace\tRun")
		for _, row := range game.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", row.DisplayLabel, row.FormattedTime, row.Place, row.RunURL)
			for _, entry := range row.History {
				status := entry.FormattedStatus
				if entry.Reason != "" {
					status += ": " + entry.Reason
				}
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", entry.Date, entry.FormattedTime, status, entry.RunURL)
			}
		}
	}

	return tw.Flush()
}
