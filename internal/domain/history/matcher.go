package history

import (
	"sort"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/subcategory"
)

// Match keeps the history entries whose re-derived subcategory combination
// equals target, sorted by primary time ascending. Individual-level entries
// and entries without an embedded category are skipped. No match yields an
// empty, non-nil slice.
// Pure function: No I/O, does not modify its inputs
func Match(entries []app.HistoryRun, target app.Combination) []app.HistoryRow {
	rows := []app.HistoryRow{}
	for _, entry := range entries {
		if entry.Level != "" {
			continue
		}
		if entry.Category == nil || entry.Category.Data == nil {
			continue
		}

		category := entry.Category.Data
		var variables []app.Variable
		if category.Variables != nil {
			variables = category.Variables.Data
		}

		if !subcategory.Derive(variables, entry.Values).Equal(target) {
			continue
		}

		rows = append(rows, app.HistoryRow{
			RunID:        entry.ID,
			RunURL:       entry.Weblink,
			Time:         entry.Times.PrimaryT,
			Status:       entry.Status.Status,
			Reason:       entry.Status.Reason,
			Date:         entry.Date,
			CategoryID:   category.ID,
			CategoryName: category.Name,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time < rows[j].Time
	})
	return rows
}
