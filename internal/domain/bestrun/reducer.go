package bestrun

import (
	"sort"
	"strconv"
	"strings"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/collation"
	"speedrun_pbs/internal/domain/subcategory"
)

// GroupKey identifies one logical personal-best entry within a game: a
// category plus the ordered subcategory value combination
type GroupKey struct {
	CategoryID  string
	Combination app.Combination
}

// identity encodes the key with length-prefixed parts so ids containing any
// separator character can never collide
func (k GroupKey) identity() string {
	var b strings.Builder
	writePart := func(part string) {
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	writePart(k.CategoryID)
	for _, id := range k.Combination {
		writePart(id)
	}
	return b.String()
}

// Equal reports whether two keys name the same logical entry
func (k GroupKey) Equal(other GroupKey) bool {
	return k.CategoryID == other.CategoryID && k.Combination.Equal(other.Combination)
}

// KeyOf returns the grouping key of a normalized run. The category id is the
// resolved one, so every run whose category is missing from categories
// groups under "".
func KeyOf(run app.Run, categories map[string]app.Category) GroupKey {
	return GroupKey{
		CategoryID:  categories[run.CategoryID].CategoryID,
		Combination: subcategory.CombinationOf(run.Subcategories),
	}
}

// Reduce collapses a game's runs to the fastest run per (category,
// combination) and returns the display rows sorted by category name then
// value names. On a primary-time tie the run seen first is kept. Runs with
// an unresolved category share the empty category id.
// Pure function: No I/O, does not modify its inputs
func Reduce(runs []app.Run, categories map[string]app.Category, subcategories map[string]app.Subcategory) []app.RunRow {
	best := make(map[string]app.Run)
	var order []string

	for _, run := range runs {
		id := KeyOf(run, categories).identity()
		current, seen := best[id]
		if !seen {
			order = append(order, id)
			best[id] = run
			continue
		}
		if run.Times.PrimaryTime < current.Times.PrimaryTime {
			best[id] = run
		}
	}

	rows := make([]app.RunRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, buildRow(best[id], categories, subcategories))
	}

	compare := collation.NewComparer()
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compare(rows[i].CategoryName, rows[j].CategoryName); c != 0 {
			return c < 0
		}
		return compare(rows[i].SubcategoryValueNames, rows[j].SubcategoryValueNames) < 0
	})

	return rows
}

// buildRow resolves display names for a run. An unresolved category renders
// as empty id and name; unresolved values are left out of the joined names.
func buildRow(run app.Run, categories map[string]app.Category, subcategories map[string]app.Subcategory) app.RunRow {
	category := categories[run.CategoryID]
	combination := subcategory.CombinationOf(run.Subcategories)

	names := make([]string, 0, len(run.Subcategories))
	for _, assignment := range run.Subcategories {
		name := subcategories[assignment.SubcategoryID].SubcategoryValues[assignment.SubcategoryValueID].SubcategoryValueName
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return app.RunRow{
		RunID:                 run.RunID,
		RunURL:                run.RunURL,
		Place:                 run.Place,
		Time:                  run.Times.PrimaryTime,
		CategoryID:            category.CategoryID,
		CategoryName:          category.CategoryName,
		SubcategoryValueIDs:   combination.String(),
		SubcategoryValueNames: strings.Join(names, ", "),
		Combination:           combination,
	}
}

// ReduceGames reduces every game in the normalized model, keyed by game id
func ReduceGames(data *app.RunData) map[string][]app.RunRow {
	result := make(map[string][]app.RunRow, len(data.RunsByGameID))
	for gameID, runs := range data.RunsByGameID {
		result[gameID] = Reduce(runs, data.CategoryLookup, data.SubcategoryLookup)
	}
	return result
}
