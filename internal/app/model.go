package app

import (
	"strings"
	"time"
)

// Game is a normalized game
type Game struct {
	GameID   string `json:"game_id"`
	GameName string `json:"game_name"`
	GameURL  string `json:"game_url"`
}

// Category is a normalized category; it belongs to exactly one game
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	GameID       string `json:"game_id"`
}

// Subcategory is a variable flagged is-subcategory with its selectable values
type Subcategory struct {
	SubcategoryID     string                      `json:"subcategory_id"`
	SubcategoryName   string                      `json:"subcategory_name"`
	SubcategoryValues map[string]SubcategoryValue `json:"subcategory_values"`
}

// SubcategoryValue is one selectable value of a subcategory
type SubcategoryValue struct {
	SubcategoryValueID   string `json:"subcategory_value_id"`
	SubcategoryValueName string `json:"subcategory_value_name"`
}

// RunSubcategory is one (subcategory, value) assignment on a run
type RunSubcategory struct {
	SubcategoryID      string `json:"subcategory_id"`
	SubcategoryValueID string `json:"subcategory_value_id"`
}

// Times holds a run's timings in seconds; 0 means not recorded
type Times struct {
	PrimaryTime     float64 `json:"primary_time"`
	RealTime        float64 `json:"real_time"`
	RealTimeNoLoads float64 `json:"real_time_no_loads"`
	InGameTime      float64 `json:"in_game_time"`
}

// Run is a normalized personal-best run
type Run struct {
	RunID         string           `json:"run_id"`
	GameID        string           `json:"game_id"`
	CategoryID    string           `json:"category_id"`
	UserID        string           `json:"user_id"`
	RunURL        string           `json:"run_url"`
	Place         int              `json:"place"`
	Times         Times            `json:"times"`
	Subcategories []RunSubcategory `json:"subcategories"`
}

// RunData is the normalized model built from one batch of personal bests.
// Every search builds a fresh instance.
type RunData struct {
	Games             []Game                 `json:"games"`
	GameLookup        map[string]Game        `json:"game_lookup"`
	CategoryLookup    map[string]Category    `json:"category_lookup"`
	SubcategoryLookup map[string]Subcategory `json:"subcategory_lookup"`
	RunsByGameID      map[string][]Run       `json:"runs_by_game_id"`
}

// Combination is an ordered list of subcategory value ids, in the order the
// run declared them
type Combination []string

// String joins the value ids with "," (the upstream-compatible wire form)
func (c Combination) String() string {
	return strings.Join(c, ",")
}

// Equal reports whether both combinations hold the same ids in the same order
func (c Combination) Equal(other Combination) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// RunRow is one summary-table row: the best run for a (category, combination)
type RunRow struct {
	RunID                 string      `json:"run_id"`
	RunURL                string      `json:"run_url"`
	Place                 int         `json:"place"`
	Time                  float64     `json:"time"`
	CategoryID            string      `json:"category_id"`
	CategoryName          string      `json:"category_name"`
	SubcategoryValueIDs   string      `json:"subcategory_value_ids"`
	SubcategoryValueNames string      `json:"subcategory_value_names"`
	Combination           Combination `json:"combination"`
}

// Label renders "Category" or "Category: Value, Value"
func (r RunRow) Label() string {
	if r.SubcategoryValueNames == "" {
		return r.CategoryName
	}
	return r.CategoryName + ": " + r.SubcategoryValueNames
}

// HistoryRow is one drill-down row of a runner's history for a summary row
type HistoryRow struct {
	RunID        string  `json:"run_id"`
	RunURL       string  `json:"run_url"`
	Time         float64 `json:"time"`
	Status       string  `json:"status"`
	Reason       string  `json:"reason,omitempty"`
	Date         string  `json:"date"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
}

// Runner identifies whose personal bests a report shows
type Runner struct {
	RunnerID   string `json:"runner_id"`
	RunnerName string `json:"runner_name"`
	RunnerURL  string `json:"runner_url"`
}

// Report is the presentation model handed to the CLI, sheets export and HTTP surface
type Report struct {
	Runner      Runner       `json:"runner"`
	GeneratedAt time.Time    `json:"generated_at"`
	GameCount   int          `json:"game_count"`
	Games       []GameReport `json:"games"`
}

// GameReport groups the summary rows of one game
type GameReport struct {
	Game          Game        `json:"game"`
	CategoriesRun int         `json:"categories_run"`
	Rows          []RowReport `json:"rows"`
}

// RowReport is a summary row plus its rendered time and optional history
type RowReport struct {
	RunRow
	DisplayLabel  string          `json:"label"`
	FormattedTime string          `json:"formatted_time"`
	History       []HistoryReport `json:"history,omitempty"`
}

// HistoryReport is a history row plus its rendered time and status
type HistoryReport struct {
	HistoryRow
	FormattedTime   string `json:"formatted_time"`
	FormattedStatus string `json:"formatted_status"`
}
