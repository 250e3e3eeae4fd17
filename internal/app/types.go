package app

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// UserResponse represents the response from /users/{name}
type UserResponse struct {
	Data User `json:"data"`
}

// User represents a speedrun.com user
type User struct {
	ID      string `json:"id"`
	Names   Names  `json:"names"`
	Weblink string `json:"weblink"`
}

// Names holds the localized display names the API returns for users and games
type Names struct {
	International string `json:"international"`
	Japanese      string `json:"japanese"`
	Twitch        string `json:"twitch"`
}

// PersonalBestsResponse represents the response from /users/{id}/personal-bests
type PersonalBestsResponse struct {
	Data []PersonalBest `json:"data"`
}

// PersonalBest represents one personal-best record with its game and category embedded
type PersonalBest struct {
	Place    int             `json:"place"`
	Run      PersonalBestRun `json:"run"`
	Game     *GameEmbed      `json:"game"`
	Category *CategoryEmbed  `json:"category"`
}

// PersonalBestRun is the run inside a personal-best record. Category is a bare id here.
type PersonalBestRun struct {
	BaseRun
	Category string `json:"category"`
}

// BaseRun holds the fields shared by personal-best runs and run-history entries
type BaseRun struct {
	ID      string     `json:"id"`
	Weblink string     `json:"weblink"`
	Game    string     `json:"game"`
	Level   string     `json:"level"`
	Times   RunTimes   `json:"times"`
	Values  Selections `json:"values"`
}

// RunTimes represents the time block of a run; *_t fields are seconds
type RunTimes struct {
	Primary          string  `json:"primary"`
	PrimaryT         float64 `json:"primary_t"`
	Realtime         string  `json:"realtime"`
	RealtimeT        float64 `json:"realtime_t"`
	RealtimeNoloads  string  `json:"realtime_noloads"`
	RealtimeNoloadsT float64 `json:"realtime_noloads_t"`
	Ingame           string  `json:"ingame"`
	IngameT          float64 `json:"ingame_t"`
}

// Selection is one variable-id -> value-id pair chosen on a run
type Selection struct {
	VariableID string
	ValueID    string
}

// Selections is the run's "values" object kept in document order.
// encoding/json would decode it into a map and lose the order, which the
// best-run grouping key depends on.
type Selections []Selection

// UnmarshalJSON decodes a JSON object of variable-id -> value-id in document order
func (s *Selections) UnmarshalJSON(data []byte) error {
	result := gjson.ParseBytes(data)
	if result.Type == gjson.Null {
		*s = nil
		return nil
	}
	if !result.IsObject() {
		return fmt.Errorf("values: expected object, got %s", result.Type)
	}

	selections := Selections{}
	result.ForEach(func(key, value gjson.Result) bool {
		selections = append(selections, Selection{
			VariableID: key.String(),
			ValueID:    value.String(),
		})
		return true
	})

	*s = selections
	return nil
}

// GameEmbed wraps the embedded game ("embed=game")
type GameEmbed struct {
	Data *GameData `json:"data"`
}

// GameData represents a game as returned by the API
type GameData struct {
	ID      string `json:"id"`
	Names   Names  `json:"names"`
	Weblink string `json:"weblink"`
}

// CategoryEmbed wraps the embedded category ("embed=category.variables")
type CategoryEmbed struct {
	Data *CategoryData `json:"data"`
}

// CategoryData represents a category with its variables embedded
type CategoryData struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Weblink   string          `json:"weblink"`
	Variables *VariablesEmbed `json:"variables"`
}

// VariablesEmbed wraps the embedded variable list
type VariablesEmbed struct {
	Data []Variable `json:"data"`
}

// Variable represents a category variable. Only variables flagged
// is-subcategory partition personal bests.
type Variable struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Mandatory     bool           `json:"mandatory"`
	IsSubcategory bool           `json:"is-subcategory"`
	Values        VariableValues `json:"values"`
}

// VariableValues holds the selectable values of a variable keyed by value id
type VariableValues struct {
	Values  map[string]VariableValue `json:"values"`
	Default string                   `json:"default"`
}

// VariableValue is a selectable value's display data
type VariableValue struct {
	Label string `json:"label"`
	Rules string `json:"rules"`
}

// RunsResponse represents the response from /runs
type RunsResponse struct {
	Data       []HistoryRun `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// Pagination represents the pagination block of list responses
type Pagination struct {
	Offset int `json:"offset"`
	Max    int `json:"max"`
	Size   int `json:"size"`
	Links  []struct {
		Rel string `json:"rel"`
		URI string `json:"uri"`
	} `json:"links"`
}

// HistoryRun represents one entry of a runner's run history. The endpoint
// re-embeds the category on every entry.
type HistoryRun struct {
	BaseRun
	Category *CategoryEmbed `json:"category"`
	Status   RunStatus      `json:"status"`
	Date     string         `json:"date"`
}

// RunStatus represents the verification status of a run
type RunStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
