package processing

import (
	"speedrun_pbs/internal/app"
)

var testDifficulty = app.Variable{
	ID:            "diff",
	Name:          "Difficulty",
	IsSubcategory: true,
	Values: app.VariableValues{Values: map[string]app.VariableValue{
		"easy": {Label: "Easy"},
		"hard": {Label: "Hard"},
	}},
}

// testCategory builds an embedded category carrying the difficulty subcategory
func testCategory(id, name string) *app.CategoryEmbed {
	return &app.CategoryEmbed{Data: &app.CategoryData{
		ID:        id,
		Name:      name,
		Variables: &app.VariablesEmbed{Data: []app.Variable{testDifficulty}},
	}}
}

// testPersonalBest builds a personal-best record; difficulty may be empty
func testPersonalBest(runID, gameID, gameName, categoryID, categoryName, difficulty string, primary float64) app.PersonalBest {
	var values app.Selections
	if difficulty != "" {
		values = app.Selections{{VariableID: "diff", ValueID: difficulty}}
	}
	return app.PersonalBest{
		Place: 1,
		Run: app.PersonalBestRun{
			BaseRun: app.BaseRun{
				ID:      runID,
				Weblink: "https://www.speedrun.com/run/" + runID,
				Game:    gameID,
				Times:   app.RunTimes{PrimaryT: primary},
				Values:  values,
			},
			Category: categoryID,
		},
		Game: &app.GameEmbed{Data: &app.GameData{
			ID:      gameID,
			Names:   app.Names{International: gameName},
			Weblink: "https://www.speedrun.com/" + gameID,
		}},
		Category: testCategory(categoryID, categoryName),
	}
}

// testHistoryRun builds a history entry for the given category
func testHistoryRun(runID, categoryID, categoryName, difficulty, status string, primary float64) app.HistoryRun {
	var values app.Selections
	if difficulty != "" {
		values = app.Selections{{VariableID: "diff", ValueID: difficulty}}
	}
	return app.HistoryRun{
		BaseRun: app.BaseRun{
			ID:      runID,
			Weblink: "https://www.speedrun.com/run/" + runID,
			Times:   app.RunTimes{PrimaryT: primary},
			Values:  values,
		},
		Category: testCategory(categoryID, categoryName),
		Status:   app.RunStatus{Status: status},
		Date:     "2024-03-01",
	}
}

// testUser returns the runner used across service tests
func testUser() *app.User {
	return &app.User{
		ID:      "u1",
		Names:   app.Names{International: "Runner One"},
		Weblink: "https://www.speedrun.com/user/RunnerOne",
	}
}
