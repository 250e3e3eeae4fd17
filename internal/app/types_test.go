package app

import (
	"encoding/json"
	"testing"
)

func TestSelectionsPreserveDocumentOrder(t *testing.T) {
	payload := `{"id":"run1","values":{"zvar":"v9","avar":"v1","mvar":"v5"}}`

	var run BaseRun
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []Selection{
		{VariableID: "zvar", ValueID: "v9"},
		{VariableID: "avar", ValueID: "v1"},
		{VariableID: "mvar", ValueID: "v5"},
	}

	if len(run.Values) != len(expected) {
		t.Fatalf("Expected %d selections, got %d", len(expected), len(run.Values))
	}
	for i, sel := range expected {
		if run.Values[i] != sel {
			t.Errorf("Selection %d: expected %+v, got %+v", i, sel, run.Values[i])
		}
	}
}

func TestSelectionsUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		expectLen int
		expectErr bool
	}{
		{"empty object", `{}`, 0, false},
		{"null", `null`, 0, false},
		{"array rejected", `["a","b"]`, 0, true},
		{"string rejected", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selections
			err := json.Unmarshal([]byte(tt.payload), &s)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error for %s", tt.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(s) != tt.expectLen {
				t.Errorf("Expected %d selections, got %d", tt.expectLen, len(s))
			}
		})
	}
}

func TestPersonalBestDecoding(t *testing.T) {
	payload := `{
		"place": 3,
		"run": {
			"id": "r1", "weblink": "https://www.speedrun.com/run/r1", "game": "g1", "level": null,
			"category": "c1",
			"times": {"primary": "PT1M5S", "primary_t": 65.25, "realtime_t": 65.25, "realtime_noloads_t": 0, "ingame_t": 0},
			"values": {"var1": "val1"}
		},
		"game": {"data": {"id": "g1", "names": {"international": "Mega Man X"}, "weblink": "https://www.speedrun.com/mmx"}},
		"category": {"data": {"id": "c1", "name": "Any%", "variables": {"data": [
			{"id": "var1", "name": "Difficulty", "is-subcategory": true,
			 "values": {"values": {"val1": {"label": "Easy"}, "val2": {"label": "Hard"}}, "default": "val1"}}
		]}}}
	}`

	var pb PersonalBest
	if err := json.Unmarshal([]byte(payload), &pb); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if pb.Place != 3 {
		t.Errorf("Expected place 3, got %d", pb.Place)
	}
	if pb.Run.Level != "" {
		t.Errorf("Expected null level to decode as empty, got '%s'", pb.Run.Level)
	}
	if pb.Run.Category != "c1" {
		t.Errorf("Expected category id c1, got '%s'", pb.Run.Category)
	}
	if pb.Run.Times.PrimaryT != 65.25 {
		t.Errorf("Expected primary_t 65.25, got %f", pb.Run.Times.PrimaryT)
	}
	if pb.Game == nil || pb.Game.Data == nil || pb.Game.Data.Names.International != "Mega Man X" {
		t.Fatalf("Expected embedded game, got %+v", pb.Game)
	}
	if pb.Category == nil || pb.Category.Data == nil || pb.Category.Data.Variables == nil {
		t.Fatalf("Expected embedded category with variables, got %+v", pb.Category)
	}
	variable := pb.Category.Data.Variables.Data[0]
	if !variable.IsSubcategory {
		t.Error("Expected is-subcategory to decode as true")
	}
	if variable.Values.Values["val2"].Label != "Hard" {
		t.Errorf("Expected value label 'Hard', got '%s'", variable.Values.Values["val2"].Label)
	}
}

func TestCombination(t *testing.T) {
	a := Combination{"v1", "v2"}

	if a.String() != "v1,v2" {
		t.Errorf("Expected 'v1,v2', got '%s'", a.String())
	}
	if Combination(nil).String() != "" {
		t.Errorf("Expected empty string for nil combination")
	}
	if !a.Equal(Combination{"v1", "v2"}) {
		t.Error("Expected equal combinations")
	}
	if a.Equal(Combination{"v2", "v1"}) {
		t.Error("Expected order to matter")
	}
	if a.Equal(Combination{"v1"}) {
		t.Error("Expected different lengths to differ")
	}
	if !Combination(nil).Equal(Combination{}) {
		t.Error("Expected nil and empty combinations to be equal")
	}
}

func TestRunRowLabel(t *testing.T) {
	row := RunRow{CategoryName: "Any%"}
	if row.Label() != "Any%" {
		t.Errorf("Expected 'Any%%', got '%s'", row.Label())
	}

	row.SubcategoryValueNames = "Easy, 2 Players"
	if row.Label() != "Any%: Easy, 2 Players" {
		t.Errorf("Expected 'Any%%: Easy, 2 Players', got '%s'", row.Label())
	}
}
