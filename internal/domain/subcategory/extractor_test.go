package subcategory

import (
	"fmt"
	"testing"

	"speedrun_pbs/internal/app"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func variable(id, name string, isSubcategory bool, labels map[string]string) app.Variable {
	values := make(map[string]app.VariableValue, len(labels))
	for valueID, label := range labels {
		values[valueID] = app.VariableValue{Label: label}
	}
	return app.Variable{
		ID:            id,
		Name:          name,
		IsSubcategory: isSubcategory,
		Values:        app.VariableValues{Values: values},
	}
}

func TestExtract(t *testing.T) {
	variables := []app.Variable{
		variable("diff", "Difficulty", true, map[string]string{"easy": "Easy", "hard": "Hard"}),
		variable("notes", "Notes", false, map[string]string{"x": "Free text"}),
		variable("plat", "Platform", true, map[string]string{"pc": "PC"}),
	}

	result := Extract(variables)

	if len(result) != 2 {
		t.Fatalf("Expected 2 subcategories, got %d", len(result))
	}
	if _, ok := result["notes"]; ok {
		t.Error("Expected non-subcategory variable to be omitted")
	}

	diff := result["diff"]
	if diff.SubcategoryName != "Difficulty" {
		t.Errorf("Expected name 'Difficulty', got '%s'", diff.SubcategoryName)
	}
	if diff.SubcategoryValues["hard"].SubcategoryValueName != "Hard" {
		t.Errorf("Expected value label 'Hard', got '%s'", diff.SubcategoryValues["hard"].SubcategoryValueName)
	}
	if diff.SubcategoryValues["hard"].SubcategoryValueID != "hard" {
		t.Errorf("Expected value id 'hard', got '%s'", diff.SubcategoryValues["hard"].SubcategoryValueID)
	}
}

func TestExtractLaterDefinitionWins(t *testing.T) {
	variables := []app.Variable{
		variable("diff", "Difficulty", true, map[string]string{"easy": "Easy", "hard": "Hard"}),
		variable("diff", "Mode", true, map[string]string{"normal": "Normal"}),
	}

	result := Extract(variables)

	diff := result["diff"]
	if diff.SubcategoryName != "Mode" {
		t.Errorf("Expected later definition name 'Mode', got '%s'", diff.SubcategoryName)
	}
	if len(diff.SubcategoryValues) != 1 {
		t.Errorf("Expected overwrite (1 value), not merge, got %d values", len(diff.SubcategoryValues))
	}
}

func TestExtractEmpty(t *testing.T) {
	if result := Extract(nil); len(result) != 0 {
		t.Errorf("Expected empty map, got %d entries", len(result))
	}
}

func TestAssignments(t *testing.T) {
	subcategories := Extract([]app.Variable{
		variable("diff", "Difficulty", true, map[string]string{"easy": "Easy"}),
		variable("plat", "Platform", true, map[string]string{"pc": "PC"}),
	})

	tests := []struct {
		name       string
		selections app.Selections
		expected   app.Combination
	}{
		{
			name: "declaration order kept",
			selections: app.Selections{
				{VariableID: "plat", ValueID: "pc"},
				{VariableID: "diff", ValueID: "easy"},
			},
			expected: app.Combination{"pc", "easy"},
		},
		{
			name: "non-subcategory dropped",
			selections: app.Selections{
				{VariableID: "notes", ValueID: "anything"},
				{VariableID: "diff", ValueID: "easy"},
			},
			expected: app.Combination{"easy"},
		},
		{
			name:       "no selections",
			selections: nil,
			expected:   app.Combination{},
		},
		{
			name: "unknown value id still kept",
			selections: app.Selections{
				{VariableID: "diff", ValueID: "nightmare"},
			},
			expected: app.Combination{"nightmare"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments := Assignments(subcategories, tt.selections)
			result := CombinationOf(assignments)
			if !result.Equal(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
			for _, assignment := range assignments {
				if _, ok := subcategories[assignment.SubcategoryID]; !ok {
					t.Errorf("Assignment %s is not a known subcategory", assignment.SubcategoryID)
				}
			}
		})
	}
}

func TestDerive(t *testing.T) {
	variables := []app.Variable{
		variable("diff", "Difficulty", true, map[string]string{"easy": "Easy"}),
		variable("seed", "Seed", false, nil),
	}
	selections := app.Selections{
		{VariableID: "seed", ValueID: "1234"},
		{VariableID: "diff", ValueID: "easy"},
	}

	result := Derive(variables, selections)

	if result.String() != "easy" {
		t.Errorf("Expected combination 'easy', got '%s'", result.String())
	}
}

// TestAssignmentsProperties uses property-based testing to verify the subcategory filter
func TestAssignmentsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: every kept assignment refers to a subcategory, and every subcategory selection is kept
	properties.Property("filter keeps exactly the subcategory selections", prop.ForAll(
		func(flags []bool) bool {
			var variables []app.Variable
			var selections app.Selections
			expected := 0
			for i, isSub := range flags {
				id := fmt.Sprintf("var%d", i)
				variables = append(variables, variable(id, id, isSub, map[string]string{"v": "V"}))
				selections = append(selections, app.Selection{VariableID: id, ValueID: fmt.Sprintf("val%d", i)})
				if isSub {
					expected++
				}
			}

			subcategories := Extract(variables)
			assignments := Assignments(subcategories, selections)
			if len(assignments) != expected {
				return false
			}
			for _, assignment := range assignments {
				if _, ok := subcategories[assignment.SubcategoryID]; !ok {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	// Property: derivation is deterministic
	properties.Property("derive is deterministic", prop.ForAll(
		func(ids []string) bool {
			var variables []app.Variable
			var selections app.Selections
			for i, id := range ids {
				variables = append(variables, variable(id, id, i%2 == 0, nil))
				selections = append(selections, app.Selection{VariableID: id, ValueID: id + "-value"})
			}
			return Derive(variables, selections).Equal(Derive(variables, selections))
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
