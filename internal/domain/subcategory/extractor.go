package subcategory

import "speedrun_pbs/internal/app"

// Extract returns the variables flagged is-subcategory keyed by variable id.
// A later variable with the same id replaces the earlier one.
// Pure function: No I/O, returns new map without modifying input
func Extract(variables []app.Variable) map[string]app.Subcategory {
	subcategories := make(map[string]app.Subcategory)
	for _, variable := range variables {
		if !variable.IsSubcategory {
			continue
		}

		values := make(map[string]app.SubcategoryValue, len(variable.Values.Values))
		for valueID, value := range variable.Values.Values {
			values[valueID] = app.SubcategoryValue{
				SubcategoryValueID:   valueID,
				SubcategoryValueName: value.Label,
			}
		}

		subcategories[variable.ID] = app.Subcategory{
			SubcategoryID:     variable.ID,
			SubcategoryName:   variable.Name,
			SubcategoryValues: values,
		}
	}
	return subcategories
}

// Assignments keeps the run's selections whose variable is a known
// subcategory, in the order the run declared them. Free-form and other
// non-subcategory variables are dropped.
// Pure function: No I/O, returns new slice without modifying input
func Assignments(subcategories map[string]app.Subcategory, selections app.Selections) []app.RunSubcategory {
	assignments := []app.RunSubcategory{}
	for _, selection := range selections {
		if _, ok := subcategories[selection.VariableID]; !ok {
			continue
		}
		assignments = append(assignments, app.RunSubcategory{
			SubcategoryID:      selection.VariableID,
			SubcategoryValueID: selection.ValueID,
		})
	}
	return assignments
}

// CombinationOf returns the ordered value ids of a run's assignments
func CombinationOf(assignments []app.RunSubcategory) app.Combination {
	combination := make(app.Combination, 0, len(assignments))
	for _, assignment := range assignments {
		combination = append(combination, assignment.SubcategoryValueID)
	}
	return combination
}

// Derive is the single derivation shared by normalization and history
// matching: category variables plus a run's selections yield the run's
// ordered subcategory value combination.
func Derive(variables []app.Variable, selections app.Selections) app.Combination {
	return CombinationOf(Assignments(Extract(variables), selections))
}
