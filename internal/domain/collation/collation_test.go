package collation

import "testing"

func TestNewComparer(t *testing.T) {
	compare := NewComparer()

	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"case insensitive equal", "any%", "Any%", 0},
		{"alphabetical", "Banjo-Kazooie", "celeste", -1},
		{"reverse alphabetical", "Zelda", "aladdin", 1},
		{"empty sorts first", "", "A", -1},
		{"identical", "Hard", "Hard", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compare(tt.a, tt.b)
			if sign(result) != tt.expected {
				t.Errorf("compare(%q, %q): expected %d, got %d", tt.a, tt.b, tt.expected, result)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
