package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreKeys(t *testing.T) {
	pantry := NewPantryKeys([]string{"salt", "flour"})

	tests := []struct {
		name string
		keys []string
		want Score
	}{
		{"partial", []string{"salt", "flour", "egg"}, Score{Ready: false, Have: 2, Total: 3}},
		{"all present", []string{"salt", "flour"}, Score{Ready: true, Have: 2, Total: 2}},
		{"empty recipe is ready", nil, Score{Ready: true, Have: 0, Total: 0}},
		{"duplicates counted", []string{"salt", "salt", "egg"}, Score{Ready: false, Have: 2, Total: 3}},
		{"none present", []string{"egg"}, Score{Ready: false, Have: 0, Total: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreKeys(tt.keys, pantry))
		})
	}
}

func TestEvaluateSummaryAndBadge(t *testing.T) {
	pantry := NewPantryKeys([]string{"salt", "flour"})

	r := Evaluate([]string{"salt", "flour", "egg"}, []string{"Salt", "Flour", "Egg"}, pantry)
	assert.Equal(t, 1, r.MissingCount)
	assert.Equal(t, []string{"Egg"}, r.MissingDisplay)
	assert.Equal(t, "Missing Egg", r.Summary)
	assert.Equal(t, "Missing 1", r.Badge)

	r = Evaluate([]string{"salt"}, []string{"Salt"}, pantry)
	assert.True(t, r.Ready)
	assert.Empty(t, r.MissingDisplay)
	assert.Equal(t, "All ingredients available.", r.Summary)
	assert.Equal(t, "Ready to Cook", r.Badge)

	r = Evaluate(nil, nil, pantry)
	assert.Equal(t, "All ingredients available.", r.Summary)
	assert.Equal(t, "Ready to Cook", r.Badge)
}

func TestMissingSummaryJoining(t *testing.T) {
	tests := []struct {
		missing []string
		want    string
	}{
		{[]string{"A"}, "Missing A"},
		{[]string{"A", "B"}, "Missing A and B"},
		{[]string{"A", "B", "C"}, "Missing A, B, and C"},
		{[]string{"A", "B", "C", "D", "E", "F"}, "Missing A, B, C, D, E, and F"},
		{[]string{"A", "B", "C", "D", "E", "F", "G"}, "Missing A, B, C, D, E, and F …"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, missingSummary(tt.missing))
	}
}

func TestEvaluateKeepsRecipeOrder(t *testing.T) {
	keys := []string{"egg", "salt", "milk", "egg"}
	displays := []string{"Egg", "Salt", "Milk", "Egg"}
	r := Evaluate(keys, displays, NewPantryKeys([]string{"salt"}))

	assert.Equal(t, []string{"Egg", "Milk", "Egg"}, r.MissingDisplay)
	assert.Equal(t, 3, r.MissingCount)
	assert.Equal(t, "Missing 3", r.Badge)
}
