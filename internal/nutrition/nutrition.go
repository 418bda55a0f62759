// Package nutrition totals the macros of scheduled meal items
package nutrition

import (
	"math"

	"github.com/daiquydev/fedacn-sub001/internal/models"
)

// Totals is a calorie and macro sum
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add accumulates other into t
func (t *Totals) Add(other Totals) {
	t.Calories += other.Calories
	t.Protein += other.Protein
	t.Carbs += other.Carbs
	t.Fat += other.Fat
}

// Rounded returns t with every field rounded to one decimal
func (t Totals) Rounded() Totals {
	return Totals{
		Calories: round1(t.Calories),
		Protein:  round1(t.Protein),
		Carbs:    round1(t.Carbs),
		Fat:      round1(t.Fat),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// pick treats zero as "not set" and falls back to the recipe value
func pick(own, fallback float64) float64 {
	if own != 0 {
		return own
	}
	return fallback
}

// Of returns the nutrition of a single item
func Of(item *models.UserMealItem) Totals {
	t := Totals{
		Calories: item.Calories,
		Protein:  item.Protein,
		Carbs:    item.Carbs,
		Fat:      item.Fat,
	}
	if r := item.Recipe; r != nil {
		t.Calories = pick(t.Calories, r.Calories)
		t.Protein = pick(t.Protein, r.Protein)
		t.Carbs = pick(t.Carbs, r.Carbs)
		t.Fat = pick(t.Fat, r.Fat)
	}
	return t
}

// Sum totals every item
func Sum(items []*models.UserMealItem) Totals {
	var t Totals
	for _, item := range items {
		t.Add(Of(item))
	}
	return t
}

// SumCompleted totals only the items that were eaten
func SumCompleted(items []*models.UserMealItem) Totals {
	var t Totals
	for _, item := range items {
		if item.IsCompleted() {
			t.Add(Of(item))
		}
	}
	return t
}
