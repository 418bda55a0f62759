package nutrition

import (
	"testing"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSumEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, Sum(nil))
	assert.Equal(t, Totals{}, SumCompleted([]*models.UserMealItem{}))
}

func TestSumFallsBackToRecipe(t *testing.T) {
	items := []*models.UserMealItem{
		{Calories: 300, Protein: 20},
		{
			Calories: 0,
			Carbs:    15,
			Recipe:   &models.Recipe{Calories: 500, Protein: 30, Carbs: 60, Fat: 10},
		},
	}

	got := Sum(items)
	assert.Equal(t, Totals{Calories: 800, Protein: 50, Carbs: 15, Fat: 10}, got)
}

func TestSumOrderIndependent(t *testing.T) {
	a := &models.UserMealItem{Calories: 120, Protein: 4, Carbs: 20, Fat: 2}
	b := &models.UserMealItem{Recipe: &models.Recipe{Calories: 250, Protein: 18, Carbs: 5, Fat: 12}}
	c := &models.UserMealItem{Calories: 75, Fat: 1}

	assert.Equal(t, Sum([]*models.UserMealItem{a, b, c}), Sum([]*models.UserMealItem{c, a, b}))
}

func TestSumCompletedOnlyCountsEaten(t *testing.T) {
	items := []*models.UserMealItem{
		{Calories: 100, Status: models.ItemCompleted},
		{Calories: 200, Status: models.ItemPending},
		{Calories: 400, Status: models.ItemSkipped},
	}
	assert.Equal(t, 100.0, SumCompleted(items).Calories)
	assert.Equal(t, 700.0, Sum(items).Calories)
}

func TestRounded(t *testing.T) {
	got := Totals{Calories: 100.26, Protein: 3.04, Carbs: 0.05, Fat: 9.99}.Rounded()
	assert.Equal(t, Totals{Calories: 100.3, Protein: 3, Carbs: 0.1, Fat: 10}, got)
}
