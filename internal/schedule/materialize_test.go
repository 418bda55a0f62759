package schedule

import (
	"testing"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildItemsLeavesUserNotesEmpty(t *testing.T) {
	day := &models.MealPlanDay{ID: primitive.NewObjectID(), DayNumber: 2}
	meal := &models.MealPlanMeal{
		ID:            primitive.NewObjectID(),
		MealPlanDayID: day.ID,
		MealType:      models.MealTypeLunch,
		Name:          "Lentil soup",
		Description:   "Warm and filling",
		Calories:      420,
		Notes:         "Soak the lentils overnight",
	}
	sched := &models.UserMealSchedule{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		StartDate: date(2024, 1, 1),
	}

	items, err := BuildItems(sched, []*models.MealPlanDay{day}, []*models.MealPlanMeal{meal}, nil, time.UTC, date(2024, 1, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Empty(t, item.Notes)
	assert.Equal(t, "Lentil soup", item.Name)
	assert.Equal(t, "Warm and filling", item.Description)
	assert.Equal(t, 420.0, item.Calories)
	assert.Equal(t, meal.ID, item.MealPlanMealID)
	assert.True(t, item.ID.IsZero())
	assert.True(t, date(2024, 1, 2).Equal(item.ScheduledDate))
}
