package schedule

import (
	"testing"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func done() *models.UserMealItem    { return &models.UserMealItem{Status: models.ItemCompleted} }
func pending() *models.UserMealItem { return &models.UserMealItem{Status: models.ItemPending} }

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		byDay map[string][]*models.UserMealItem
		today string
		want  int
	}{
		{name: "empty history", byDay: nil, today: "2024-01-05", want: 0},
		{
			name: "all incomplete",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-04": {pending()},
				"2024-01-05": {pending(), pending()},
			},
			today: "2024-01-05",
			want:  0,
		},
		{
			name: "consecutive days ending today",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-03": {done()},
				"2024-01-04": {done(), done()},
				"2024-01-05": {done()},
			},
			today: "2024-01-05",
			want:  3,
		},
		{
			name: "future days are ignored",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-04": {done()},
				"2024-01-05": {done()},
				"2024-01-06": {pending()},
			},
			today: "2024-01-05",
			want:  2,
		},
		{
			name: "stops at partially completed day",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-02": {done()},
				"2024-01-03": {done(), pending()},
				"2024-01-04": {done()},
			},
			today: "2024-01-04",
			want:  1,
		},
		{
			name: "stops at empty day",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-03": {done()},
				"2024-01-04": {},
			},
			today: "2024-01-04",
			want:  0,
		},
		{
			name: "calendar gap ends streak",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-01": {done()},
				"2024-01-03": {done()},
				"2024-01-04": {done()},
			},
			today: "2024-01-04",
			want:  2,
		},
		{
			name: "today not yet planned starts from latest earlier day",
			byDay: map[string][]*models.UserMealItem{
				"2024-01-02": {done()},
				"2024-01-03": {done()},
			},
			today: "2024-01-04",
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.byDay, tt.today))
		})
	}
}
