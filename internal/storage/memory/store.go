// Package memory implements the storage repositories in process memory.
// It backs STORAGE_DRIVER=memory for local runs and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// table is an insertion-ordered collection of documents keyed by id.
// Documents are copied on the way in and out so callers never share state
// with the store.
type table[T any] struct {
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{docs: make(map[primitive.ObjectID]*T)}
}

func (t *table[T]) put(id primitive.ObjectID, doc *T) {
	if _, ok := t.docs[id]; !ok {
		t.order = append(t.order, id)
	}
	c := *doc
	t.docs[id] = &c
}

func (t *table[T]) get(id primitive.ObjectID) (*T, bool) {
	doc, ok := t.docs[id]
	if !ok {
		return nil, false
	}
	c := *doc
	return &c, true
}

func (t *table[T]) filter(keep func(*T) bool) []*T {
	var out []*T
	for _, id := range t.order {
		if doc := t.docs[id]; keep(doc) {
			c := *doc
			out = append(out, &c)
		}
	}
	return out
}

func (t *table[T]) find(match func(*T) bool) (*T, bool) {
	for _, id := range t.order {
		if doc := t.docs[id]; match(doc) {
			c := *doc
			return &c, true
		}
	}
	return nil, false
}

func (t *table[T]) remove(match func(*T) bool) int64 {
	var n int64
	kept := t.order[:0]
	for _, id := range t.order {
		if match(t.docs[id]) {
			delete(t.docs, id)
			n++
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
	return n
}

func paginate[T any](docs []*T, page storage.Page) []*T {
	if page.Limit <= 0 {
		return docs
	}
	start := page.Skip()
	if start >= len(docs) {
		return []*T{}
	}
	end := start + page.Limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end]
}

func newID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Store holds every collection behind one mutex
type Store struct {
	mu sync.Mutex

	plans     *table[models.MealPlan]
	days      *table[models.MealPlanDay]
	meals     *table[models.MealPlanMeal]
	recipes   *table[models.Recipe]
	schedules *table[models.UserMealSchedule]
	items     *table[models.UserMealItem]
	likes     *table[models.Like]
	bookmarks *table[models.Bookmark]
	ratings   *table[models.Rating]
	reports   *table[models.Report]
	invites   *table[models.Invite]
	comments  *table[models.Comment]
	notifs    *table[models.Notification]
	follows   *table[models.Follow]
	users     *table[models.User]
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		plans:     newTable[models.MealPlan](),
		days:      newTable[models.MealPlanDay](),
		meals:     newTable[models.MealPlanMeal](),
		recipes:   newTable[models.Recipe](),
		schedules: newTable[models.UserMealSchedule](),
		items:     newTable[models.UserMealItem](),
		likes:     newTable[models.Like](),
		bookmarks: newTable[models.Bookmark](),
		ratings:   newTable[models.Rating](),
		reports:   newTable[models.Report](),
		invites:   newTable[models.Invite](),
		comments:  newTable[models.Comment](),
		notifs:    newTable[models.Notification](),
		follows:   newTable[models.Follow](),
		users:     newTable[models.User](),
	}
}

// Repositories exposes the store through the storage interfaces
func (s *Store) Repositories() *storage.Store {
	return &storage.Store{
		Plans:         s,
		Recipes:       s,
		Schedules:     s,
		Engagement:    s,
		Comments:      s,
		Notifications: s,
		Follows:       s,
		Users:         s,
	}
}

/* ─── Meal plans ─────────────────────────────────────────────────────── */

func (s *Store) CreatePlan(_ context.Context, plan *models.MealPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID(&plan.ID)
	s.plans.put(plan.ID, plan)
	return nil
}

func (s *Store) FindPlan(_ context.Context, id primitive.ObjectID) (*models.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans.get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return plan, nil
}

func (s *Store) ListPlans(_ context.Context, filter storage.PlanFilter) ([]*models.MealPlan, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	plans := s.plans.filter(func(p *models.MealPlan) bool {
		if filter.PublicOnly && !p.IsPublic() {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			return false
		}
		if filter.IDs != nil && !containsID(filter.IDs, p.ID) {
			return false
		}
		return true
	})

	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]
		switch filter.Sort {
		case storage.SortPopular:
			if a.LikesCount != b.LikesCount {
				return a.LikesCount > b.LikesCount
			}
			if a.AppliedCount != b.AppliedCount {
				return a.AppliedCount > b.AppliedCount
			}
		case storage.SortRating:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return paginate(plans, filter.Page), int64(len(plans)), nil
}

func (s *Store) UpdatePlan(_ context.Context, plan *models.MealPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.plans.get(plan.ID)
	if !ok {
		return storage.ErrNotFound
	}
	stored.Title = plan.Title
	stored.Description = plan.Description
	stored.Image = plan.Image
	stored.Category = plan.Category
	stored.DifficultyLevel = plan.DifficultyLevel
	stored.TargetCalories = plan.TargetCalories
	stored.DurationDays = plan.DurationDays
	stored.Tags = append([]string(nil), plan.Tags...)
	stored.Status = plan.Status
	stored.UpdatedAt = plan.UpdatedAt
	s.plans.put(plan.ID, stored)
	return nil
}

func (s *Store) DeletePlan(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plans.remove(func(p *models.MealPlan) bool { return p.ID == id }) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) IncrementCounter(_ context.Context, id primitive.ObjectID, counter models.PlanCounter, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans.get(id)
	if !ok {
		return nil
	}

	var field *int
	switch counter {
	case models.CounterLikes:
		field = &plan.LikesCount
	case models.CounterComments:
		field = &plan.CommentsCount
	case models.CounterBookmarks:
		field = &plan.BookmarksCount
	case models.CounterApplied:
		field = &plan.AppliedCount
	default:
		return nil
	}
	if *field+delta < 0 {
		return nil
	}
	*field += delta
	plan.UpdatedAt = time.Now()
	s.plans.put(id, plan)
	return nil
}

func (s *Store) SetRating(_ context.Context, id primitive.ObjectID, rating float64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans.get(id)
	if !ok {
		return storage.ErrNotFound
	}
	plan.Rating = rating
	plan.RatingCount = count
	plan.UpdatedAt = time.Now()
	s.plans.put(id, plan)
	return nil
}

func (s *Store) CreateDays(_ context.Context, days []*models.MealPlanDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range days {
		newID(&d.ID)
		stored := *d
		stored.Meals = nil
		s.days.put(d.ID, &stored)
	}
	return nil
}

func (s *Store) FindDays(_ context.Context, planID primitive.ObjectID) ([]*models.MealPlanDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := s.days.filter(func(d *models.MealPlanDay) bool { return d.MealPlanID == planID })
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days, nil
}

func (s *Store) DeleteDays(_ context.Context, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days.remove(func(d *models.MealPlanDay) bool { return d.MealPlanID == planID })
	return nil
}

func (s *Store) CreateMeals(_ context.Context, meals []*models.MealPlanMeal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range meals {
		newID(&m.ID)
		stored := *m
		stored.Recipe = nil
		s.meals.put(m.ID, &stored)
	}
	return nil
}

func (s *Store) FindMeals(_ context.Context, planID primitive.ObjectID) ([]*models.MealPlanMeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meals := s.meals.filter(func(m *models.MealPlanMeal) bool { return m.MealPlanID == planID })
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].MealOrder < meals[j].MealOrder })
	return meals, nil
}

func (s *Store) DeleteMeals(_ context.Context, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals.remove(func(m *models.MealPlanMeal) bool { return m.MealPlanID == planID })
	return nil
}

/* ─── Recipes ────────────────────────────────────────────────────────── */

func (s *Store) CreateRecipe(_ context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID(&recipe.ID)
	s.recipes.put(recipe.ID, recipe)
	return nil
}

func (s *Store) FindRecipes(_ context.Context, ids []primitive.ObjectID) ([]*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipes.filter(func(r *models.Recipe) bool { return containsID(ids, r.ID) }), nil
}

/* ─── Schedules and items ────────────────────────────────────────────── */

func (s *Store) CreateSchedule(_ context.Context, schedule *models.UserMealSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID(&schedule.ID)
	s.schedules.put(schedule.ID, schedule)
	return nil
}

func (s *Store) FindSchedule(_ context.Context, id primitive.ObjectID) (*models.UserMealSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	schedule, ok := s.schedules.get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return schedule, nil
}

func (s *Store) ListSchedules(_ context.Context, filter storage.ScheduleFilter) ([]*models.UserMealSchedule, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	schedules := s.schedules.filter(func(sc *models.UserMealSchedule) bool {
		if filter.UserID != nil && sc.UserID != *filter.UserID {
			return false
		}
		if filter.MealPlanID != nil && sc.MealPlanID != *filter.MealPlanID {
			return false
		}
		return filter.Status == "" || sc.Status == filter.Status
	})
	sort.SliceStable(schedules, func(i, j int) bool {
		if !schedules[i].StartDate.Equal(schedules[j].StartDate) {
			return schedules[i].StartDate.After(schedules[j].StartDate)
		}
		return schedules[i].CreatedAt.After(schedules[j].CreatedAt)
	})
	return paginate(schedules, filter.Page), int64(len(schedules)), nil
}

func (s *Store) UpdateSchedule(_ context.Context, schedule *models.UserMealSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules.get(schedule.ID); !ok {
		return storage.ErrNotFound
	}
	s.schedules.put(schedule.ID, schedule)
	return nil
}

func (s *Store) DeleteSchedule(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedules.remove(func(sc *models.UserMealSchedule) bool { return sc.ID == id }) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateItems mirrors the unique (schedule_id, meal_plan_meal_id) index
func (s *Store) CreateItems(_ context.Context, items []*models.UserMealItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, item := range items {
		_, dup := s.items.find(func(existing *models.UserMealItem) bool {
			return existing.ScheduleID == item.ScheduleID && existing.MealPlanMealID == item.MealPlanMealID
		})
		if dup {
			continue
		}
		newID(&item.ID)
		stored := *item
		stored.Recipe = nil
		s.items.put(item.ID, &stored)
		inserted++
	}
	return inserted, nil
}

func (s *Store) FindItem(_ context.Context, id primitive.ObjectID) (*models.UserMealItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items.get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return item, nil
}

func (s *Store) FindItems(_ context.Context, filter storage.ItemFilter) ([]*models.UserMealItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items.filter(func(it *models.UserMealItem) bool {
		if filter.ScheduleIDs != nil && !containsID(filter.ScheduleIDs, it.ScheduleID) {
			return false
		}
		if filter.UserID != nil && it.UserID != *filter.UserID {
			return false
		}
		if filter.From != nil && it.ScheduledDate.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !it.ScheduledDate.Before(*filter.To) {
			return false
		}
		return filter.Status == "" || it.Status == filter.Status
	})
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ScheduledDate.Equal(items[j].ScheduledDate) {
			return items[i].ScheduledDate.Before(items[j].ScheduledDate)
		}
		return items[i].MealOrder < items[j].MealOrder
	})
	return items, nil
}

func (s *Store) CountItems(_ context.Context, scheduleID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items.filter(func(it *models.UserMealItem) bool { return it.ScheduleID == scheduleID })
	return int64(len(items)), nil
}

func (s *Store) UpdateItem(_ context.Context, item *models.UserMealItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items.get(item.ID); !ok {
		return storage.ErrNotFound
	}
	stored := *item
	stored.Recipe = nil
	s.items.put(item.ID, &stored)
	return nil
}

func (s *Store) MarkReminded(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items.get(id)
	if !ok || item.Status != models.ItemPending || item.RemindedAt != nil {
		return false, nil
	}
	item.RemindedAt = &at
	s.items.put(id, item)
	return true, nil
}

func (s *Store) DeleteItems(_ context.Context, scheduleID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.remove(func(it *models.UserMealItem) bool { return it.ScheduleID == scheduleID }), nil
}
