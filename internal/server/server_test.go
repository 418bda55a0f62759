package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daiquydev/fedacn-sub001/internal/mealplan"
	"github.com/daiquydev/fedacn-sub001/internal/notify"
	"github.com/daiquydev/fedacn-sub001/internal/schedule"
	"github.com/daiquydev/fedacn-sub001/internal/social"
	"github.com/daiquydev/fedacn-sub001/internal/storage"
	"github.com/daiquydev/fedacn-sub001/internal/storage/memory"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type response struct {
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

type testServer struct {
	handler http.Handler
	store   *storage.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: testSecret, Location: time.UTC, UpcomingDays: 3}
	log := zap.NewNop()
	store := memory.New().Repositories()

	notifier := notify.NewService(store.Notifications, nil, log)
	schedules := schedule.NewService(store, storage.NewLocalLocker(), cfg, log)
	friends := social.NewService(store, notifier, log)
	plans := mealplan.NewService(store, schedules, friends, notifier, log)

	srv := New(cfg, Services{Schedules: schedules, MealPlans: plans, Social: friends}, log)
	return &testServer{handler: srv.Handler(), store: store}
}

func token(t *testing.T, user primitive.ObjectID) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Hex(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (ts *testServer) do(t *testing.T, user primitive.ObjectID, method, path string, body interface{}) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if !user.IsZero() {
		req.Header.Set("Authorization", "Bearer "+token(t, user))
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func planBody() map[string]interface{} {
	days := make([]map[string]interface{}, 0, 2)
	for n := 1; n <= 2; n++ {
		days = append(days, map[string]interface{}{
			"day_number": n,
			"meals": []map[string]interface{}{
				{"meal_type": "breakfast", "name": "Porridge", "calories": 320},
				{"meal_type": "lunch", "name": "Salad", "calories": 410},
			},
		})
	}
	return map[string]interface{}{"title": "Two day detox", "days": days}
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)
	code, resp := ts.do(t, primitive.NilObjectID, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", resp.Message)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, primitive.NilObjectID, http.MethodGet, "/meal-schedules", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodGet, "/meal-schedules", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrong, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": primitive.NewObjectID().Hex(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/meal-schedules", nil)
	req.Header.Set("Authorization", "Bearer "+wrong)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestInvalidPathID(t *testing.T) {
	ts := newTestServer(t)
	code, resp := ts.do(t, primitive.NewObjectID(), http.MethodGet, "/meal-plans/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid id", resp.Message)
}

func TestApplyFlow(t *testing.T) {
	ts := newTestServer(t)
	author := primitive.NewObjectID()
	user := primitive.NewObjectID()

	code, resp := ts.do(t, author, http.MethodPost, "/meal-plans", planBody())
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var plan struct {
		ID           string `json:"id"`
		DurationDays int    `json:"duration_days"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &plan))
	assert.Equal(t, 2, plan.DurationDays)

	code, resp = ts.do(t, user, http.MethodPost, "/meal-plans/"+plan.ID+"/apply", map[string]interface{}{
		"start_date": "2024-03-10",
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var applied struct {
		Schedule struct {
			ID string `json:"id"`
		} `json:"schedule"`
		ItemsCreated int `json:"items_created"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &applied))
	assert.Equal(t, 4, applied.ItemsCreated)

	// Second apply of the same plan is refused while the first is active
	code, _ = ts.do(t, user, http.MethodPost, "/meal-plans/"+plan.ID+"/apply", map[string]interface{}{
		"start_date": "2024-04-01",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = ts.do(t, user, http.MethodGet,
		"/meal-schedules/day-items?schedule_id="+applied.Schedule.ID+"&day_number=2", nil)
	require.Equal(t, http.StatusOK, code, resp.Message)
	var day struct {
		Date       string `json:"date"`
		DayNumber  int    `json:"day_number"`
		TotalCount int    `json:"total_count"`
		Nutrition  struct {
			Calories float64 `json:"calories"`
		} `json:"nutrition"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &day))
	assert.Equal(t, "2024-03-11", day.Date)
	assert.Equal(t, 2, day.DayNumber)
	assert.Equal(t, 2, day.TotalCount)
	assert.Equal(t, 730.0, day.Nutrition.Calories)

	// Other users cannot read the schedule
	code, _ = ts.do(t, author, http.MethodGet, "/meal-schedules/"+applied.Schedule.ID, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestLikeTwice(t *testing.T) {
	ts := newTestServer(t)
	author := primitive.NewObjectID()
	user := primitive.NewObjectID()

	code, resp := ts.do(t, author, http.MethodPost, "/meal-plans", planBody())
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var plan struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &plan))

	code, _ = ts.do(t, user, http.MethodPost, "/meal-plans/"+plan.ID+"/like", nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = ts.do(t, user, http.MethodPost, "/meal-plans/"+plan.ID+"/like", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Message, "already liked")

	code, resp = ts.do(t, user, http.MethodGet, "/meal-plans/"+plan.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		LikesCount int  `json:"likes_count"`
		IsLiked    bool `json:"is_liked"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &detail))
	assert.Equal(t, 1, detail.LikesCount)
	assert.True(t, detail.IsLiked)

	// The author heard about it exactly once
	code, resp = ts.do(t, author, http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Notifications []json.RawMessage `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	assert.Len(t, list.Notifications, 1)
}

func TestFollowAndFriends(t *testing.T) {
	ts := newTestServer(t)
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	code, _ := ts.do(t, a, http.MethodPost, "/users/"+b.Hex()+"/follow", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = ts.do(t, a, http.MethodPost, "/users/"+a.Hex()+"/follow", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, resp := ts.do(t, a, http.MethodPost, "/users/"+b.Hex()+"/follow", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Message, "already following")

	code, _ = ts.do(t, b, http.MethodPost, "/users/"+a.Hex()+"/follow", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, a, http.MethodDelete, "/users/"+b.Hex()+"/follow", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = ts.do(t, a, http.MethodDelete, "/users/"+b.Hex()+"/follow", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/meal-plans", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token(t, primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
