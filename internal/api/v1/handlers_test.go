package apiv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
	"github.com/ManuelReschke/PixelFoxComments/app/repository"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/middleware"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/statistics"
)

type fakeScheduler struct {
	mu  sync.Mutex
	ids []uint
}

func (f *fakeScheduler) EnqueueEmotionAnalysis(_ context.Context, commentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, commentID)
	return nil
}

type fakeActivity struct {
	mu      sync.Mutex
	created map[uint]int64
	deleted map[uint]int64
}

func newFakeActivity() *fakeActivity {
	return &fakeActivity{created: map[uint]int64{}, deleted: map[uint]int64{}}
}

func (f *fakeActivity) AddCommentCreated(_ context.Context, imageID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created[imageID]++
	return nil
}

func (f *fakeActivity) AddCommentDeleted(_ context.Context, imageID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[imageID]++
	return nil
}

func (f *fakeActivity) Activity(_ context.Context, imageID uint) (counter.CommentActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return counter.CommentActivity{ImageID: imageID, Created: f.created[imageID], Deleted: f.deleted[imageID]}, nil
}

// memoStats keeps the first read until invalidated, like the Redis cache does
type memoStats struct {
	mu            sync.Mutex
	inner         *statistics.Service
	cached        *statistics.StatisticsData
	invalidations int
}

func (m *memoStats) GetStatisticsData(ctx context.Context) (statistics.StatisticsData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cached != nil {
		return *m.cached, nil
	}
	data, err := m.inner.GetStatisticsData(ctx)
	if err != nil {
		return statistics.StatisticsData{}, err
	}
	m.cached = &data
	return data, nil
}

func (m *memoStats) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	m.invalidations++
	return nil
}

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	scheduler *fakeScheduler
	activity  *fakeActivity
	stats     *memoStats
	adminKey  string
	userKey   string
	image     *models.Image
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserSettings{}, &models.Image{}, &models.Comment{}))

	env := &testEnv{db: db, scheduler: &fakeScheduler{}, activity: newFakeActivity(), stats: &memoStats{inner: statistics.NewService(db, nil)}}
	admin := env.seedUser(t, "admin", models.ROLE_ADMIN)
	regular := env.seedUser(t, "regular", models.ROLE_USER)
	env.adminKey = env.issueKey(t, admin)
	env.userKey = env.issueKey(t, regular)

	env.image = &models.Image{UserID: regular.ID, Title: "sunset"}
	require.NoError(t, db.Create(env.image).Error)

	repos := repository.NewRepositories(db)
	env.app = fiber.New()
	server := NewAPIServer(repos, env.scheduler, env.activity).WithStatistics(env.stats)
	RegisterHandlers(env.app.Group("/api/v1"), server, middleware.APIKeyAuthMiddleware(repos.User))
	return env
}

func (e *testEnv) seedUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "x", Role: role, Status: models.STATUS_ACTIVE}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) issueKey(t *testing.T, u *models.User) string {
	t.Helper()
	settings, err := models.GetOrCreateUserSettings(e.db, u.ID)
	require.NoError(t, err)
	raw, err := settings.IssueAPIKey()
	require.NoError(t, err)
	require.NoError(t, e.db.Save(settings).Error)
	return raw
}

func (e *testEnv) do(t *testing.T, method, path, apiKey, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) postComment(t *testing.T, text string) models.Comment {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/images/%d/comments", e.image.ID), e.userKey, fmt.Sprintf(`{"comment":%q}`, text))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var c models.Comment
	require.NoError(t, json.Unmarshal(body, &c))
	return c
}

func TestGetPing(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/v1/ping", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ping":"pong"}`, string(body))
}

func TestPostImageComment(t *testing.T) {
	env := newTestEnv(t)

	c := env.postComment(t, "what a view")
	assert.NotZero(t, c.ID)
	assert.Equal(t, "what a view", c.Text)
	assert.Equal(t, env.image.ID, c.ImageID)
	assert.Nil(t, c.UpdatedAt)

	assert.Equal(t, []uint{c.ID}, env.scheduler.ids)
	assert.Equal(t, int64(1), env.activity.created[env.image.ID])

	t.Run("requires api key", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/images/%d/comments", env.image.ID), "", `{"comment":"x"}`)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects unknown api key", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/images/%d/comments", env.image.ID), "pxc_nope", `{"comment":"x"}`)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/images/%d/comments", env.image.ID), env.userKey, `{"comment":""}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown image", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/images/9999/comments", env.userKey, `{"comment":"x"}`)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetImageComments(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/images/%d/comments", env.image.ID), "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"image_id":%d,"comments":[]}`, env.image.ID), string(body))

	first := env.postComment(t, "one")
	second := env.postComment(t, "two")

	resp, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/images/%d/comments", env.image.ID), "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list CommentList
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Comments, 2)
	assert.Equal(t, second.ID, list.Comments[0].ID)
	assert.Equal(t, first.ID, list.Comments[1].ID)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/images/abc/comments", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPutComment(t *testing.T) {
	env := newTestEnv(t)
	c := env.postComment(t, "nice!")
	path := fmt.Sprintf("/api/v1/comments/%d", c.ID)

	resp, _ := env.do(t, http.MethodPut, path, env.userKey, `{"comment":"hijacked"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// role is checked before the body is validated
	resp, _ = env.do(t, http.MethodPut, path, env.userKey, `{"comment":""}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPut, path, env.userKey, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, path, env.adminKey, `{"comment":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := env.do(t, http.MethodPut, path, env.adminKey, `{"comment":"great!"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var updated models.Comment
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "great!", updated.Text)
	assert.NotNil(t, updated.UpdatedAt)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/comments/4242", env.adminKey, `{"comment":"x"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, path, "", `{"comment":"x"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	c := env.postComment(t, "bye")
	path := fmt.Sprintf("/api/v1/comments/%d", c.ID)

	resp, _ := env.do(t, http.MethodDelete, path, env.userKey, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Zero(t, env.activity.deleted[env.image.ID])

	resp, body := env.do(t, http.MethodDelete, path, env.adminKey, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var deleted models.Comment
	require.NoError(t, json.Unmarshal(body, &deleted))
	assert.Equal(t, "bye", deleted.Text)
	assert.Equal(t, int64(1), env.activity.deleted[env.image.ID])

	resp, _ = env.do(t, http.MethodDelete, path, env.adminKey, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPutCommentEmotions(t *testing.T) {
	env := newTestEnv(t)
	c := env.postComment(t, "wow")
	path := fmt.Sprintf("/api/v1/comments/%d/emotions", c.ID)
	scores := `{"joy":60,"anger":0,"sadness":0,"surprise":40,"disgust":0,"fear":0}`

	resp, _ := env.do(t, http.MethodPut, path, env.userKey, scores)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, path, env.adminKey, `{"joy":101}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, path, env.adminKey, scores)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var stored models.Comment
	require.NoError(t, env.db.First(&stored, c.ID).Error)
	assert.Equal(t, models.EmotionScores{Joy: 60, Surprise: 40}, stored.Emotions)
	assert.Nil(t, stored.UpdatedAt)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/comments/4242/emotions", env.adminKey, scores)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetImageCommentActivity(t *testing.T) {
	env := newTestEnv(t)
	env.postComment(t, "a")
	env.postComment(t, "b")

	resp, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/images/%d/comments/activity", env.image.ID), "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"image_id":%d,"created":2,"deleted":0}`, env.image.ID), string(body))
}

func TestGetImageCommentActivityDisabled(t *testing.T) {
	app := fiber.New()
	RegisterHandlers(app.Group("/api/v1"), NewAPIServer(nil, nil, nil), func(c *fiber.Ctx) error { return c.Next() })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/images/1/comments/activity", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetStatistics(t *testing.T) {
	env := newTestEnv(t)
	env.postComment(t, "a")
	env.postComment(t, "b")

	resp, body := env.do(t, http.MethodGet, "/api/v1/statistics", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data statistics.StatisticsData
	require.NoError(t, json.Unmarshal(body, &data))
	assert.Equal(t, int64(2), data.TotalComments)
	assert.Equal(t, int64(1), data.CommentedImages)
}

func TestStatisticsFollowWrites(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/v1/statistics"

	read := func() statistics.StatisticsData {
		resp, body := env.do(t, http.MethodGet, path, "", "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var data statistics.StatisticsData
		require.NoError(t, json.Unmarshal(body, &data))
		return data
	}

	assert.Equal(t, int64(0), read().TotalComments)

	c := env.postComment(t, "fresh")
	assert.Equal(t, int64(1), read().TotalComments)
	assert.Equal(t, int64(1), read().CommentedImages)

	resp, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", c.ID), env.userKey, "")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, env.stats.invalidations)

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", c.ID), env.adminKey, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), read().TotalComments)
	assert.Equal(t, 2, env.stats.invalidations)
}
