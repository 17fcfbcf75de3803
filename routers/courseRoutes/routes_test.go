package courseRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	"lms/middleware"
	"lms/routers/notificationRoutes"
	"lms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func setupApp(t *testing.T) *client {
	t.Helper()
	prevCfg, prevDb, prevEmitter := config.AppConfig, database.Database, controllers.Emitter
	t.Cleanup(func() {
		config.AppConfig, database.Database, controllers.Emitter = prevCfg, prevDb, prevEmitter
	})
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	database.Database = database.DbInstance{Db: database.OpenTestDb(t)}
	controllers.Emitter = &services.Emitter{}

	app := fiber.New()
	api := app.Group("/api", middleware.JWTMiddleware)
	SetupCourseRoutes(api)
	SetupTeacherRoutes(api)
	notificationRoutes.SetupNotificationRoutes(api)
	return &client{t: t, app: app}
}

func (c *client) token(userID, role string) string {
	tok, err := middleware.GenerateJWT(userID, role, time.Hour)
	require.NoError(c.t, err)
	return tok
}

func (c *client) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func idOf(t *testing.T, env envelope) uint {
	t.Helper()
	var obj struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &obj))
	require.NotZero(t, obj.ID)
	return obj.ID
}

func TestCourseAuthoringAndLearningFlow(t *testing.T) {
	c := setupApp(t)
	teacher := c.token("teacher_1", "teacher")
	student := c.token("student_1", "")

	code, _ := c.do(http.MethodPost, "/api/teacher/courses", student, map[string]string{"title": "Go"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := c.do(http.MethodPost, "/api/teacher/courses", teacher, map[string]string{"title": "Go"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	courseID := idOf(t, env)
	base := fmt.Sprintf("/api/teacher/courses/%d", courseID)

	code, env = c.do(http.MethodPost, base+"/chapters", teacher, map[string]string{"title": "Basics"})
	require.Equal(t, http.StatusCreated, code)
	ch1 := idOf(t, env)
	code, env = c.do(http.MethodPost, base+"/chapters", teacher, map[string]string{"title": "Concurrency"})
	require.Equal(t, http.StatusCreated, code)
	ch2 := idOf(t, env)

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("%s/chapters/%d", base, ch1), teacher, map[string]string{"videoUrl": "https://vimeo.com/1"})
	assert.Equal(t, http.StatusBadRequest, code)

	for _, ch := range []uint{ch1, ch2} {
		code, env = c.do(http.MethodPatch, fmt.Sprintf("%s/chapters/%d/publish", base, ch), teacher, nil)
		require.Equal(t, http.StatusOK, code, env.Message)
	}
	code, env = c.do(http.MethodPatch, base+"/publish", teacher, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = c.do(http.MethodGet, "/api/courses?title=go", student, nil)
	require.Equal(t, http.StatusOK, code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found, 1)

	progressPath := func(ch uint) string {
		return fmt.Sprintf("/api/courses/%d/chapters/%d/progress", courseID, ch)
	}
	code, _ = c.do(http.MethodPut, progressPath(ch1), student, map[string]bool{"isCompleted": true})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/purchase", courseID), student, nil)
	require.Equal(t, http.StatusCreated, code)
	code, _ = c.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/purchase", courseID), student, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPut, progressPath(ch1), student, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code, "isCompleted is required")

	code, _ = c.do(http.MethodPut, progressPath(ch1), student, map[string]bool{"isCompleted": true})
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/courses/%d/progress", courseID), student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"progress":50}`, string(env.Data))

	code, _ = c.do(http.MethodPut, progressPath(ch2), student, map[string]bool{"isCompleted": true})
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/dashboard", student, nil)
	require.Equal(t, http.StatusOK, code)
	var dash struct {
		CompletedCourses  []map[string]interface{} `json:"completedCourses"`
		CoursesInProgress []map[string]interface{} `json:"coursesInProgress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Len(t, dash.CompletedCourses, 1)
	assert.Empty(t, dash.CoursesInProgress)

	code, env = c.do(http.MethodGet, "/api/notifications", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	var inbox []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inbox))
	require.Len(t, inbox, 2)
	assert.Equal(t, "course_completion", inbox[0].Type)
	assert.Equal(t, "chapter_completion", inbox[1].Type)

	code, _ = c.do(http.MethodPatch, "/api/notifications/read-all", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodGet, "/api/notifications/unread-count", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))
}

func TestTeacherRoutesHideOtherOwnersCourses(t *testing.T) {
	c := setupApp(t)
	teacher := c.token("teacher_1", "teacher")
	rival := c.token("teacher_2", "teacher")

	code, env := c.do(http.MethodPost, "/api/teacher/courses", teacher, map[string]string{"title": "Go"})
	require.Equal(t, http.StatusCreated, code)
	path := fmt.Sprintf("/api/teacher/courses/%d", idOf(t, env))

	code, _ = c.do(http.MethodGet, path, rival, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodDelete, path, rival, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, path, teacher, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/teacher/courses/abc", teacher, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReorderRoute(t *testing.T) {
	c := setupApp(t)
	teacher := c.token("teacher_1", "teacher")

	_, env := c.do(http.MethodPost, "/api/teacher/courses", teacher, map[string]string{"title": "Go"})
	base := fmt.Sprintf("/api/teacher/courses/%d", idOf(t, env))
	_, env = c.do(http.MethodPost, base+"/chapters", teacher, map[string]string{"title": "A"})
	a := idOf(t, env)
	_, env = c.do(http.MethodPost, base+"/chapters", teacher, map[string]string{"title": "B"})
	b := idOf(t, env)

	code, env := c.do(http.MethodPut, base+"/chapters/reorder", teacher, map[string]interface{}{
		"list": []map[string]uint{{"id": a, "position": 2}, {"id": b, "position": 1}},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	_, env = c.do(http.MethodGet, base, teacher, nil)
	var course struct {
		Chapters []struct {
			ID       uint `json:"ID"`
			Position int  `json:"position"`
		} `json:"chapters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))
	require.Len(t, course.Chapters, 2)
	assert.Equal(t, b, course.Chapters[0].ID)
	assert.Equal(t, a, course.Chapters[1].ID)
}
