package router

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidocs/backend/config"
	"github.com/aidocs/backend/internal/eventbus"
	"github.com/aidocs/backend/internal/handler"
	"github.com/aidocs/backend/internal/model"
	"github.com/aidocs/backend/internal/pkg/database"
	"github.com/aidocs/backend/internal/pkg/export"
	"github.com/aidocs/backend/internal/pkg/llm"
	"github.com/aidocs/backend/internal/repository"
	"github.com/aidocs/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Auth.JWTSecret = "router-test"
	cfg.Auth.BcryptCost = 4

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	// 未配置模型，全部走兜底内容
	generator := llm.NewGenerator(nil)

	authService := service.NewAuthService(cfg, userRepo)
	projectService := service.NewProjectService(cfg, projectRepo, sectionRepo, generator, eventbus.NewProjectEventBus())
	sectionService := service.NewSectionService(projectRepo, sectionRepo, generator, eventbus.NewSectionEventBus())

	return Setup(cfg, authService,
		handler.NewAuthHandler(authService),
		handler.NewProjectHandler(projectService),
		handler.NewSectionHandler(sectionService),
	)
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func login(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "pw-" + username}
	w := do(t, r, http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/token", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[map[string]string](t, w)
	assert.Equal(t, "bearer", resp["token_type"])
	require.NotEmpty(t, resp["access_token"])
	return resp["access_token"]
}

func TestHealthz(t *testing.T) {
	r := newTestServer(t)
	w := do(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRegisterAndLoginErrors(t *testing.T) {
	r := newTestServer(t)
	login(t, r, "alice")

	w := do(t, r, http.MethodPost, "/register", "", map[string]string{"username": "alice", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/register", "", map[string]string{"username": "bob", "password": strings.Repeat("p", 100)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/token", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/token", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestServer(t)
	routes := [][2]string{
		{http.MethodGet, "/projects"},
		{http.MethodPost, "/generate-outline"},
		{http.MethodPost, "/projects/"},
		{http.MethodGet, "/projects/1"},
		{http.MethodDelete, "/projects/1"},
		{http.MethodGet, "/projects/1/sections"},
		{http.MethodGet, "/projects/1/export"},
		{http.MethodPut, "/sections/1/refine"},
		{http.MethodPut, "/sections/1/feedback"},
	}
	for _, route := range routes {
		w := do(t, r, route[0], route[1], "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route[0], route[1])

		w = do(t, r, route[0], route[1], "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route[0], route[1])
	}
}

func TestProjectLifecycle(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "alice")

	w := do(t, r, http.MethodPost, "/generate-outline", token, map[string]string{"topic": "EV market", "doc_type": "pptx"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	outline := decode[map[string][]string](t, w)["outline"]
	assert.Equal(t, llm.DefaultOutline(model.DocTypePPTX), outline)

	w = do(t, r, http.MethodPost, "/projects", token, map[string]any{
		"title": "EV Deck", "topic": "EV market", "doc_type": "pptx", "outline": outline[:3],
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "EV Deck", created["title"])
	assert.Equal(t, "pptx", created["doc_type"])
	projectID := uint(created["id"].(float64))
	require.NotZero(t, projectID)

	w = do(t, r, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Project](t, w), 1)

	w = do(t, r, http.MethodGet, pathf("/projects/%d", projectID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EV market", decode[model.Project](t, w).Topic)

	w = do(t, r, http.MethodGet, pathf("/projects/%d/sections", projectID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sections := decode[[]model.Section](t, w)
	require.Len(t, sections, 3)
	for i, section := range sections {
		assert.Equal(t, outline[i], section.Title)
		assert.Equal(t, i, section.OrderIndex)
		assert.Equal(t, llm.DefaultSectionBody("EV market", outline[i]), section.Content)
	}

	w = do(t, r, http.MethodPut, pathf("/sections/%d/refine", sections[0].ID), token, map[string]string{"instruction": "shorter"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, llm.DefaultRefine(sections[0].Content), decode[map[string]string](t, w)["content"])

	w = do(t, r, http.MethodPut, pathf("/sections/%d/feedback", sections[1].ID), token, map[string]string{"feedback": "like", "user_notes": "nice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"Updated"}`, w.Body.String())

	w = do(t, r, http.MethodPut, pathf("/sections/%d/feedback", sections[1].ID), token, map[string]string{"feedback": "love"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, pathf("/projects/%d/sections", projectID), token, nil)
	sections = decode[[]model.Section](t, w)
	require.NotNil(t, sections[1].Feedback)
	assert.Equal(t, "like", *sections[1].Feedback)
	assert.Equal(t, "nice", sections[1].UserNotes)

	req := httptest.NewRequest(http.MethodGet, pathf("/projects/%d/export", projectID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.MediaTypePPTX, rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "EV Deck.pptx", params["filename"])
	_, err = zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	assert.NoError(t, err)

	w = do(t, r, http.MethodDelete, pathf("/projects/%d", projectID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, pathf("/projects/%d/sections", projectID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodPut, pathf("/sections/%d/refine", sections[0].ID), token, map[string]string{"instruction": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProjectValidationErrors(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r, "alice")

	w := do(t, r, http.MethodPost, "/projects/", token, map[string]any{
		"title": "x", "topic": "t", "doc_type": "xlsx", "outline": []string{"A"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/projects/", token, map[string]any{
		"title": "x", "topic": "t", "doc_type": "docx", "outline": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/projects/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOtherUsersDataIsHidden(t *testing.T) {
	r := newTestServer(t)
	alice := login(t, r, "alice")
	bob := login(t, r, "bob")

	w := do(t, r, http.MethodPost, "/projects/", alice, map[string]any{
		"title": "Private", "topic": "t", "doc_type": "docx", "outline": []string{"A"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	projectID := uint(decode[map[string]any](t, w)["id"].(float64))

	w = do(t, r, http.MethodGet, "/projects", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.Project](t, w))

	for _, path := range []string{pathf("/projects/%d", projectID), pathf("/projects/%d/sections", projectID), pathf("/projects/%d/export", projectID)} {
		w = do(t, r, http.MethodGet, path, bob, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w = do(t, r, http.MethodDelete, pathf("/projects/%d", projectID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, pathf("/projects/%d/sections", projectID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sections := decode[[]model.Section](t, w)
	w = do(t, r, http.MethodPut, pathf("/sections/%d/feedback", sections[0].ID), bob, map[string]string{"feedback": "dislike"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func pathf(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
