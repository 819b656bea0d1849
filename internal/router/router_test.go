package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/todo-management-api/internal/auth"
	"github.com/yukikurage/todo-management-api/internal/cache"
	"github.com/yukikurage/todo-management-api/internal/config"
	"github.com/yukikurage/todo-management-api/internal/dto"
	apierrors "github.com/yukikurage/todo-management-api/internal/errors"
	"github.com/yukikurage/todo-management-api/internal/handlers"
	"github.com/yukikurage/todo-management-api/internal/logging"
	"github.com/yukikurage/todo-management-api/internal/models"
	"github.com/yukikurage/todo-management-api/internal/repository"
	"github.com/yukikurage/todo-management-api/internal/response"
	"github.com/yukikurage/todo-management-api/internal/services"
	"github.com/yukikurage/todo-management-api/internal/testutil"
	"github.com/yukikurage/todo-management-api/internal/validation"
	"gorm.io/gorm"
)

type envelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    *response.Meta         `json:"meta"`
	Errors  []apierrors.FieldError `json:"errors"`
}

type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	engine *gin.Engine
	cfg    *config.Config
	token  string
	user   *models.User
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validation.Register()
}

func (suite *APITestSuite) SetupTest() {
	suite.cfg = &config.Config{
		CORSAllowedOrigins:      []string{"http://localhost:3000"},
		RateLimitPerMinute:      1000,
		LoginRateLimitPerMinute: 1000,
	}
	suite.engine = suite.newEngine(suite.cfg)

	rec := suite.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  "Jane",
		"email":                 "jane@example.com",
		"password":              "password123",
		"password_confirmation": "password123",
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var authResp dto.AuthResponse
	suite.decodeData(rec, &authResp)
	suite.token = authResp.AccessToken
	suite.user = &models.User{}
	suite.Require().NoError(suite.db.First(suite.user, authResp.User.ID).Error)
}

func (suite *APITestSuite) newEngine(cfg *config.Config) *gin.Engine {
	suite.db = testutil.NewTestDB(suite.T())
	redis := miniredis.RunT(suite.T())
	client := cache.New(redis.Addr(), "", 0)
	suite.T().Cleanup(func() { _ = client.Close() })

	todoRepo := repository.NewTodoRepository(suite.db)
	authService := services.NewAuthService(
		repository.NewUserRepository(suite.db),
		auth.NewJWTService("test-secret", time.Hour),
		auth.NewTokenStore(client),
	)

	return New(cfg, logging.NewWithWriter(io.Discard, "error", "text"), authService, Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Todo:     handlers.NewTodoHandler(services.NewTodoService(todoRepo, nil)),
		Category: handlers.NewCategoryHandler(services.NewCategoryService(repository.NewCategoryRepository(suite.db), todoRepo)),
		Stats:    handlers.NewStatsHandler(services.NewStatsService(todoRepo)),
	})
}

func (suite *APITestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.engine.ServeHTTP(rec, req)
	return rec
}

func (suite *APITestSuite) authed(method, path string, body any) *httptest.ResponseRecorder {
	return suite.do(method, path, suite.token, body)
}

func (suite *APITestSuite) decode(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (suite *APITestSuite) decodeData(rec *httptest.ResponseRecorder, out any) envelope {
	env := suite.decode(rec)
	suite.Require().NoError(json.Unmarshal(env.Data, out), string(env.Data))
	return env
}

func (suite *APITestSuite) errorFields(rec *httptest.ResponseRecorder) []string {
	env := suite.decode(rec)
	suite.Equal("error", env.Status)
	names := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		names = append(names, e.Field)
	}
	return names
}

func (suite *APITestSuite) createTodo(body map[string]any) dto.TodoDTO {
	rec := suite.authed(http.MethodPost, "/api/todos", body)
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var todo dto.TodoDTO
	suite.decodeData(rec, &todo)
	return todo
}

func (suite *APITestSuite) createCategory(name string) dto.CategoryDTO {
	rec := suite.authed(http.MethodPost, "/api/categories", map[string]any{"name": name})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var category dto.CategoryDTO
	suite.decodeData(rec, &category)
	return category
}

func categoryIDsOf(todo dto.TodoDTO) []uint64 {
	ids := make([]uint64, 0, len(todo.Categories))
	for _, c := range todo.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func (suite *APITestSuite) TestHealth() {
	rec := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	env := suite.decode(rec)
	suite.Equal("success", env.Status)
	suite.Equal("Todo API is running", env.Message)
	suite.Contains(rec.Body.String(), `"data":null`)
}

func (suite *APITestSuite) TestProtectedRoutesRequireToken() {
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodGet, "/api/todos/1"},
		{http.MethodDelete, "/api/todos/1"},
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/stats/todos"},
		{http.MethodGet, "/api/user"},
	} {
		rec := suite.do(tc.method, tc.path, "", nil)
		suite.Equal(http.StatusUnauthorized, rec.Code, tc.path)

		rec = suite.do(tc.method, tc.path, "not-a-token", nil)
		suite.Equal(http.StatusUnauthorized, rec.Code, tc.path)
	}
}

func (suite *APITestSuite) TestCreateTodo() {
	work := suite.createCategory("Work")

	todo := suite.createTodo(map[string]any{
		"title":        "Prepare slides",
		"description":  "for the Monday sync",
		"priority":     "high",
		"due_date":     time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"category_ids": []uint64{work.ID},
	})

	suite.Equal("Prepare slides", todo.Title)
	suite.Equal(models.TodoStatusPending, todo.Status)
	suite.Equal(models.TodoPriorityHigh, todo.Priority)
	suite.NotNil(todo.DueDate)
	suite.False(todo.IsOverdue)
	suite.Equal(suite.user.ID, todo.UserID)
	suite.Equal([]uint64{work.ID}, categoryIDsOf(todo))
}

func (suite *APITestSuite) TestCreateTodo_CategoriesAlwaysAnArray() {
	rec := suite.authed(http.MethodPost, "/api/todos", map[string]any{"title": "No tags"})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	suite.Contains(rec.Body.String(), `"categories":[]`)
}

func (suite *APITestSuite) TestCreateTodo_ValidationErrors() {
	rec := suite.authed(http.MethodPost, "/api/todos", map[string]any{
		"title":    "ab",
		"status":   "done",
		"priority": "urgent",
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.ElementsMatch([]string{"title", "status", "priority"}, suite.errorFields(rec))

	rec = suite.authed(http.MethodPost, "/api/todos", map[string]any{
		"title":    "Valid title",
		"due_date": "2001-01-01",
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"due_date"}, suite.errorFields(rec))

	rec = suite.authed(http.MethodPost, "/api/todos", map[string]any{
		"title":        "Valid title",
		"category_ids": []uint64{4242},
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"category_ids"}, suite.errorFields(rec))

	var count int64
	suite.db.Model(&models.Todo{}).Count(&count)
	suite.Zero(count)
}

func (suite *APITestSuite) TestCreateTodo_MalformedBody() {
	rec := suite.authed(http.MethodPost, "/api/todos", `{"title": `)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.authed(http.MethodPost, "/api/todos", `{"title": 12}`)
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"title"}, suite.errorFields(rec))
}

func (suite *APITestSuite) TestGetTodo_NotFound() {
	rec := suite.authed(http.MethodGet, "/api/todos/999", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("Todo not found", suite.decode(rec).Message)

	rec = suite.authed(http.MethodGet, "/api/todos/abc", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestGetTodo_OtherUsersTodoIsHidden() {
	other := testutil.CreateUser(suite.T(), suite.db, "other@example.com")
	theirs := testutil.CreateTodo(suite.T(), suite.db, other.ID, "Theirs")

	path := fmt.Sprintf("/api/todos/%d", theirs.ID)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodGet, path, nil).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodPut, path, map[string]any{"title": "Mine now"}).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodDelete, path, nil).Code)
}

func (suite *APITestSuite) TestUpdateTodo_CategorySemantics() {
	work := suite.createCategory("Work")
	home := suite.createCategory("Home")
	todo := suite.createTodo(map[string]any{"title": "Tagged", "category_ids": []uint64{work.ID, home.ID}})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	var updated dto.TodoDTO

	rec := suite.authed(http.MethodPut, path, map[string]any{"title": "Renamed"})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.decodeData(rec, &updated)
	suite.Equal("Renamed", updated.Title)
	suite.ElementsMatch([]uint64{work.ID, home.ID}, categoryIDsOf(updated))

	rec = suite.authed(http.MethodPut, path, map[string]any{"category_ids": []uint64{home.ID}})
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decodeData(rec, &updated)
	suite.Equal([]uint64{home.ID}, categoryIDsOf(updated))

	rec = suite.authed(http.MethodPut, path, `{"category_ids": null}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decodeData(rec, &updated)
	suite.Empty(updated.Categories)

	rec = suite.authed(http.MethodPut, path, map[string]any{"category_ids": []uint64{work.ID}})
	suite.Require().Equal(http.StatusOK, rec.Code)
	rec = suite.authed(http.MethodPut, path, map[string]any{"category_ids": []uint64{}})
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decodeData(rec, &updated)
	suite.Empty(updated.Categories)
}

func (suite *APITestSuite) TestUpdateTodo_NullClearsOptionalFields() {
	todo := suite.createTodo(map[string]any{
		"title":       "With extras",
		"description": "details",
		"due_date":    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	rec := suite.authed(http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), `{"description": null, "due_date": null}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var updated dto.TodoDTO
	suite.decodeData(rec, &updated)
	suite.Nil(updated.Description)
	suite.Nil(updated.DueDate)
	suite.Equal("With extras", updated.Title)
}

func (suite *APITestSuite) TestUpdateTodo_InvalidValues() {
	todo := suite.createTodo(map[string]any{"title": "Original"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	rec := suite.authed(http.MethodPut, path, map[string]any{"status": "archived", "title": "x"})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.ElementsMatch([]string{"status", "title"}, suite.errorFields(rec))

	rec = suite.authed(http.MethodPut, "/api/todos/999", map[string]any{"title": "Whatever"})
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestUpdateTodoStatus() {
	todo := suite.createTodo(map[string]any{"title": "Drag me", "priority": "low"})
	path := fmt.Sprintf("/api/todos/%d/status", todo.ID)

	rec := suite.authed(http.MethodPatch, path, map[string]any{"status": "in_progress"})
	suite.Require().Equal(http.StatusOK, rec.Code)
	var updated dto.TodoDTO
	suite.decodeData(rec, &updated)
	suite.Equal(models.TodoStatusInProgress, updated.Status)
	suite.Equal(models.TodoPriorityLow, updated.Priority)

	rec = suite.authed(http.MethodPatch, path, map[string]any{"status": "bogus"})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"status"}, suite.errorFields(rec))

	rec = suite.authed(http.MethodPatch, "/api/todos/999/status", map[string]any{"status": "completed"})
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *APITestSuite) TestDeleteTodo() {
	todo := suite.createTodo(map[string]any{"title": "Doomed"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	rec := suite.authed(http.MethodDelete, path, nil)
	suite.Equal(http.StatusNoContent, rec.Code)
	suite.Empty(rec.Body.String())

	suite.Equal(http.StatusNotFound, suite.authed(http.MethodDelete, path, nil).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodGet, path, nil).Code)
}

func (suite *APITestSuite) TestListTodos_FiltersAndPagination() {
	fixtures := []struct{ title, status, priority string }{
		{"Alpha report", "completed", "high"},
		{"Beta report", "pending", "high"},
		{"Gamma notes", "completed", "high"},
		{"Delta report", "completed", "low"},
		{"Epsilon", "cancelled", "medium"},
	}
	for _, f := range fixtures {
		suite.createTodo(map[string]any{"title": f.title, "status": f.status, "priority": f.priority})
	}

	rec := suite.authed(http.MethodGet, "/api/todos?status=completed&priority=high&q=report", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var todos []dto.TodoDTO
	env := suite.decodeData(rec, &todos)
	suite.Require().Len(todos, 1)
	suite.Equal("Alpha report", todos[0].Title)
	suite.Equal(int64(1), env.Meta.Pagination.Total)

	rec = suite.authed(http.MethodGet, "/api/todos?sort=title&order=asc&limit=2&page=2", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	env = suite.decodeData(rec, &todos)
	suite.Require().Len(todos, 2)
	suite.Equal("Delta report", todos[0].Title)
	suite.Equal("Epsilon", todos[1].Title)
	suite.Equal(int64(5), env.Meta.Pagination.Total)
	suite.Equal(2, env.Meta.Pagination.PerPage)
	suite.Equal(2, env.Meta.Pagination.CurrentPage)
	suite.Equal(3, env.Meta.Pagination.LastPage)
}

func (suite *APITestSuite) TestListTodos_LimitIsClamped() {
	suite.createTodo(map[string]any{"title": "Only one"})

	rec := suite.authed(http.MethodGet, "/api/todos?limit=1000", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal(50, suite.decode(rec).Meta.Pagination.PerPage)

	rec = suite.authed(http.MethodGet, "/api/todos?limit=abc", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal(10, suite.decode(rec).Meta.Pagination.PerPage)
}

func (suite *APITestSuite) TestListTodos_HugePage() {
	suite.createTodo(map[string]any{"title": "Only one"})

	rec := suite.authed(http.MethodGet, "/api/todos?limit=50&page="+strconv.Itoa(math.MaxInt), nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Contains(rec.Body.String(), `"data":[]`)

	env := suite.decode(rec)
	suite.Equal(int64(1), env.Meta.Pagination.Total)
	suite.Equal(math.MaxInt/50, env.Meta.Pagination.CurrentPage)
	suite.Nil(env.Meta.Pagination.From)
	suite.Nil(env.Meta.Pagination.To)
}

func (suite *APITestSuite) TestListTodos_EmptyResult() {
	rec := suite.authed(http.MethodGet, "/api/todos?q=zzz-nomatch-zzz", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"data":[]`)

	env := suite.decode(rec)
	suite.Zero(env.Meta.Pagination.Total)
	suite.Equal(1, env.Meta.Pagination.LastPage)
}

func (suite *APITestSuite) TestListTodos_InvalidSort() {
	rec := suite.authed(http.MethodGet, "/api/todos?sort=password_hash", nil)
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"sort"}, suite.errorFields(rec))
}

func (suite *APITestSuite) TestSearchTodos() {
	suite.createTodo(map[string]any{"title": "Alışveriş Listesi Hazırla", "status": "completed"})
	suite.createTodo(map[string]any{"title": "Unrelated"})

	rec := suite.authed(http.MethodGet, "/api/todos/search?q="+url.QueryEscape("alış")+"&status=pending", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var todos []dto.TodoDTO
	suite.decodeData(rec, &todos)
	suite.Require().Len(todos, 1, "search ignores status")
	suite.Equal("Alışveriş Listesi Hazırla", todos[0].Title)

	rec = suite.authed(http.MethodGet, "/api/todos/search", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("error", suite.decode(rec).Status)
}

func (suite *APITestSuite) TestSuggestTodos_NotConfigured() {
	rec := suite.authed(http.MethodPost, "/api/todos/suggest", map[string]any{"text": "buy milk tomorrow"})
	suite.Equal(http.StatusServiceUnavailable, rec.Code)

	rec = suite.authed(http.MethodPost, "/api/todos/suggest", map[string]any{"text": "  "})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (suite *APITestSuite) TestCategories() {
	rec := suite.authed(http.MethodPost, "/api/categories", map[string]any{"name": "Work", "color": "#FF5733"})
	suite.Require().Equal(http.StatusCreated, rec.Code)
	var work dto.CategoryDTO
	suite.decodeData(rec, &work)
	suite.Equal("#FF5733", *work.Color)

	for _, color := range []string{"red", "#FFF", "FF5733", "#GG5733"} {
		rec = suite.authed(http.MethodPost, "/api/categories", map[string]any{"name": "Other", "color": color})
		suite.Equal(http.StatusUnprocessableEntity, rec.Code, color)
		suite.Equal([]string{"color"}, suite.errorFields(rec), color)
	}

	rec = suite.authed(http.MethodPost, "/api/categories", map[string]any{"name": "Work"})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"name"}, suite.errorFields(rec))

	path := fmt.Sprintf("/api/categories/%d", work.ID)
	rec = suite.authed(http.MethodPut, path, `{"color": null}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated dto.CategoryDTO
	suite.decodeData(rec, &updated)
	suite.Nil(updated.Color)
	suite.Equal("Work", updated.Name)

	rec = suite.authed(http.MethodPut, path, map[string]any{"color": "blue"})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)

	suite.createCategory("Home")
	rec = suite.authed(http.MethodGet, "/api/categories", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var all []dto.CategoryDTO
	suite.decodeData(rec, &all)
	suite.Require().Len(all, 2)
	suite.Equal("Home", all[0].Name)

	suite.Equal(http.StatusNoContent, suite.authed(http.MethodDelete, path, nil).Code)
	suite.Equal(http.StatusNotFound, suite.authed(http.MethodGet, path, nil).Code)
	suite.Equal("Category not found", suite.decode(suite.authed(http.MethodGet, path, nil)).Message)
}

func (suite *APITestSuite) TestCategoryTodos() {
	work := suite.createCategory("Work")
	suite.createTodo(map[string]any{"title": "Tagged", "category_ids": []uint64{work.ID}})
	suite.createTodo(map[string]any{"title": "Untagged"})

	rec := suite.authed(http.MethodGet, fmt.Sprintf("/api/categories/%d/todos", work.ID), nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var todos []dto.TodoDTO
	env := suite.decodeData(rec, &todos)
	suite.Require().Len(todos, 1)
	suite.Equal("Tagged", todos[0].Title)
	suite.Equal(int64(1), env.Meta.Pagination.Total)

	rec = suite.authed(http.MethodGet, "/api/todos?category_id="+fmt.Sprint(work.ID), nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decodeData(rec, &todos)
	suite.Len(todos, 1)

	suite.Equal(http.StatusNotFound, suite.authed(http.MethodGet, "/api/categories/999/todos", nil).Code)
}

func (suite *APITestSuite) TestStats() {
	suite.createTodo(map[string]any{"title": "One", "priority": "high"})
	suite.createTodo(map[string]any{"title": "Two", "status": "completed"})

	rec := suite.authed(http.MethodGet, "/api/stats/todos", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var stats services.TodoStats
	suite.decodeData(rec, &stats)
	suite.Equal(int64(2), stats.Total)
	suite.Equal(int64(1), stats.Completed)

	rec = suite.authed(http.MethodGet, "/api/stats/priorities", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var priorities services.PriorityStats
	suite.decodeData(rec, &priorities)
	suite.Equal(services.PriorityStats{Low: 0, Medium: 1, High: 1}, priorities)
}

func (suite *APITestSuite) TestAuthFlow() {
	rec := suite.do(http.MethodPost, "/api/login", "", map[string]any{"email": "jane@example.com", "password": "wrong-password"})
	suite.Equal(http.StatusUnauthorized, rec.Code)

	rec = suite.do(http.MethodPost, "/api/login", "", map[string]any{"email": "jane@example.com", "password": "password123"})
	suite.Require().Equal(http.StatusOK, rec.Code)
	var login dto.AuthResponse
	suite.decodeData(rec, &login)
	suite.Equal("Bearer", login.TokenType)

	rec = suite.do(http.MethodGet, "/api/user", login.AccessToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var me dto.UserDTO
	suite.decodeData(rec, &me)
	suite.Equal("jane@example.com", me.Email)

	rec = suite.do(http.MethodPut, "/api/user", login.AccessToken, map[string]any{"name": "Janet"})
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decodeData(rec, &me)
	suite.Equal("Janet", me.Name)

	rec = suite.do(http.MethodPost, "/api/logout", login.AccessToken, nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"status":"success","message":"Logged out successfully","data":null}`, rec.Body.String())
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/user", login.AccessToken, nil).Code)
	suite.Equal(http.StatusOK, suite.authed(http.MethodGet, "/api/user", nil).Code, "other tokens stay valid")
}

func (suite *APITestSuite) TestRegister_Validation() {
	rec := suite.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  "John",
		"email":                 "not-an-email",
		"password":              "short",
		"password_confirmation": "different",
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.ElementsMatch([]string{"email", "password", "password_confirmation"}, suite.errorFields(rec))

	rec = suite.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  "Jane Again",
		"email":                 "jane@example.com",
		"password":              "password123",
		"password_confirmation": "password123",
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"email"}, suite.errorFields(rec))
}

func (suite *APITestSuite) TestRegister_PasswordTooLong() {
	long := strings.Repeat("a", 80)
	rec := suite.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  "Long",
		"email":                 "long@example.com",
		"password":              long,
		"password_confirmation": long,
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"password"}, suite.errorFields(rec))

	multibyte := strings.Repeat("ü", 40)
	rec = suite.do(http.MethodPost, "/api/register", "", map[string]any{
		"name":                  "Long",
		"email":                 "long@example.com",
		"password":              multibyte,
		"password_confirmation": multibyte,
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"password"}, suite.errorFields(rec))

	rec = suite.authed(http.MethodPut, "/api/user", map[string]any{"password": long, "password_confirmation": long})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal([]string{"password"}, suite.errorFields(rec))
}

func (suite *APITestSuite) TestUnknownRouteAndMethod() {
	rec := suite.authed(http.MethodGet, "/api/nope", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("error", suite.decode(rec).Status)

	rec = suite.authed(http.MethodPatch, "/api/todos", nil)
	suite.Equal(http.StatusMethodNotAllowed, rec.Code)
	suite.Equal("Method not allowed", suite.decode(rec).Message)
}

func (suite *APITestSuite) TestRequestIDAndCORS() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	suite.engine.ServeHTTP(rec, req)

	suite.NotEmpty(rec.Header().Get("X-Request-ID"))
	suite.Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (suite *APITestSuite) TestLoginRateLimit() {
	cfg := *suite.cfg
	cfg.LoginRateLimitPerMinute = 2
	suite.engine = suite.newEngine(&cfg)

	body := map[string]any{"email": "nobody@example.com", "password": "password123"}
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPost, "/api/login", "", body).Code)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPost, "/api/login", "", body).Code)

	rec := suite.do(http.MethodPost, "/api/login", "", body)
	suite.Equal(http.StatusTooManyRequests, rec.Code)
	suite.Equal("Too many requests", suite.decode(rec).Message)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
