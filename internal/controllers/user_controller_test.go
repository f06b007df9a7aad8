package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/usersapi/internal/audit"
	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/internal/controllers"
	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/internal/middleware"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/repository"
	"github.com/toyz/usersapi/internal/routes"
	"github.com/toyz/usersapi/internal/services"
	"github.com/toyz/usersapi/internal/store"
	"github.com/toyz/usersapi/internal/validation"
	"github.com/toyz/usersapi/pkg/axon"
	"github.com/toyz/usersapi/pkg/axon/adapters"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// api is a fully wired server plus a way to send it requests
type api struct {
	store *store.Store
	do    func(req *http.Request) (*http.Response, error)
}

func serveHTTP(h http.Handler) func(*http.Request) (*http.Response, error) {
	return func(req *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Result(), nil
	}
}

var servers = map[string]func() (axon.WebServerInterface, func(*http.Request) (*http.Response, error)){
	"gin": func() (axon.WebServerInterface, func(*http.Request) (*http.Response, error)) {
		a := adapters.NewDefaultGinAdapter()
		return a, serveHTTP(a.GetEngine())
	},
	"echo": func() (axon.WebServerInterface, func(*http.Request) (*http.Response, error)) {
		a := adapters.NewDefaultEchoAdapter()
		return a, serveHTTP(a.GetEngine())
	},
	"chi": func() (axon.WebServerInterface, func(*http.Request) (*http.Response, error)) {
		a := adapters.NewDefaultChiAdapter()
		return a, serveHTTP(a.GetRouter())
	},
	"fiber": func() (axon.WebServerInterface, func(*http.Request) (*http.Response, error)) {
		a := adapters.NewDefaultFiberAdapter()
		return a, func(req *http.Request) (*http.Response, error) { return a.GetApp().Test(req, -1) }
	},
}

func newAPI(t *testing.T, adapter string) api {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.Init(context.Background(), store.DefaultSeed)
	require.NoError(t, err)

	cfg := config.Default()
	logger := logging.Discard()
	logs := repository.NewAuditRepository(s)
	service := services.NewUserService(repository.NewUserRepository(s), logs, audit.NewRecorder(logs, logger), validation.New(), cfg, logger)

	server, do := servers[adapter]()
	routes.RegisterRoutes(server, routes.Middlewares{
		RequestID: middleware.NewRequestIDMiddleware(),
		Logging:   middleware.NewLoggingMiddleware(logger),
		Errors:    middleware.NewErrorHandlingMiddleware(cfg, logger),
	}, controllers.NewUserController(service), axon.NewInMemoryRouteRegistry())

	return api{store: s, do: do}
}

func (a api) send(t *testing.T, method, target, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "controller-test")

	resp, err := a.do(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(b)
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}

func TestUserAPI_Scenario(t *testing.T) {
	for name := range servers {
		t.Run(name, func(t *testing.T) {
			a := newAPI(t, name)

			resp, body := a.send(t, "GET", "/api/users/logs/stats", "")
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, "No data in logs", decode[models.MessageResponse](t, body).Message)

			resp, body = a.send(t, "POST", "/api/users", `{"name":"Ann","email":"ann@x.com","age":30}`)
			require.Equal(t, 201, resp.StatusCode, body)
			assert.Equal(t, "/api/users/3", resp.Header.Get("Location"))
			created := decode[models.User](t, body)
			assert.Equal(t, 3, created.ID)

			resp, body = a.send(t, "GET", "/api/users/3", "")
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, created, decode[models.User](t, body))

			resp, body = a.send(t, "POST", "/api/users", `{"name":"A"}`)
			require.Equal(t, 400, resp.StatusCode)
			invalid := decode[models.ApiErrorResponse](t, body)
			assert.Equal(t, "ValidationError", invalid.ErrorType)
			assert.Contains(t, invalid.Details, "name")
			assert.Contains(t, invalid.Details, "email")
			assert.NotEmpty(t, invalid.RequestID)

			resp, _ = a.send(t, "PUT", "/api/users/999", `{"name":"Ghost","email":"g@x.com"}`)
			assert.Equal(t, 404, resp.StatusCode)

			resp, body = a.send(t, "GET", "/api/users/logs?userId=999&limit=1", "")
			require.Equal(t, 200, resp.StatusCode)
			list := decode[models.LogList](t, body)
			require.Equal(t, 1, list.TotalLogs)
			assert.Equal(t, models.StatusFailed, list.Logs[0].Status)
			assert.Equal(t, models.OperationUpdateUser, list.Logs[0].OperationType)
			assert.Equal(t, "controller-test", list.Logs[0].UserAgent)

			resp, body = a.send(t, "GET", "/api/users", "")
			require.Equal(t, 200, resp.StatusCode)
			assert.Len(t, decode[[]models.User](t, body), 3)
			assert.Empty(t, resp.Header.Get(controllers.SkippedRowsHeader))

			resp, body = a.send(t, "PUT", "/api/users/3/email", `{"currentName":"Bob","newEmail":"new@x.com"}`)
			require.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, models.BusinessFailure{Message: services.EmailUpdateFailed, Reason: services.EmailNoMatch},
				decode[models.BusinessFailure](t, body))

			resp, body = a.send(t, "PUT", "/api/users/3/email", `{"currentName":"Ann","newEmail":"new@x.com"}`)
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, "new@x.com", decode[models.EmailUpdateResult](t, body).NewEmail)

			resp, body = a.send(t, "PUT", "/api/users/3", `{"name":"Anna","email":"anna@x.com"}`)
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, "User data updated", body)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))

			resp, body = a.send(t, "DELETE", "/api/users/3", "")
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, "User with ID 3 deleted", body)

			resp, _ = a.send(t, "GET", "/api/users/3", "")
			assert.Equal(t, 404, resp.StatusCode)

			resp, body = a.send(t, "GET", "/api/users/logs/stats", "")
			require.Equal(t, 200, resp.StatusCode)
			stats := decode[models.LogStatistics](t, body)
			assert.Equal(t, 7, stats.TotalOperations)
			assert.Equal(t, 4, stats.SuccessOperations)
			assert.Equal(t, 3, stats.FailedOperations)
			assert.Equal(t, 3, stats.UniqueUsers)
		})
	}
}

func TestUserAPI_BadParameters(t *testing.T) {
	a := newAPI(t, "gin")

	resp, body := a.send(t, "GET", "/api/users/0", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "ValidationError", decode[models.ApiErrorResponse](t, body).ErrorType)

	resp, body = a.send(t, "GET", "/api/users/abc", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, decode[models.ApiErrorResponse](t, body).Details, "id")

	resp, body = a.send(t, "GET", "/api/users/logs?limit=ten", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, decode[models.ApiErrorResponse](t, body).Details, "limit")

	resp, _ = a.send(t, "DELETE", "/api/users/-4", "")
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUserAPI_MalformedBodyIsAudited(t *testing.T) {
	a := newAPI(t, "chi")

	resp, body := a.send(t, "PUT", "/api/users/1", `{"name":`)
	require.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, decode[models.ApiErrorResponse](t, body).Details, "body")

	_, body = a.send(t, "GET", "/api/users/logs?userId=1", "")
	list := decode[models.LogList](t, body)
	require.Equal(t, 1, list.TotalLogs)
	assert.Equal(t, models.StatusFailed, list.Logs[0].Status)
	require.NotNil(t, list.Logs[0].Details)
	assert.True(t, strings.HasPrefix(*list.Logs[0].Details, "validation: request body is not valid JSON"))
}

func TestUserAPI_DatabaseFailure(t *testing.T) {
	a := newAPI(t, "echo")

	_, err := a.store.DB().Exec("DROP TABLE Users")
	require.NoError(t, err)

	resp, body := a.send(t, "GET", "/api/users", "")
	require.Equal(t, 500, resp.StatusCode)
	failure := decode[models.ApiErrorResponse](t, body)
	assert.Equal(t, "DatabaseError", failure.ErrorType)
	assert.Equal(t, "Error while executing operation 'list users'", failure.Message)
	assert.Equal(t, "1", failure.Details["SqliteErrorCode"])
	assert.Contains(t, failure.Details["ErrorMessage"], "no such table")
}

func TestUserAPI_LogRetrievalFailure(t *testing.T) {
	a := newAPI(t, "gin")

	_, err := a.store.DB().Exec("DROP TABLE UpdateLogs")
	require.NoError(t, err)

	resp, body := a.send(t, "GET", "/api/users/logs", "")
	require.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, models.ErrorTypeLogRetrieval, decode[models.ApiErrorResponse](t, body).ErrorType)

	resp, body = a.send(t, "GET", "/api/users/logs/stats", "")
	require.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, models.ErrorTypeLogStats, decode[models.ApiErrorResponse](t, body).ErrorType)
}

func TestUserAPI_SkippedRowsHeader(t *testing.T) {
	a := newAPI(t, "chi")

	_, err := a.store.DB().Exec("INSERT INTO Users (Name, Email, Age) VALUES ('Bad', 'b@x.com', 'old')")
	require.NoError(t, err)

	resp, body := a.send(t, "GET", "/api/users", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(controllers.SkippedRowsHeader))
	assert.Len(t, decode[[]models.User](t, body), 2)
}

func TestUserAPI_RequestIDIsReturned(t *testing.T) {
	a := newAPI(t, "fiber")

	req := httptest.NewRequest("GET", "/api/users/1", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-1")
	resp, err := a.do(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-1", resp.Header.Get(middleware.RequestIDHeader))
}
