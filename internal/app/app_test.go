package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/internal/diagnostics"
	"github.com/toyz/usersapi/internal/store"
	"github.com/toyz/usersapi/pkg/axon"
	"github.com/toyz/usersapi/pkg/axon/adapters"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testConfig(t *testing.T, adapter string) *config.Config {
	cfg := config.Default()
	cfg.Adapter = adapter
	cfg.DatabasePath = filepath.Join(t.TempDir(), "app.db")
	cfg.LogLevel = "error"
	return cfg
}

func quietDiagnostics(*diagnostics.DiagnosticSystem) *diagnostics.DiagnosticSystem {
	return diagnostics.NewWriterDiagnostics(diagnostics.DiagnosticSilent, io.Discard)
}

func TestModule_Graph(t *testing.T) {
	for _, adapter := range config.Adapters {
		t.Run(adapter, func(t *testing.T) {
			require.NoError(t, fx.ValidateApp(Module(testConfig(t, adapter)), fx.NopLogger))
		})
	}
}

func TestModule_ServesSeededUsers(t *testing.T) {
	var (
		server   axon.WebServerInterface
		registry axon.RouteRegistry
		st       *store.Store
	)
	app := fxtest.New(t,
		Module(testConfig(t, "chi")),
		fx.Decorate(quietDiagnostics),
		fx.NopLogger,
		fx.Populate(&server, &registry, &st),
	)
	require.NoError(t, app.Err())
	// The app is never started, so the store is closed here rather than by
	// its stop hook.
	t.Cleanup(func() { st.Close() })

	assert.Len(t, registry.GetAllRoutes(), 8)
	assert.Len(t, registry.GetRoutesByMethod("PUT"), 2)

	chi, ok := server.(*adapters.ChiAdapter)
	require.True(t, ok)

	rec := httptest.NewRecorder()
	chi.GetRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "maria@mail.com")
}

func TestNewServer(t *testing.T) {
	names := map[string]string{"gin": "Gin", "echo": "Echo", "fiber": "Fiber", "chi": "Chi"}
	for adapter, name := range names {
		server, err := NewServer(&config.Config{Adapter: adapter})
		require.NoError(t, err)
		assert.Equal(t, name, server.Name())
	}

	_, err := NewServer(&config.Config{Adapter: "net/http"})
	assert.Error(t, err)
}
