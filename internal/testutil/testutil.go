package testutil

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/weather-gate/internal/api"
	"github.com/dom/weather-gate/internal/config"
	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/kvstore"
	"github.com/dom/weather-gate/internal/repository"
	"github.com/dom/weather-gate/internal/repository/kv"
	"github.com/dom/weather-gate/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_weather_gate"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(testDB.Cleanup)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := kvstore.NewConnection(dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	testDB.DB = db
	testDB.DSN = dsn
	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all records for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	if err := tdb.DB.Exec("TRUNCATE TABLE kv_records").Error; err != nil {
		t.Logf("warning: failed to truncate kv_records: %v", err)
	}
}

// NewTestRedis starts a redis container and returns a connected client
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client, err := kvstore.NewRedisClient(addr, "")
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// NewFileRepositories builds file-backed repositories inside dir
func NewFileRepositories(t *testing.T, dir string) *repository.Repositories {
	t.Helper()

	users, err := kvstore.OpenFile[domain.User](filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("failed to open users store: %v", err)
	}
	sessions, err := kvstore.OpenFile[domain.Session](filepath.Join(dir, "sessions.json"))
	if err != nil {
		t.Fatalf("failed to open sessions store: %v", err)
	}

	repos, err := kv.NewRepositories(context.Background(), users, sessions)
	if err != nil {
		t.Fatalf("failed to load repositories: %v", err)
	}

	return repos
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		StorageDriver:      config.StorageFile,
		OpenWeatherAPIKey:  "test-api-key",
		OpenWeatherBaseURL: "http://127.0.0.1:0",
		WeatherLang:        "ru",
		WeatherUnits:       "metric",
		WeatherTimeout:     2 * time.Second,
		ForecastDays:       10,
		RateLimit:          15,
		LoginRoute:         "/login.html",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Provider *FakeProvider
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by temp files and a fake provider
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return NewTestServerWithConfig(t, TestConfig())
}

func NewTestServerWithConfig(t *testing.T, cfg *config.Config) *TestServer {
	t.Helper()

	provider := NewFakeProvider(t)
	cfg.OpenWeatherBaseURL = provider.URL()

	repos := NewFileRepositories(t, t.TempDir())
	services := service.NewServices(repos, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		Provider: provider,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// NewClient returns a client with its own cookie jar, i.e. a fresh browser
func (ts *TestServer) NewClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}
