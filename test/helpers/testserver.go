package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/Fingel/fastastro/database"
	"github.com/Fingel/fastastro/internal/app"
	"github.com/Fingel/fastastro/internal/config"
	"github.com/Fingel/fastastro/internal/email"
	"github.com/Fingel/fastastro/internal/logger"
)

type TestServer struct {
	Server     *httptest.Server
	DB         *gorm.DB
	Outbox     *email.MemoryBackend
	Dispatcher *email.Dispatcher
}

// NewTestServer spins up the full handler chain against the database
// named by TEST_DATABASE_URL. Outgoing mail lands in the in-memory
// outbox; call Dispatcher.Flush before asserting on it.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	cfg := testConfig(dsn)
	config.AppConfig = cfg
	logger.Init(cfg.Server.Env)

	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", dsn, err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	outbox := email.NewMemoryBackend()
	dispatcher := email.NewDispatcher(outbox)
	dispatcher.Start(context.Background())

	router := app.SetupRouter(cfg, db, dispatcher)
	server := httptest.NewServer(router)

	log.Printf("test server ready, database %s", dsn)

	return &TestServer{
		Server:     server,
		DB:         db,
		Outbox:     outbox,
		Dispatcher: dispatcher,
	}
}

func testConfig(dsn string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.DSN = dsn
	cfg.JWT.Secret = "insecure_test_secret_0123456789"
	cfg.JWT.TTLMinutes = 60
	cfg.Email.Backend = config.MailBackendMemory
	cfg.Email.FromAddress = "noreply@m51.io"
	cfg.SiteURL = "http://localhost:8000"
	return cfg
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest performs a JSON request against the test server.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

// SendForm performs a form-encoded POST, as the token endpoint expects.
func (ts *TestServer) SendForm(t *testing.T, path string, values url.Values) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return res, string(resBody)
}
