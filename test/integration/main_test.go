package integration_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Fingel/fastastro/test/helpers"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer returns the shared test server, creating it on first use.
// When TEST_DATABASE_URL is unset the first caller skips inside
// NewTestServer and the server stays nil, so later callers must skip here
// rather than dereference it.
func GetTestServer(t *testing.T) *helpers.TestServer {
	serverOnce.Do(func() {
		globalTestServer = helpers.NewTestServer(t)
	})
	if globalTestServer == nil {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}
	return globalTestServer
}

// uniqueEmail avoids collisions between parallel tests sharing one database.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d@test.com", prefix, time.Now().UnixNano())
}
