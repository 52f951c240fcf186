package helpers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Fingel/fastastro/internal/auth"
	"github.com/Fingel/fastastro/internal/geo"
	"github.com/Fingel/fastastro/internal/models"
)

// CreateUser inserts a user directly, hashing the password when a raw
// one was supplied. Users default to active and verified so tests that
// do not care about the verification flow can log in immediately.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) {
	if user.HashedPassword != "" && !strings.HasPrefix(user.HashedPassword, "$argon2id$") {
		hashed, err := auth.HashPassword(user.HashedPassword)
		require.NoError(t, err, "failed to hash test password")
		user.HashedPassword = hashed
	}
	user.IsActive = true
	user.EmailVerified = true

	require.NoError(t, db.Create(user).Error, "failed to create test user %s", user.Email)
}

// CreateAndLoginUser creates a verified user and returns a session token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, email, password string) (string, *models.User) {
	user := &models.User{
		Email:          email,
		FirstName:      "Test",
		LastName:       "User",
		HashedPassword: password,
	}
	CreateUser(t, ts.DB, user)

	token := Login(t, ts, email, password)
	return token, user
}

// Login exchanges credentials for a session token via the API.
func Login(t *testing.T, ts *TestServer, email, password string) string {
	res, body := ts.SendForm(t, "/auth/token", url.Values{
		"username": {email},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: %s", body)

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &tokenResponse))
	require.NotEmpty(t, tokenResponse.AccessToken)
	return tokenResponse.AccessToken
}

// CreateSource inserts a catalog source directly with its geography
// point populated from ra/dec.
func CreateSource(t *testing.T, ts *TestServer, name string, ra, dec float64) *models.Source {
	err := ts.DB.Exec(
		"INSERT INTO sources (name, ra, dec, location, created_at, updated_at) VALUES (?, ?, ?, ST_GeographyFromText(?), NOW(), NOW())",
		name, ra, dec, geo.WKTPoint(ra, dec, geo.SRID),
	).Error
	require.NoError(t, err, "failed to create test source %s", name)

	var source models.Source
	require.NoError(t, ts.DB.Where("name = ?", name).Order("id DESC").Take(&source).Error)
	return &source
}
