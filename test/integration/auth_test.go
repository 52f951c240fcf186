package integration_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fingel/fastastro/internal/email"
	"github.com/Fingel/fastastro/test/helpers"
)

// messagesTo returns outbox mail addressed to one recipient. Filtering
// by address keeps parallel tests from seeing each other's mail.
func messagesTo(ts *helpers.TestServer, to string) []email.Message {
	ts.Dispatcher.Flush()
	var out []email.Message
	for _, m := range ts.Outbox.Messages() {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

func tokenInBody(t *testing.T, body string) string {
	token := tokenPattern.FindString(body)
	require.NotEmpty(t, token, "mail body should contain a token: %s", body)
	return token
}

func TestRegister_SendsVerificationMail(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("register")

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":      addr,
		"first_name": "Reg",
		"last_name":  "Istrant",
		"password":   "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "register should succeed: %s", body)
	assert.Contains(t, body, `"email_verified":false`)
	assert.NotContains(t, body, "hashed_password")
	assert.NotContains(t, body, "super_password123")

	mail := messagesTo(ts, addr)
	require.Len(t, mail, 1)
	assert.Contains(t, mail[0].Subject, "verify")
	assert.Contains(t, mail[0].Body, "/auth/confirm_email?token=")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("duplicate")

	payload := map[string]interface{}{
		"email":      addr,
		"first_name": "First",
		"last_name":  "User",
		"password":   "super_password123",
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, res.StatusCode, "second register should conflict: %s", body)

	// The conflicting attempt must not enqueue another verification mail.
	assert.Len(t, messagesTo(ts, addr), 1)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":      uniqueEmail("shortpw"),
		"first_name": "Short",
		"last_name":  "Password",
		"password":   "2short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("login")
	helpers.CreateAndLoginUser(t, ts, addr, "super_password123")

	resWrongPass, bodyWrongPass := ts.SendForm(t, "/auth/token", url.Values{
		"username": {addr},
		"password": {"not_the_password"},
	})
	resNoUser, bodyNoUser := ts.SendForm(t, "/auth/token", url.Values{
		"username": {uniqueEmail("ghost")},
		"password": {"super_password123"},
	})

	assert.Equal(t, http.StatusUnauthorized, resWrongPass.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, resNoUser.StatusCode)
	assert.Equal(t, bodyWrongPass, bodyNoUser, "failure bodies must not reveal which part was wrong")
}

func TestConfirmEmail_Flow(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("confirm")

	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":      addr,
		"first_name": "Con",
		"last_name":  "Firm",
		"password":   "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	mail := messagesTo(ts, addr)
	require.Len(t, mail, 1)
	token := tokenInBody(t, mail[0].Body)

	res, body := ts.SendRequest(t, http.MethodGet, "/auth/confirm_email?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, "confirm should succeed: %s", body)

	// Confirming again with the same token is a no-op, not an error.
	res, _ = ts.SendRequest(t, http.MethodGet, "/auth/confirm_email?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	sessionToken := helpers.Login(t, ts, addr, "super_password123")
	res, body = ts.SendRequest(t, http.MethodGet, "/auth/users/me", sessionToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"email_verified":true`)
}

func TestConfirmEmail_BadToken(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/auth/confirm_email?token=not.a.token", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/auth/confirm_email", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSessionToken_NotValidForConfirm(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("scope")
	sessionToken, _ := helpers.CreateAndLoginUser(t, ts, addr, "super_password123")

	// A session token lacks the verification scope.
	res, _ := ts.SendRequest(t, http.MethodGet, "/auth/confirm_email?token="+sessionToken, "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPasswordReset_SilentForUnknownAndUnverified(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	ghost := uniqueEmail("resetghost")
	res, body := ts.SendRequest(t, http.MethodPost, "/auth/reset_password", "", map[string]interface{}{
		"email": ghost,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "unknown email must succeed silently: %s", body)
	assert.Len(t, messagesTo(ts, ghost), 0)

	// Registered but never verified: same silent success, no mail beyond
	// the original verification message.
	unverified := uniqueEmail("resetunverified")
	res, _ = ts.SendRequest(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":      unverified,
		"first_name": "Un",
		"last_name":  "Verified",
		"password":   "super_password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/auth/reset_password", "", map[string]interface{}{
		"email": unverified,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, messagesTo(ts, unverified), 1)
}

func TestPasswordReset_Flow(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("reset")
	helpers.CreateAndLoginUser(t, ts, addr, "old_password123")

	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/reset_password", "", map[string]interface{}{
		"email": addr,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	mail := messagesTo(ts, addr)
	require.Len(t, mail, 1)
	assert.Contains(t, mail[0].Subject, "password reset")
	resetToken := tokenInBody(t, mail[0].Body)

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/password_reset_confirm", "", map[string]interface{}{
		"token":    resetToken,
		"password": "new_password456",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "reset confirm should succeed: %s", body)

	// Old password no longer works, the new one does.
	res, _ = ts.SendForm(t, "/auth/token", url.Values{
		"username": {addr},
		"password": {"old_password123"},
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	helpers.Login(t, ts, addr, "new_password456")
}

func TestPasswordResetConfirm_BadToken(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/password_reset_confirm", "", map[string]interface{}{
		"token":    "not.a.token",
		"password": "new_password456",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestUpdateProfile_SparseUpdate(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("patch")
	token, _ := helpers.CreateAndLoginUser(t, ts, addr, "super_password123")

	res, body := ts.SendRequest(t, http.MethodPatch, "/auth/users/me", token, map[string]interface{}{
		"first_name": "Updated",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "patch should succeed: %s", body)

	var user struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	assert.Equal(t, "Updated", user.FirstName)
	assert.Equal(t, "User", user.LastName, "untouched fields must survive a sparse update")
	assert.Equal(t, addr, user.Email)
}

func TestUpdateProfile_ExplicitNullLeavesFieldUntouched(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("nullpatch")
	token, _ := helpers.CreateAndLoginUser(t, ts, addr, "super_password123")

	// Explicit JSON null binds to a nil pointer and is treated the same as
	// an absent field.
	res, body := ts.SendRequest(t, http.MethodPatch, "/auth/users/me", token, map[string]interface{}{
		"first_name": nil,
		"last_name":  "Renamed",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "patch should succeed: %s", body)

	var user struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	assert.Equal(t, "Test", user.FirstName, "null field must be left untouched")
	assert.Equal(t, "Renamed", user.LastName)
}

func TestUpdateProfile_EmailChangeResetsVerification(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("emailchange")
	token, _ := helpers.CreateAndLoginUser(t, ts, addr, "super_password123")

	newAddr := uniqueEmail("emailchanged")
	res, body := ts.SendRequest(t, http.MethodPatch, "/auth/users/me", token, map[string]interface{}{
		"email": newAddr,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "patch should succeed: %s", body)
	assert.Contains(t, body, `"email_verified":false`)

	mail := messagesTo(ts, newAddr)
	require.Len(t, mail, 1)
	assert.Contains(t, mail[0].Subject, "verify")
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	addr := uniqueEmail("changepw")
	token, _ := helpers.CreateAndLoginUser(t, ts, addr, "super_password123")

	res, _ := ts.SendRequest(t, http.MethodPost, "/auth/users/me/update_password", token, map[string]interface{}{
		"current_password": "wrong_password",
		"password":         "new_password456",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/users/me/update_password", token, map[string]interface{}{
		"current_password": "super_password123",
		"password":         "new_password456",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "change should succeed: %s", body)

	helpers.Login(t, ts, addr, "new_password456")
}

func TestUsersMe_RequiresToken(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/auth/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/auth/users/me", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
