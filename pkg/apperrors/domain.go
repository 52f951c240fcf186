package apperrors

import (
	"net/http"
)

/*
Predefined domain errors and factories for the catalog's error taxonomy.
*/

// ErrDuplicateValue reports a uniqueness violation on the named field. Used
// both for the pre-insert check and for unique-index violations raised at
// commit when a concurrent request races past the pre-check.
func ErrDuplicateValue(field string, value interface{}) *AppError {
	return New(CodeDuplicateValue, "resource", "Duplicate value", http.StatusConflict).
		WithDetails(map[string]interface{}{"field": field, "value": value})
}

// ErrNotFound converts a repository miss into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrInvalidCredentials is returned for every failed login or password check.
// The message is identical whether the account is missing or the password is
// wrong, so the error channel does not reveal which emails are registered.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect username or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken covers every token-validation failure on the confirm and
// reset paths: expired, forged, unknown subject, or disallowed account state.
// Collapsing them into one message is deliberate; keep it that way.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token, please request a new one",
	http.StatusBadRequest,
)
