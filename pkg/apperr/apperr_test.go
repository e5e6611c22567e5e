package apperr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("bad", nil), http.StatusBadRequest},
		{"conflict", Conflict("dup", nil), http.StatusConflict},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"internal", Internal("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.HTTPStatus())
		})
	}
}

func TestWithStatusOverridesKind(t *testing.T) {
	err := NotFound("invalid credentials").
		WithCode(CodeEmailNotFound).
		WithStatus(http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, err.HTTPStatus())
	assert.Equal(t, KindNotFound, err.Kind, "kind is preserved for callers that branch on it")
	assert.Equal(t, CodeEmailNotFound, err.Code)
}

func TestBuildersChain(t *testing.T) {
	err := Conflict("email already registered", map[string]string{"email": "Email already registered."}).
		WithCode(CodeEmailTaken)

	assert.Equal(t, "email already registered", err.Error())
	assert.Equal(t, CodeEmailTaken, err.Code)
	assert.Equal(t, "Email already registered.", err.Details["email"])
}

func TestValidationCarriesDefaultCode(t *testing.T) {
	err := Validation("validation failed", map[string]string{"re_password": "Passwords do not match."})
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
}
