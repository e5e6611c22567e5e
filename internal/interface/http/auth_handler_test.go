package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbhada/gharbhada-api/internal/application"
	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	repo "github.com/gharbhada/gharbhada-api/internal/domain/repository"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
	"github.com/gharbhada/gharbhada-api/pkg/validation"
)

type memUserRepo struct {
	byEmail map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	u.ID = "u-" + u.Email
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	u, err := m.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	u.Status = status
	return nil
}

func (m *memUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	return nil, nil
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Verify(hash, plain string) bool    { return hash == "h:"+plain }

type envelope struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := newMemUserRepo()
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Minute, time.Hour)
	svc := application.NewAuthService(users, plainHasher{}, jwt, nil, nil, nil, false)
	h := NewAuthHandler(svc, jwt, nil, "localhost", false)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r, users
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body map[string]any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func registerBody() map[string]any {
	return map[string]any{
		"full_name":   "Anil KC",
		"email":       "anil@test.com",
		"phone":       "9866052045",
		"password":    "Password123",
		"re_password": "Password123",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody())
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "User registered successfully", env.Message)
		assert.Equal(t, "anil@test.com", env.Data["email"])
		assert.NotEmpty(t, env.Data["id"])
	})

	t.Run("password mismatch", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		body := registerBody()
		body["re_password"] = "Password124"
		w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "Passwords do not match.", env.Error.Details["re_password"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		_, first := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody())
		require.True(t, first.Success)

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody())
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Email already registered.", env.Error.Details["email"])
	})

	t.Run("missing fields fail binding", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]any{"email": "anil@test.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Details, "full_name")
		assert.Contains(t, env.Error.Details, "password")
	})
}

func TestLoginEndpoint(t *testing.T) {
	register := func(t *testing.T, r *gin.Engine) {
		_, env := doJSON(t, r, http.MethodPost, "/api/auth/register", registerBody())
		require.True(t, env.Success)
	}

	t.Run("success sets cookies and returns token", func(t *testing.T) {
		r, _ := setupAuthRouter(t)
		register(t, r)

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "anil@test.com",
			"password": "Password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Login successful", env.Message)
		assert.NotEmpty(t, env.Data["token"])
		assert.Equal(t, "Anil KC", env.Data["full_name"])

		names := map[string]bool{}
		for _, c := range w.Result().Cookies() {
			names[c.Name] = c.HttpOnly
		}
		assert.True(t, names["access_token"], "access_token cookie must be http-only")
		assert.True(t, names["refresh_token"], "refresh_token cookie must be http-only")
	})

	t.Run("unknown email", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "ghost@test.com",
			"password": "Password123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "EMAIL_NOT_FOUND", env.Error.Code)
	})

	t.Run("suspended account wins over wrong password", func(t *testing.T) {
		r, users := setupAuthRouter(t)
		register(t, r)
		users.byEmail["anil@test.com"].Status = entity.StatusSuspended

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "anil@test.com",
			"password": "totally-wrong",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ACCOUNT_SUSPENDED", env.Error.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		r, _ := setupAuthRouter(t)
		register(t, r)

		w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "anil@test.com",
			"password": "Password124",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	})
}
