package application

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	repo "github.com/gharbhada/gharbhada-api/internal/domain/repository"
	"github.com/gharbhada/gharbhada-api/pkg/apperr"
	"github.com/gharbhada/gharbhada-api/pkg/mailer"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User

	getByEmailCalls int
	createCalls     int
	createErr       error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}, byID: map[string]*entity.User{}}
}

func (f *fakeUserRepo) add(u *entity.User) {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = "u-" + u.Email
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.getByEmailCalls++
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

type fakeHasher struct {
	hashCalls   int
	verifyCalls int
}

func (f *fakeHasher) Hash(plain string) (string, error) {
	f.hashCalls++
	return "hashed:" + plain, nil
}

func (f *fakeHasher) Verify(hash, plain string) bool {
	f.verifyCalls++
	return hash == "hashed:"+plain
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, sid string) (string, time.Time, error) {
	return "access-" + userID + "-" + sid, time.Now().Add(time.Hour), nil
}

func (fakeTokens) GenerateRefreshToken(userID, _, sid string) (string, time.Time, error) {
	return "refresh-" + userID + "-" + sid, time.Now().Add(24 * time.Hour), nil
}

type fakeMail struct {
	jobs []mailer.EmailJob
}

func (f *fakeMail) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		f.jobs = append(f.jobs, job)
	}
	return nil
}

func newAuthService(users *fakeUserRepo, hasher *fakeHasher, mail *fakeMail) *AuthService {
	return NewAuthService(users, hasher, fakeTokens{}, nil, mail, nil, mail != nil)
}

func registerInput() RegisterInput {
	return RegisterInput{
		FullName:   "Anil KC",
		Email:      "anil@test.com",
		Phone:      "9866052045",
		Password:   "Password123",
		RePassword: "Password123",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users := newFakeUserRepo()
		hasher := &fakeHasher{}
		mail := &fakeMail{}
		svc := newAuthService(users, hasher, mail)

		u, err := svc.Register(ctx, registerInput())
		require.NoError(t, err)

		assert.Equal(t, "anil@test.com", u.Email)
		assert.Equal(t, "Anil KC", u.FullName)
		assert.Equal(t, "9866052045", u.Phone)
		assert.Equal(t, entity.RoleUser, u.Role)
		assert.Equal(t, entity.StatusActive, u.Status)
		assert.Equal(t, "hashed:Password123", u.PasswordHash)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, 1, users.createCalls)

		require.Len(t, mail.jobs, 1)
		assert.Equal(t, "anil@test.com", mail.jobs[0].To)
		assert.Equal(t, "welcome", mail.jobs[0].Template)
	})

	t.Run("password mismatch fails before any store access", func(t *testing.T) {
		users := newFakeUserRepo()
		hasher := &fakeHasher{}
		svc := newAuthService(users, hasher, nil)

		in := registerInput()
		in.RePassword = "Password124"
		_, err := svc.Register(ctx, in)

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.KindValidation, ae.Kind)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus())
		assert.Equal(t, map[string]string{"re_password": "Passwords do not match."}, ae.Details)

		assert.Zero(t, users.getByEmailCalls, "store must not be touched")
		assert.Zero(t, users.createCalls)
		assert.Zero(t, hasher.hashCalls)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(&entity.User{ID: "u1", Email: "anil@test.com", Status: entity.StatusActive})
		svc := newAuthService(users, &fakeHasher{}, nil)

		_, err := svc.Register(ctx, registerInput())

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus())
		assert.Equal(t, apperr.CodeEmailTaken, ae.Code)
		assert.Equal(t, map[string]string{"email": "Email already registered."}, ae.Details)
		assert.Zero(t, users.createCalls)
	})

	t.Run("duplicate email is case-insensitive", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(&entity.User{ID: "u1", Email: "anil@test.com", Status: entity.StatusActive})
		svc := newAuthService(users, &fakeHasher{}, nil)

		in := registerInput()
		in.Email = "Anil@Test.com"
		_, err := svc.Register(ctx, in)

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus())
	})

	t.Run("write-time unique violation resolves like the pre-check", func(t *testing.T) {
		users := newFakeUserRepo()
		users.createErr = repo.ErrDuplicateEmail
		svc := newAuthService(users, &fakeHasher{}, nil)

		_, err := svc.Register(ctx, registerInput())

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus())
		assert.Equal(t, apperr.CodeEmailTaken, ae.Code)
		assert.Equal(t, map[string]string{"email": "Email already registered."}, ae.Details)
	})

	t.Run("email is normalized before storage", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := newAuthService(users, &fakeHasher{}, nil)

		in := registerInput()
		in.Email = "  Anil@Test.com "
		u, err := svc.Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "anil@test.com", u.Email)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	activeUser := func() *entity.User {
		return &entity.User{
			ID:           "u1",
			Email:        "anil@test.com",
			PasswordHash: "hashed:Password123",
			FullName:     "Anil KC",
			Role:         entity.RoleUser,
			Status:       entity.StatusActive,
		}
	}

	t.Run("success issues a token pair", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(activeUser())
		svc := newAuthService(users, &fakeHasher{}, nil)

		u, pair, err := svc.Login(ctx, "anil@test.com", "Password123")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.True(t, pair.AccessTokenExpiry.After(time.Now()))
	})

	t.Run("unknown email is 401 with its own code", func(t *testing.T) {
		svc := newAuthService(newFakeUserRepo(), &fakeHasher{}, nil)

		_, _, err := svc.Login(ctx, "ghost@test.com", "Password123")

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus())
		assert.Equal(t, apperr.CodeEmailNotFound, ae.Code)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(activeUser())
		svc := newAuthService(users, &fakeHasher{}, nil)

		_, _, err := svc.Login(ctx, "ANIL@TEST.COM", "Password123")
		require.NoError(t, err)
	})

	t.Run("suspended account is rejected before password verification", func(t *testing.T) {
		users := newFakeUserRepo()
		u := activeUser()
		u.Status = entity.StatusSuspended
		users.add(u)
		hasher := &fakeHasher{}
		svc := newAuthService(users, hasher, nil)

		_, _, err := svc.Login(ctx, "anil@test.com", "Password123")

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus())
		assert.Equal(t, apperr.CodeAccountSuspended, ae.Code)
		assert.Zero(t, hasher.verifyCalls, "password must not be checked for suspended accounts")
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(activeUser())
		svc := newAuthService(users, &fakeHasher{}, nil)

		_, _, err := svc.Login(ctx, "anil@test.com", "Password124")

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus())
		assert.Equal(t, apperr.CodeInvalidCredentials, ae.Code)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		svc := newAuthService(newFakeUserRepo(), &fakeHasher{}, nil)

		_, _, err := svc.Refresh(ctx, "ghost", "sid")

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus())
	})

	t.Run("suspended account cannot refresh", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(&entity.User{ID: "u1", Email: "anil@test.com", Status: entity.StatusSuspended})
		svc := newAuthService(users, &fakeHasher{}, nil)

		_, _, err := svc.Refresh(ctx, "u1", "sid")

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.CodeAccountSuspended, ae.Code)
	})

	t.Run("active account gets a rotated pair", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(&entity.User{ID: "u1", Email: "anil@test.com", Status: entity.StatusActive})
		svc := newAuthService(users, &fakeHasher{}, nil)

		u, pair, err := svc.Refresh(ctx, "u1", "sid")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.NotEmpty(t, pair.AccessToken)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	users.add(&entity.User{ID: "u1", Email: "anil@test.com", FullName: "Anil KC", Phone: "9866052045", Status: entity.StatusActive})
	svc := newAuthService(users, &fakeHasher{}, nil)

	u, err := svc.UpdateProfile(ctx, "u1", UpdateProfileInput{FullName: "Anil K.C."})
	require.NoError(t, err)
	assert.Equal(t, "Anil K.C.", u.FullName)
	assert.Equal(t, "9866052045", u.Phone, "empty fields are left untouched")

	_, err = svc.UpdateProfile(ctx, "ghost", UpdateProfileInput{FullName: "x"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus())
}
