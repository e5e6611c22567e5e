package application

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	repo "github.com/gharbhada/gharbhada-api/internal/domain/repository"
	"github.com/gharbhada/gharbhada-api/pkg/apperr"
	"github.com/gharbhada/gharbhada-api/pkg/mailer"
	tpl "github.com/gharbhada/gharbhada-api/pkg/mailer/templates"
)

// PasswordHasher is the credential hasher collaborator. Production wiring
// injects helpers.BcryptHasher; tests inject a fake.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenIssuer issues the signed session token pair for a verified identity.
// *helpers.JWTManager satisfies it.
type TokenIssuer interface {
	GenerateAccessToken(userID, role, sessionID string) (string, time.Time, error)
	GenerateRefreshToken(userID, role, sessionID string) (string, time.Time, error)
}

// MailEnqueuer publishes mail jobs; *helpers.RabbitPublisher satisfies it.
type MailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates registration and login. All failures are
// returned as *apperr.Error; the HTTP layer serializes them without
// further mapping.
type AuthService struct {
	Users  repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Redis  *redis.Client
	Mail   MailEnqueuer
	Logger *logrus.Logger

	MailEnabled bool
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, rdb *redis.Client, mail MailEnqueuer, logger *logrus.Logger, mailEnabled bool) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, Tokens: tokens, Redis: rdb, Mail: mail, Logger: logger, MailEnabled: mailEnabled}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	FullName   string
	Email      string
	Phone      string
	Password   string
	RePassword string
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

const sessionTTL = 24 * time.Hour

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. Password mismatch fails before any store
// access; a duplicate email fails whether detected by the pre-check or by
// the unique constraint at write time. Exactly one store write happens on
// success, none on failure.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Password != in.RePassword {
		return nil, apperr.Validation("validation failed", map[string]string{
			"re_password": "Passwords do not match.",
		})
	}

	email := NormalizeEmail(in.Email)
	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, s.internal("register lookup failed", err, logrus.Fields{"email": email})
	}
	if existing != nil {
		return nil, emailTaken()
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, s.internal("password hash failed", err, nil)
	}

	u := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         entity.RoleUser,
		Status:       entity.StatusActive,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// Concurrent registration for the same email: the store's unique
		// constraint resolves the race, and the outcome is the same
		// conflict as the pre-check.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, emailTaken()
		}
		return nil, s.internal("register create failed", err, logrus.Fields{"email": email})
	}

	s.enqueueMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     map[string]any{"FullName": u.FullName},
	})

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	}
	return u, nil
}

// Login verifies credentials and issues a token pair. The account status
// check precedes password verification so suspended accounts never learn
// whether their password was valid. No store writes occur on any path.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// 401 rather than 404 so the transport never distinguishes
			// an unknown email from a wrong password; the code field
			// keeps the contract clients already depend on.
			return nil, TokenPair{}, apperr.NotFound("invalid credentials").
				WithCode(apperr.CodeEmailNotFound).
				WithStatus(http.StatusUnauthorized)
		}
		return nil, TokenPair{}, s.internal("login lookup failed", err, nil)
	}

	if !u.IsActive() {
		return nil, TokenPair{}, apperr.Forbidden("account suspended").WithCode(apperr.CodeAccountSuspended)
	}

	if !s.Hasher.Verify(u.PasswordHash, password) {
		return nil, TokenPair{}, apperr.Unauthorized("invalid credentials").WithCode(apperr.CodeInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, s.internal("token issuance failed", err, logrus.Fields{"user_id": u.ID})
	}
	return u, pair, nil
}

// issueTokens generates the access/refresh pair and records a session hash
// in Redis keyed by user id.
func (s *AuthService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.Tokens.GenerateAccessToken(u.ID, u.Role, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.Tokens.GenerateRefreshToken(u.ID, u.Role, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"full_name":  u.FullName,
			"role":       u.Role,
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis session write failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and token pair. The caller has already
// parsed the refresh token; userID and sid come from its claims.
func (s *AuthService) Refresh(ctx context.Context, userID, sid string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, TokenPair{}, apperr.Unauthorized("invalid refresh token").WithCode(apperr.CodeInvalidCredentials)
	}
	if !u.IsActive() {
		return nil, TokenPair{}, apperr.Forbidden("account suspended").WithCode(apperr.CodeAccountSuspended)
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != sid {
			return nil, TokenPair{}, apperr.Unauthorized("session expired").WithCode(apperr.CodeInvalidCredentials)
		}
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, s.internal("token issuance failed", err, logrus.Fields{"user_id": u.ID})
	}
	return u, pair, nil
}

// Logout drops the Redis session. Cookies are cleared by the handler.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil && userID != "" {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

// GetProfile returns the account for an authenticated user id.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, s.internal("profile lookup failed", err, logrus.Fields{"user_id": userID})
	}
	return u, nil
}

type UpdateProfileInput struct {
	FullName  string
	Phone     string
	AvatarURL string
}

// UpdateProfile applies the non-empty fields of in to the account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, s.internal("profile update failed", err, logrus.Fields{"user_id": userID})
	}

	if s.Redis != nil {
		_ = s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{
			"full_name":  u.FullName,
			"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
		}).Err()
	}
	return u, nil
}

func (s *AuthService) enqueueMail(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil || !s.MailEnabled {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("mail enqueue failed")
	}
}

func (s *AuthService) internal(msg string, err error, fields logrus.Fields) *apperr.Error {
	if s.Logger != nil {
		entry := s.Logger.WithError(err)
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		entry.Error(msg)
	}
	return apperr.Internal("internal server error")
}

func emailTaken() *apperr.Error {
	return apperr.Conflict("email already registered", map[string]string{
		"email": "Email already registered.",
	}).WithCode(apperr.CodeEmailTaken)
}
