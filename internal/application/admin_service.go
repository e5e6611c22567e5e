package application

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	repo "github.com/gharbhada/gharbhada-api/internal/domain/repository"
	"github.com/gharbhada/gharbhada-api/pkg/apperr"
)

// AdminService owns account moderation: the only code path that mutates
// User.Status after creation.
type AdminService struct {
	Users  repo.UserRepository
	Redis  *redis.Client
	Logger *logrus.Logger
}

// ListUsers pages through accounts.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	us, err := s.Users.List(ctx, limit, offset)
	if err != nil {
		return nil, s.internal("user list failed", err, nil)
	}
	return us, nil
}

// SetUserStatus suspends or reactivates an account. Suspension drops the
// live session so the account cannot keep using an existing token pair.
func (s *AdminService) SetUserStatus(ctx context.Context, adminID, userID, status string) error {
	if status != entity.StatusActive && status != entity.StatusSuspended {
		return apperr.Validation("validation failed", map[string]string{"status": "must be one of: active, suspended"})
	}
	if adminID == userID {
		return apperr.Forbidden("admins cannot change their own status")
	}
	if err := s.Users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return s.internal("status update failed", err, logrus.Fields{"user_id": userID})
	}
	if status == entity.StatusSuspended && s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"admin_id": adminID, "user_id": userID, "status": status}).Info("account status changed")
	}
	return nil
}

func (s *AdminService) internal(msg string, err error, fields logrus.Fields) *apperr.Error {
	if s.Logger != nil {
		entry := s.Logger.WithError(err)
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		entry.Error(msg)
	}
	return apperr.Internal("internal server error")
}
