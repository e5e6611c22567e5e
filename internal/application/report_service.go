package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	repo "github.com/gharbhada/gharbhada-api/internal/domain/repository"
	"github.com/gharbhada/gharbhada-api/pkg/apperr"
	"github.com/gharbhada/gharbhada-api/pkg/mailer"
	tpl "github.com/gharbhada/gharbhada-api/pkg/mailer/templates"
)

// ReportService handles fraud reports against listings. Reports live in a
// persistent store injected through ReportRepository, never in process
// memory.
type ReportService struct {
	Reports  repo.ReportRepository
	Listings repo.ListingRepository
	Users    repo.UserRepository

	Mail        MailEnqueuer
	MailEnabled bool
	Logger      *logrus.Logger
}

type ReportInput struct {
	Reason  string
	Details string
}

// Create files a report by reporterID against listingID. The reporter gets
// a confirmation mail.
func (s *ReportService) Create(ctx context.Context, reporterID, listingID string, in ReportInput) (*entity.Report, error) {
	l, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, s.internal("report listing lookup failed", err, logrus.Fields{"listing_id": listingID})
	}

	r := &entity.Report{
		ListingID:  listingID,
		ReporterID: reporterID,
		Reason:     in.Reason,
		Details:    in.Details,
		Status:     entity.ReportOpen,
	}
	if err := s.Reports.Create(ctx, r); err != nil {
		return nil, s.internal("report create failed", err, logrus.Fields{"listing_id": listingID})
	}

	if reporter, err := s.Users.GetByID(ctx, reporterID); err == nil {
		s.notify(ctx, mailer.EmailJob{
			To:       reporter.Email,
			Template: tpl.ReportReceived,
			Data:     map[string]any{"FullName": reporter.FullName, "ListingTitle": l.Title, "Reason": r.Reason},
		})
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"report_id": r.ID, "listing_id": listingID}).Info("report filed")
	}
	return r, nil
}

// List returns reports, optionally filtered by status. Admin only; the
// route is gated by middleware.
func (s *ReportService) List(ctx context.Context, status string, limit, offset int) ([]*entity.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rs, err := s.Reports.List(ctx, status, limit, offset)
	if err != nil {
		return nil, s.internal("report list failed", err, nil)
	}
	return rs, nil
}

// Resolve closes an open report. Resolving an already-resolved report is a
// conflict.
func (s *ReportService) Resolve(ctx context.Context, adminID, id string) error {
	r, err := s.Reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("report not found")
		}
		return s.internal("report lookup failed", err, logrus.Fields{"report_id": id})
	}
	if r.Status == entity.ReportResolved {
		return apperr.Conflict("report already resolved", nil)
	}
	if err := s.Reports.Resolve(ctx, id, adminID); err != nil {
		return s.internal("report resolve failed", err, logrus.Fields{"report_id": id})
	}
	return nil
}

// Delete removes a report entirely.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.Reports.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("report not found")
		}
		return s.internal("report delete failed", err, logrus.Fields{"report_id": id})
	}
	return nil
}

func (s *ReportService) notify(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil || !s.MailEnabled {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("mail enqueue failed")
	}
}

func (s *ReportService) internal(msg string, err error, fields logrus.Fields) *apperr.Error {
	if s.Logger != nil {
		entry := s.Logger.WithError(err)
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		entry.Error(msg)
	}
	return apperr.Internal("internal server error")
}
