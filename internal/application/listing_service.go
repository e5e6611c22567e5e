package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
	repo "github.com/gharbhada/gharbhada-api/internal/domain/repository"
	"github.com/gharbhada/gharbhada-api/pkg/apperr"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
	"github.com/gharbhada/gharbhada-api/pkg/mailer"
	tpl "github.com/gharbhada/gharbhada-api/pkg/mailer/templates"
)

// ListingService owns the listing lifecycle: owner CRUD, photo upload to
// GCS, rating upserts, admin moderation, and Elasticsearch indexing.
type ListingService struct {
	Listings repo.ListingRepository
	Ratings  repo.RatingRepository
	Users    repo.UserRepository

	GCS       *storage.Client
	GCSBucket string

	ES      *elasticsearch.Client
	ESIndex string

	Mail        MailEnqueuer
	MailEnabled bool
	Logger      *logrus.Logger
}

type ListingInput struct {
	Title         string
	Description   string
	City          string
	Address       string
	PricePerMonth float64
	Bedrooms      int
	PropertyType  string
}

// Create posts a new listing owned by ownerID.
func (s *ListingService) Create(ctx context.Context, ownerID string, in ListingInput) (*entity.Listing, error) {
	l := &entity.Listing{
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		City:          strings.TrimSpace(in.City),
		Address:       in.Address,
		PricePerMonth: in.PricePerMonth,
		Bedrooms:      in.Bedrooms,
		PropertyType:  in.PropertyType,
		Status:        entity.ListingAvailable,
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, s.internal("listing create failed", err, logrus.Fields{"owner_id": ownerID})
	}
	s.index(ctx, l)
	return l, nil
}

// Get returns a listing with its rating summary.
func (s *ListingService) Get(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("listing not found")
		}
		return nil, s.internal("listing lookup failed", err, logrus.Fields{"listing_id": id})
	}
	if avg, count, err := s.Ratings.Summary(ctx, id); err == nil {
		l.AverageRating = avg
		l.RatingCount = count
	}
	return l, nil
}

// Browse lists available listings, optionally filtered by city.
func (s *ListingService) Browse(ctx context.Context, city string, limit, offset int) ([]*entity.Listing, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	ls, err := s.Listings.List(ctx, strings.TrimSpace(city), limit, offset)
	if err != nil {
		return nil, s.internal("listing browse failed", err, nil)
	}
	return ls, nil
}

// Update applies changes to a listing. Only the owner may update.
func (s *ListingService) Update(ctx context.Context, userID, id string, in ListingInput) (*entity.Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != userID {
		return nil, apperr.Forbidden("only the owner can modify this listing")
	}
	if in.Title != "" {
		l.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		l.Description = in.Description
	}
	if in.City != "" {
		l.City = strings.TrimSpace(in.City)
	}
	if in.Address != "" {
		l.Address = in.Address
	}
	if in.PricePerMonth > 0 {
		l.PricePerMonth = in.PricePerMonth
	}
	if in.Bedrooms > 0 {
		l.Bedrooms = in.Bedrooms
	}
	if in.PropertyType != "" {
		l.PropertyType = in.PropertyType
	}
	if err := s.Listings.Update(ctx, l); err != nil {
		return nil, s.internal("listing update failed", err, logrus.Fields{"listing_id": id})
	}
	s.index(ctx, l)
	return l, nil
}

// Delete removes a listing. The owner or an admin may delete.
func (s *ListingService) Delete(ctx context.Context, userID, role, id string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.OwnerID != userID && role != entity.RoleAdmin {
		return apperr.Forbidden("only the owner can delete this listing")
	}
	if err := s.Listings.Delete(ctx, id); err != nil {
		return s.internal("listing delete failed", err, logrus.Fields{"listing_id": id})
	}
	s.deleteIndex(ctx, id)
	return nil
}

// Rate records a 1..5 star rating; repeated ratings by the same user
// overwrite the previous one. Owners cannot rate their own listing.
func (s *ListingService) Rate(ctx context.Context, userID, listingID string, stars int, comment string) error {
	if stars < 1 || stars > 5 {
		return apperr.Validation("validation failed", map[string]string{"stars": "must be between 1 and 5"})
	}
	l, err := s.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if l.OwnerID == userID {
		return apperr.Forbidden("owners cannot rate their own listing")
	}
	r := &entity.Rating{ListingID: listingID, UserID: userID, Stars: stars, Comment: comment}
	if err := s.Ratings.Upsert(ctx, r); err != nil {
		return s.internal("rating upsert failed", err, logrus.Fields{"listing_id": listingID, "user_id": userID})
	}
	return nil
}

// UploadPhoto stores a listing photo in GCS and saves the public URL.
func (s *ListingService) UploadPhoto(ctx context.Context, userID, id string, r io.Reader, filename, contentType string) (string, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if l.OwnerID != userID {
		return "", apperr.Forbidden("only the owner can modify this listing")
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.Internal("photo storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("listings", id, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", s.internal("photo upload failed", err, logrus.Fields{"listing_id": id})
	}
	l.PhotoURL = url
	if err := s.Listings.Update(ctx, l); err != nil {
		return "", s.internal("listing update failed", err, logrus.Fields{"listing_id": id})
	}
	s.index(ctx, l)
	return url, nil
}

// Unlist hides a listing from browse and search. Admin moderation action;
// the owner is notified by mail.
func (s *ListingService) Unlist(ctx context.Context, id, note string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.Status == entity.ListingUnlisted {
		return nil
	}
	if err := s.Listings.UpdateStatus(ctx, id, entity.ListingUnlisted); err != nil {
		return s.internal("listing unlist failed", err, logrus.Fields{"listing_id": id})
	}
	l.Status = entity.ListingUnlisted
	s.index(ctx, l)

	if owner, err := s.Users.GetByID(ctx, l.OwnerID); err == nil {
		s.notify(ctx, mailer.EmailJob{
			To:       owner.Email,
			Template: tpl.ListingUnlisted,
			Data:     map[string]any{"FullName": owner.FullName, "ListingTitle": l.Title, "Note": note},
		})
	}
	return nil
}

// Search performs a multi_match query over title, description, and city,
// restricted to available listings.
func (s *ListingService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description", "city"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": entity.ListingAvailable},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, s.internal("listing search failed", err, nil)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, s.internal("listing search decode failed", err, nil)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *ListingService) index(ctx context.Context, l *entity.Listing) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":              l.ID,
		"owner_id":        l.OwnerID,
		"title":           l.Title,
		"description":     l.Description,
		"city":            l.City,
		"price_per_month": l.PricePerMonth,
		"bedrooms":        l.Bedrooms,
		"property_type":   l.PropertyType,
		"status":          l.Status,
		"photo_url":       l.PhotoURL,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: l.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("listing_id", l.ID).Warn("es index response error")
	}
}

func (s *ListingService) deleteIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

func (s *ListingService) notify(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil || !s.MailEnabled {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("mail enqueue failed")
	}
}

func (s *ListingService) internal(msg string, err error, fields logrus.Fields) *apperr.Error {
	if s.Logger != nil {
		entry := s.Logger.WithError(err)
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		entry.Error(msg)
	}
	return apperr.Internal("internal server error")
}
