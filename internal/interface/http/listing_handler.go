package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/application"
	"github.com/gharbhada/gharbhada-api/pkg/response"
)

const maxPhotoSize = 8 << 20 // 8 MiB

type ListingHandler struct {
	Svc    *application.ListingService
	Logger *logrus.Logger
}

func NewListingHandler(svc *application.ListingService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

type listingRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	City          string  `json:"city" binding:"required"`
	Address       string  `json:"address"`
	PricePerMonth float64 `json:"price_per_month" binding:"required,gt=0"`
	Bedrooms      int     `json:"bedrooms" binding:"gte=0"`
	PropertyType  string  `json:"property_type" binding:"required,oneof=room flat house"`
}

type listingUpdateRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	City          string  `json:"city"`
	Address       string  `json:"address"`
	PricePerMonth float64 `json:"price_per_month"`
	Bedrooms      int     `json:"bedrooms"`
	PropertyType  string  `json:"property_type" binding:"omitempty,oneof=room flat house"`
}

// Create POST /api/listings (auth required)
func (h *ListingHandler) Create(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	l, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), application.ListingInput{
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		Address:       req.Address,
		PricePerMonth: req.PricePerMonth,
		Bedrooms:      req.Bedrooms,
		PropertyType:  req.PropertyType,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l, "listing created", nil)
}

// Get GET /api/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	l, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "listing", nil)
}

// Browse GET /api/listings?city=&limit=&offset=
func (h *ListingHandler) Browse(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	ls, err := h.Svc.Browse(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ls, "listings", gin.H{"limit": limit, "offset": offset, "count": len(ls)})
}

// Search GET /api/listings/search?q=&size=
func (h *ListingHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "validation failed", response.ErrorBody{
			Details: map[string]string{"q": "query is required"},
		})
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q, queryInt(c, "size", 10))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Update PUT /api/listings/:id (owner only)
func (h *ListingHandler) Update(c *gin.Context) {
	var req listingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	l, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), application.ListingInput{
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		Address:       req.Address,
		PricePerMonth: req.PricePerMonth,
		Bedrooms:      req.Bedrooms,
		PropertyType:  req.PropertyType,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "listing updated", nil)
}

// Delete DELETE /api/listings/:id (owner or admin)
func (h *ListingHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.GetString("userRole"), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "listing deleted", nil)
}

type rateRequest struct {
	Stars   int    `json:"stars" binding:"required,stars"`
	Comment string `json:"comment"`
}

// Rate PUT /api/listings/:id/rating (auth required)
func (h *ListingHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	err := h.Svc.Rate(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Stars, req.Comment)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"rated": true}, "rating saved", nil)
}

// UploadPhoto POST /api/listings/:id/photo (owner only, multipart)
func (h *ListingHandler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", response.ErrorBody{
			Details: map[string]string{"photo": "file is required"},
		})
		return
	}
	if fh.Size > maxPhotoSize {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable upload", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), c.GetString("userID"), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photo_url": url}, "photo uploaded", nil)
}
