package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/application"
	"github.com/gharbhada/gharbhada-api/pkg/response"
)

type AdminHandler struct {
	Admin    *application.AdminService
	Listings *application.ListingService
	Logger   *logrus.Logger
}

func NewAdminHandler(admin *application.AdminService, listings *application.ListingService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: admin, Listings: listings, Logger: logger}
}

// ListUsers GET /api/admin/users?limit=&offset=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	us, err := h.Admin.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.AppError(c, err)
		return
	}
	out := make([]gin.H, 0, len(us))
	for _, u := range us {
		out = append(out, gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"full_name":  u.FullName,
			"phone":      u.Phone,
			"role":       u.Role,
			"status":     u.Status,
			"created_at": u.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "users", gin.H{"limit": limit, "offset": offset, "count": len(out)})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetUserStatus PUT /api/admin/users/:id/status
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Admin.SetUserStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Status); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"status": req.Status}, "account status updated", nil)
}

type unlistRequest struct {
	Note string `json:"note"`
}

// UnlistListing PUT /api/admin/listings/:id/unlist
func (h *AdminHandler) UnlistListing(c *gin.Context) {
	var req unlistRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.Listings.Unlist(c.Request.Context(), c.Param("id"), req.Note); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"unlisted": true}, "listing unlisted", nil)
}
