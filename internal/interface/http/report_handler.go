package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gharbhada/gharbhada-api/internal/application"
	"github.com/gharbhada/gharbhada-api/pkg/response"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

type reportRequest struct {
	Reason  string `json:"reason" binding:"required,oneof=scam duplicate wrong_info offensive other"`
	Details string `json:"details"`
}

// Create POST /api/listings/:id/reports (auth required)
func (h *ReportHandler) Create(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), c.Param("id"), application.ReportInput{
		Reason:  req.Reason,
		Details: req.Details,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r, "report filed", nil)
}

// List GET /api/admin/reports?status=&limit=&offset= (admin only)
func (h *ReportHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	rs, err := h.Svc.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rs, "reports", gin.H{"limit": limit, "offset": offset, "count": len(rs)})
}

// Resolve PUT /api/admin/reports/:id/resolve (admin only)
func (h *ReportHandler) Resolve(c *gin.Context) {
	if err := h.Svc.Resolve(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"resolved": true}, "report resolved", nil)
}

// Delete DELETE /api/admin/reports/:id (admin only)
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "report deleted", nil)
}
