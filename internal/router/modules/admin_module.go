package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gharbhada/gharbhada-api/internal/container"
	handlers "github.com/gharbhada/gharbhada-api/internal/interface/http"
	"github.com/gharbhada/gharbhada-api/internal/interface/middleware"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
)

type AdminModule struct {
	Admin   *handlers.AdminHandler
	Reports *handlers.ReportHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(a *handlers.AdminHandler, r *handlers.ReportHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Admin: a, Reports: r, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/users", m.Admin.ListUsers)
		admin.PUT("/users/:id/status", m.Admin.SetUserStatus)

		admin.PUT("/listings/:id/unlist", m.Admin.UnlistListing)

		admin.GET("/reports", m.Reports.List)
		admin.PUT("/reports/:id/resolve", m.Reports.Resolve)
		admin.DELETE("/reports/:id", m.Reports.Delete)
	}
}
