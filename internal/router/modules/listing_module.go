package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gharbhada/gharbhada-api/internal/container"
	handlers "github.com/gharbhada/gharbhada-api/internal/interface/http"
	"github.com/gharbhada/gharbhada-api/internal/interface/middleware"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
)

type ListingModule struct {
	Listings *handlers.ListingHandler
	Reports  *handlers.ReportHandler
	JWT      *helpers.JWTManager
}

func NewListingModule(l *handlers.ListingHandler, r *handlers.ReportHandler, jwt *helpers.JWTManager) *ListingModule {
	return &ListingModule{Listings: l, Reports: r, JWT: jwt}
}

func (m *ListingModule) Register(rg *gin.RouterGroup) {
	// Browse, detail, and search are public
	browseLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/listings", browseLimiter, m.Listings.Browse)
	rg.GET("/listings/search", browseLimiter, m.Listings.Search)
	rg.GET("/listings/:id", browseLimiter, m.Listings.Get)

	// Everything that writes needs a session
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/listings", m.Listings.Create)
		auth.PUT("/listings/:id", m.Listings.Update)
		auth.DELETE("/listings/:id", m.Listings.Delete)
		auth.POST("/listings/:id/photo", m.Listings.UploadPhoto)
		auth.PUT("/listings/:id/rating", m.Listings.Rate)

		// Reports get a tighter per-user window to curb abuse
		reportLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)
		auth.POST("/listings/:id/reports", reportLimiter, m.Reports.Create)
	}
}
