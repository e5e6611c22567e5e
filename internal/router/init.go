package router

import (
	"github.com/gharbhada/gharbhada-api/internal/application"
	"github.com/gharbhada/gharbhada-api/internal/container"
	pginfra "github.com/gharbhada/gharbhada-api/internal/infrastructure/postgres"
	handlers "github.com/gharbhada/gharbhada-api/internal/interface/http"
	"github.com/gharbhada/gharbhada-api/internal/router/modules"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
)

type moduleDeps struct {
	Auth    *handlers.AuthHandler
	Listing *handlers.ListingHandler
	Report  *handlers.ReportHandler
	Admin   *handlers.AdminHandler
}

func buildDeps() moduleDeps {
	cfg := container.GetConfig()
	log := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	listings := pginfra.NewListingRepository(pool)
	ratings := pginfra.NewRatingRepository(pool)
	reports := pginfra.NewReportRepository(pool)

	var mail application.MailEnqueuer
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	authSvc := application.NewAuthService(
		users,
		helpers.BcryptHasher{},
		container.GetJWT(),
		container.GetRedis(),
		mail,
		log,
		cfg.MailSendEnabled,
	)

	listingSvc := &application.ListingService{
		Listings:    listings,
		Ratings:     ratings,
		Users:       users,
		GCS:         container.GetGCS(),
		GCSBucket:   cfg.GCSBucket,
		ES:          container.GetES(),
		ESIndex:     cfg.ESListingsIndex,
		Mail:        mail,
		MailEnabled: cfg.MailSendEnabled,
		Logger:      log,
	}

	reportSvc := &application.ReportService{
		Reports:     reports,
		Listings:    listings,
		Users:       users,
		Mail:        mail,
		MailEnabled: cfg.MailSendEnabled,
		Logger:      log,
	}

	adminSvc := &application.AdminService{
		Users:  users,
		Redis:  container.GetRedis(),
		Logger: log,
	}

	return moduleDeps{
		Auth:    handlers.NewAuthHandler(authSvc, container.GetJWT(), log, cfg.CookieDomain, cfg.CookieSecure),
		Listing: handlers.NewListingHandler(listingSvc, log),
		Report:  handlers.NewReportHandler(reportSvc, log),
		Admin:   handlers.NewAdminHandler(adminSvc, listingSvc, log),
	}
}

// InitModules wires all feature modules into the registry. Called once
// during startup after the container singletons are set.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.Auth, jwt))
	r.Add(modules.NewListingModule(deps.Listing, deps.Report, jwt))
	r.Add(modules.NewAdminModule(deps.Admin, deps.Report, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
