// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	attendancefeature "github.com/dalemusser/clubhub/internal/app/features/attendance"
	auditeventsfeature "github.com/dalemusser/clubhub/internal/app/features/auditevents"
	clubsfeature "github.com/dalemusser/clubhub/internal/app/features/clubs"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	memberfilesfeature "github.com/dalemusser/clubhub/internal/app/features/memberfiles"
	membersfeature "github.com/dalemusser/clubhub/internal/app/features/members"
	requestsfeature "github.com/dalemusser/clubhub/internal/app/features/requests"
	settingsfeature "github.com/dalemusser/clubhub/internal/app/features/settings"
	userinfofeature "github.com/dalemusser/clubhub/internal/app/features/userinfo"
	"github.com/dalemusser/clubhub/internal/app/service"
	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	memberfilestore "github.com/dalemusser/clubhub/internal/app/store/memberfiles"
	requeststore "github.com/dalemusser/clubhub/internal/app/store/requests"
	settingsstore "github.com/dalemusser/clubhub/internal/app/store/settings"
	teammemberstore "github.com/dalemusser/clubhub/internal/app/store/teammembers"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/limits"
	"github.com/dalemusser/clubhub/internal/app/system/txn"
)

// settingsCacheTTL bounds how stale a cached settings read may be.
const settingsCacheTTL = 30 * time.Second

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls it after configuration, DB connection, schema setup,
// and Startup have completed.
//
// Everything except /health sits behind the session middleware and the
// signed-in requirement; per-operation authorization happens in the
// service layer through the access policy.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Stores.
	users := userstore.New(deps.MongoDatabase)
	clubs := clubstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	members := teammemberstore.New(deps.MongoDatabase)
	files := memberfilestore.New(deps.MongoDatabase)
	meetings := attendancestore.New(deps.MongoDatabase)
	settings := settingsstore.New(deps.MongoDatabase)
	cachedSettings := settingsstore.NewCached(settings, settingsCacheTTL)
	auditStore := audit.New(deps.MongoDatabase)

	// Shared plumbing.
	roles := authz.NewResolver(users, appCfg.AdminEmail)
	auditLog := auditlog.New(auditStore, logger)
	runTxn := service.TxnRunner(func(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
		return txn.Run(ctx, deps.MongoClient, fn)
	})

	// Services.
	membership := service.NewMembership(users, clubs, requests, roles, cachedSettings, runTxn, auditLog)
	scoring := service.NewScoring(members, roles, cachedSettings, auditLog)
	attendance := service.NewAttendance(meetings, members, roles, cachedSettings)
	clubOps := service.NewClubs(clubs, users, roles, cachedSettings, runTxn)
	fileOps := service.NewMemberFiles(files, roles, cachedSettings)
	settingsOps := service.NewSettingsOps(cachedSettings, settings, cachedSettings, roles)
	auditTrail := service.NewAuditTrail(auditStore, roles, cachedSettings)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestSize(limits.MaxJSONBodySize))
	r.Use(auth.LoadSessionIdentity)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.Mount("/me", userinfofeature.Routes(userinfofeature.NewHandler(roles, logger)))
		r.Mount("/requests", requestsfeature.Routes(requestsfeature.NewHandler(membership, logger)))
		r.Mount("/clubs", clubsfeature.Routes(clubsfeature.NewHandler(clubOps, logger)))
		r.Mount("/members", membersfeature.Routes(membersfeature.NewHandler(scoring, logger)))
		r.Mount("/memberfiles", memberfilesfeature.Routes(memberfilesfeature.NewHandler(fileOps, logger)))
		r.Mount("/attendance", attendancefeature.Routes(attendancefeature.NewHandler(attendance, logger)))
		r.Mount("/settings", settingsfeature.Routes(settingsfeature.NewHandler(settingsOps, logger)))
		r.Mount("/audit", auditeventsfeature.Routes(auditeventsfeature.NewHandler(auditTrail, logger)))
	})

	return r, nil
}
