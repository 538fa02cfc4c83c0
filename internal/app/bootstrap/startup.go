// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/workers"
)

// Audit events are pruned hourly; the window is generous enough for any
// membership dispute to be investigated.
const (
	auditSweepInterval = 1 * time.Hour
	auditRetention     = 90 * 24 * time.Hour
)

// auditRetentionWorker is started here and stopped in Shutdown.
var auditRetentionWorker *workers.AuditRetention

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("storage timeouts overridden from environment", zap.Int("count", n))
	}

	auditRetentionWorker = workers.NewAuditRetention(
		audit.New(deps.MongoDatabase), logger, auditSweepInterval, auditRetention)
	auditRetentionWorker.Start()
	return nil
}
