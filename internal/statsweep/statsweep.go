package statsweep

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"agoradb/pkg/config"
	"agoradb/pkg/forum"
	"agoradb/pkg/logger"
	"agoradb/pkg/store"
)

// Periodic gauge sweeper. Entity counts are cheap to compute from the
// in-memory state but the on-disk size walk is not, so both run on a
// cron schedule instead of per request.

var (
	peopleTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agoradb_people_total",
		Help: "Number of registered people.",
	})
	threadsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agoradb_threads_total",
		Help: "Number of threads.",
	})
	postsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agoradb_posts_total",
		Help: "Number of posts across all threads.",
	})
)

// Start starts the sweeper if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.StatsConfig, svc *forum.Service) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("statsweep_disabled")
		return func() {}, nil
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "*/5 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("statsweep_invalid_cron", zap.String("cron", cfg.Cron))
		return nil, fmt.Errorf("invalid stats cron expression: %s", cfg.Cron)
	}

	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, svc)
	logger.Info("statsweep_started", zap.String("cron", cronExpr))
	return cancel, nil
}

// runScheduler computes the next cron tick and sleeps until it is due.
func runScheduler(ctx context.Context, cronExpr string, svc *forum.Service) {
	// prime the gauges at startup instead of waiting a full interval
	sweep(svc)
	for {
		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("statsweep_nexttick_failed", zap.String("cron", cronExpr), zap.Error(err))
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("statsweep_stopping")
				return
			}
			continue
		}
		wait := time.Until(next)
		if wait <= 0 {
			wait = time.Second
		}
		select {
		case <-time.After(wait):
			sweep(svc)
		case <-ctx.Done():
			logger.Info("statsweep_stopping")
			return
		}
	}
}

func sweep(svc *forum.Service) {
	people, threads, posts := svc.Stats()
	peopleTotal.Set(float64(people))
	threadsTotal.Set(float64(threads))
	postsTotal.Set(float64(posts))
	size := store.SizeBytes()
	logger.Debug("statsweep_run",
		zap.Uint64("people", people),
		zap.Uint64("threads", threads),
		zap.Uint64("posts", posts),
		zap.Uint64("disk_bytes", size))
}
