// Package procuracore wires the procurement core together: a state store
// selected from configuration, the entity data layers on top of it, the
// business services with monitoring, and the snapshot archiver.
package procuracore

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"procuracore/internal/archive"
	"procuracore/internal/blob"
	"procuracore/internal/config"
	"procuracore/internal/datalayer"
	"procuracore/internal/infra/persistence"
	"procuracore/internal/monitor"
	"procuracore/internal/service"
	"procuracore/internal/state"
)

// App is the assembled procurement core.
type App struct {
	Config config.Config
	State  state.Store

	Materials    *service.MaterialService
	Requisitions *service.RequisitionService
	Orders       *service.OrderService

	Archiver *archive.Archiver
}

// Open loads configuration (from path or the environment) and assembles the
// app. Metrics register on reg; nil uses the default prometheus registry.
func Open(ctx context.Context, configPath string, reg prometheus.Registerer) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, reg)
}

// New assembles the app from an already-loaded configuration.
func New(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (*App, error) {
	store, err := persistence.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}
	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Logging.Level)}))
	mon := monitor.Multi{monitor.NewSlog(logger), monitor.NewPrometheus(reg)}

	materials := datalayer.NewMaterials(store)
	requisitions := datalayer.NewRequisitions(store)
	orders := datalayer.NewOrders(store)

	return &App{
		Config:       cfg,
		State:        store,
		Materials:    service.NewMaterialService(materials, mon),
		Requisitions: service.NewRequisitionService(requisitions, orders, materials, mon),
		Orders:       service.NewOrderService(orders, materials, mon),
		Archiver:     archive.New(store, blobs),
	}, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
