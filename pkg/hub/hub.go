// Package hub assembles the registry, discovery, scene and telemetry
// components from configuration. Both the HTTP and MCP binaries start here.
package hub

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/config"
	"github.com/urmzd/myhub/pkg/db"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/device/schema"
	"github.com/urmzd/myhub/pkg/discovery"
	"github.com/urmzd/myhub/pkg/registry"
	"github.com/urmzd/myhub/pkg/scene"
	"github.com/urmzd/myhub/pkg/store/filestore"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// Hub holds the running components.
type Hub struct {
	Registry  *registry.Registry
	Discovery *discovery.Reconciler
	Scenes    *scene.Activator
	Telemetry *telemetry.Log
	Validator *schema.Validator

	closers []func() error
}

// Open builds every component. With the sqlite backend the registry and the
// telemetry history share one database; otherwise telemetry is kept in
// memory.
func Open(ctx context.Context, cfg *config.Config) (*Hub, error) {
	h := &Hub{Validator: schema.NewValidator()}

	store, events, err := h.openStores(ctx, cfg.Registry)
	if err != nil {
		h.Close()
		return nil, err
	}

	h.Telemetry = telemetry.NewLog(events,
		telemetry.WithCaps(cfg.Telemetry.ScanCap, cfg.Telemetry.OnboardingCap),
		telemetry.WithMetrics(telemetry.NewMetrics()),
	)

	h.Registry = registry.New(store, registry.WithTelemetry(h.Telemetry))
	if cfg.Registry.Seed {
		if err := h.Registry.Seed(ctx, registry.SampleDevices()); err != nil {
			h.Close()
			return nil, err
		}
	}
	h.Registry.SyncMetrics(ctx)

	h.Discovery = discovery.NewReconciler(h.Registry, discoveryOptions(cfg.Discovery, h.Telemetry)...)
	h.Scenes = scene.NewActivator(h.Registry)

	return h, nil
}

func (h *Hub) openStores(ctx context.Context, cfg config.RegistryConfig) (device.Store, telemetry.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		h.closers = append(h.closers, database.Close)
		log.Info().Str("path", database.Path()).Msg("Database opened")

		if err := database.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return database.Devices(), database.Telemetry(), nil

	default:
		store, err := filestore.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open registry file: %w", err)
		}
		h.closers = append(h.closers, store.Close)
		log.Info().Str("path", store.Path()).Msg("Registry file opened")

		tel, err := filestore.OpenTelemetry(filepath.Join(filepath.Dir(cfg.Path), filestore.TelemetryFile))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open telemetry file: %w", err)
		}
		h.closers = append(h.closers, tel.Close)

		return store, tel, nil
	}
}

func discoveryOptions(cfg config.DiscoveryConfig, tel *telemetry.Log) []discovery.Option {
	opts := []discovery.Option{
		discovery.WithTimeout(cfg.Timeout),
		discovery.WithTelemetry(tel),
	}
	if cfg.MDNS.Enabled {
		opts = append(opts, discovery.WithSource(discovery.NewZeroconfSource(
			cfg.MDNS.Service,
			cfg.MDNS.Domain,
			discovery.WithBrowseWindow(cfg.MDNS.Window),
		)))
	}
	if cfg.ZWave.Server != "" {
		opts = append(opts, discovery.WithSource(discovery.NewZWaveJSSource(cfg.ZWave.Server)))
	}
	return opts
}

// Close releases the stores in reverse order of opening.
func (h *Hub) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = append(errs, h.closers[i]())
	}
	h.closers = nil
	return errors.Join(errs...)
}
