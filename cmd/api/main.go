package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/urmzd/myhub/pkg/api"
	"github.com/urmzd/myhub/pkg/config"
	"github.com/urmzd/myhub/pkg/hub"
	"github.com/urmzd/myhub/pkg/logging"

	_ "github.com/urmzd/myhub/docs"
)

// @title           MyHub API
// @version         1.0
// @description     REST API for a local Wi-Fi and Z-Wave smart home hub

// @host      localhost:8000
// @BasePath  /api/v1
// @schemes   http https

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "myhub-api:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "myhub-api",
		Short:         "Serve the MyHub REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(configFile)
			if err != nil {
				return err
			}
			for key, flag := range map[string]string{
				"server.host":      "host",
				"server.port":      "port",
				"registry.backend": "backend",
				"registry.path":    "registry",
				"log.level":        "log-level",
			} {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default $MYHUB_CONFIG)")
	cmd.Flags().String("host", "", "Listen host")
	cmd.Flags().IntP("port", "p", 0, "Listen port")
	cmd.Flags().String("backend", "", "Registry backend (file or sqlite)")
	cmd.Flags().String("registry", "", "Registry file or database path")
	cmd.Flags().String("log-level", "", "Log level")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logFile, err := logging.Setup(os.Stderr, logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h, err := hub.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start hub")
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close registry store")
		}
	}()

	log.Info().
		Str("backend", cfg.Registry.Backend).
		Str("registry", cfg.Registry.Path).
		Dur("discovery_timeout", cfg.Discovery.Timeout).
		Bool("mdns", cfg.Discovery.MDNS.Enabled).
		Str("zwave_server", cfg.Discovery.ZWave.Server).
		Msg("Configuration loaded")

	router := api.NewRouter(api.Services{
		Registry:  h.Registry,
		Discovery: h.Discovery,
		Scenes:    h.Scenes,
		Telemetry: h.Telemetry,
		Validator: h.Validator,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", srv.Addr).Msg("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
	}
	return nil
}
