package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/urmzd/myhub/pkg/config"
	"github.com/urmzd/myhub/pkg/hub"
	"github.com/urmzd/myhub/pkg/logging"
	myhubmcp "github.com/urmzd/myhub/pkg/mcp"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "myhub-mcp:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "myhub-mcp",
		Short:         "Serve MyHub tools over MCP stdio",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(configFile)
			if err != nil {
				return err
			}
			if err := v.BindPFlag("registry.path", cmd.Flags().Lookup("registry")); err != nil {
				return err
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default $MYHUB_CONFIG)")
	cmd.Flags().String("registry", "", "Registry file or database path")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	// Logging must go to stderr; stdout is the MCP transport
	logFile, err := logging.Setup(os.Stderr, logging.Options{
		Level:  cfg.Log.Level,
		Format: "console",
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

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

	mcpServer := myhubmcp.NewServer(myhubmcp.Deps{
		Registry:  h.Registry,
		Discovery: h.Discovery,
		Scenes:    h.Scenes,
		Telemetry: h.Telemetry,
		Validator: h.Validator,
	})

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
		return err
	}
	return nil
}
