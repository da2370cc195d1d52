package main

import (
	"context"
	"fmt"

	"github.com/jonathan/postsphere/internal/dashboard"
	"github.com/jonathan/postsphere/internal/llm"
	"github.com/jonathan/postsphere/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the composer endpoints: normalization, generation, dashboard transitions, scheduling and publishing.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or config, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	gen, client, err := newGenerator(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Generator: gen,
		Publisher: dashboard.NewSimulatedPublisher(cfg.PublishDelayDuration(), logger),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("model", client.GetModel(llm.TierStandard)),
		zap.Duration("publish_delay", cfg.PublishDelayDuration()))
	return srv.Start()
}
