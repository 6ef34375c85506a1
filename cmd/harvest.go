// Package cmd defines and implements the CLI commands for the
// forum-harvester executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/api"
	systemclock "github.com/JakeFAU/forum-harvester/internal/clock/system"
	"github.com/JakeFAU/forum-harvester/internal/fetch"
	uuidgen "github.com/JakeFAU/forum-harvester/internal/id/uuid"
	"github.com/JakeFAU/forum-harvester/internal/logging"
	"github.com/JakeFAU/forum-harvester/internal/scrape"
)

// newHarvestCmd creates and configures the 'harvest' subcommand, which
// runs one full listing-to-details scrape based on the application's
// configuration.
func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Runs one forum harvest",
		Long: `Walks the configured topic's listing pages, scrapes every discovered
post's detail page, and persists the joined dataset.`,

		RunE: runHarvestCommand,
	}
	return cmd
}

func runHarvestCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := scrape.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load harvest config: %w", err)
	}

	pipeline, err := buildPipeline(cfg, appInstance)
	if err != nil {
		return err
	}

	srv := startOpsServer(logger)
	if srv != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				logger.Warn("Failed to shut down ops server", zap.Error(serr))
			}
		}()
	}

	ds, err := pipeline.Run(cmd.Context(), cfg.Seed())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run harvest: %w", err)
	}
	if ds != nil {
		logger.Info("Harvest finished",
			zap.String("run_id", ds.RunID),
			zap.Int("posts", len(ds.Posts)),
			zap.Int("details", len(ds.Details)),
			zap.Int("answers", len(ds.Answers)),
			zap.Int("comments", len(ds.Comments)),
		)
	}

	logging.L.Info("Harvest command finished.")
	return nil
}

func buildPipeline(cfg scrape.Config, appInstance App) (*scrape.Pipeline, error) {
	logger := appInstance.GetLogger()

	collyFetcher, err := fetch.NewCollyFetcher(cfg.FetchConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	policy := fetch.NewExponentialRetryPolicy().
		WithMaxAttempts(viper.GetInt("harvester.max_fetch_retries"))
	fetcher := fetch.NewRetryingFetcher(collyFetcher, policy, logger)

	pipeline, err := scrape.NewPipeline(
		fetcher,
		cfg.Selectors,
		appInstance.GetDatabase(),
		appInstance.GetStorage(),
		appInstance.GetQueue(),
		systemclock.New(),
		uuidgen.NewUUIDGenerator(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}
	return pipeline, nil
}

// startOpsServer serves /healthz and /metrics in the background while
// the harvest runs, when enabled.
func startOpsServer(logger *zap.Logger) *api.Server {
	if !viper.GetBool("server.enabled") {
		return nil
	}
	srv := api.NewServer(viper.GetInt("server.port"), logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("Ops server stopped", zap.Error(err))
		}
	}()
	return srv
}
