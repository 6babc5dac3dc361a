package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/epidemic-tally/internal/config"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
	"github.com/i474232898/epidemic-tally/internal/epidemic/sources"
	"github.com/i474232898/epidemic-tally/internal/logger"
	"github.com/i474232898/epidemic-tally/internal/store"
)

var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:           "epidemic-tally",
	Short:         "epidemic-tally fetches, caches and charts daily COVID-19 case reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return logger.Init(cfg.LogJSON)
	},
}

// ExecuteContext runs the command tree and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// openService builds the pipeline from cfg. The returned store must be closed.
func openService() (*epidemic.Service, epidemic.Store, error) {
	reports, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}

	fetcher := sources.NewCSSE(
		sources.NewRestyClient(cfg.HTTPTimeout),
		cfg.UpstreamBaseURL,
		sources.BreakerConfig{
			ConsecutiveFailures: cfg.BreakerFailures,
			Timeout:             cfg.BreakerTimeout,
		},
	)

	service := epidemic.NewService(reports, fetcher, epidemic.WithSentinel(cfg.SentinelCountry))
	return service, reports, nil
}
