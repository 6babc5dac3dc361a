package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/epidemic-tally/internal/api/http"
	"github.com/i474232898/epidemic-tally/internal/logger"
	"github.com/i474232898/epidemic-tally/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the report API and keeps the cache warm.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()

		service, reports, err := openService()
		if err != nil {
			return err
		}
		defer reports.Close()

		// Scheduler that periodically warms the cache for recent days.
		sched := scheduler.New(cfg.PrefetchDays, cfg.PrefetchInterval, cfg.PrefetchCountries, service)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		app := fiber.New(fiber.Config{
			AppName:               "epidemic-tally",
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          2 * time.Minute,
			ErrorHandler:          httpapi.ErrorHandler,
		})

		app.Use(fiberlogger.New())
		app.Use(recover.New())

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"status":  "ok",
				"service": "epidemic-tally",
				"stats":   service.Stats(),
			})
		})

		httpapi.RegisterRoutes(app, service)

		go func() {
			log.Infof("listening on :%s", cfg.Port)
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Errorf("fiber server stopped: %v", err)
			}
		}()

		// Wait for termination signal
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warnf("error during shutdown: %v", err)
		}
		return nil
	},
}
