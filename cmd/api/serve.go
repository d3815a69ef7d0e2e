package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/handlers"
)

// uploads carry form fields next to the file
const bodyLimitSlack = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

		ctx := context.Background()
		a, err := newApplication(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		app := fiber.New(fiber.Config{
			AppName:      "Tender Insight Hub API",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
			BodyLimit:    int(cfg.Storage.MaxFileSize) + bodyLimitSlack,
			ErrorHandler: handlers.ErrorHandler(log),
		})

		app.Use(recover.New())
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.AllowOrigins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))

		handlers.RegisterRoutes(app, a.handlers,
			handlers.Authenticate(a.authn.service, a.authn.enabled, a.authn.defaultPlan),
			a.authn.policy,
		)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-quit
			log.Info("🛑 Shutting down server...")
			if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
				log.Error("server forced to shutdown", zap.Error(err))
			}
		}()

		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info("🚀 Server starting", zap.String("addr", addr),
			zap.Bool("auth", cfg.Auth.Enabled),
			zap.Bool("plan_gating", cfg.Auth.PlanGating),
			zap.Bool("search", a.index != nil),
		)

		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
