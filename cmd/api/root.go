package main

import (
	"fmt"

	"github.com/google/gops/agent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/config"
	"tenderhub/insight-api/internal/logger"
)

const app = "tenderhub"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "Tender Insight Hub API: tender upload, summarization and readiness scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Without a subcommand the API server starts.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; environment variables take precedence")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("gops", false, "start the gops diagnostics agent")

	_ = viper.BindPFlag("LOG_DEBUG", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("LOG_JSON", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("GOPS_ENABLED", rootCmd.PersistentFlags().Lookup("gops"))
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	if cfg.Server.Gops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			log.Warn("gops agent did not start", zap.Error(err))
		}
	}

	return cfg, log, nil
}
