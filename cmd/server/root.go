package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/config"
	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/logger"
)

var (
	cfg config.Config
	log *zap.Logger

	flagEnvFile string
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Magazine advertising bookings ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(flagEnvFile); err != nil {
			return err
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		log, err = logger.New(cfg.Env, cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, consumeCmd)
}
