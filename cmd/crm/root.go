package main

import (
	"fmt"
	"os"

	"github.com/gartstein/crm/internal/crm/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "crm",
		Short:        "CRM service for professions, companies, partnerships and employees",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML config (default $CRM_CONFIG or "+config.DefaultPath+")")
	cmd.AddCommand(newServeCmd(a), newMigrateCmd(a), newEventsCmd(a))
	return cmd
}

func (a *app) init() error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("CRM_CONFIG")
	}
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", zap.String("path", path))
	return nil
}

// initLogger builds a production (json) or development (console) zap logger.
func initLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	var zcfg zap.Config
	switch format {
	case "", "json":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
