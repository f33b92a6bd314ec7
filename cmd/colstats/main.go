// Command colstats serves and inspects the Colombia 2019 non-fetal mortality
// dataset.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/colstats/mortality/pkg/config"
	"github.com/colstats/mortality/pkg/excel"
	"github.com/colstats/mortality/pkg/mortality"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "colstats",
		Short:         "Colombia 2019 non-fetal mortality: dataset builder and aggregation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(showCmd(&configPath))
	return root
}

// setup loads config and wires the logger and dataset builder shared by the
// subcommands.
func setup(configPath string) (config.Config, *zap.Logger, *mortality.Builder, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	loader := excel.NewLoader(cfg.Data.Dir, excel.Files{
		Mortality:      cfg.Data.MortalityFile,
		MortalitySheet: cfg.Data.MortalitySheet,
		CauseCatalog:   cfg.Data.CauseFile,
		Divisions:      cfg.Data.DivisionFile,
	}, log)

	return cfg, log, mortality.NewBuilder(loader, log), nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
