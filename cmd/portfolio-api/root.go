package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dconn.dev/portfolio-api/internal/config"
	"dconn.dev/portfolio-api/internal/logging"
	"dconn.dev/portfolio-api/internal/store"
)

// rootOptions is shared by every subcommand
type rootOptions struct {
	v          *viper.Viper
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "portfolio-api",
		Short:         "Portfolio project catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Optional config file (yaml, json or toml)")
	pf.StringVar(&opts.envFile, "env-file", "", "Dotenv file to read (default .env when present)")
	pf.String("log-level", logging.LevelInfo, "Log level: debug, info, warn, error")
	pf.String("log-format", logging.FormatStructured, "Log format: structured or console")
	pf.String("storage-driver", store.DriverFile, "Catalog storage: file, sqlite or memory")
	pf.String("storage-path", "data/api.json", "Catalog file or sqlite database path")
	bindFlags(opts.v, pf, map[string]string{
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
		config.KeyStorageDriver: "storage-driver",
		config.KeyStoragePath:   "storage-path",
	})

	cmd.AddCommand(newServeCmd(opts), newInitCmd(opts), newCheckCmd(opts))
	return cmd
}

// load resolves configuration and builds the logger
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.v, config.Sources{ConfigFile: o.configFile, EnvFile: o.envFile})
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
