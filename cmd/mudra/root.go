package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:          "mudra",
		Short:        "Hand-gesture rock-paper-scissors server",
		Long:         "mudra classifies hand gestures from webcam frames and runs multiplayer rock-paper-scissors rooms over websockets.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./mudra.yaml or $HOME/.mudra/mudra.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd(c), newClassifyCmd(c))
	return root
}

// load reads the configuration and builds the logger.
func (c *cli) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
