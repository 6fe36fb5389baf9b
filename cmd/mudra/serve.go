package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.load()
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(cfg, log.Sugar())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("static", "", "directory of static web files")
	c.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	c.v.BindPFlag("server.static_dir", cmd.Flags().Lookup("static"))

	return cmd
}

// runContext is the base context for commands run without one.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
