package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/gantry/internal/app"
)

func newConsoleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "console",
		Short:       "Open the interactive console",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConsole(cmd)
		},
	}
}

func (c *cli) runConsole(cmd *cobra.Command) error {
	if c.cfg.Host == "" {
		return fmt.Errorf("no controller host: set host in %s or pass --host", c.configFile())
	}
	return app.Run(cmd.Context(), app.Options{
		Config:         c.cfg,
		SessionOptions: c.sessionOpts,
	})
}
