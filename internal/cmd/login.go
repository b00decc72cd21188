package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/gantry/internal/app"
)

func newLoginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check the credentials with an authenticate and logout round trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withController(cmd, func(ctx context.Context, ctrl *app.Controller) error {
				green := color.New(color.FgGreen)
				green.Fprint(c.stdout, "authenticated")
				fmt.Fprintf(c.stdout, " to %s as %s (%s)\n", ctrl.Host(), c.cfg.Username, ctrl.Personality())
				return nil
			})
		},
	}
}
