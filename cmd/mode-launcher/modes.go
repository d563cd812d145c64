package main

import (
	"errors"
	"strconv"

	"github.com/jrepp/modelauncher/pkg/launcher"
	"github.com/spf13/cobra"
)

func newModesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the modes defined in the mode file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, _, err := c.buildController(cmd)
			if err != nil {
				c.console.Error("Error: " + err.Error())
				return err
			}

			modes, err := controller.Modes(cmd.Context())
			if err != nil {
				reportError(c, err)
				return err
			}

			if len(modes) == 0 {
				c.console.Warning("No modes defined in " + c.v.GetString("config"))
				return nil
			}

			table := c.console.NewTable("MODE", "APPS")
			for _, m := range modes {
				apps := strconv.Itoa(m.Apps)
				if m.Apps < 0 {
					apps = "invalid"
				}
				table.AddRow(m.Name, apps)
			}
			table.Render()

			return nil
		},
	}
}

// reportError prints a launcher error the way a run reports fatal errors
func reportError(c *cli, err error) {
	var launcherErr *launcher.LauncherError
	if errors.As(err, &launcherErr) {
		c.console.Error("Error: " + launcherErr.Summary())
		if launcherErr.Suggestion != "" {
			c.console.Warning(launcherErr.Suggestion)
		}
		return
	}
	c.console.Error("Error: " + err.Error())
}
