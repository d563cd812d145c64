package main

import (
	"io"
	"log/slog"

	"github.com/jrepp/modelauncher/internal/ui"
	"github.com/jrepp/modelauncher/pkg/launcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries what every command needs
type cli struct {
	v       *viper.Viper
	console *ui.UI
	stderr  io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{
		v:       viper.New(),
		console: ui.NewUIWithWriters(stdout, stderr),
		stderr:  stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "mode-launcher <mode_name>",
		Short: "Launch the applications of a named mode",
		Long: `mode-launcher reads a mode file (config.json in the working directory by
default), starts every application listed under the given mode, and exits
once all of them have exited.

Modes are declared as:

  {"dev": {"apps": ["/usr/bin/code", "/usr/bin/gnome-terminal"]}}`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runMode,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	registerFlags(rootCmd, c.v)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run <mode_name>",
		Short: "Launch a mode, including one named like a subcommand",
		Args:  cobra.ArbitraryArgs,
		RunE:  c.runMode,
	})
	rootCmd.AddCommand(newModesCmd(c))

	return rootCmd
}

// runMode launches the mode named by the first argument
func (c *cli) runMode(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		// Checked before any settings or mode file is read
		usage := launcher.ErrUsage(cmd.Root().Name())
		c.console.Error(usage.Message)
		c.console.Error("Available modes are defined in " + c.v.GetString("config"))
		return usage
	}

	controller, logger, err := c.buildController(cmd)
	if err != nil {
		c.console.Error("Error: " + err.Error())
		return err
	}

	if addr := c.v.GetString("metrics_addr"); addr != "" {
		ms, err := startMetricsServer(addr, controller.Metrics().Registry(), controller.Ready, logger)
		if err != nil {
			return err
		}
		defer ms.Close()
	}

	mode := args[0]
	if len(args) > 1 {
		logger.Warn("ignoring extra arguments", "mode", mode, "extra", args[1:])
	}

	return controller.Run(cmd.Context(), mode)
}

// buildController resolves settings and logging and builds a Controller
func (c *cli) buildController(cmd *cobra.Command) (*launcher.Controller, *slog.Logger, error) {
	settings, err := LoadSettings(cmd, c.v)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(c.stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	builder := launcher.NewBuilder().
		WithConfigPath(settings.ConfigPath).
		WithWaitTimeout(settings.WaitTimeout).
		WithMaxConfigBytes(settings.MaxConfigBytes).
		WithDetach(settings.Detach).
		WithMetricsFile(settings.MetricsFile).
		WithLogger(logger).
		WithUI(c.console)
	if settings.TruncateConfig {
		builder = builder.WithTruncateConfig(true)
	}

	controller, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("settings resolved",
		"config", settings.ConfigPath,
		"settings_file", c.v.ConfigFileUsed(),
		"wait_timeout", settings.WaitTimeout,
		"max_config_bytes", settings.MaxConfigBytes,
		"truncate_config", settings.TruncateConfig,
		"detach", settings.Detach)

	return controller, logger, nil
}
