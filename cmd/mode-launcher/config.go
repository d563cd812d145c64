package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/jrepp/modelauncher/pkg/launcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings holds mode-launcher's own configuration, as opposed to the mode
// file it reads.
type Settings struct {
	ConfigPath     string
	WaitTimeout    time.Duration
	MaxConfigBytes int64
	TruncateConfig bool
	Detach         bool
	MetricsFile    string
	MetricsAddr    string
	LogLevel       string
	LogFormat      string
}

// registerFlags declares the global flags and binds them into v
func registerFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", launcher.DefaultConfigPath, "Mode file (JSON, or YAML by extension)")
	flags.String("settings", "", "Settings file (default: .mode-launcher.yaml in $HOME or .)")
	flags.Duration("wait-timeout", 0, "Stop waiting after this long (0 waits for every application)")
	flags.Int64("max-config-bytes", 0, "Largest mode file to read (0 is unlimited)")
	flags.Bool("truncate-config", false, "Parse only the first --max-config-bytes of a larger mode file")
	flags.Bool("detach", true, "Start applications in their own session")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while waiting")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")

	v.BindPFlag("config", flags.Lookup("config"))
	v.BindPFlag("wait_timeout", flags.Lookup("wait-timeout"))
	v.BindPFlag("max_config_bytes", flags.Lookup("max-config-bytes"))
	v.BindPFlag("truncate_config", flags.Lookup("truncate-config"))
	v.BindPFlag("detach", flags.Lookup("detach"))
	v.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
	v.BindPFlag("metrics_addr", flags.Lookup("metrics-addr"))
	v.BindPFlag("log_level", flags.Lookup("log-level"))
	v.BindPFlag("log_format", flags.Lookup("log-format"))
}

// LoadSettings reads the settings file, if any, and resolves every key from
// flags, MODELAUNCHER_* environment variables, the file and defaults, in
// that order of precedence.
func LoadSettings(cmd *cobra.Command, v *viper.Viper) (*Settings, error) {
	if settingsFile, _ := cmd.Flags().GetString("settings"); settingsFile != "" {
		v.SetConfigFile(settingsFile)
	} else {
		// Search for settings in home directory and current directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".mode-launcher")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MODELAUNCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, launcher.ErrInvalidConfiguration("settings", v.ConfigFileUsed(), err.Error()).
				WithCause(err)
		}
	}

	return &Settings{
		ConfigPath:     v.GetString("config"),
		WaitTimeout:    v.GetDuration("wait_timeout"),
		MaxConfigBytes: v.GetInt64("max_config_bytes"),
		TruncateConfig: v.GetBool("truncate_config"),
		Detach:         v.GetBool("detach"),
		MetricsFile:    v.GetString("metrics_file"),
		MetricsAddr:    v.GetString("metrics_addr"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
	}, nil
}
