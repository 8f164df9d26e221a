package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/canvaskeys/internal/config"
)

func defaultConfigHint() string {
	return config.DefaultPath()
}

// overlay copies one resolved viper key into the config.
type overlay func(v *viper.Viper, key string, cfg *config.Config) error

func setString(dst func(*config.Config) *string) overlay {
	return func(v *viper.Viper, key string, cfg *config.Config) error {
		*dst(cfg) = v.GetString(key)
		return nil
	}
}

func setInt(dst func(*config.Config) *int) overlay {
	return func(v *viper.Viper, key string, cfg *config.Config) error {
		*dst(cfg) = v.GetInt(key)
		return nil
	}
}

func setBool(dst func(*config.Config) *bool) overlay {
	return func(v *viper.Viper, key string, cfg *config.Config) error {
		*dst(cfg) = v.GetBool(key)
		return nil
	}
}

func setDuration(dst func(*config.Config) *config.Duration) overlay {
	return func(v *viper.Viper, key string, cfg *config.Config) error {
		return dst(cfg).UnmarshalText([]byte(v.GetString(key)))
	}
}

// overlays lists every setting that environment variables and flags may
// override.
var overlays = map[string]overlay{
	"log_level":                setString(func(c *config.Config) *string { return &c.LogLevel }),
	"store.backend":            setString(func(c *config.Config) *string { return &c.Store.Backend }),
	"store.path":               setString(func(c *config.Config) *string { return &c.Store.Path }),
	"store.watch":              setBool(func(c *config.Config) *bool { return &c.Store.Watch }),
	"ready.max_attempts":       setInt(func(c *config.Config) *int { return &c.Ready.MaxAttempts }),
	"ready.interval":           setDuration(func(c *config.Config) *config.Duration { return &c.Ready.Interval }),
	"pointer.sentinel_buttons": setInt(func(c *config.Config) *int { return &c.Pointer.SentinelButtons }),
	"terminal.release_timeout": setDuration(func(c *config.Config) *config.Duration { return &c.Terminal.ReleaseTimeout }),
}

// loadConfig resolves the configuration: defaults, then the TOML file
// found by viper, then CANVASKEYS_* environment variables, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
	} else {
		v.AddConfigPath(config.Dir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("canvaskeys")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("log-level"); f != nil {
		if err := v.BindPFlag("log_level", f); err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case flagConfig != "" && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		loaded, err := config.Load(used)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	for key, apply := range overlays {
		if !envOrFlagSet(v, cmd, key) {
			continue
		}
		if err := apply(v, key, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOrFlagSet reports whether key was given in the environment or on
// the command line. File values are already in the decoded config.
func envOrFlagSet(v *viper.Viper, cmd *cobra.Command, key string) bool {
	if key == "log_level" && cmd.Flags().Changed("log-level") {
		return true
	}
	name := "CANVASKEYS_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
	_, ok := os.LookupEnv(name)
	return ok && v.IsSet(key)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
