package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/djnsty23/claude-auto-dev/pkg/config"
	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/presenter"
)

// exitCodeError carries a non-zero exit status that needs no error message
type exitCodeError int

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

var cliConfig = config.New()

var rootCmd = &cobra.Command{
	Use:   "autodev",
	Short: "Consistency checks and hooks for the claude-auto-dev skills repository",
	Long: `autodev validates that the version token, skill manifest, skill documents, commands
reference, platform settings, hook scripts and agent definitions of a claude-auto-dev
checkout agree with each other.

Running autodev without a subcommand is the same as running "autodev validate".`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runValidate,
}

// bindFlags exposes every persistent flag to viper, mapping dashes to the
// underscore keys of the config file
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		key := strings.ReplaceAll(flag.Name, "-", "_")
		if err := v.BindPFlag(key, flag); err != nil && bindErr == nil {
			bindErr = errors.Wrapf(err, "failed to bind flag %s", flag.Name)
		}
	})
	return bindErr
}

// loadConfig resolves and validates the configuration, then applies the
// logging settings to the command's stderr
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cliConfig, cliConfig.GetString("config"))
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}
	logger.SetLogOutput(cmd.ErrOrStderr())
	return cfg, nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "Project root to validate")
	flags.String("config", "", "Config file (default is .autodev.yaml in the project root)")
	flags.String("format", "text", "Output format: text, json or yaml")
	flags.String("color", "auto", "Color output: auto, always or never")
	flags.Bool("quiet", false, "Hide PASS lines in text output")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "text", "Log format: text or json")

	if err := bindFlags(cliConfig, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

func run() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var exitErr exitCodeError
		if errors.As(err, &exitErr) {
			return int(exitErr)
		}
		var out presenter.Presenter = presenter.New()
		out.Error(err, "")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
