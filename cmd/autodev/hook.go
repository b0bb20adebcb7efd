package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/djnsty23/claude-auto-dev/pkg/hooks"
	"github.com/djnsty23/claude-auto-dev/pkg/logger"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run a Claude Code hook",
	Long: `Hook programs referenced from config/settings.json. They read the event from stdin and
never fail the session on internal errors.`,
	// logging problems must not turn into a blocked tool call
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetLogOutput(cmd.ErrOrStderr())
		if err := logger.Configure(cliConfig.GetString("log_level"), cliConfig.GetString("log_format")); err != nil {
			logger.L.WithError(err).Debug("keeping default logger settings")
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var hookPreToolCmd = &cobra.Command{
	Use:   "pre-tool",
	Short: "PreToolUse filter for dangerous commands and generated files",
	Long: `Read a PreToolUse event from stdin. Dangerous Bash commands, edits to hook scripts or
settings.json, and reads of generated or bulky files are blocked with exit status 2 and
the reason on stderr. Anything else, including unparseable input, is allowed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		platform, _ := cmd.Flags().GetString("platform")

		filter, err := hooks.NewFilter(hooks.WithPlatform(platform))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "pre-tool-filter error: %s\n", err)
			return nil
		}

		if code := filter.RunPreTool(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr()); code != hooks.ExitAllow {
			return exitCodeError(code)
		}
		return nil
	},
}

var hookStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop hook that keeps auto mode running while stories remain",
	Long: `While ~/.claude/auto-active exists, reject the stop request and name the next pending
story from prd.json. A flag older than two hours is treated as a crashed session and
removed. Always exits 0.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		prd, _ := cmd.Flags().GetString("prd")

		check, err := hooks.NewStopCheck(hooks.WithPRDPath(prd))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "stop-auto-check error: %s\n", err)
			fmt.Fprintln(cmd.OutOrStdout(), `{"ok":true}`)
			return
		}

		check.Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	hookPreToolCmd.Flags().String("platform", runtime.GOOS, "Platform whose command patterns apply")
	hookStopCmd.Flags().String("prd", "prd.json", "Path to the sprint prd.json")

	hookCmd.AddCommand(hookPreToolCmd)
	hookCmd.AddCommand(hookStopCmd)
}
