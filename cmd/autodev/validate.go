package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/presenter"
	"github.com/djnsty23/claude-auto-dev/pkg/project"
	"github.com/djnsty23/claude-auto-dev/pkg/validate"
)

const validationHeader = "Running claude-auto-dev validation..."

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run every consistency check against the project",
	Long: `Run the ten consistency checks in order and print one [PASS], [FAIL] or [WARN] line
per finding followed by a summary. The exit status is 1 when any check fails.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := validate.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	p, err := project.New(project.WithRoot(cfg.Root), project.WithLayout(cfg.Paths))
	if err != nil {
		return errors.Wrap(err, "failed to open project")
	}

	ctx := logger.WithFields(cmd.Context(), logrus.Fields{"root": p.Root()})
	report := validate.Run(ctx, p)
	logger.G(ctx).WithFields(logrus.Fields{
		"pass": report.Pass,
		"fail": report.Fail,
		"warn": report.Warn,
	}).Debug("validation finished")

	if format == validate.FormatText {
		var out presenter.Presenter = presenter.NewWithOptions(cmd.OutOrStdout(), cmd.ErrOrStderr(), presenter.ParseColorMode(cfg.Color))
		out.SetQuiet(cfg.Quiet)
		out.Header(validationHeader)
		out.Report(report)
	} else if err := report.Encode(cmd.OutOrStdout(), format); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if code := report.ExitCode(); code != 0 {
		return exitCodeError(code)
	}
	return nil
}
