package validate

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/djnsty23/claude-auto-dev/pkg/logger"
	"github.com/djnsty23/claude-auto-dev/pkg/project"
)

// CheckFunc inspects a project and returns its findings
type CheckFunc func(ctx context.Context, p *project.Project) []Record

// Check is a named validation step
type Check struct {
	Name string
	Run  CheckFunc
}

// Checks returns the ten checks in the order they run
func Checks() []Check {
	return []Check{
		{Name: "version-sync", Run: CheckVersionSync},
		{Name: "manifest-integrity", Run: CheckManifestIntegrity},
		{Name: "trigger-consistency", Run: CheckTriggerConsistency},
		{Name: "description-consistency", Run: CheckDescriptionConsistency},
		{Name: "frontmatter-completeness", Run: CheckFrontmatterCompleteness},
		{Name: "commands-completeness", Run: CheckCommandsCompleteness},
		{Name: "settings-sync", Run: CheckSettingsSync},
		{Name: "requires-chains", Run: CheckRequiresChains},
		{Name: "hook-files", Run: CheckHookFilesExist},
		{Name: "agent-files", Run: CheckAgentFiles},
	}
}

// Run executes every check against p and reduces the findings into a report.
// A check's findings never prevent the next check from running.
func Run(ctx context.Context, p *project.Project) *Report {
	return RunChecks(ctx, p, Checks())
}

// RunChecks executes the given checks in order
func RunChecks(ctx context.Context, p *project.Project, checks []Check) *Report {
	var records []Record

	for _, check := range checks {
		checkCtx := logger.WithFields(ctx, logrus.Fields{"check": check.Name})
		logger.G(checkCtx).Debug("running check")

		found := check.Run(checkCtx, p)
		for i := range found {
			found[i].Check = check.Name
		}

		logger.G(checkCtx).WithField("records", len(found)).Debug("check finished")
		records = append(records, found...)
	}

	return NewReport(records)
}
