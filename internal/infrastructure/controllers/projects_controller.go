package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gitlabstats/config"
	"github.com/rios0rios0/gitlabstats/internal/domain/commands"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// ProjectsController handles the "projects" subcommand.
type ProjectsController struct {
	command commands.Projects
}

// NewProjectsController creates a new ProjectsController.
func NewProjectsController(command commands.Projects) *ProjectsController {
	return &ProjectsController{command: command}
}

// GetBind returns the Cobra command metadata for the projects controller.
func (it *ProjectsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "projects",
		Short: "Write repository statistics for every project of every visible group",
		Long: `Discover the projects of every group the token can see and write one CSV row
per project: activity, contributors, branch and file counts, sizes, large-file
and pipeline detection.

An optional project list (a CSV export with "Name" and "Migrate Repo" columns)
restricts the report to the projects marked with one of the --migrate-value
values. The report is written to <data-dir>/gitlab-stats.csv unless --output
is given.`,
	}
}

// AddFlags adds the projects-specific flags to the given Cobra command.
func (it *ProjectsController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(config.FlagOutput, "o", entities.DefaultProjectsOutput,
		"report file name, relative to the data directory unless absolute")
	cmd.Flags().String(config.FlagProjectList, "",
		"CSV file restricting which projects are processed, relative to the data directory unless absolute")
	cmd.Flags().StringSlice(config.FlagMigrateValue, nil,
		`"Migrate Repo" values that select a project (default "`+entities.DefaultMigrateValue+`")`)
}

// Execute runs the projects report.
func (it *ProjectsController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	settings.ProjectsOutput, _ = cmd.Flags().GetString(config.FlagOutput)

	logger.Info("Starting GitLab projects report...")
	result, err := it.command.Execute(commandContext(cmd), settings)
	if errors.Is(err, entities.ErrNoGroups) || errors.Is(err, entities.ErrNoProjects) {
		logger.Warnf("Nothing to report: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	if result.Filter != nil {
		logger.Infof("Filter values used: %s", strings.Join(settings.FilterValues(), ", "))
	}
	printSummary(cmd.OutOrStdout(), "GitLab projects", projectsSummary(result))
	return nil
}

func projectsSummary(result *commands.ProjectsResult) []summaryRow {
	var over2GB, over6GB, largeFiles, pipelines int
	for _, row := range result.Rows {
		over2GB += boolToInt(row.Exceeds2GB)
		over6GB += boolToInt(row.Exceeds6GB)
		largeFiles += boolToInt(row.HasLargeFile)
		pipelines += boolToInt(row.HasPipeline)
	}

	return []summaryRow{
		{label: "Projects discovered", value: strconv.Itoa(result.Discovered)},
		{label: "Filtered out", value: strconv.Itoa(result.FilteredOut)},
		{label: "Projects processed", value: strconv.Itoa(len(result.Rows))},
		{label: "Projects failed", value: strconv.Itoa(len(result.Failed)), warn: len(result.Failed) > 0},
		{label: "Over 2 GB", value: strconv.Itoa(over2GB), warn: over2GB > 0},
		{label: "Over 6 GB", value: strconv.Itoa(over6GB), warn: over6GB > 0},
		{label: "Large files", value: strconv.Itoa(largeFiles), warn: largeFiles > 0},
		{label: "With pipeline", value: strconv.Itoa(pipelines)},
		{label: "Report", value: result.OutputPath},
		{label: "Elapsed", value: result.Elapsed.Round(time.Second).String()},
	}
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
