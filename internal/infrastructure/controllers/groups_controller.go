package controllers

import (
	"errors"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gitlabstats/config"
	"github.com/rios0rios0/gitlabstats/internal/domain/commands"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// GroupsController handles the "groups" subcommand.
type GroupsController struct {
	command commands.Groups
}

// NewGroupsController creates a new GroupsController.
func NewGroupsController(command commands.Groups) *GroupsController {
	return &GroupsController{command: command}
}

// GetBind returns the Cobra command metadata for the groups controller.
func (it *GroupsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "groups",
		Short: "Write statistics for every visible group",
		Long: `List every group the token can see and write one CSV row per group with
its project, subgroup and member counts and its storage statistics.

The report is written to <data-dir>/gitlab-groups.csv unless --output is given.`,
	}
}

// AddFlags adds the groups-specific flags to the given Cobra command.
func (it *GroupsController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(config.FlagOutput, "o", entities.DefaultGroupsOutput,
		"report file name, relative to the data directory unless absolute")
}

// Execute runs the groups report.
func (it *GroupsController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	settings.GroupsOutput, _ = cmd.Flags().GetString(config.FlagOutput)

	logger.Info("Starting GitLab groups report...")
	result, err := it.command.Execute(commandContext(cmd), settings)
	if errors.Is(err, entities.ErrNoGroups) {
		logger.Warnf("Nothing to report: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), "GitLab groups", []summaryRow{
		{label: "Groups discovered", value: strconv.Itoa(result.Discovered)},
		{label: "Groups processed", value: strconv.Itoa(len(result.Rows))},
		{label: "Groups failed", value: strconv.Itoa(len(result.Failed)), warn: len(result.Failed) > 0},
		{label: "Report", value: result.OutputPath},
		{label: "Elapsed", value: result.Elapsed.Round(time.Second).String()},
	})
	return nil
}
