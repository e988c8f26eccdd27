package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

// Groups defines the interface for the groups statistics command.
type Groups interface {
	Execute(ctx context.Context, settings *entities.Settings) (*GroupsResult, error)
}

// GroupsResult describes what a groups run discovered, wrote and skipped.
type GroupsResult struct {
	Discovered int
	Rows       []entities.GroupStats
	Failed     []string
	OutputPath string
	Elapsed    time.Duration
}

// GroupsCommand writes one report row per group visible to the token.
type GroupsCommand struct {
	gitlabFactory repositories.GitLabRepositoryFactory
	report        repositories.ReportRepository
}

func NewGroupsCommand(
	gitlabFactory repositories.GitLabRepositoryFactory,
	report repositories.ReportRepository,
) *GroupsCommand {
	return &GroupsCommand{gitlabFactory: gitlabFactory, report: report}
}

func (it *GroupsCommand) Execute(ctx context.Context, settings *entities.Settings) (*GroupsResult, error) {
	started := time.Now()

	gitlab, err := it.gitlabFactory(settings)
	if err != nil {
		return nil, err
	}
	logger.Infof("Using GitLab instance: %s", settings.GitLabURL)

	groups, err := gitlab.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	result := &GroupsResult{Discovered: len(groups), OutputPath: settings.GroupsOutputPath()}
	if len(groups) == 0 {
		logger.Warn("No groups found, check your token permissions")
		return result, entities.ErrNoGroups
	}
	logger.Infof("Found %d groups", len(groups))

	for idx, group := range groups {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("run interrupted: %w", ctxErr)
		}
		logger.Infof("Processing group %d/%d: %s", idx+1, len(groups), group.FullPath)

		row, groupErr := collectGroupStats(ctx, gitlab, group)
		if groupErr != nil {
			logger.Errorf("  Failed to process group %s: %v", group.Name, groupErr)
			result.Failed = append(result.Failed, group.Name)
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) > 0 {
		if err = it.report.WriteGroups(result.OutputPath, result.Rows); err != nil {
			return result, fmt.Errorf("failed to write groups report: %w", err)
		}
		logger.Infof("Group data written to %s", result.OutputPath)
	} else {
		logger.Warn("No group data to write")
	}

	result.Elapsed = time.Since(started)
	logger.Infof("Total execution time: %s", formatElapsed(result.Elapsed))
	return result, nil
}

func collectGroupStats(
	ctx context.Context,
	gitlab repositories.GitLabRepository,
	group entities.Group,
) (entities.GroupStats, error) {
	if group.ID == 0 || group.FullPath == "" {
		return entities.GroupStats{}, fmt.Errorf(
			"%w: group %q has no id or full path", entities.ErrIncompleteRecord, group.Name,
		)
	}

	parentID := ""
	if group.ParentID != nil {
		parentID = strconv.FormatInt(*group.ParentID, 10)
	}

	return entities.GroupStats{
		ID:               group.ID,
		Name:             group.Name,
		Path:             group.Path,
		FullPath:         group.FullPath,
		Description:      group.Description,
		Visibility:       entities.OrNotAvailable(group.Visibility),
		ProjectCount:     countOrZero(ctx, "project", gitlab.CountGroupProjects, group.ID),
		SubgroupCount:    countOrZero(ctx, "subgroup", gitlab.CountSubgroups, group.ID),
		MemberCount:      countOrZero(ctx, "member", gitlab.CountGroupMembers, group.ID),
		StorageSizeMB:    entities.BytesToMB(group.StorageSize),
		RepositorySizeMB: entities.BytesToMB(group.RepositorySize),
		CreatedAt:        entities.FormatTimestamp(group.CreatedAt),
		ParentID:         parentID,
		WebURL:           entities.OrNotAvailable(group.WebURL),
	}, nil
}
