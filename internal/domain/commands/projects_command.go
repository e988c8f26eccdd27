package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

const (
	progressInterval     = 10
	defaultBranchMissing = "main"
)

// Projects defines the interface for the projects statistics command.
type Projects interface {
	Execute(ctx context.Context, settings *entities.Settings) (*ProjectsResult, error)
}

// ProjectsResult describes what a projects run discovered, kept, wrote and skipped.
type ProjectsResult struct {
	Discovered  int
	FilteredOut int
	Filter      *entities.ProjectFilter
	Rows        []entities.ProjectStats
	Failed      []string
	OutputPath  string
	Elapsed     time.Duration
}

// ProjectsCommand discovers every project of every visible group, applies the optional
// allow-list and writes one report row per project.
type ProjectsCommand struct {
	gitlabFactory repositories.GitLabRepositoryFactory
	projectList   repositories.ProjectListRepository
	report        repositories.ReportRepository
}

func NewProjectsCommand(
	gitlabFactory repositories.GitLabRepositoryFactory,
	projectList repositories.ProjectListRepository,
	report repositories.ReportRepository,
) *ProjectsCommand {
	return &ProjectsCommand{
		gitlabFactory: gitlabFactory,
		projectList:   projectList,
		report:        report,
	}
}

func (it *ProjectsCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
) (*ProjectsResult, error) {
	started := time.Now()

	gitlab, err := it.gitlabFactory(settings)
	if err != nil {
		return nil, err
	}
	logger.Infof("Using GitLab instance: %s", settings.GitLabURL)

	result := &ProjectsResult{
		Filter:     it.loadFilter(settings),
		OutputPath: settings.ProjectsOutputPath(),
	}

	projects, err := discoverProjects(ctx, gitlab)
	if err != nil {
		return result, err
	}
	result.Discovered = len(projects)
	logger.Infof("Discovered %d projects in total", len(projects))

	projects = applyFilter(result.Filter, projects)
	result.FilteredOut = result.Discovered - len(projects)
	if len(projects) == 0 {
		logger.Warn("No projects to process after filtering")
		return result, entities.ErrNoProjects
	}

	collector := NewProjectStatsCollector(gitlab)
	for idx, project := range projects {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("run interrupted: %w", ctxErr)
		}
		if (idx+1)%progressInterval == 0 {
			logger.Infof("Progress: %d/%d projects processed", idx+1, len(projects))
		}

		row, processErr := processProject(ctx, gitlab, collector, project)
		if processErr != nil {
			logger.Errorf("  Failed to process project %s: %v", project.Name, processErr)
			result.Failed = append(result.Failed, project.Name)
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) > 0 {
		if err = it.report.WriteProjects(result.OutputPath, result.Rows); err != nil {
			return result, fmt.Errorf("failed to write projects report: %w", err)
		}
		logger.Infof("Data written to %s", result.OutputPath)
	} else {
		logger.Warn("No project data to write")
	}

	if len(result.Failed) > 0 {
		logger.Warnf("Failed to process %d projects:", len(result.Failed))
		for _, name := range result.Failed {
			logger.Warnf("  - %s", name)
		}
	}

	result.Elapsed = time.Since(started)
	logger.Infof("Total execution time: %s", formatElapsed(result.Elapsed))
	return result, nil
}

// loadFilter returns nil, meaning no filtering, whenever the allow-list is missing,
// unreadable or selects no names.
func (it *ProjectsCommand) loadFilter(settings *entities.Settings) *entities.ProjectFilter {
	path := settings.ProjectListPath()
	if path == "" {
		logger.Info("No project list file configured, processing all projects")
		return nil
	}

	values := settings.FilterValues()
	names, err := it.projectList.LoadNames(path, values)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("Project list file not found at %s", path)
		} else {
			logger.Warnf("Failed to load project list file %s: %v", path, err)
		}
		logger.Warn("Falling back to processing all projects")
		return nil
	}

	filter := entities.NewProjectFilter(names)
	if filter == nil {
		logger.Warnf("No projects in %s are marked with %v", path, values)
		logger.Warn("Falling back to processing all projects")
		return nil
	}

	logger.Infof("Loaded %d projects to process from %s", filter.Len(), path)
	logger.Debugf("Projects to process: %s", strings.Join(filter.Names(), ", "))
	return filter
}

func discoverProjects(ctx context.Context, gitlab repositories.GitLabRepository) ([]entities.Project, error) {
	groups, err := gitlab.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	if len(groups) == 0 {
		logger.Warn("No groups found, check your token permissions")
		return nil, entities.ErrNoGroups
	}
	logger.Infof("Found %d groups", len(groups))

	var projects []entities.Project
	for _, group := range groups {
		logger.Infof("Fetching projects of group: %s", group.FullPath)
		groupProjects, listErr := gitlab.ListGroupProjects(ctx, group.FullPath)
		if listErr != nil {
			logger.Warnf("Failed to fetch projects of group %s: %v", group.FullPath, listErr)
			continue
		}

		for _, project := range groupProjects {
			project.GroupName = group.Name
			project.GroupPath = group.FullPath
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func applyFilter(filter *entities.ProjectFilter, projects []entities.Project) []entities.Project {
	if filter == nil {
		return projects
	}

	kept, fellBack := filter.Apply(projects)
	if fellBack {
		logger.Warn("No discovered project matches the project list, processing all projects")
		return kept
	}

	logger.Infof("Filtered to %d projects out of %d", len(kept), len(projects))
	return kept
}

func processProject(
	ctx context.Context,
	gitlab repositories.GitLabRepository,
	collector *ProjectStatsCollector,
	project entities.Project,
) (entities.ProjectStats, error) {
	if project.ID == 0 || project.PathWithNamespace == "" {
		return entities.ProjectStats{}, fmt.Errorf(
			"%w: project %q has no id or namespace path", entities.ErrIncompleteRecord, project.Name,
		)
	}

	logger.Infof("Processing: %s", project.Name)
	if project.Archived {
		logger.Info("  Note: this project is ARCHIVED")
	}

	contributors, commits, err := fetchContributors(ctx, gitlab, project.ID)
	if err != nil {
		return entities.ProjectStats{}, err
	}

	logger.Info("  Collecting repository statistics...")
	stats := collector.Collect(ctx, project)

	return newProjectStats(project, stats, contributors, commits), nil
}

// fetchContributors degrades an API status error to zero contributors but fails the
// project on any other error.
func fetchContributors(
	ctx context.Context,
	gitlab repositories.GitLabRepository,
	projectID int64,
) (int, int, error) {
	contributors, err := gitlab.ListContributors(ctx, projectID)
	if err != nil {
		if errors.Is(err, entities.ErrUnexpectedStatus) {
			logger.Warnf("  Could not fetch contributors: %v", err)
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to fetch contributors: %w", err)
	}

	commits := 0
	for _, contributor := range contributors {
		commits += contributor.Commits
	}
	return len(contributors), commits, nil
}

func newProjectStats(
	project entities.Project,
	stats entities.RepositoryStats,
	contributors, commits int,
) entities.ProjectStats {
	status := "active"
	if project.Archived {
		status = "archived"
	}

	defaultBranch := project.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = defaultBranchMissing
	}

	return entities.ProjectStats{
		ID:                   project.ID,
		GroupName:            entities.OrNotAvailable(project.GroupName),
		ProjectName:          project.Name,
		GroupPath:            entities.OrNotAvailable(project.GroupPath),
		Path:                 project.PathWithNamespace,
		Status:               status,
		Archived:             project.Archived,
		Stars:                project.StarCount,
		Forks:                project.ForksCount,
		OpenIssues:           project.OpenIssuesCount,
		MergeRequests:        stats.MergeRequestCount,
		LastActivity:         entities.FormatTimestamp(project.LastActivityAt),
		Contributors:         contributors,
		TotalCommits:         commits,
		BranchCount:          stats.BranchCount,
		FileCount:            stats.FileCount,
		AllBranchesFileCount: stats.AllBranchesFileCount,
		TotalObjects:         stats.ObjectCount,
		RepositorySizeMB:     entities.BytesToMB(stats.RepositorySize),
		TotalSizeMB:          entities.BytesToMB(stats.StorageSize),
		HasLargeFile:         stats.HasLargeFile,
		Exceeds2GB:           stats.Exceeds2GB,
		Exceeds6GB:           stats.Exceeds6GB,
		HasPipeline:          stats.HasPipeline,
		Visibility:           entities.OrNotAvailable(project.Visibility),
		CreatedAt:            entities.FormatTimestamp(project.CreatedAt),
		DefaultBranch:        defaultBranch,
		WebURL:               entities.OrNotAvailable(project.WebURL),
	}
}
