package repositories

import (
	"context"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// GitLabRepository is the read-only view of the GitLab REST API used by the commands.
// Listing methods return the complete collection or an error, never a partial list.
// Count methods hide whether the total came from a HEAD probe or a GET fallback.
type GitLabRepository interface {
	// ListGroups returns every group visible to the token, in server order.
	ListGroups(ctx context.Context) ([]entities.Group, error)

	// ListGroupProjects returns every project of a group, subgroups included.
	ListGroupProjects(ctx context.Context, groupPath string) ([]entities.Project, error)

	CountGroupProjects(ctx context.Context, groupID int64) (int, error)
	CountSubgroups(ctx context.Context, groupID int64) (int, error)
	CountGroupMembers(ctx context.Context, groupID int64) (int, error)

	// GetProject returns the project metadata with statistics.
	GetProject(ctx context.Context, projectID int64) (*entities.ProjectDetails, error)

	CountBranches(ctx context.Context, projectID int64) (int, error)
	CountTags(ctx context.Context, projectID int64) (int, error)
	CountMergeRequests(ctx context.Context, projectID int64) (int, error)

	// CountCommits probes the commits of ref; it is used to check that a repository is readable.
	CountCommits(ctx context.Context, projectID int64, ref string) (int, error)

	// CountBlobs returns the blob search total, which may be unavailable on some instances.
	CountBlobs(ctx context.Context, projectID int64) (int, error)

	// ListBranchNames returns the branch names of the first listing page only.
	ListBranchNames(ctx context.Context, projectID int64) ([]string, error)

	// ListTreePage returns one page of the recursive repository tree at ref.
	ListTreePage(ctx context.Context, projectID int64, ref string, page int) (*entities.TreePage, error)

	// FileExists reports whether path exists at ref.
	FileExists(ctx context.Context, projectID int64, path, ref string) (bool, error)

	// FileSize returns the size in bytes of path at ref without downloading it.
	FileSize(ctx context.Context, projectID int64, path, ref string) (int64, error)

	ListContributors(ctx context.Context, projectID int64) ([]entities.Contributor, error)
}

// GitLabRepositoryFactory builds a GitLabRepository for the resolved settings.
type GitLabRepositoryFactory func(settings *entities.Settings) (GitLabRepository, error)
