//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

// TreeKey identifies the tree of a project at a ref.
func TreeKey(projectID int64, ref string) string {
	return fmt.Sprintf("%d@%s", projectID, ref)
}

// FileKey identifies a file of a project at a ref.
func FileKey(projectID int64, ref, path string) string {
	return fmt.Sprintf("%d@%s:%s", projectID, ref, path)
}

// StubGitLabRepository implements repositories.GitLabRepository from in-memory fixtures.
// Missing fixtures answer with zero values; the *Err fields force failures.
type StubGitLabRepository struct {
	// --- ListGroups ---
	Groups        []entities.Group
	ListGroupsErr error

	// --- ListGroupProjects (keyed by group full path) ---
	GroupProjects    map[string][]entities.Project
	GroupProjectsErr map[string]error

	// --- group counts (keyed by group ID) ---
	GroupProjectCounts map[int64]int
	SubgroupCounts     map[int64]int
	MemberCounts       map[int64]int
	GroupCountErr      error

	// --- GetProject ---
	Projects      map[int64]*entities.ProjectDetails
	GetProjectErr error

	// --- project counts (keyed by project ID) ---
	BranchCounts       map[int64]int
	TagCounts          map[int64]int
	MergeRequestCounts map[int64]int
	ProjectCountErr    error
	CommitCountErr     error
	BlobCounts         map[int64]int
	BlobCountErr       error

	// --- ListBranchNames ---
	BranchNames     map[int64][]string
	ListBranchesErr error

	// --- ListTreePage (keyed by TreeKey) ---
	Trees    map[string][]entities.TreePage
	TreeErrs map[string]error

	// --- FileExists / FileSize (keyed by FileKey) ---
	ExistingFiles map[string]bool
	FileExistsErr error
	FileSizes     map[string]int64

	// --- ListContributors ---
	Contributors    map[int64][]entities.Contributor
	ContributorsErr map[int64]error

	// spy: calls that were made
	ListedGroupPaths   []string
	TreeRequests       []string
	FileExistsRequests []string
	FileSizeRequests   []string
	CommitProbes       int
}

var _ repositories.GitLabRepository = (*StubGitLabRepository)(nil)

func (s *StubGitLabRepository) ListGroups(_ context.Context) ([]entities.Group, error) {
	if s.ListGroupsErr != nil {
		return nil, s.ListGroupsErr
	}
	return s.Groups, nil
}

func (s *StubGitLabRepository) ListGroupProjects(_ context.Context, groupPath string) ([]entities.Project, error) {
	s.ListedGroupPaths = append(s.ListedGroupPaths, groupPath)
	if err := s.GroupProjectsErr[groupPath]; err != nil {
		return nil, err
	}
	return s.GroupProjects[groupPath], nil
}

func (s *StubGitLabRepository) CountGroupProjects(_ context.Context, groupID int64) (int, error) {
	return s.groupCount(s.GroupProjectCounts, groupID)
}

func (s *StubGitLabRepository) CountSubgroups(_ context.Context, groupID int64) (int, error) {
	return s.groupCount(s.SubgroupCounts, groupID)
}

func (s *StubGitLabRepository) CountGroupMembers(_ context.Context, groupID int64) (int, error) {
	return s.groupCount(s.MemberCounts, groupID)
}

func (s *StubGitLabRepository) GetProject(_ context.Context, projectID int64) (*entities.ProjectDetails, error) {
	if s.GetProjectErr != nil {
		return nil, s.GetProjectErr
	}
	if details, ok := s.Projects[projectID]; ok {
		return details, nil
	}
	return &entities.ProjectDetails{ID: projectID}, nil
}

func (s *StubGitLabRepository) CountBranches(_ context.Context, projectID int64) (int, error) {
	return s.projectCount(s.BranchCounts, projectID)
}

func (s *StubGitLabRepository) CountTags(_ context.Context, projectID int64) (int, error) {
	return s.projectCount(s.TagCounts, projectID)
}

func (s *StubGitLabRepository) CountMergeRequests(_ context.Context, projectID int64) (int, error) {
	return s.projectCount(s.MergeRequestCounts, projectID)
}

func (s *StubGitLabRepository) CountCommits(_ context.Context, _ int64, _ string) (int, error) {
	s.CommitProbes++
	if s.CommitCountErr != nil {
		return 0, s.CommitCountErr
	}
	return 1, nil
}

func (s *StubGitLabRepository) CountBlobs(_ context.Context, projectID int64) (int, error) {
	if s.BlobCountErr != nil {
		return 0, s.BlobCountErr
	}
	return s.BlobCounts[projectID], nil
}

func (s *StubGitLabRepository) ListBranchNames(_ context.Context, projectID int64) ([]string, error) {
	if s.ListBranchesErr != nil {
		return nil, s.ListBranchesErr
	}
	return s.BranchNames[projectID], nil
}

// ListTreePage serves the configured pages in order. NextPage and TotalPages are derived
// from the fixture unless a page sets them.
func (s *StubGitLabRepository) ListTreePage(
	_ context.Context, projectID int64, ref string, page int,
) (*entities.TreePage, error) {
	key := TreeKey(projectID, ref)
	s.TreeRequests = append(s.TreeRequests, fmt.Sprintf("%s#%d", key, page))
	if err := s.TreeErrs[key]; err != nil {
		return nil, err
	}

	pages := s.Trees[key]
	if page < 1 || page > len(pages) {
		return &entities.TreePage{}, nil
	}

	treePage := pages[page-1]
	if treePage.NextPage == 0 && page < len(pages) {
		treePage.NextPage = page + 1
	}
	if treePage.TotalPages == 0 {
		treePage.TotalPages = len(pages)
	}
	return &treePage, nil
}

func (s *StubGitLabRepository) FileExists(_ context.Context, projectID int64, path, ref string) (bool, error) {
	key := FileKey(projectID, ref, path)
	s.FileExistsRequests = append(s.FileExistsRequests, key)
	if s.FileExistsErr != nil {
		return false, s.FileExistsErr
	}
	return s.ExistingFiles[key], nil
}

func (s *StubGitLabRepository) FileSize(_ context.Context, projectID int64, path, ref string) (int64, error) {
	key := FileKey(projectID, ref, path)
	s.FileSizeRequests = append(s.FileSizeRequests, key)
	size, ok := s.FileSizes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", entities.ErrNotFound, key)
	}
	return size, nil
}

func (s *StubGitLabRepository) ListContributors(_ context.Context, projectID int64) ([]entities.Contributor, error) {
	if err := s.ContributorsErr[projectID]; err != nil {
		return nil, err
	}
	return s.Contributors[projectID], nil
}

func (s *StubGitLabRepository) groupCount(counts map[int64]int, id int64) (int, error) {
	if s.GroupCountErr != nil {
		return 0, s.GroupCountErr
	}
	return counts[id], nil
}

func (s *StubGitLabRepository) projectCount(counts map[int64]int, id int64) (int, error) {
	if s.ProjectCountErr != nil {
		return 0, s.ProjectCountErr
	}
	return counts[id], nil
}

// Factory returns a GitLabRepositoryFactory that always hands out this stub.
func (s *StubGitLabRepository) Factory() repositories.GitLabRepositoryFactory {
	return func(_ *entities.Settings) (repositories.GitLabRepository, error) {
		return s, nil
	}
}
