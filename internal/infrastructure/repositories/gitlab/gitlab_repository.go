package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

const (
	groupsPerPage       = 50
	projectsPerPage     = 100
	branchesPerPage     = 100
	treePerPage         = 100
	contributorsPerPage = 100
	projectCacheSize    = 256

	listTimeout         = 30 * time.Second
	countTimeout        = 10 * time.Second
	projectTimeout      = 20 * time.Second
	branchesTimeout     = 15 * time.Second
	treeTimeout         = 30 * time.Second
	fileTimeout         = 5 * time.Second
	contributorsTimeout = 15 * time.Second
)

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabRepository implements repositories.GitLabRepository on top of the official client.
// Retries are disabled: every failure is reported to the caller at once.
type GitLabRepository struct {
	client   *gl.Client
	projects *lru.Cache[int64, *entities.ProjectDetails]
}

// NewGitLabRepository creates a repository for the instance and token in settings.
func NewGitLabRepository(settings *entities.Settings) (repositories.GitLabRepository, error) {
	client, err := gl.NewClient(
		settings.Token,
		gl.WithBaseURL(settings.APIURL()),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}

	cache, err := lru.New[int64, *entities.ProjectDetails](projectCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create project cache: %w", err)
	}

	return &GitLabRepository{client: client, projects: cache}, nil
}

// ListGroups pages through /groups until an empty page or a missing next page.
func (r *GitLabRepository) ListGroups(ctx context.Context) ([]entities.Group, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}

	var allGroups []entities.Group
	opts := &gl.ListGroupsOptions{
		ListOptions: gl.ListOptions{PerPage: groupsPerPage, Page: 1},
		Statistics:  gl.Ptr(true),
		Owned:       gl.Ptr(false),
	}

	for {
		logger.Debugf("Fetching groups page %v (up to %d per page)", opts.Page, groupsPerPage)

		pageCtx, cancel := context.WithTimeout(ctx, listTimeout)
		groups, resp, err := r.client.Groups.ListGroups(opts, gl.WithContext(pageCtx))
		cancel()
		if err != nil {
			logListingFailure(resp, "groups")
			return nil, fmt.Errorf("failed to list groups on page %v: %w", opts.Page, classify(resp, err))
		}

		if len(groups) == 0 {
			break
		}
		for _, group := range groups {
			allGroups = append(allGroups, toGroup(group))
		}
		logger.Debugf("Added %d groups, total so far: %d", len(groups), len(allGroups))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allGroups, nil
}

// ListGroupProjects pages through the projects of groupPath, subgroups included.
func (r *GitLabRepository) ListGroupProjects(
	ctx context.Context,
	groupPath string,
) ([]entities.Project, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}

	var allProjects []entities.Project
	opts := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: projectsPerPage, Page: 1},
		IncludeSubGroups: gl.Ptr(true),
	}

	for {
		logger.Debugf("Fetching projects of %q page %v (up to %d per page)", groupPath, opts.Page, projectsPerPage)

		pageCtx, cancel := context.WithTimeout(ctx, listTimeout)
		projects, resp, err := r.client.Groups.ListGroupProjects(
			groupPath, opts, gl.WithContext(pageCtx), withQueryParameter("statistics", "true"),
		)
		cancel()
		if err != nil {
			logListingFailure(resp, fmt.Sprintf("projects of group %q", groupPath))
			return nil, fmt.Errorf(
				"failed to list projects of %q on page %v: %w", groupPath, opts.Page, classify(resp, err),
			)
		}

		if len(projects) == 0 {
			break
		}
		for _, project := range projects {
			allProjects = append(allProjects, toProject(project))
		}
		logger.Debugf("Added %d projects, total so far: %d", len(projects), len(allProjects))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allProjects, nil
}

func (r *GitLabRepository) CountGroupProjects(ctx context.Context, groupID int64) (int, error) {
	return r.count(ctx, fmt.Sprintf("groups/%d/projects", groupID), &countOptions{
		IncludeSubGroups: gl.Ptr(true),
	})
}

func (r *GitLabRepository) CountSubgroups(ctx context.Context, groupID int64) (int, error) {
	return r.count(ctx, fmt.Sprintf("groups/%d/subgroups", groupID), &countOptions{})
}

func (r *GitLabRepository) CountGroupMembers(ctx context.Context, groupID int64) (int, error) {
	return r.count(ctx, fmt.Sprintf("groups/%d/members", groupID), &countOptions{})
}

// GetProject fetches the project with statistics. Results are memoized for the whole run.
func (r *GitLabRepository) GetProject(
	ctx context.Context,
	projectID int64,
) (*entities.ProjectDetails, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}
	if details, ok := r.projects.Get(projectID); ok {
		return details, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, projectTimeout)
	defer cancel()

	project, resp, err := r.client.Projects.GetProject(projectID, &gl.GetProjectOptions{
		Statistics: gl.Ptr(true),
		License:    gl.Ptr(true),
	}, gl.WithContext(reqCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", projectID, classify(resp, err))
	}

	details := &entities.ProjectDetails{
		ID:            projectID,
		DefaultBranch: project.DefaultBranch,
	}
	if project.Statistics != nil {
		details.RepositorySize = int64(project.Statistics.RepositorySize)
		details.StorageSize = int64(project.Statistics.StorageSize)
		details.CommitCount = int(project.Statistics.CommitCount)
	}
	r.projects.Add(projectID, details)

	return details, nil
}

func (r *GitLabRepository) CountBranches(ctx context.Context, projectID int64) (int, error) {
	return r.count(ctx, fmt.Sprintf("projects/%d/repository/branches", projectID), &countOptions{})
}

func (r *GitLabRepository) CountTags(ctx context.Context, projectID int64) (int, error) {
	return r.count(ctx, fmt.Sprintf("projects/%d/repository/tags", projectID), &countOptions{})
}

func (r *GitLabRepository) CountMergeRequests(ctx context.Context, projectID int64) (int, error) {
	return r.count(ctx, fmt.Sprintf("projects/%d/merge_requests", projectID), &countOptions{
		State: gl.Ptr("all"),
	})
}

func (r *GitLabRepository) CountCommits(ctx context.Context, projectID int64, ref string) (int, error) {
	return r.count(ctx, fmt.Sprintf("projects/%d/repository/commits", projectID), &countOptions{
		Ref: gl.Ptr(ref),
	})
}

// CountBlobs reads the X-Total of a blob search. A search answering without it counts as zero.
func (r *GitLabRepository) CountBlobs(ctx context.Context, projectID int64) (int, error) {
	if r.client == nil {
		return 0, errClientNotInitialized
	}

	resp, err := r.do(ctx, countTimeout, http.MethodHead, fmt.Sprintf("projects/%d/search", projectID), &countOptions{
		ListOptions: gl.ListOptions{PerPage: 1},
		Scope:       gl.Ptr("blobs"),
		Search:      gl.Ptr("*"),
	}, nil)
	if err != nil {
		return 0, err
	}
	if !hasTotal(resp) {
		return 0, nil
	}
	return int(resp.TotalItems), nil
}

// ListBranchNames returns the names on the first branches page.
func (r *GitLabRepository) ListBranchNames(ctx context.Context, projectID int64) ([]string, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}

	reqCtx, cancel := context.WithTimeout(ctx, branchesTimeout)
	defer cancel()

	branches, resp, err := r.client.Branches.ListBranches(projectID, &gl.ListBranchesOptions{
		ListOptions: gl.ListOptions{PerPage: branchesPerPage},
	}, gl.WithContext(reqCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to list branches of project %d: %w", projectID, classify(resp, err))
	}

	names := make([]string, 0, len(branches))
	for _, branch := range branches {
		names = append(names, branch.Name)
	}
	return names, nil
}

func (r *GitLabRepository) ListTreePage(
	ctx context.Context,
	projectID int64,
	ref string,
	page int,
) (*entities.TreePage, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}

	opts := &gl.ListTreeOptions{
		ListOptions: gl.ListOptions{PerPage: treePerPage},
		Ref:         gl.Ptr(ref),
		Recursive:   gl.Ptr(true),
	}
	setPage(&opts.Page, page)

	reqCtx, cancel := context.WithTimeout(ctx, treeTimeout)
	defer cancel()

	nodes, resp, err := r.client.Repositories.ListTree(projectID, opts, gl.WithContext(reqCtx))
	if err != nil {
		return nil, fmt.Errorf(
			"failed to list tree of project %d at %q page %d: %w", projectID, ref, page, classify(resp, err),
		)
	}

	result := &entities.TreePage{
		Entries:    make([]entities.TreeEntry, 0, len(nodes)),
		NextPage:   int(resp.NextPage),
		TotalPages: int(resp.TotalPages),
	}
	for _, node := range nodes {
		result.Entries = append(result.Entries, entities.TreeEntry{Path: node.Path, Type: node.Type})
	}
	return result, nil
}

// FileExists answers with a metadata-only request; a 404 is reported as (false, nil).
func (r *GitLabRepository) FileExists(
	ctx context.Context,
	projectID int64,
	path, ref string,
) (bool, error) {
	_, err := r.fileMetadata(ctx, projectID, path, ref)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, entities.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// FileSize reads the X-Gitlab-Size header of a metadata-only request.
func (r *GitLabRepository) FileSize(
	ctx context.Context,
	projectID int64,
	path, ref string,
) (int64, error) {
	file, err := r.fileMetadata(ctx, projectID, path, ref)
	if err != nil {
		return 0, err
	}
	return int64(file.Size), nil
}

// ListContributors pages through every contributor of the repository.
func (r *GitLabRepository) ListContributors(
	ctx context.Context,
	projectID int64,
) ([]entities.Contributor, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}

	var contributors []entities.Contributor
	opts := &gl.ListContributorsOptions{
		ListOptions: gl.ListOptions{PerPage: contributorsPerPage, Page: 1},
	}

	for {
		pageCtx, cancel := context.WithTimeout(ctx, contributorsTimeout)
		page, resp, err := r.client.Repositories.Contributors(projectID, opts, gl.WithContext(pageCtx))
		cancel()
		if err != nil {
			return nil, fmt.Errorf(
				"failed to list contributors of project %d: %w", projectID, classify(resp, err),
			)
		}

		for _, c := range page {
			contributors = append(contributors, entities.Contributor{
				Name:    c.Name,
				Email:   c.Email,
				Commits: int(c.Commits),
			})
		}

		if len(page) == 0 || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return contributors, nil
}

func (r *GitLabRepository) fileMetadata(
	ctx context.Context,
	projectID int64,
	path, ref string,
) (*gl.File, error) {
	if r.client == nil {
		return nil, errClientNotInitialized
	}

	reqCtx, cancel := context.WithTimeout(ctx, fileTimeout)
	defer cancel()

	file, resp, err := r.client.RepositoryFiles.GetFileMetaData(projectID, path, &gl.GetFileMetaDataOptions{
		Ref: gl.Ptr(ref),
	}, gl.WithContext(reqCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata of %q at %q: %w", path, ref, classify(resp, err))
	}
	return file, nil
}

// countOptions carries the query parameters of every count probe.
type countOptions struct {
	gl.ListOptions
	IncludeSubGroups *bool   `url:"include_subgroups,omitempty" json:"include_subgroups,omitempty"`
	State            *string `url:"state,omitempty" json:"state,omitempty"`
	Ref              *string `url:"ref,omitempty" json:"ref,omitempty"`
	Scope            *string `url:"scope,omitempty" json:"scope,omitempty"`
	Search           *string `url:"search,omitempty" json:"search,omitempty"`
}

// count returns the size of a listing. A HEAD request answering with X-Total wins; otherwise
// a GET is issued and its X-Total, or the number of items on its single page, is used.
func (r *GitLabRepository) count(ctx context.Context, path string, opts *countOptions) (int, error) {
	if r.client == nil {
		return 0, errClientNotInitialized
	}
	opts.PerPage = 1

	resp, err := r.do(ctx, countTimeout, http.MethodHead, path, opts, nil)
	if err == nil && hasTotal(resp) {
		return int(resp.TotalItems), nil
	}
	if err != nil {
		logger.Debugf("HEAD %s failed, falling back to GET: %v", path, err)
	}

	var items []json.RawMessage
	resp, err = r.do(ctx, countTimeout, http.MethodGet, path, opts, &items)
	if err != nil {
		return 0, err
	}
	if hasTotal(resp) {
		return int(resp.TotalItems), nil
	}
	return len(items), nil
}

func (r *GitLabRepository) do(
	ctx context.Context,
	timeout time.Duration,
	method, path string,
	opt, v any,
) (*gl.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := r.client.NewRequest(method, path, opt, []gl.RequestOptionFunc{gl.WithContext(reqCtx)})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}

	resp, err := r.client.Do(req, v)
	if err != nil {
		return resp, fmt.Errorf("%s %s: %w", method, path, classify(resp, err))
	}
	return resp, nil
}

// withQueryParameter sets a query parameter the client's option structs do not expose.
func withQueryParameter(key, value string) gl.RequestOptionFunc {
	return func(req *retryablehttp.Request) error {
		q := req.URL.Query()
		q.Set(key, value)
		req.URL.RawQuery = q.Encode()
		return nil
	}
}

func hasTotal(resp *gl.Response) bool {
	return resp != nil && resp.Response != nil && resp.Header.Get("X-Total") != ""
}

// classify tags HTTP status failures with entities.ErrUnexpectedStatus so the domain can tell
// them apart from transport failures.
func classify(resp *gl.Response, err error) error {
	code := statusCode(resp)
	if code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", entities.ErrNotFound, err)
	}
	if code != 0 && (code < 200 || code > 299) {
		return fmt.Errorf("%w %d: %w", entities.ErrUnexpectedStatus, code, err)
	}
	return err
}

func statusCode(resp *gl.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func logListingFailure(resp *gl.Response, what string) {
	switch statusCode(resp) {
	case http.StatusUnauthorized:
		logger.Error("Unauthorized - check your token validity")
	case http.StatusForbidden:
		logger.Error("Forbidden - check token permissions")
	case http.StatusNotFound:
		logger.Errorf("Not found while fetching %s", what)
	}
}

// setPage assigns a page number whatever integer type the client uses for it.
func setPage[T ~int | ~int64](dst *T, page int) {
	*dst = T(page)
}

func toGroup(group *gl.Group) entities.Group {
	result := entities.Group{
		ID:          int64(group.ID),
		Name:        group.Name,
		Path:        group.Path,
		FullPath:    group.FullPath,
		Description: group.Description,
		Visibility:  string(group.Visibility),
		WebURL:      group.WebURL,
		CreatedAt:   group.CreatedAt,
	}
	if group.ParentID != 0 {
		parentID := int64(group.ParentID)
		result.ParentID = &parentID
	}
	if group.Statistics != nil {
		result.StorageSize = int64(group.Statistics.StorageSize)
		result.RepositorySize = int64(group.Statistics.RepositorySize)
	}
	return result
}

func toProject(project *gl.Project) entities.Project {
	result := entities.Project{
		ID:                int64(project.ID),
		Name:              project.Name,
		Path:              project.Path,
		PathWithNamespace: project.PathWithNamespace,
		Archived:          project.Archived,
		Visibility:        string(project.Visibility),
		StarCount:         int(project.StarCount),
		ForksCount:        int(project.ForksCount),
		OpenIssuesCount:   int(project.OpenIssuesCount),
		DefaultBranch:     project.DefaultBranch,
		WebURL:            project.WebURL,
		CreatedAt:         project.CreatedAt,
		LastActivityAt:    project.LastActivityAt,
	}
	if project.Statistics != nil {
		result.RepositorySize = int64(project.Statistics.RepositorySize)
		result.StorageSize = int64(project.Statistics.StorageSize)
	}
	return result
}
