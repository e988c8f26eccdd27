package commands

import (
	"context"
	"errors"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

const (
	bytesPerMB             = 1024 * 1024
	largeRepositoryMB      = 10000
	maxTreePages           = 50
	maxScannedBranches     = 10
	maxTreePagesPerBranch  = 5
	loggedBranchBreakdowns = 3
)

//nolint:gochecknoglobals // fixed lookup tables
var (
	pipelineFiles = []string{
		".gitlab-ci.yml",
		".gitlab-ci.yaml",
		"gitlab-ci.yml",
		"gitlab-ci.yaml",
		".gitlab/ci.yml",
		".gitlab/ci.yaml",
	}

	largeFileExtensions = []string{
		".zip", ".tar", ".gz", ".iso", ".dmg", ".exe", ".deb",
		".rpm", ".pkg", ".msi", ".war", ".ear", ".jar", ".pdf",
		".mp4", ".mov", ".avi", ".mkv", ".mp3", ".wav", ".flac",
	}
)

// ProjectStatsCollector gathers the repository metrics of one project. It never fails:
// every sub-query that errors is logged and degraded to its zero value.
type ProjectStatsCollector struct {
	gitlab repositories.GitLabRepository
}

func NewProjectStatsCollector(gitlab repositories.GitLabRepository) *ProjectStatsCollector {
	return &ProjectStatsCollector{gitlab: gitlab}
}

func (it *ProjectStatsCollector) Collect(ctx context.Context, project entities.Project) entities.RepositoryStats {
	details, err := it.gitlab.GetProject(ctx, project.ID)
	if err != nil {
		logger.Warnf("    Could not fetch project details: %v", err)
		details = &entities.ProjectDetails{ID: project.ID}
	}

	stats := entities.RepositoryStats{
		RepositorySize: details.RepositorySize,
		StorageSize:    details.StorageSize,
		CommitCount:    details.CommitCount,
	}

	stats.FileCount = it.countDefaultBranchFiles(ctx, details)
	stats.BranchCount = countOrZero(ctx, "branch", it.gitlab.CountBranches, project.ID)
	stats.HasPipeline = it.hasPipelineConfig(ctx, project.ID, details.DefaultBranch)
	stats.AllBranchesFileCount, stats.HasLargeFile = it.scanBranches(ctx, project.ID)
	stats.TagCount = countOrZero(ctx, "tag", it.gitlab.CountTags, project.ID)
	stats.MergeRequestCount = countOrZero(ctx, "merge request", it.gitlab.CountMergeRequests, project.ID)
	stats.ObjectCount = entities.EstimateObjectCount(
		stats.CommitCount,
		stats.BranchCount,
		stats.TagCount,
		stats.AllBranchesFileCount,
		stats.MergeRequestCount,
	)
	stats.ApplySizeFallback(project.RepositorySize, project.StorageSize)

	logger.Infof(
		"    Repository stats - Files: %d, Size: %.2f MB, Objects: %d",
		stats.FileCount, entities.BytesToMB(stats.StorageSize), stats.ObjectCount,
	)
	return stats
}

func (it *ProjectStatsCollector) countDefaultBranchFiles(
	ctx context.Context,
	details *entities.ProjectDetails,
) int {
	if details.DefaultBranch == "" {
		logger.Warn("    No default branch found, repository might be empty")
		return 0
	}

	sizeMB := float64(details.RepositorySize) / bytesPerMB
	if sizeMB > largeRepositoryMB {
		logger.Infof("    Large repository detected (%.2f MB), using search based counting", sizeMB)
		if count, ok := it.countLargeRepositoryFiles(ctx, details.ID, details.DefaultBranch); ok {
			return count
		}
	}

	return it.walkTree(ctx, details.ID, details.DefaultBranch)
}

// countLargeRepositoryFiles reports ok=false when the tree walk should be tried instead. A
// search answered with a failure status counts as zero files.
func (it *ProjectStatsCollector) countLargeRepositoryFiles(
	ctx context.Context,
	projectID int64,
	ref string,
) (int, bool) {
	if _, err := it.gitlab.CountCommits(ctx, projectID, ref); err != nil {
		logger.Warnf("    Commit probe failed: %v", err)
		return 0, false
	}

	count, err := it.gitlab.CountBlobs(ctx, projectID)
	if err != nil {
		logger.Warnf("    Blob search failed: %v", err)
		if errors.Is(err, entities.ErrUnexpectedStatus) {
			logger.Info("    Very large repository, exact file count unavailable")
			return 0, true
		}
		return 0, false
	}
	if count == 0 {
		logger.Info("    Very large repository, exact file count unavailable")
		return 0, true
	}

	logger.Infof("    Estimated file count from search: %d", count)
	return count, true
}

// walkTree counts blobs of the recursive tree for up to maxTreePages pages. Past the cap
// the counted minimum is returned and the extrapolated total is only logged.
func (it *ProjectStatsCollector) walkTree(ctx context.Context, projectID int64, ref string) int {
	files := 0
	totalPages := 0
	page := 1

	for ; page <= maxTreePages; page++ {
		treePage, err := it.gitlab.ListTreePage(ctx, projectID, ref, page)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				logger.Warn("    Repository tree not found")
				return 0
			}
			logger.Warnf("    Stopped reading repository tree on page %d: %v", page, err)
			break
		}
		if len(treePage.Entries) == 0 {
			break
		}

		for _, entry := range treePage.Entries {
			if entry.IsFile() {
				files++
			}
		}

		if page == 1 && treePage.TotalPages > maxTreePages {
			totalPages = treePage.TotalPages
			logger.Warnf(
				"    Repository has %d pages of files, processing only the first %d",
				totalPages, maxTreePages,
			)
		}
		logger.Debugf("    Tree page %d processed, %d files so far", page, files)

		if treePage.NextPage == 0 {
			break
		}
	}

	if page > maxTreePages && totalPages > 0 {
		logger.Infof("    Estimated total file count: %d (counted %d)", files*totalPages/maxTreePages, files)
	}
	return files
}

func (it *ProjectStatsCollector) hasPipelineConfig(ctx context.Context, projectID int64, ref string) bool {
	if ref == "" {
		logger.Warn("    No default branch found, skipping pipeline check")
		return false
	}

	for _, name := range pipelineFiles {
		exists, err := it.gitlab.FileExists(ctx, projectID, name, ref)
		if err != nil {
			logger.Debugf("    Could not check %s: %v", name, err)
			continue
		}
		if exists {
			logger.Infof("    Found CI/CD pipeline file: %s", name)
			return true
		}
	}

	logger.Info("    No CI/CD pipeline file found")
	return false
}

// scanBranches counts unique file paths over the first maxScannedBranches branches and
// looks for a blob over the large-file threshold among files with a binary extension.
func (it *ProjectStatsCollector) scanBranches(ctx context.Context, projectID int64) (int, bool) {
	branches, err := it.gitlab.ListBranchNames(ctx, projectID)
	if err != nil {
		logger.Warnf("    Could not list branches: %v", err)
		return 0, false
	}

	logger.Infof("    Checking files across %d branches", len(branches))
	unique := make(map[string]struct{})
	hasLargeFile := false

	for idx, branch := range branches[:min(len(branches), maxScannedBranches)] {
		if branch == "" {
			continue
		}

		branchFiles := 0
		for page := 1; page <= maxTreePagesPerBranch; page++ {
			treePage, pageErr := it.gitlab.ListTreePage(ctx, projectID, branch, page)
			if pageErr != nil {
				logger.Debugf("    Could not read tree of branch %s: %v", branch, pageErr)
				break
			}
			if len(treePage.Entries) == 0 {
				break
			}

			for _, entry := range treePage.Entries {
				if !entry.IsFile() || entry.Path == "" {
					continue
				}
				unique[entry.Path] = struct{}{}
				branchFiles++

				if !hasLargeFile && hasLargeFileExtension(entry.Path) {
					hasLargeFile = it.isLargeFile(ctx, projectID, entry.Path, branch)
				}
			}

			if treePage.NextPage == 0 {
				break
			}
		}

		if idx < loggedBranchBreakdowns {
			logger.Infof("      Branch '%s': %d files", branch, branchFiles)
		}
	}

	if len(branches) > maxScannedBranches {
		logger.Infof("    Only the first %d of %d branches were scanned", maxScannedBranches, len(branches))
	}
	logger.Infof("    Total unique files across all branches: %d", len(unique))
	return len(unique), hasLargeFile
}

func (it *ProjectStatsCollector) isLargeFile(ctx context.Context, projectID int64, path, ref string) bool {
	size, err := it.gitlab.FileSize(ctx, projectID, path, ref)
	if err != nil {
		logger.Debugf("    Could not read size of %s: %v", path, err)
		return false
	}
	if size <= entities.LargeFileThreshold {
		return false
	}

	logger.Infof("    Found large file: %s (%.2f MB)", path, float64(size)/bytesPerMB)
	return true
}

func hasLargeFileExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range largeFileExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func countOrZero(
	ctx context.Context,
	what string,
	count func(context.Context, int64) (int, error),
	id int64,
) int {
	n, err := count(ctx, id)
	if err != nil {
		logger.Warnf("    Could not fetch %s count: %v", what, err)
		return 0
	}
	return n
}
