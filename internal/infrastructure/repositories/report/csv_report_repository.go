package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

const dirPermissions = 0o755

// GroupColumns is the fixed column order of the groups report.
var GroupColumns = []string{ //nolint:gochecknoglobals // fixed report layout
	"id", "name", "path", "full_path", "description", "visibility",
	"project_count", "subgroup_count", "member_count",
	"storage_size_mb", "repository_size_mb",
	"created_at", "parent_id", "web_url",
}

// ProjectColumns is the fixed column order of the projects report.
var ProjectColumns = []string{ //nolint:gochecknoglobals // fixed report layout
	"id", "group_name", "project_name", "group_path", "path", "status", "archived",
	"stars", "forks", "open_issues", "merge_requests",
	"last_activity", "contributors", "total_commits", "branch_count",
	"file_count", "all_branches_file_count", "total_objects",
	"repository_size_mb", "total_size_mb", "has_large_file_100mb",
	"exceeds_2gb", "exceeds_6gb", "pipeline", "visibility",
	"created_at", "default_branch", "web_url",
}

// CSVReportRepository writes reports as comma separated files with a header row.
type CSVReportRepository struct{}

// NewCSVReportRepository creates a CSV report writer.
func NewCSVReportRepository() repositories.ReportRepository {
	return &CSVReportRepository{}
}

func (r *CSVReportRepository) WriteGroups(path string, rows []entities.GroupStats) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, GroupRecord(row))
	}
	return writeCSV(path, GroupColumns, records)
}

func (r *CSVReportRepository) WriteProjects(path string, rows []entities.ProjectStats) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, ProjectRecord(row))
	}
	return writeCSV(path, ProjectColumns, records)
}

// GroupRecord renders a group row in GroupColumns order.
func GroupRecord(row entities.GroupStats) []string {
	return []string{
		strconv.FormatInt(row.ID, 10),
		row.Name,
		row.Path,
		row.FullPath,
		row.Description,
		row.Visibility,
		strconv.Itoa(row.ProjectCount),
		strconv.Itoa(row.SubgroupCount),
		strconv.Itoa(row.MemberCount),
		formatMB(row.StorageSizeMB),
		formatMB(row.RepositorySizeMB),
		row.CreatedAt,
		row.ParentID,
		row.WebURL,
	}
}

// ProjectRecord renders a project row in ProjectColumns order.
func ProjectRecord(row entities.ProjectStats) []string {
	return []string{
		strconv.FormatInt(row.ID, 10),
		row.GroupName,
		row.ProjectName,
		row.GroupPath,
		row.Path,
		row.Status,
		formatBool(row.Archived),
		strconv.Itoa(row.Stars),
		strconv.Itoa(row.Forks),
		strconv.Itoa(row.OpenIssues),
		strconv.Itoa(row.MergeRequests),
		row.LastActivity,
		strconv.Itoa(row.Contributors),
		strconv.Itoa(row.TotalCommits),
		strconv.Itoa(row.BranchCount),
		strconv.Itoa(row.FileCount),
		strconv.Itoa(row.AllBranchesFileCount),
		strconv.Itoa(row.TotalObjects),
		formatMB(row.RepositorySizeMB),
		formatMB(row.TotalSizeMB),
		formatBool(row.HasLargeFile),
		formatBool(row.Exceeds2GB),
		formatBool(row.Exceeds6GB),
		formatBool(row.HasPipeline),
		row.Visibility,
		row.CreatedAt,
		row.DefaultBranch,
		row.WebURL,
	}
}

func writeCSV(path string, header []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("failed to create report directory %q: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err = writer.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	if err = writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	return file.Close()
}

// formatMB writes whole megabytes with one decimal ("1.0") and zero as "0".
func formatMB(mb float64) string {
	if mb == 0 {
		return "0"
	}
	formatted := strconv.FormatFloat(mb, 'f', -1, 64)
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}

// formatBool keeps the capitalized spelling the planning sheets already filter on.
func formatBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}
