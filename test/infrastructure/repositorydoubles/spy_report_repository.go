//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

// SpyReportRepository implements repositories.ReportRepository and records what was written.
type SpyReportRepository struct {
	WriteErr error

	GroupsPath    string
	GroupRows     []entities.GroupStats
	ProjectsPath  string
	ProjectRows   []entities.ProjectStats
	GroupWrites   int
	ProjectWrites int
}

var _ repositories.ReportRepository = (*SpyReportRepository)(nil)

func (s *SpyReportRepository) WriteGroups(path string, rows []entities.GroupStats) error {
	s.GroupWrites++
	s.GroupsPath = path
	s.GroupRows = rows
	return s.WriteErr
}

func (s *SpyReportRepository) WriteProjects(path string, rows []entities.ProjectStats) error {
	s.ProjectWrites++
	s.ProjectsPath = path
	s.ProjectRows = rows
	return s.WriteErr
}
