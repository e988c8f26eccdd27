package repositories

import "github.com/rios0rios0/gitlabstats/internal/domain/entities"

// ReportRepository persists report rows to a delimited file, replacing any previous file.
type ReportRepository interface {
	WriteGroups(path string, rows []entities.GroupStats) error
	WriteProjects(path string, rows []entities.ProjectStats) error
}
