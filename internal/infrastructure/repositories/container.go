package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/gitlabstats/internal/domain/repositories"
	glRepo "github.com/rios0rios0/gitlabstats/internal/infrastructure/repositories/gitlab"
	listRepo "github.com/rios0rios0/gitlabstats/internal/infrastructure/repositories/projectlist"
	reportRepo "github.com/rios0rios0/gitlabstats/internal/infrastructure/repositories/report"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// The GitLab repository needs the token resolved at run time, so a factory is provided
	if err := container.Provide(func() domainRepos.GitLabRepositoryFactory {
		return glRepo.NewGitLabRepository
	}); err != nil {
		return err
	}
	if err := container.Provide(reportRepo.NewCSVReportRepository); err != nil {
		return err
	}
	if err := container.Provide(listRepo.NewCSVProjectListRepository); err != nil {
		return err
	}

	return nil
}
