//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

// StubProjectListRepository implements repositories.ProjectListRepository with fixed names.
type StubProjectListRepository struct {
	Names   []string
	LoadErr error

	// spy
	LoadedPath   string
	LoadedValues []string
}

var _ repositories.ProjectListRepository = (*StubProjectListRepository)(nil)

func (s *StubProjectListRepository) LoadNames(path string, values []string) ([]string, error) {
	s.LoadedPath = path
	s.LoadedValues = values
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Names, nil
}
