//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/gitlabstats/internal/domain/commands"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// StubProjectsCommand implements commands.Projects with a canned result.
type StubProjectsCommand struct {
	Result *commands.ProjectsResult
	Err    error

	// spy
	CallCount        int
	ReceivedSettings *entities.Settings
}

var _ commands.Projects = (*StubProjectsCommand)(nil)

func (s *StubProjectsCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
) (*commands.ProjectsResult, error) {
	s.CallCount++
	s.ReceivedSettings = settings
	return s.Result, s.Err
}
