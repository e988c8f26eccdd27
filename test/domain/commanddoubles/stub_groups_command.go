//go:build integration || unit || test

// Package commanddoubles provides test doubles for the domain command interfaces.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/gitlabstats/internal/domain/commands"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// StubGroupsCommand implements commands.Groups with a canned result.
type StubGroupsCommand struct {
	Result *commands.GroupsResult
	Err    error

	// spy
	CallCount        int
	ReceivedSettings *entities.Settings
}

var _ commands.Groups = (*StubGroupsCommand)(nil)

func (s *StubGroupsCommand) Execute(_ context.Context, settings *entities.Settings) (*commands.GroupsResult, error) {
	s.CallCount++
	s.ReceivedSettings = settings
	return s.Result, s.Err
}
