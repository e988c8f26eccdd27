//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gitlabstats/config"
	"github.com/rios0rios0/gitlabstats/internal/domain/commands"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
	"github.com/rios0rios0/gitlabstats/internal/infrastructure/controllers"
	"github.com/rios0rios0/gitlabstats/test/domain/commanddoubles"
)

func newCobraCommand(t *testing.T, ctrl entities.Controller, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cmd := &cobra.Command{Use: ctrl.GetBind().Use}
	config.AddFlags(cmd.Flags())
	ctrl.AddFlags(cmd)

	defaults := []string{
		"--" + config.FlagToken, "glpat-controller-test",
		"--" + config.FlagTokenFile, filepath.Join(dir, ".token"),
		"--" + config.FlagEnvFile, filepath.Join(dir, ".env"),
		"--" + config.FlagDataDir, dir,
	}
	require.NoError(t, cmd.ParseFlags(append(defaults, args...)))

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestGroupsControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the output flag and print a plain summary", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubGroupsCommand{Result: &commands.GroupsResult{
			Discovered: 3,
			Rows:       make([]entities.GroupStats, 2),
			Failed:     []string{"broken"},
			OutputPath: "groups.csv",
			Elapsed:    3 * time.Second,
		}}
		ctrl := controllers.NewGroupsController(stub)
		cmd, out := newCobraCommand(t, ctrl, "--output", "groups.csv")

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.CallCount)
		assert.Equal(t, "groups.csv", stub.ReceivedSettings.GroupsOutput)
		assert.Equal(t, "glpat-controller-test", stub.ReceivedSettings.Token)
		assert.Contains(t, out.String(), "GitLab groups")
		assert.Regexp(t, `Groups discovered\s+3`, out.String())
		assert.Regexp(t, `Groups failed\s+1`, out.String())
		assert.NotContains(t, out.String(), "\x1b[")
	})

	t.Run("should treat a run without groups as a warning", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubGroupsCommand{Result: &commands.GroupsResult{}, Err: entities.ErrNoGroups}
		ctrl := controllers.NewGroupsController(stub)
		cmd, out := newCobraCommand(t, ctrl)

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Empty(t, out.String())
	})

	t.Run("should return other command errors", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubGroupsCommand{Err: errors.New("failed to fetch groups")}
		ctrl := controllers.NewGroupsController(stub)
		cmd, _ := newCobraCommand(t, ctrl)

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.EqualError(t, err, "failed to fetch groups")
	})
}

func TestProjectsControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should summarize size and detection flags across rows", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubProjectsCommand{Result: &commands.ProjectsResult{
			Discovered:  4,
			FilteredOut: 1,
			Rows: []entities.ProjectStats{
				{Exceeds2GB: true, HasPipeline: true},
				{Exceeds2GB: true, Exceeds6GB: true, HasLargeFile: true},
				{},
			},
			OutputPath: "stats.csv",
		}}
		ctrl := controllers.NewProjectsController(stub)
		cmd, out := newCobraCommand(t, ctrl,
			"--project-list", "list.csv",
			"--migrate-value", "Yes",
		)

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultProjectsOutput, stub.ReceivedSettings.ProjectsOutput)
		assert.Equal(t, "list.csv", stub.ReceivedSettings.ProjectListFile)
		assert.Equal(t, []string{"Yes"}, stub.ReceivedSettings.MigrateRepoValues)
		assert.Regexp(t, `Projects processed\s+3`, out.String())
		assert.Regexp(t, `Filtered out\s+1`, out.String())
		assert.Regexp(t, `Over 2 GB\s+2`, out.String())
		assert.Regexp(t, `Over 6 GB\s+1`, out.String())
		assert.Regexp(t, `Large files\s+1`, out.String())
		assert.Regexp(t, `With pipeline\s+1`, out.String())
	})

	t.Run("should treat a run without projects as a warning", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubProjectsCommand{Result: &commands.ProjectsResult{}, Err: entities.ErrNoProjects}
		ctrl := controllers.NewProjectsController(stub)
		cmd, _ := newCobraCommand(t, ctrl)

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.NoError(t, err)
	})
}

//nolint:paralleltest // uses t.Setenv
func TestProjectsControllerExecuteWithoutToken(t *testing.T) {
	t.Run("should not run the command when no token can be resolved", func(t *testing.T) {
		// given
		t.Setenv("GITLAB_TOKEN", "")
		require.NoError(t, os.Unsetenv("GITLAB_TOKEN"))
		stub := &commanddoubles.StubProjectsCommand{}
		ctrl := controllers.NewProjectsController(stub)
		cmd, _ := newCobraCommand(t, ctrl, "--token", "")

		// when
		err := ctrl.Execute(cmd, nil)

		// then
		require.ErrorIs(t, err, entities.ErrTokenNotFound)
		assert.Zero(t, stub.CallCount)
	})
}
