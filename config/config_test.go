package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gitlabstats/config"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// clearEnvironment removes the variables Load reads so the host environment cannot leak in.
func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GITLAB_TOKEN", "GITLAB_URL", "GITHUB_TOKEN", "DEBUG"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func newFlags(t *testing.T, dir string, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.AddFlags(flags)
	flags.String(config.FlagProjectList, "", "")
	flags.StringSlice(config.FlagMigrateValue, nil, "")

	defaults := []string{
		"--" + config.FlagTokenFile, filepath.Join(dir, ".token"),
		"--" + config.FlagEnvFile, filepath.Join(dir, ".env"),
	}
	require.NoError(t, flags.Parse(append(defaults, args...)))
	return flags
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

//nolint:paralleltest // subtests use t.Setenv
func TestLoad(t *testing.T) {
	t.Run("should use defaults when only the token flag is given", func(t *testing.T) {
		// given
		clearEnvironment(t)
		dir := t.TempDir()
		flags := newFlags(t, dir, "--token", "glpat-flag-token-value")

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "glpat-flag-token-value", settings.Token)
		assert.Equal(t, entities.DefaultGitLabURL, settings.GitLabURL)
		assert.Equal(t, entities.DefaultDataDir, settings.DataDir)
		assert.Empty(t, settings.ProjectListFile)
		assert.Equal(t, []string{entities.DefaultMigrateValue}, settings.FilterValues())
		assert.False(t, settings.Verbose)
	})

	t.Run("should prefer the flag over the environment", func(t *testing.T) {
		// given
		clearEnvironment(t)
		t.Setenv("GITLAB_TOKEN", "env-token")
		t.Setenv("GITLAB_URL", "https://env.example.com")
		dir := t.TempDir()
		flags := newFlags(t, dir, "--token", "flag-token", "--gitlab-url", "https://flag.example.com/")

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "flag-token", settings.Token)
		assert.Equal(t, "https://flag.example.com", settings.GitLabURL)
	})

	t.Run("should read optional settings from the token file when the token comes from the environment", func(t *testing.T) {
		// given
		clearEnvironment(t)
		t.Setenv("GITLAB_TOKEN", "env-token")
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".token"), `{
	"token": "file-token",
	"gitlab_url": "https://gitlab.example.com",
	"github_token": "ghp_file_token_value",
	"project_list_file": "projects.csv",
	"migrate_repo_values": ["Migrate", "Yes"]
}`)
		flags := newFlags(t, dir)

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "env-token", settings.Token)
		assert.Equal(t, "https://gitlab.example.com", settings.GitLabURL)
		assert.Equal(t, "ghp_file_token_value", settings.GitHubToken)
		assert.Equal(t, "projects.csv", settings.ProjectListFile)
		assert.Equal(t, []string{"Migrate", "Yes"}, settings.MigrateRepoValues)
	})

	t.Run("should keep the environment URL over the token file one", func(t *testing.T) {
		// given
		clearEnvironment(t)
		t.Setenv("GITLAB_URL", "https://env.example.com")
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".token"), `{"token": "file-token", "gitlab_url": "https://file.example.com"}`)
		flags := newFlags(t, dir)

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", settings.Token)
		assert.Equal(t, "https://env.example.com", settings.GitLabURL)
	})

	t.Run("should fail with ErrTokenNotFound when no source provides a token", func(t *testing.T) {
		// given
		clearEnvironment(t)
		dir := t.TempDir()
		flags := newFlags(t, dir)

		// when
		settings, err := config.Load(flags)

		// then
		require.ErrorIs(t, err, entities.ErrTokenNotFound)
		assert.Nil(t, settings)
	})

	t.Run("should fail when the token file has no token key", func(t *testing.T) {
		// given
		clearEnvironment(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".token"), `{"gitlab_url": "https://gitlab.example.com"}`)
		flags := newFlags(t, dir)

		// when
		_, err := config.Load(flags)

		// then
		require.ErrorIs(t, err, entities.ErrTokenNotFound)
	})

	t.Run("should ignore a broken token file when the token comes from the environment", func(t *testing.T) {
		// given
		clearEnvironment(t)
		t.Setenv("GITLAB_TOKEN", "env-token")
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".token"), `{"token": `)
		flags := newFlags(t, dir)

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "env-token", settings.Token)
		assert.Equal(t, entities.DefaultGitLabURL, settings.GitLabURL)
	})

	t.Run("should load the token from the dotenv file", func(t *testing.T) {
		// given
		clearEnvironment(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), "GITLAB_TOKEN=dotenv-token\nDEBUG=true\n")
		flags := newFlags(t, dir)

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "dotenv-token", settings.Token)
		assert.True(t, settings.Verbose)
	})

	t.Run("should not let the dotenv file override the real environment", func(t *testing.T) {
		// given
		clearEnvironment(t)
		t.Setenv("GITLAB_TOKEN", "real-token")
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".env"), "GITLAB_TOKEN=dotenv-token\n")
		flags := newFlags(t, dir)

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "real-token", settings.Token)
	})

	t.Run("should take the project list and migrate values from flags", func(t *testing.T) {
		// given
		clearEnvironment(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".token"), `{"token": "file-token", "migrate_repo_values": "Yes"}`)
		flags := newFlags(t, dir,
			"--project-list", "/tmp/list.csv",
			"--migrate-value", "Now",
			"--migrate-value", "Later",
			"--data-dir", "out",
		)

		// when
		settings, err := config.Load(flags)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/tmp/list.csv", settings.ProjectListPath())
		assert.Equal(t, []string{"Now", "Later"}, settings.MigrateRepoValues)
		assert.Equal(t, "out", settings.DataDir)
	})
}

func TestReadTokenFile(t *testing.T) {
	t.Parallel()

	t.Run("should wrap a single migrate value into a list", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), ".token")
		writeFile(t, path, `{"token": "abc", "migrate_repo_values": "Migrate"}`)

		// when
		file, err := config.ReadTokenFile(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "abc", file.Token)
		assert.Equal(t, config.StringList{"Migrate"}, file.MigrateRepoValues)
	})

	t.Run("should reject a migrate value that is neither a string nor a list", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), ".token")
		writeFile(t, path, `{"token": "abc", "migrate_repo_values": {"a": "b"}}`)

		// when
		_, err := config.ReadTokenFile(path)

		// then
		require.Error(t, err)
	})

	t.Run("should report a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "missing.token")

		// when
		_, err := config.ReadTokenFile(path)

		// then
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
