package entities

import (
	"path/filepath"
	"slices"
)

const (
	DefaultGitLabURL      = "https://gitlab.com"
	DefaultDataDir        = "data"
	DefaultTokenFile      = ".token"
	DefaultEnvFile        = ".env"
	DefaultGroupsOutput   = "gitlab-groups.csv"
	DefaultProjectsOutput = "gitlab-stats.csv"
	DefaultMigrateValue   = "Migrate"
)

// Settings is the run configuration. It is resolved once before any command runs and is
// passed explicitly to every component that needs it.
type Settings struct {
	GitLabURL         string
	Token             string
	GitHubToken       string
	DataDir           string
	ProjectListFile   string
	MigrateRepoValues []string
	GroupsOutput      string
	ProjectsOutput    string
	Verbose           bool
}

// APIURL returns the REST API root for the configured GitLab instance.
func (s *Settings) APIURL() string {
	return s.GitLabURL + "/api/v4"
}

// GroupsOutputPath returns where the groups report is written.
func (s *Settings) GroupsOutputPath() string {
	return s.inDataDir(s.GroupsOutput, DefaultGroupsOutput)
}

// ProjectsOutputPath returns where the projects report is written.
func (s *Settings) ProjectsOutputPath() string {
	return s.inDataDir(s.ProjectsOutput, DefaultProjectsOutput)
}

// ProjectListPath returns the allow-list location, or "" when none is configured.
// Relative names are resolved inside the data directory.
func (s *Settings) ProjectListPath() string {
	if s.ProjectListFile == "" {
		return ""
	}
	return s.inDataDir(s.ProjectListFile, "")
}

// FilterValues returns the accepted "Migrate Repo" values, defaulting to DefaultMigrateValue.
func (s *Settings) FilterValues() []string {
	if len(s.MigrateRepoValues) == 0 {
		return []string{DefaultMigrateValue}
	}
	return slices.Clone(s.MigrateRepoValues)
}

func (s *Settings) inDataDir(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	dir := s.DataDir
	if dir == "" {
		dir = DefaultDataDir
	}
	return filepath.Join(dir, name)
}

// MaskToken keeps the first 8 and last 4 characters of a token for logging.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:8] + "..." + token[len(token)-4:]
}
