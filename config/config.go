package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// Flag names shared by the root command and its subcommands.
const (
	FlagToken        = "token"
	FlagGitLabURL    = "gitlab-url"
	FlagTokenFile    = "token-file"
	FlagEnvFile      = "env-file"
	FlagDataDir      = "data-dir"
	FlagVerbose      = "verbose"
	FlagOutput       = "output"
	FlagProjectList  = "project-list"
	FlagMigrateValue = "migrate-value"
)

const (
	keyToken         = "token"
	keyGitLabURL     = "gitlab_url"
	keyGitHubToken   = "github_token"
	keyTokenFile     = "token_file"
	keyEnvFile       = "env_file"
	keyDataDir       = "data_dir"
	keyVerbose       = "verbose"
	keyProjectList   = "project_list_file"
	keyMigrateValues = "migrate_repo_values"
)

//nolint:gochecknoglobals // static bindings
var (
	flagKeys = map[string]string{
		keyToken:         FlagToken,
		keyGitLabURL:     FlagGitLabURL,
		keyTokenFile:     FlagTokenFile,
		keyEnvFile:       FlagEnvFile,
		keyDataDir:       FlagDataDir,
		keyVerbose:       FlagVerbose,
		keyProjectList:   FlagProjectList,
		keyMigrateValues: FlagMigrateValue,
	}

	envKeys = map[string]string{
		keyToken:       "GITLAB_TOKEN",
		keyGitLabURL:   "GITLAB_URL",
		keyGitHubToken: "GITHUB_TOKEN",
		keyVerbose:     "DEBUG",
	}
)

// TokenFile is the JSON credentials document. JSON is decoded with the YAML decoder.
type TokenFile struct {
	Token             string     `yaml:"token"`
	GitLabURL         string     `yaml:"gitlab_url"`
	GitHubToken       string     `yaml:"github_token"`
	ProjectListFile   string     `yaml:"project_list_file"`
	MigrateRepoValues StringList `yaml:"migrate_repo_values"`
}

// StringList decodes either a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var value string
		if err := node.Decode(&value); err != nil {
			return err
		}
		*l = StringList{value}
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		*l = values
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
	return nil
}

// AddFlags registers the flags every command accepts.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagToken, "", "GitLab personal access token (env GITLAB_TOKEN)")
	flags.String(FlagGitLabURL, "", "GitLab instance URL (env GITLAB_URL, default "+entities.DefaultGitLabURL+")")
	flags.String(FlagTokenFile, entities.DefaultTokenFile, "JSON file holding the token and optional settings")
	flags.String(FlagEnvFile, entities.DefaultEnvFile, "dotenv file loaded before reading the environment")
	flags.String(FlagDataDir, entities.DefaultDataDir, "directory holding the reports and the project list")
	flags.BoolP(FlagVerbose, "v", false, "enable debug logging (env DEBUG=true)")
}

// Load resolves the run settings. Precedence is flag, environment, dotenv file, token file
// and finally the built-in defaults. A token file is mandatory only when neither a flag nor
// the environment provides the token.
func Load(flags *pflag.FlagSet) (*entities.Settings, error) {
	v, err := newViper(flags)
	if err != nil {
		return nil, err
	}

	loadEnvFile(firstNonEmpty(v.GetString(keyEnvFile), entities.DefaultEnvFile))

	tokenPath := firstNonEmpty(v.GetString(keyTokenFile), entities.DefaultTokenFile)
	file, fileErr := ReadTokenFile(tokenPath)

	token := v.GetString(keyToken)
	if token == "" {
		logger.Infof("GITLAB_TOKEN not set, reading token file %s", tokenPath)
		if fileErr != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrTokenNotFound, fileErr)
		}
		if file.Token == "" {
			return nil, fmt.Errorf("%w: %s has no \"token\" key", entities.ErrTokenNotFound, tokenPath)
		}
		token = file.Token
	} else if fileErr != nil {
		if !errors.Is(fileErr, fs.ErrNotExist) {
			logger.Warnf("Ignoring token file: %v", fileErr)
		}
		file = &TokenFile{}
	}

	migrateValues := v.GetStringSlice(keyMigrateValues)
	if len(migrateValues) == 0 {
		migrateValues = file.MigrateRepoValues
	}

	settings := &entities.Settings{
		GitLabURL: strings.TrimRight(
			firstNonEmpty(v.GetString(keyGitLabURL), file.GitLabURL, entities.DefaultGitLabURL), "/",
		),
		Token:             token,
		GitHubToken:       firstNonEmpty(v.GetString(keyGitHubToken), file.GitHubToken),
		DataDir:           firstNonEmpty(v.GetString(keyDataDir), entities.DefaultDataDir),
		ProjectListFile:   firstNonEmpty(v.GetString(keyProjectList), file.ProjectListFile),
		MigrateRepoValues: migrateValues,
		Verbose:           v.GetBool(keyVerbose),
	}

	logger.Infof("GitLab token resolved: %s", entities.MaskToken(settings.Token))
	if settings.GitHubToken != "" {
		logger.Infof("GitHub token resolved: %s", entities.MaskToken(settings.GitHubToken))
	}
	return settings, nil
}

// ReadTokenFile reads and decodes the JSON token file at path.
func ReadTokenFile(path string) (*TokenFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %q: %w", path, err)
	}

	var file TokenFile
	if unmarshalErr := yaml.Unmarshal(data, &file); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse token file %q: %w", path, unmarshalErr)
	}
	return &file, nil
}

func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if flags == nil {
		return v, nil
	}
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return v, nil
}

// loadEnvFile never overrides variables already present in the environment.
func loadEnvFile(path string) {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		logger.Debugf("Loaded environment from %s", path)
	case errors.Is(err, fs.ErrNotExist):
		logger.Debugf("No dotenv file at %s", path)
	default:
		logger.Warnf("Failed to load dotenv file %s: %v", path, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
