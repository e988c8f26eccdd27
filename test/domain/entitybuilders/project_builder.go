//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// ProjectBuilder helps create test projects with a fluent interface.
type ProjectBuilder struct {
	*testkit.BaseBuilder
	id             int64
	name           string
	path           string
	namespace      string
	archived       bool
	visibility     string
	defaultBranch  string
	createdAt      *time.Time
	lastActivityAt *time.Time
	repositorySize int64
	storageSize    int64
}

// NewProjectBuilder creates a new project builder with sensible defaults.
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		id:            1,
		name:          "test-project",
		path:          "test-project",
		namespace:     "test-group",
		visibility:    "private",
		defaultBranch: "main",
	}
}

// WithID sets the project ID.
func (b *ProjectBuilder) WithID(id int64) *ProjectBuilder {
	b.id = id
	return b
}

// WithName sets both the display name and the path slug.
func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.name = name
	b.path = name
	return b
}

// WithPath sets the path slug only.
func (b *ProjectBuilder) WithPath(path string) *ProjectBuilder {
	b.path = path
	return b
}

// WithNamespace sets the namespace the path is nested under.
func (b *ProjectBuilder) WithNamespace(namespace string) *ProjectBuilder {
	b.namespace = namespace
	return b
}

// WithArchived marks the project archived.
func (b *ProjectBuilder) WithArchived(archived bool) *ProjectBuilder {
	b.archived = archived
	return b
}

// WithVisibility sets the visibility level.
func (b *ProjectBuilder) WithVisibility(visibility string) *ProjectBuilder {
	b.visibility = visibility
	return b
}

// WithDefaultBranch sets the default branch.
func (b *ProjectBuilder) WithDefaultBranch(branch string) *ProjectBuilder {
	b.defaultBranch = branch
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *ProjectBuilder) WithCreatedAt(createdAt time.Time) *ProjectBuilder {
	b.createdAt = &createdAt
	return b
}

// WithLastActivityAt sets the last activity timestamp.
func (b *ProjectBuilder) WithLastActivityAt(lastActivityAt time.Time) *ProjectBuilder {
	b.lastActivityAt = &lastActivityAt
	return b
}

// WithSizes sets the listing payload statistics.
func (b *ProjectBuilder) WithSizes(repositorySize, storageSize int64) *ProjectBuilder {
	b.repositorySize = repositorySize
	b.storageSize = storageSize
	return b
}

// Build creates the project (satisfies testkit.Builder interface).
func (b *ProjectBuilder) Build() interface{} {
	return b.BuildProject()
}

// BuildProject creates the project with a concrete return type.
func (b *ProjectBuilder) BuildProject() entities.Project {
	pathWithNamespace := b.path
	if b.namespace != "" && b.path != "" {
		pathWithNamespace = b.namespace + "/" + b.path
	}

	return entities.Project{
		ID:                b.id,
		Name:              b.name,
		Path:              b.path,
		PathWithNamespace: pathWithNamespace,
		Archived:          b.archived,
		Visibility:        b.visibility,
		DefaultBranch:     b.defaultBranch,
		WebURL:            "https://gitlab.example.com/" + pathWithNamespace,
		CreatedAt:         b.createdAt,
		LastActivityAt:    b.lastActivityAt,
		RepositorySize:    b.repositorySize,
		StorageSize:       b.storageSize,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ProjectBuilder) Reset() testkit.Builder {
	*b = *NewProjectBuilder()
	return b
}

// Clone creates a deep copy of the ProjectBuilder.
func (b *ProjectBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
