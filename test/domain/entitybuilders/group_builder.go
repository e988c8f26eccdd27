//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// GroupBuilder helps create test groups with a fluent interface.
type GroupBuilder struct {
	*testkit.BaseBuilder
	id             int64
	name           string
	fullPath       string
	visibility     string
	createdAt      *time.Time
	parentID       *int64
	storageSize    int64
	repositorySize int64
}

// NewGroupBuilder creates a new group builder with sensible defaults.
func NewGroupBuilder() *GroupBuilder {
	return &GroupBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		id:          100,
		name:        "test-group",
		fullPath:    "test-group",
		visibility:  "private",
	}
}

// WithID sets the group ID.
func (b *GroupBuilder) WithID(id int64) *GroupBuilder {
	b.id = id
	return b
}

// WithName sets the name and, for top-level groups, the full path.
func (b *GroupBuilder) WithName(name string) *GroupBuilder {
	b.name = name
	b.fullPath = name
	return b
}

// WithFullPath sets the full path.
func (b *GroupBuilder) WithFullPath(fullPath string) *GroupBuilder {
	b.fullPath = fullPath
	return b
}

// WithParentID sets the parent group ID.
func (b *GroupBuilder) WithParentID(parentID int64) *GroupBuilder {
	b.parentID = &parentID
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *GroupBuilder) WithCreatedAt(createdAt time.Time) *GroupBuilder {
	b.createdAt = &createdAt
	return b
}

// WithSizes sets the storage statistics.
func (b *GroupBuilder) WithSizes(repositorySize, storageSize int64) *GroupBuilder {
	b.repositorySize = repositorySize
	b.storageSize = storageSize
	return b
}

// Build creates the group (satisfies testkit.Builder interface).
func (b *GroupBuilder) Build() interface{} {
	return b.BuildGroup()
}

// BuildGroup creates the group with a concrete return type.
func (b *GroupBuilder) BuildGroup() entities.Group {
	path := b.fullPath
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[idx+1:]
	}

	return entities.Group{
		ID:             b.id,
		Name:           b.name,
		Path:           path,
		FullPath:       b.fullPath,
		Visibility:     b.visibility,
		WebURL:         "https://gitlab.example.com/groups/" + b.fullPath,
		CreatedAt:      b.createdAt,
		ParentID:       b.parentID,
		StorageSize:    b.storageSize,
		RepositorySize: b.repositorySize,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *GroupBuilder) Reset() testkit.Builder {
	*b = *NewGroupBuilder()
	return b
}

// Clone creates a deep copy of the GroupBuilder.
func (b *GroupBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
