package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

func TestProjectFilter(t *testing.T) {
	t.Parallel()

	projects := []entities.Project{
		{ID: 1, Name: "API Service", Path: "api"},
		{ID: 2, Name: "web", Path: "web"},
		{ID: 3, Name: "worker", Path: "worker"},
	}

	t.Run("should return nil for an empty allow-list", func(t *testing.T) {
		t.Parallel()

		// when
		filter := entities.NewProjectFilter(nil)

		// then
		assert.Nil(t, filter)
		assert.Zero(t, filter.Len())
		assert.True(t, filter.Matches(projects[0]))
	})

	t.Run("should keep every project when the filter is nil", func(t *testing.T) {
		t.Parallel()

		// given
		var filter *entities.ProjectFilter

		// when
		kept, fellBack := filter.Apply(projects)

		// then
		assert.Equal(t, projects, kept)
		assert.False(t, fellBack)
	})

	t.Run("should match on name or path", func(t *testing.T) {
		t.Parallel()

		// given
		filter := entities.NewProjectFilter([]string{"api", "worker", "unknown"})

		// when
		kept, fellBack := filter.Apply(projects)

		// then
		assert.False(t, fellBack)
		assert.Equal(t, []entities.Project{projects[0], projects[2]}, kept)
		assert.Equal(t, []string{"api", "unknown", "worker"}, filter.Names())
		assert.Equal(t, 3, filter.Len())
	})

	t.Run("should fall back to every project when nothing matches", func(t *testing.T) {
		t.Parallel()

		// given
		filter := entities.NewProjectFilter([]string{"legacy"})

		// when
		kept, fellBack := filter.Apply(projects)

		// then
		assert.True(t, fellBack)
		assert.Equal(t, projects, kept)
	})
}
