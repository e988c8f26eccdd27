package projectlist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gitlabstats/internal/infrastructure/repositories/projectlist"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVProjectListRepository(t *testing.T) {
	t.Parallel()

	t.Run("should return the names marked with an accepted value", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeList(t, "Owner,Name,Migrate Repo\n"+
			"team-a, api ,Migrate\n"+
			"team-a,web,Skip\n"+
			"team-b,worker, Later \n"+
			"team-b,,Migrate\n")
		repo := projectlist.NewCSVProjectListRepository()

		// when
		names, err := repo.LoadNames(path, []string{"Migrate", "Later"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"api", "worker"}, names)
	})

	t.Run("should ignore a byte order mark before the header", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeList(t, "\ufeffName,Migrate Repo\napi,Migrate\n")
		repo := projectlist.NewCSVProjectListRepository()

		// when
		names, err := repo.LoadNames(path, []string{"Migrate"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"api"}, names)
	})

	t.Run("should accept rows shorter than the header", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeList(t, "Name,Notes,Migrate Repo\napi\nweb,,Migrate\n")
		repo := projectlist.NewCSVProjectListRepository()

		// when
		names, err := repo.LoadNames(path, []string{"Migrate"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"web"}, names)
	})

	t.Run("should fail when a required column is missing", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeList(t, "Name,Status\napi,Migrate\n")
		repo := projectlist.NewCSVProjectListRepository()

		// when
		names, err := repo.LoadNames(path, []string{"Migrate"})

		// then
		require.Error(t, err)
		assert.Nil(t, names)
	})

	t.Run("should report a missing file as not existing", func(t *testing.T) {
		t.Parallel()

		// given
		repo := projectlist.NewCSVProjectListRepository()

		// when
		_, err := repo.LoadNames(filepath.Join(t.TempDir(), "absent.csv"), []string{"Migrate"})

		// then
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
