package repositories

// ProjectListRepository reads the migration planning sheet that restricts which projects
// are reported.
type ProjectListRepository interface {
	// LoadNames returns the "Name" of every row whose "Migrate Repo" value is one of values.
	LoadNames(path string, values []string) ([]string, error)
}
