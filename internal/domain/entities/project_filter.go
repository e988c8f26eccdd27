package entities

import "sort"

// ProjectFilter is the allow-list of project names or paths to aggregate.
// A nil filter lets every project through.
type ProjectFilter struct {
	names map[string]struct{}
}

// NewProjectFilter builds a filter from names. It returns nil when names is empty so that an
// allow-list without entries never empties the report.
func NewProjectFilter(names []string) *ProjectFilter {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return &ProjectFilter{names: set}
}

// Len returns the number of distinct names in the filter.
func (f *ProjectFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// Names returns the filter entries in lexical order.
func (f *ProjectFilter) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.names))
	for name := range f.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matches reports whether the project name or path is in the filter.
func (f *ProjectFilter) Matches(project Project) bool {
	if f == nil {
		return true
	}
	if _, ok := f.names[project.Name]; ok {
		return true
	}
	_, ok := f.names[project.Path]
	return ok
}

// Apply returns the projects that match the filter. When a non-empty discovery matches
// nothing, the full list is returned and fellBack is true.
func (f *ProjectFilter) Apply(projects []Project) (kept []Project, fellBack bool) {
	if f == nil {
		return projects, false
	}
	for _, project := range projects {
		if f.Matches(project) {
			kept = append(kept, project)
		}
	}
	if len(kept) == 0 && len(projects) > 0 {
		return projects, true
	}
	return kept, false
}
