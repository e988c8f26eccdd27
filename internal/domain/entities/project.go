package entities

import "time"

// Project is a read-only snapshot of a GitLab project as returned by a group projects listing.
// GroupName and GroupPath are copied from the group the project was discovered under.
type Project struct {
	ID                int64
	Name              string
	Path              string
	PathWithNamespace string
	Archived          bool
	Visibility        string
	StarCount         int
	ForksCount        int
	OpenIssuesCount   int
	DefaultBranch     string
	WebURL            string
	CreatedAt         *time.Time
	LastActivityAt    *time.Time
	RepositorySize    int64
	StorageSize       int64

	GroupName string
	GroupPath string
}

// ProjectDetails is the subset of the single-project endpoint used by the statistics collector.
type ProjectDetails struct {
	ID             int64
	DefaultBranch  string
	RepositorySize int64
	StorageSize    int64
	CommitCount    int
}

// TreeEntry is a node of a repository tree listing.
type TreeEntry struct {
	Path string
	Type string // "blob" or "tree"
}

// IsFile reports whether the entry is a file rather than a directory.
func (e TreeEntry) IsFile() bool {
	return e.Type == "blob"
}

// TreePage is one page of a repository tree listing with its pagination hints.
type TreePage struct {
	Entries    []TreeEntry
	NextPage   int
	TotalPages int
}

// Contributor is a repository contributor with its commit count.
type Contributor struct {
	Name    string
	Email   string
	Commits int
}

// ProjectStats is one row of the projects report.
type ProjectStats struct {
	ID                   int64
	GroupName            string
	ProjectName          string
	GroupPath            string
	Path                 string
	Status               string
	Archived             bool
	Stars                int
	Forks                int
	OpenIssues           int
	MergeRequests        int
	LastActivity         string
	Contributors         int
	TotalCommits         int
	BranchCount          int
	FileCount            int
	AllBranchesFileCount int
	TotalObjects         int
	RepositorySizeMB     float64
	TotalSizeMB          float64
	HasLargeFile         bool
	Exceeds2GB           bool
	Exceeds6GB           bool
	HasPipeline          bool
	Visibility           string
	CreatedAt            string
	DefaultBranch        string
	WebURL               string
}
