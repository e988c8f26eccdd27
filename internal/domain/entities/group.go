package entities

import "time"

// Group is a read-only snapshot of a GitLab group as returned by the groups listing.
type Group struct {
	ID             int64
	Name           string
	Path           string
	FullPath       string
	Description    string
	Visibility     string
	WebURL         string
	CreatedAt      *time.Time
	ParentID       *int64 // weak back-reference, never resolved
	StorageSize    int64
	RepositorySize int64
}

// GroupStats is one row of the groups report.
type GroupStats struct {
	ID               int64
	Name             string
	Path             string
	FullPath         string
	Description      string
	Visibility       string
	ProjectCount     int
	SubgroupCount    int
	MemberCount      int
	StorageSizeMB    float64
	RepositorySizeMB float64
	CreatedAt        string
	ParentID         string
	WebURL           string
}
