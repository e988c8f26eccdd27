package entities

import (
	"math"
	"time"
)

const (
	bytesPerMB = 1024 * 1024

	// TwoGiB and SixGiB are the total storage thresholds reported per project.
	TwoGiB int64 = 2 * 1024 * 1024 * 1024
	SixGiB int64 = 6 * 1024 * 1024 * 1024

	// LargeFileThreshold is the size above which a tracked file is flagged.
	LargeFileThreshold int64 = 100 * 1024 * 1024

	// NotAvailable fills text columns whose source value is missing.
	NotAvailable = "N/A"
)

// RepositoryStats collects the per-project numbers gathered from auxiliary API calls.
type RepositoryStats struct {
	FileCount            int
	AllBranchesFileCount int
	RepositorySize       int64
	StorageSize          int64
	CommitCount          int
	BranchCount          int
	TagCount             int
	MergeRequestCount    int
	ObjectCount          int
	HasLargeFile         bool
	Exceeds2GB           bool
	Exceeds6GB           bool
	HasPipeline          bool
}

// ApplySizeFallback replaces the sizes with the listing payload ones when the API returned
// neither, then recomputes both thresholds from the storage size that remains.
func (s *RepositoryStats) ApplySizeFallback(repositorySize, storageSize int64) {
	if s.RepositorySize == 0 && s.StorageSize == 0 {
		s.RepositorySize = repositorySize
		s.StorageSize = storageSize
	}
	s.Exceeds2GB, s.Exceeds6GB = SizeThresholds(s.StorageSize)
}

// SizeThresholds reports whether storageSize is strictly above 2 GiB and 6 GiB.
func SizeThresholds(storageSize int64) (bool, bool) {
	return storageSize > TwoGiB, storageSize > SixGiB
}

// EstimateObjectCount is a heuristic, not a count of the git object graph: commits, branches,
// tags, files, one tree object per ten files (at least one) and merge requests added together.
func EstimateObjectCount(commits, branches, tags, files, mergeRequests int) int {
	trees := max(files/10, 1)
	return commits + branches + tags + files + trees + mergeRequests
}

// BytesToMB converts a byte count to megabytes rounded to two decimals.
func BytesToMB(bytes int64) float64 {
	if bytes == 0 {
		return 0
	}
	return math.Round(float64(bytes)/bytesPerMB*100) / 100
}

// FormatTimestamp renders an optional API timestamp for the reports.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

// OrNotAvailable returns value, or NotAvailable when it is empty.
func OrNotAvailable(value string) string {
	if value == "" {
		return NotAvailable
	}
	return value
}
