package projectlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gitlabstats/internal/domain/repositories"
)

const (
	nameColumn    = "Name"
	migrateColumn = "Migrate Repo"
	utf8BOM       = "\ufeff"
)

var errMissingColumns = fmt.Errorf("required columns %q or %q not found", nameColumn, migrateColumn)

// CSVProjectListRepository reads the migration planning sheet exported as CSV.
type CSVProjectListRepository struct{}

// NewCSVProjectListRepository creates a CSV backed project list reader.
func NewCSVProjectListRepository() repositories.ProjectListRepository {
	return &CSVProjectListRepository{}
}

func (r *CSVProjectListRepository) LoadNames(path string, values []string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project list %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read project list header: %w", err)
	}
	nameIdx, migrateIdx := columnIndex(header, nameColumn), columnIndex(header, migrateColumn)
	if nameIdx < 0 || migrateIdx < 0 {
		return nil, errMissingColumns
	}

	var names []string
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read project list: %w", readErr)
		}

		migrateValue := field(record, migrateIdx)
		projectName := field(record, nameIdx)
		if projectName == "" || !slices.Contains(values, migrateValue) {
			continue
		}
		names = append(names, projectName)
		logger.Debugf("Added %q to filter (Migrate Repo: %s)", projectName, migrateValue)
	}

	return names, nil
}

func columnIndex(header []string, column string) int {
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if strings.TrimSpace(name) == column {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
