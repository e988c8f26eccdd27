package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus marks an API answer with a non-success HTTP status. Callers may
	// degrade it to a default value, unlike transport failures.
	ErrUnexpectedStatus = errors.New("unexpected API status")

	// ErrTokenNotFound is returned when no access token can be resolved.
	ErrTokenNotFound = errors.New("no GitLab token found")

	// ErrNoGroups and ErrNoProjects end a run early without writing a report.
	ErrNoGroups   = errors.New("no groups found")
	ErrNoProjects = errors.New("no projects to process")

	// ErrIncompleteRecord marks a listing entry that lacks identifying fields.
	ErrIncompleteRecord = errors.New("incomplete record")
)

// ErrNotFound is an ErrUnexpectedStatus for a 404 answer.
var ErrNotFound = fmt.Errorf("%w: not found", ErrUnexpectedStatus)
