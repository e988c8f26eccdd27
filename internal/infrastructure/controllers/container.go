package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewGroupsController); err != nil {
		return err
	}
	if err := container.Provide(NewProjectsController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	groupsController *GroupsController,
	projectsController *ProjectsController,
) *[]entities.Controller {
	return &[]entities.Controller{
		groupsController,
		projectsController,
	}
}
