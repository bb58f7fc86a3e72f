package service

import (
	"context"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

// ProjectService implements project CRUD with ownership checks.
type ProjectService struct {
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) Create(ctx context.Context, actor Actor, req models.CreateProjectRequest) (*models.Project, error) {
	return s.projects.Create(ctx, &models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     actor.UserID,
	})
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) (*models.PaginatedProjects, error) {
	items, total, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.PaginatedProjects{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (s *ProjectService) Update(ctx context.Context, actor Actor, id int64, req models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Can(actor, ActionManageProject, project.OwnerID, nil) {
		return nil, domainErrors.ErrForbidden
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor Actor, id int64) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !Can(actor, ActionManageProject, project.OwnerID, nil) {
		return domainErrors.ErrForbidden
	}
	return s.projects.Delete(ctx, id)
}
