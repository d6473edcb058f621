package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var projectListDef = listquery.Definition{
	SearchColumn: "name",
	SortColumns: map[string]string{
		"name":       "name",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort: "created_at DESC",
}

type ProjectService struct {
	projects *store.Store[models.Project, *models.Project]
	guard    *guard.Guard
	relay    relay.Relay
}

func NewProjectService(db *gorm.DB, r relay.Relay) *ProjectService {
	return &ProjectService{
		projects: store.New[models.Project](db),
		guard:    guard.New(db),
		relay:    r,
	}
}

type ProjectInput struct {
	Name           string
	Description    *string
	Status         *models.ProjectStatus
	ProjectGroupID *uint64
	ClearGroup     bool
	CompanyID      uint64
}

func (s *ProjectService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.Project], error) {
	return listquery.Run(ctx, s.projects, tenantID, projectListDef, params, "ProjectGroup")
}

func (s *ProjectService) Get(ctx context.Context, tenantID, id uint64) (*models.Project, error) {
	return s.projects.GetScoped(ctx, tenantID, id, "ProjectGroup")
}

func (s *ProjectService) Create(ctx context.Context, tenantID, actorID uint64, input ProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:           input.Name,
		Status:         models.ProjectStatusPlanned,
		ProjectGroupID: input.ProjectGroupID,
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return nil, apperrors.Validation("invalid project status")
		}
		project.Status = *input.Status
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "name", Value: input.Name}},
	}
	if input.ProjectGroupID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "project_group_id", Table: "project_groups", ID: *input.ProjectGroupID})
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, project, rules); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceCreated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "project", "id": project.ID},
	})
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, tenantID, id uint64, input ProjectInput) (*models.Project, error) {
	project, err := s.projects.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		project.Name = input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return nil, apperrors.Validation("invalid project status")
		}
		project.Status = *input.Status
	}
	if input.ClearGroup {
		project.ProjectGroupID = nil
	} else if input.ProjectGroupID != nil {
		project.ProjectGroupID = input.ProjectGroupID
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "name", Value: project.Name}},
	}
	if project.ProjectGroupID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "project_group_id", Table: "project_groups", ID: *project.ProjectGroupID})
	}
	if err := s.guard.ValidateUpdate(ctx, tenantID, input.CompanyID, project, rules); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceUpdated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "project", "id": project.ID},
	})
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, tenantID, id uint64) error {
	if err := s.projects.SoftDelete(ctx, tenantID, id); err != nil {
		return err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceDeleted,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "project", "id": id},
	})
	return nil
}
