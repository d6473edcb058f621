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

var bugListDef = listquery.Definition{
	SearchColumn: "title",
	SortColumns: map[string]string{
		"title":      "title",
		"severity":   "severity",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort: "created_at DESC",
}

type BugService struct {
	bugs  *store.Store[models.Bug, *models.Bug]
	guard *guard.Guard
	relay relay.Relay
}

func NewBugService(db *gorm.DB, r relay.Relay) *BugService {
	return &BugService{
		bugs:  store.New[models.Bug](db),
		guard: guard.New(db),
		relay: r,
	}
}

type BugInput struct {
	Title       string
	Description *string
	Severity    *models.BugSeverity
	Status      *models.BugStatus
	ProjectID   uint64
	CompanyID   uint64
}

func (s *BugService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.Bug], error) {
	return listquery.Run(ctx, s.bugs, tenantID, bugListDef, params)
}

func (s *BugService) Get(ctx context.Context, tenantID, id uint64) (*models.Bug, error) {
	return s.bugs.GetScoped(ctx, tenantID, id, "Project")
}

func (s *BugService) Create(ctx context.Context, tenantID, actorID uint64, input BugInput) (*models.Bug, error) {
	bug := &models.Bug{
		Title:     input.Title,
		Severity:  models.BugSeverityMinor,
		Status:    models.BugStatusOpen,
		ProjectID: input.ProjectID,
	}
	if input.Description != nil {
		bug.Description = *input.Description
	}
	if input.Severity != nil {
		if !models.ValidBugSeverity(*input.Severity) {
			return nil, apperrors.Validation("invalid bug severity")
		}
		bug.Severity = *input.Severity
	}
	if input.Status != nil {
		if !models.ValidBugStatus(*input.Status) {
			return nil, apperrors.Validation("invalid bug status")
		}
		bug.Status = *input.Status
	}

	rules := guard.Rules{
		Required: []guard.Field{
			{Name: "title", Value: input.Title},
			{Name: "project_id", Value: input.ProjectID},
		},
		Refs: []guard.Ref{{Field: "project_id", Table: "projects", ID: input.ProjectID}},
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, bug, rules); err != nil {
		return nil, err
	}

	if err := s.bugs.Create(ctx, bug); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceCreated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany, projectRoom(bug.ProjectID)},
		Payload:   map[string]any{"resource": "bug", "id": bug.ID},
	})
	return bug, nil
}

func (s *BugService) Update(ctx context.Context, tenantID, id uint64, input BugInput) (*models.Bug, error) {
	bug, err := s.bugs.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		bug.Title = input.Title
	}
	if input.Description != nil {
		bug.Description = *input.Description
	}
	if input.Severity != nil {
		if !models.ValidBugSeverity(*input.Severity) {
			return nil, apperrors.Validation("invalid bug severity")
		}
		bug.Severity = *input.Severity
	}
	if input.Status != nil {
		if !models.ValidBugStatus(*input.Status) {
			return nil, apperrors.Validation("invalid bug status")
		}
		bug.Status = *input.Status
	}
	if input.ProjectID != 0 {
		bug.ProjectID = input.ProjectID
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "title", Value: bug.Title}},
		Refs:     []guard.Ref{{Field: "project_id", Table: "projects", ID: bug.ProjectID}},
	}
	if err := s.guard.ValidateUpdate(ctx, tenantID, input.CompanyID, bug, rules); err != nil {
		return nil, err
	}

	if err := s.bugs.Update(ctx, bug); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceUpdated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany, projectRoom(bug.ProjectID)},
		Payload:   map[string]any{"resource": "bug", "id": bug.ID},
	})
	return bug, nil
}

func (s *BugService) Delete(ctx context.Context, tenantID, id uint64) error {
	if err := s.bugs.SoftDelete(ctx, tenantID, id); err != nil {
		return err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceDeleted,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "bug", "id": id},
	})
	return nil
}
