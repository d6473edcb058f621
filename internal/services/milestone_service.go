package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var milestoneListDef = listquery.Definition{
	SearchColumn: "name",
	SortColumns: map[string]string{
		"name":       "name",
		"due_date":   "due_date",
		"created_at": "created_at",
	},
	DefaultSort: "due_date ASC",
}

type MilestoneService struct {
	milestones *store.Store[models.Milestone, *models.Milestone]
	guard      *guard.Guard
	relay      relay.Relay
}

func NewMilestoneService(db *gorm.DB, r relay.Relay) *MilestoneService {
	return &MilestoneService{
		milestones: store.New[models.Milestone](db),
		guard:      guard.New(db),
		relay:      r,
	}
}

type MilestoneInput struct {
	Name      string
	ProjectID uint64
	DueDate   *time.Time
	Completed *bool
	CompanyID uint64
}

func (s *MilestoneService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.Milestone], error) {
	return listquery.Run(ctx, s.milestones, tenantID, milestoneListDef, params)
}

func (s *MilestoneService) Get(ctx context.Context, tenantID, id uint64) (*models.Milestone, error) {
	return s.milestones.GetScoped(ctx, tenantID, id, "Project")
}

func (s *MilestoneService) Create(ctx context.Context, tenantID, actorID uint64, input MilestoneInput) (*models.Milestone, error) {
	milestone := &models.Milestone{
		Name:      input.Name,
		ProjectID: input.ProjectID,
		DueDate:   input.DueDate,
	}

	rules := guard.Rules{
		Required: []guard.Field{
			{Name: "name", Value: input.Name},
			{Name: "project_id", Value: input.ProjectID},
		},
		Refs: []guard.Ref{{Field: "project_id", Table: "projects", ID: input.ProjectID}},
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, milestone, rules); err != nil {
		return nil, err
	}

	if err := s.milestones.Create(ctx, milestone); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceCreated,
		CompanyID: tenantID,
		Rooms:     []string{projectRoom(milestone.ProjectID)},
		Payload:   map[string]any{"resource": "milestone", "id": milestone.ID},
	})
	return milestone, nil
}

func (s *MilestoneService) Update(ctx context.Context, tenantID, id uint64, input MilestoneInput) (*models.Milestone, error) {
	milestone, err := s.milestones.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		milestone.Name = input.Name
	}
	if input.DueDate != nil {
		milestone.DueDate = input.DueDate
	}
	if input.Completed != nil {
		milestone.Completed = *input.Completed
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "name", Value: milestone.Name}},
		Refs:     []guard.Ref{{Field: "project_id", Table: "projects", ID: milestone.ProjectID}},
	}
	if err := s.guard.ValidateUpdate(ctx, tenantID, input.CompanyID, milestone, rules); err != nil {
		return nil, err
	}

	if err := s.milestones.Update(ctx, milestone); err != nil {
		return nil, err
	}
	return milestone, nil
}

func (s *MilestoneService) Delete(ctx context.Context, tenantID, id uint64) error {
	return s.milestones.SoftDelete(ctx, tenantID, id)
}
