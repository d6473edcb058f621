package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var projectGroupListDef = listquery.Definition{
	SearchColumn: "name",
	SortColumns: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	DefaultSort: "created_at DESC",
}

type ProjectGroupService struct {
	db     *gorm.DB
	groups *store.Store[models.ProjectGroup, *models.ProjectGroup]
	guard  *guard.Guard
	relay  relay.Relay
}

func NewProjectGroupService(db *gorm.DB, r relay.Relay) *ProjectGroupService {
	return &ProjectGroupService{
		db:     db,
		groups: store.New[models.ProjectGroup](db),
		guard:  guard.New(db),
		relay:  r,
	}
}

type ProjectGroupInput struct {
	Name        string
	Description *string
	CompanyID   uint64 // from the payload, only to detect tenant reassignment
}

// List returns a page of groups with their live project counts.
func (s *ProjectGroupService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.ProjectGroup], error) {
	result, err := listquery.Run(ctx, s.groups, tenantID, projectGroupListDef, params)
	if err != nil {
		return nil, err
	}

	if err := s.fillProjectCounts(ctx, tenantID, result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ProjectGroupService) Get(ctx context.Context, tenantID, id uint64) (*models.ProjectGroup, error) {
	group, err := s.groups.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	groups := []models.ProjectGroup{*group}
	if err := s.fillProjectCounts(ctx, tenantID, groups); err != nil {
		return nil, err
	}
	return &groups[0], nil
}

func (s *ProjectGroupService) Create(ctx context.Context, tenantID, actorID uint64, input ProjectGroupInput) (*models.ProjectGroup, error) {
	group := &models.ProjectGroup{Name: input.Name}
	if input.Description != nil {
		group.Description = *input.Description
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "name", Value: input.Name}},
		Unique:   &guard.Unique{Table: "project_groups", Column: "name", Value: input.Name},
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, group, rules); err != nil {
		return nil, err
	}

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceCreated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "project_group", "id": group.ID},
	})
	return group, nil
}

func (s *ProjectGroupService) Update(ctx context.Context, tenantID, id uint64, input ProjectGroupInput) (*models.ProjectGroup, error) {
	group, err := s.groups.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		group.Name = input.Name
	}
	if input.Description != nil {
		group.Description = *input.Description
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "name", Value: group.Name}},
		Unique:   &guard.Unique{Table: "project_groups", Column: "name", Value: group.Name, ExcludeID: group.ID},
	}
	if err := s.guard.ValidateUpdate(ctx, tenantID, input.CompanyID, group, rules); err != nil {
		return nil, err
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceUpdated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "project_group", "id": group.ID},
	})
	return group, nil
}

// Delete removes a group for good and clears the group assignment from every
// referencing project in the same transaction. The projects themselves are
// untouched beyond that.
func (s *ProjectGroupService) Delete(ctx context.Context, tenantID, id uint64) error {
	clearProjects := func(tx *gorm.DB) error {
		err := tx.Model(&models.Project{}).
			Where("project_group_id = ? AND company_id = ?", id, tenantID).
			Update("project_group_id", nil).Error
		if err != nil {
			return fmt.Errorf("clear project group references: %w", err)
		}
		return nil
	}

	if err := s.groups.HardDelete(ctx, tenantID, id, clearProjects); err != nil {
		return err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceDeleted,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "project_group", "id": id},
	})
	return nil
}

// fillProjectCounts resolves project_count for a batch of groups with one
// grouped query.
func (s *ProjectGroupService) fillProjectCounts(ctx context.Context, tenantID uint64, groups []models.ProjectGroup) error {
	if len(groups) == 0 {
		return nil
	}

	ids := make([]uint64, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}

	type row struct {
		ProjectGroupID uint64
		Count          int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("project_group_id, COUNT(*) AS count").
		Where("company_id = ? AND deleted_at IS NULL AND project_group_id IN ?", tenantID, ids).
		Group("project_group_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		counts[r.ProjectGroupID] = r.Count
	}
	for i := range groups {
		groups[i].ProjectCount = counts[groups[i].ID]
	}
	return nil
}
