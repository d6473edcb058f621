package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/logger"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"

	"go.uber.org/zap"
)

var taskListDef = listquery.Definition{
	SearchColumn: "title",
	SortColumns: map[string]string{
		"title":      "title",
		"status":     "status",
		"priority":   "priority",
		"due_date":   "due_date",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort: "created_at DESC",
}

type TaskService struct {
	db       *gorm.DB
	tasks    *store.Store[models.Task, *models.Task]
	guard    *guard.Guard
	relay    relay.Relay
	notifier *NotificationService
}

func NewTaskService(db *gorm.DB, r relay.Relay, notifier *NotificationService) *TaskService {
	return &TaskService{
		db:       db,
		tasks:    store.New[models.Task](db),
		guard:    guard.New(db),
		relay:    r,
		notifier: notifier,
	}
}

type TaskInput struct {
	Title       string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	ClearDue    bool
	ProjectID   uint64
	CompanyID   uint64
}

// ListTasksInput augments the generic list parameters with the assignee
// filter, which needs an EXISTS subquery.
type ListTasksInput struct {
	Params     listquery.Params
	AssigneeID *uint64
}

func (s *TaskService) List(ctx context.Context, tenantID uint64, input ListTasksInput) (*listquery.Result[models.Task], error) {
	params := input.Params
	if input.AssigneeID != nil {
		assigneeID := *input.AssigneeID
		params.Extra = append(params.Extra, func(q *gorm.DB) *gorm.DB {
			sub := s.db.Model(&models.TaskAssignment{}).
				Select("1").
				Where("task_assignments.task_id = tasks.id").
				Where("task_assignments.user_id = ?", assigneeID)
			return q.Where("EXISTS (?)", sub)
		})
	}
	return listquery.Run(ctx, s.tasks, tenantID, taskListDef, params, "Assignments", "Assignments.User")
}

func (s *TaskService) Get(ctx context.Context, tenantID, id uint64) (*models.Task, error) {
	return s.tasks.GetScoped(ctx, tenantID, id, "Project", "Assignments", "Assignments.User")
}

func (s *TaskService) Create(ctx context.Context, tenantID, actorID uint64, input TaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:     input.Title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		DueDate:   input.DueDate,
		ProjectID: input.ProjectID,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, apperrors.Validation("invalid task status")
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, apperrors.Validation("invalid task priority")
		}
		task.Priority = *input.Priority
	}

	rules := guard.Rules{
		Required: []guard.Field{
			{Name: "title", Value: input.Title},
			{Name: "project_id", Value: input.ProjectID},
		},
		Refs: []guard.Ref{{Field: "project_id", Table: "projects", ID: input.ProjectID}},
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, task, rules); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceCreated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany, projectRoom(task.ProjectID)},
		Payload:   map[string]any{"resource": "task", "id": task.ID},
	})
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, tenantID, id uint64, input TaskInput) (*models.Task, error) {
	task, err := s.tasks.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, apperrors.Validation("invalid task status")
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, apperrors.Validation("invalid task priority")
		}
		task.Priority = *input.Priority
	}
	if input.ClearDue {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ProjectID != 0 {
		task.ProjectID = input.ProjectID
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "title", Value: task.Title}},
		Refs:     []guard.Ref{{Field: "project_id", Table: "projects", ID: task.ProjectID}},
	}
	if err := s.guard.ValidateUpdate(ctx, tenantID, input.CompanyID, task, rules); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceUpdated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany, projectRoom(task.ProjectID)},
		Payload:   map[string]any{"resource": "task", "id": task.ID},
	})
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, tenantID, id uint64) error {
	if err := s.tasks.SoftDelete(ctx, tenantID, id); err != nil {
		return err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceDeleted,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "task", "id": id},
	})
	return nil
}

// Assign adds users to a task. Every user must be an active member of the
// same company; a partial match rejects the whole request.
func (s *TaskService) Assign(ctx context.Context, tenantID, actorID, taskID uint64, userIDs []uint64) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, apperrors.Validation("at least one user_id is required")
	}

	task, err := s.tasks.GetScoped(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	ids := uniqueUint64(userIDs)
	count, err := s.countCompanyUsers(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if int(count) != len(ids) {
		return nil, apperrors.Reference("one or more users do not belong to this company")
	}

	assignments := make([]models.TaskAssignment, len(ids))
	for i, userID := range ids {
		assignments[i] = models.TaskAssignment{TaskID: task.ID, UserID: userID}
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignments).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	for _, userID := range ids {
		if userID == actorID {
			continue
		}
		err := s.notifier.Notify(ctx, tenantID, actorID, userID,
			models.NotificationTaskAssigned,
			fmt.Sprintf("You were assigned to task %q", task.Title))
		if err != nil {
			logger.Get().Warn("failed to create assignment notification",
				zap.Error(err), zap.Uint64("task_id", task.ID), zap.Uint64("user_id", userID))
		}
	}

	return s.Get(ctx, tenantID, taskID)
}

// Unassign removes users from a task.
func (s *TaskService) Unassign(ctx context.Context, tenantID, taskID uint64, userIDs []uint64) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, apperrors.Validation("at least one user_id is required")
	}

	task, err := s.tasks.GetScoped(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Where("task_id = ? AND user_id IN ?", task.ID, uniqueUint64(userIDs)).
		Delete(&models.TaskAssignment{}).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.Get(ctx, tenantID, taskID)
}

func (s *TaskService) countCompanyUsers(ctx context.Context, tenantID uint64, userIDs []uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("company_id = ? AND id IN ? AND active = ? AND deleted_at IS NULL", tenantID, userIDs, true).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}

func projectRoom(projectID uint64) string {
	return fmt.Sprintf("project:%d", projectID)
}

func uniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
