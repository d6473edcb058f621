package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var timeLogListDef = listquery.Definition{
	SortColumns: map[string]string{
		"log_date":   "log_date",
		"minutes":    "minutes",
		"created_at": "created_at",
	},
	DefaultSort: "log_date DESC",
}

type TimeLogService struct {
	logs  *store.Store[models.TimeLog, *models.TimeLog]
	guard *guard.Guard
	relay relay.Relay
}

func NewTimeLogService(db *gorm.DB, r relay.Relay) *TimeLogService {
	return &TimeLogService{
		logs:  store.New[models.TimeLog](db),
		guard: guard.New(db),
		relay: r,
	}
}

type TimeLogInput struct {
	UserID    uint64 // zero means the caller
	ProjectID uint64
	TaskID    *uint64
	BugID     *uint64
	Minutes   int
	LogDate   *time.Time
	Note      *string
	CompanyID uint64
}

func (s *TimeLogService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.TimeLog], error) {
	return listquery.Run(ctx, s.logs, tenantID, timeLogListDef, params, "User")
}

func (s *TimeLogService) Get(ctx context.Context, tenantID, id uint64) (*models.TimeLog, error) {
	return s.logs.GetScoped(ctx, tenantID, id, "User", "Project")
}

func (s *TimeLogService) Create(ctx context.Context, tenantID, actorID uint64, input TimeLogInput) (*models.TimeLog, error) {
	if input.TaskID != nil && input.BugID != nil {
		return nil, apperrors.Validation("a time log can reference a task or a bug, not both")
	}
	if input.Minutes <= 0 {
		return nil, apperrors.Validation("minutes must be positive")
	}

	log := &models.TimeLog{
		UserID:    input.UserID,
		ProjectID: input.ProjectID,
		TaskID:    input.TaskID,
		BugID:     input.BugID,
		Minutes:   input.Minutes,
		LogDate:   time.Now(),
	}
	if log.UserID == 0 {
		log.UserID = actorID
	}
	if input.LogDate != nil {
		log.LogDate = *input.LogDate
	}
	if input.Note != nil {
		log.Note = *input.Note
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "project_id", Value: input.ProjectID}},
		Refs: []guard.Ref{
			{Field: "project_id", Table: "projects", ID: input.ProjectID},
			{Field: "user_id", Table: "users", ID: log.UserID},
		},
	}
	if input.TaskID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "task_id", Table: "tasks", ID: *input.TaskID})
	}
	if input.BugID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "bug_id", Table: "bugs", ID: *input.BugID})
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, log, rules); err != nil {
		return nil, err
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventResourceCreated,
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload:   map[string]any{"resource": "time_log", "id": log.ID},
	})
	return log, nil
}

func (s *TimeLogService) Update(ctx context.Context, tenantID, id uint64, input TimeLogInput) (*models.TimeLog, error) {
	if input.TaskID != nil && input.BugID != nil {
		return nil, apperrors.Validation("a time log can reference a task or a bug, not both")
	}

	log, err := s.logs.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Minutes != 0 {
		if input.Minutes < 0 {
			return nil, apperrors.Validation("minutes must be positive")
		}
		log.Minutes = input.Minutes
	}
	if input.LogDate != nil {
		log.LogDate = *input.LogDate
	}
	if input.Note != nil {
		log.Note = *input.Note
	}
	if input.ProjectID != 0 {
		log.ProjectID = input.ProjectID
	}
	if input.TaskID != nil {
		log.TaskID = input.TaskID
		log.BugID = nil
	}
	if input.BugID != nil {
		log.BugID = input.BugID
		log.TaskID = nil
	}

	rules := guard.Rules{
		Refs: []guard.Ref{{Field: "project_id", Table: "projects", ID: log.ProjectID}},
	}
	if log.TaskID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "task_id", Table: "tasks", ID: *log.TaskID})
	}
	if log.BugID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "bug_id", Table: "bugs", ID: *log.BugID})
	}
	if err := s.guard.ValidateUpdate(ctx, tenantID, input.CompanyID, log, rules); err != nil {
		return nil, err
	}

	if err := s.logs.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *TimeLogService) Delete(ctx context.Context, tenantID, id uint64) error {
	return s.logs.SoftDelete(ctx, tenantID, id)
}
