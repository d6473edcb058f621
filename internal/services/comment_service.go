package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var commentListDef = listquery.Definition{
	SortColumns: map[string]string{
		"created_at": "created_at",
	},
	DefaultSort: "created_at ASC",
}

type CommentService struct {
	comments *store.Store[models.Comment, *models.Comment]
	guard    *guard.Guard
	relay    relay.Relay
}

func NewCommentService(db *gorm.DB, r relay.Relay) *CommentService {
	return &CommentService{
		comments: store.New[models.Comment](db),
		guard:    guard.New(db),
		relay:    r,
	}
}

type CommentInput struct {
	TaskID *uint64
	BugID  *uint64
	Body   string
}

// List returns comments on one task or one bug, oldest first.
func (s *CommentService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.Comment], error) {
	return listquery.Run(ctx, s.comments, tenantID, commentListDef, params, "Author")
}

// Create attaches a comment to its parent and broadcasts it to the parent's
// room so collaborators with the task or bug open see it immediately.
func (s *CommentService) Create(ctx context.Context, tenantID, actorID uint64, input CommentInput) (*models.Comment, error) {
	if (input.TaskID == nil) == (input.BugID == nil) {
		return nil, apperrors.Validation("exactly one of task_id or bug_id is required")
	}

	comment := &models.Comment{
		TaskID: input.TaskID,
		BugID:  input.BugID,
		Body:   input.Body,
	}

	rules := guard.Rules{
		Required: []guard.Field{{Name: "body", Value: input.Body}},
	}
	var room string
	if input.TaskID != nil {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "task_id", Table: "tasks", ID: *input.TaskID})
		room = taskRoom(*input.TaskID)
	} else {
		rules.Refs = append(rules.Refs, guard.Ref{Field: "bug_id", Table: "bugs", ID: *input.BugID})
		room = bugRoom(*input.BugID)
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, comment, rules); err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      relay.EventCommentAdded,
		CompanyID: tenantID,
		Rooms:     []string{room},
		Payload: map[string]any{
			"comment_id": comment.ID,
			"author_id":  actorID,
			"body":       comment.Body,
		},
	})
	return comment, nil
}

// Delete removes a comment; only the author may delete it.
func (s *CommentService) Delete(ctx context.Context, tenantID, actorID, id uint64) error {
	comment, err := s.comments.GetScoped(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if comment.CreatedBy != actorID {
		return apperrors.Forbidden("only the author can delete a comment")
	}
	return s.comments.SoftDelete(ctx, tenantID, id)
}

func taskRoom(taskID uint64) string {
	return fmt.Sprintf("task:%d", taskID)
}

func bugRoom(bugID uint64) string {
	return fmt.Sprintf("bug:%d", bugID)
}
