package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type commentRequest struct {
	TaskID *uint64 `json:"task_id"`
	BugID  *uint64 `json:"bug_id"`
	Body   string  `json:"body"`
}

// List requires a task_id or bug_id filter; there is no global comment feed.
func (h *CommentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := listquery.Parse(c)
	if err != nil {
		fail(c, err)
		return
	}
	taskID, err := queryUint64(c, "task_id")
	if err != nil {
		fail(c, err)
		return
	}
	bugID, err := queryUint64(c, "bug_id")
	if err != nil {
		fail(c, err)
		return
	}
	if (taskID == nil) == (bugID == nil) {
		fail(c, apperrors.Validation("exactly one of task_id or bug_id is required"))
		return
	}
	if taskID != nil {
		params.Filters["task_id"] = *taskID
	} else {
		params.Filters["bug_id"] = *bugID
	}

	result, err := h.comments.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *CommentHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), p.CompanyID, p.UserID, services.CommentInput{
		TaskID: req.TaskID,
		BugID:  req.BugID,
		Body:   req.Body,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), p.CompanyID, p.UserID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Comment deleted")
}
