package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskRequest struct {
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
	ClearDue    bool                 `json:"clear_due_date"`
	ProjectID   uint64               `json:"project_id"`
	CompanyID   uint64               `json:"company_id"`
}

type assignRequest struct {
	UserIDs []uint64 `json:"user_ids"`
}

func (h *TaskHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := listquery.Parse(c)
	if err != nil {
		fail(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		params.Filters["status"] = status
	}
	if priority := c.Query("priority"); priority != "" {
		params.Filters["priority"] = priority
	}
	projectID, err := queryUint64(c, "project_id")
	if err != nil {
		fail(c, err)
		return
	}
	if projectID != nil {
		params.Filters["project_id"] = *projectID
	}
	assigneeID, err := queryUint64(c, "assignee_id")
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.tasks.List(c.Request.Context(), p.CompanyID, services.ListTasksInput{
		Params:     params,
		AssigneeID: assigneeID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *TaskHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), p.CompanyID, p.UserID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), p.CompanyID, id, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
		ProjectID:   req.ProjectID,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Task deleted")
}

// Assign adds assignees; all-or-nothing across the given user ids.
func (h *TaskHandler) Assign(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	task, err := h.tasks.Assign(c.Request.Context(), p.CompanyID, p.UserID, id, req.UserIDs)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, task)
}

func (h *TaskHandler) Unassign(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	task, err := h.tasks.Unassign(c.Request.Context(), p.CompanyID, id, req.UserIDs)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, task)
}
