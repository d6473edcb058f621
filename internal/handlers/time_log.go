package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type TimeLogHandler struct {
	logs *services.TimeLogService
}

func NewTimeLogHandler(logs *services.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{logs: logs}
}

type timeLogRequest struct {
	UserID    uint64     `json:"user_id"`
	ProjectID uint64     `json:"project_id"`
	TaskID    *uint64    `json:"task_id"`
	BugID     *uint64    `json:"bug_id"`
	Minutes   int        `json:"minutes"`
	LogDate   *time.Time `json:"log_date"`
	Note      *string    `json:"note"`
	CompanyID uint64     `json:"company_id"`
}

func (h *TimeLogHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := listquery.Parse(c)
	if err != nil {
		fail(c, err)
		return
	}
	for _, name := range []string{"user_id", "project_id", "task_id", "bug_id"} {
		value, err := queryUint64(c, name)
		if err != nil {
			fail(c, err)
			return
		}
		if value != nil {
			params.Filters[name] = *value
		}
	}

	result, err := h.logs.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *TimeLogHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	log, err := h.logs.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, log)
}

func (h *TimeLogHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req timeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	log, err := h.logs.Create(c.Request.Context(), p.CompanyID, p.UserID, services.TimeLogInput{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		BugID:     req.BugID,
		Minutes:   req.Minutes,
		LogDate:   req.LogDate,
		Note:      req.Note,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, log)
}

func (h *TimeLogHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req timeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	log, err := h.logs.Update(c.Request.Context(), p.CompanyID, id, services.TimeLogInput{
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		BugID:     req.BugID,
		Minutes:   req.Minutes,
		LogDate:   req.LogDate,
		Note:      req.Note,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, log)
}

func (h *TimeLogHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.logs.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Time log deleted")
}
