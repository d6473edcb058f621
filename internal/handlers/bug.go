package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type BugHandler struct {
	bugs *services.BugService
}

func NewBugHandler(bugs *services.BugService) *BugHandler {
	return &BugHandler{bugs: bugs}
}

type bugRequest struct {
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Severity    *models.BugSeverity `json:"severity"`
	Status      *models.BugStatus   `json:"status"`
	ProjectID   uint64              `json:"project_id"`
	CompanyID   uint64              `json:"company_id"`
}

func (h *BugHandler) List(c *gin.Context) {
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
	if severity := c.Query("severity"); severity != "" {
		params.Filters["severity"] = severity
	}
	projectID, err := queryUint64(c, "project_id")
	if err != nil {
		fail(c, err)
		return
	}
	if projectID != nil {
		params.Filters["project_id"] = *projectID
	}

	result, err := h.bugs.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *BugHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	bug, err := h.bugs.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, bug)
}

func (h *BugHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req bugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	bug, err := h.bugs.Create(c.Request.Context(), p.CompanyID, p.UserID, services.BugInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, bug)
}

func (h *BugHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req bugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	bug, err := h.bugs.Update(c.Request.Context(), p.CompanyID, id, services.BugInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, bug)
}

func (h *BugHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.bugs.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Bug deleted")
}
