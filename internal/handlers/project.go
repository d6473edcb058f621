package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type projectRequest struct {
	Name           string                `json:"name"`
	Description    *string               `json:"description"`
	Status         *models.ProjectStatus `json:"status"`
	ProjectGroupID *uint64               `json:"project_group_id"`
	ClearGroup     bool                  `json:"clear_group"`
	CompanyID      uint64                `json:"company_id"`
}

func (h *ProjectHandler) List(c *gin.Context) {
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
	groupID, err := queryUint64(c, "project_group_id")
	if err != nil {
		fail(c, err)
		return
	}
	if groupID != nil {
		params.Filters["project_group_id"] = *groupID
	}

	result, err := h.projects.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	project, err := h.projects.Create(c.Request.Context(), p.CompanyID, p.UserID, services.ProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		Status:         req.Status,
		ProjectGroupID: req.ProjectGroupID,
		CompanyID:      req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	project, err := h.projects.Update(c.Request.Context(), p.CompanyID, id, services.ProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		Status:         req.Status,
		ProjectGroupID: req.ProjectGroupID,
		ClearGroup:     req.ClearGroup,
		CompanyID:      req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Project deleted")
}
