package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type ProjectGroupHandler struct {
	groups *services.ProjectGroupService
}

func NewProjectGroupHandler(groups *services.ProjectGroupService) *ProjectGroupHandler {
	return &ProjectGroupHandler{groups: groups}
}

type projectGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CompanyID   uint64  `json:"company_id"`
}

func (h *ProjectGroupHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := listquery.Parse(c)
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.groups.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *ProjectGroupHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	group, err := h.groups.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, group)
}

func (h *ProjectGroupHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req projectGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	group, err := h.groups.Create(c.Request.Context(), p.CompanyID, p.UserID, services.ProjectGroupInput{
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, group)
}

func (h *ProjectGroupHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req projectGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	group, err := h.groups.Update(c.Request.Context(), p.CompanyID, id, services.ProjectGroupInput{
		Name:        req.Name,
		Description: req.Description,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, group)
}

func (h *ProjectGroupHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.groups.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Project group deleted")
}
