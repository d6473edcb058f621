package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type MilestoneHandler struct {
	milestones *services.MilestoneService
}

func NewMilestoneHandler(milestones *services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones}
}

type milestoneRequest struct {
	Name      string     `json:"name"`
	ProjectID uint64     `json:"project_id"`
	DueDate   *time.Time `json:"due_date"`
	Completed *bool      `json:"completed"`
	CompanyID uint64     `json:"company_id"`
}

func (h *MilestoneHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := listquery.Parse(c)
	if err != nil {
		fail(c, err)
		return
	}
	projectID, err := queryUint64(c, "project_id")
	if err != nil {
		fail(c, err)
		return
	}
	if projectID != nil {
		params.Filters["project_id"] = *projectID
	}

	result, err := h.milestones.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *MilestoneHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	milestone, err := h.milestones.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, milestone)
}

func (h *MilestoneHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	milestone, err := h.milestones.Create(c.Request.Context(), p.CompanyID, p.UserID, services.MilestoneInput{
		Name:      req.Name,
		ProjectID: req.ProjectID,
		DueDate:   req.DueDate,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, milestone)
}

func (h *MilestoneHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	milestone, err := h.milestones.Update(c.Request.Context(), p.CompanyID, id, services.MilestoneInput{
		Name:      req.Name,
		DueDate:   req.DueDate,
		Completed: req.Completed,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, milestone)
}

func (h *MilestoneHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.milestones.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Milestone deleted")
}
