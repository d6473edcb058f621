package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type TimesheetHandler struct {
	sheets *services.TimesheetService
}

func NewTimesheetHandler(sheets *services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{sheets: sheets}
}

type timesheetRequest struct {
	UserID      uint64    `json:"user_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	CompanyID   uint64    `json:"company_id"`
}

func (h *TimesheetHandler) List(c *gin.Context) {
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
	userID, err := queryUint64(c, "user_id")
	if err != nil {
		fail(c, err)
		return
	}
	if userID != nil {
		params.Filters["user_id"] = *userID
	}

	result, err := h.sheets.List(c.Request.Context(), p.CompanyID, params)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *TimesheetHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	sheet, err := h.sheets.Get(c.Request.Context(), p.CompanyID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, sheet)
}

func (h *TimesheetHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req timesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	sheet, err := h.sheets.Create(c.Request.Context(), p.CompanyID, p.UserID, services.TimesheetInput{
		UserID:      req.UserID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, sheet)
}

func (h *TimesheetHandler) Submit(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	sheet, err := h.sheets.Submit(c.Request.Context(), p.CompanyID, p.UserID, id)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, sheet)
}

func (h *TimesheetHandler) Approve(c *gin.Context) {
	h.review(c, true)
}

func (h *TimesheetHandler) Reject(c *gin.Context) {
	h.review(c, false)
}

func (h *TimesheetHandler) review(c *gin.Context, approve bool) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	sheet, err := h.sheets.Review(c.Request.Context(), p.CompanyID, p.UserID, id, approve)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, sheet)
}

func (h *TimesheetHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.sheets.Delete(c.Request.Context(), p.CompanyID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Timesheet deleted")
}
