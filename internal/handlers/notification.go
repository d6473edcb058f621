package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's feed; ?unread=true narrows it to unread entries.
func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params, err := listquery.Parse(c)
	if err != nil {
		fail(c, err)
		return
	}

	unreadOnly := c.Query("unread") == "true"
	result, err := h.notifications.List(c.Request.Context(), p.CompanyID, p.UserID, params, unreadOnly)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, result.Data, result.Pagination)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), p.CompanyID, p.UserID, id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	count, err := h.notifications.MarkAllRead(c.Request.Context(), p.CompanyID, p.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, gin.H{"marked": count})
}
