package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/realtime"
	"github.com/rhamilton21/rememora-web/internal/repositories"
)

// NotificationHandler handles notification HTTP requests and the realtime
// WebSocket endpoint
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewNotificationHandler creates a new NotificationHandler. hub may be nil
// when realtime delivery is disabled.
func NewNotificationHandler(notificationRepo repositories.NotificationRepository, hub *realtime.Hub) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notificationRepo,
		hub:                    hub,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.GET("/ws", h.ServeWS)
}

// GetNotifications lists the caller's notifications, newest first, paginated
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := h.notificationRepository.GetByRecipientID(userID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

// GetUnreadCount returns the caller's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkAsRead(uint(notificationID), userID); err != nil {
		return domainError(err)
	}

	h.pushUpdated(userID)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's unread notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.pushUpdated(userID)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// pushUpdated tells the user's other connections that read state changed;
// clients refetch rather than patch, so the event carries no payload
func (h *NotificationHandler) pushUpdated(userID uint) {
	if h.hub != nil {
		h.hub.PushToUser(userID, realtime.Event{Kind: realtime.EventNotificationUpdated})
	}
}

// ServeWS upgrades the connection and streams notification events to the
// authenticated user
func (h *NotificationHandler) ServeWS(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if h.hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Realtime delivery is not enabled")
	}

	return realtime.ServeWS(h.hub, c.Response(), c.Request(), userID)
}
