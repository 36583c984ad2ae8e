package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
)

// CollaborationHandler handles collaboration request HTTP requests
type CollaborationHandler struct {
	collaborationRepository repositories.CollaborationRepository
	memorialRepository      repositories.MemorialRepository
	accessEngine            *access.Engine
	notifier                *Notifier
}

// NewCollaborationHandler creates a new CollaborationHandler
func NewCollaborationHandler(collabRepo repositories.CollaborationRepository, memorialRepo repositories.MemorialRepository, engine *access.Engine, notifier *Notifier) *CollaborationHandler {
	return &CollaborationHandler{
		collaborationRepository: collabRepo,
		memorialRepository:      memorialRepo,
		accessEngine:            engine,
		notifier:                notifier,
	}
}

// RegisterCollaborationRoutes registers collaboration-related routes
func (h *CollaborationHandler) RegisterCollaborationRoutes(g *echo.Group) {
	g.POST("/memorials/:id/collaboration-requests", h.CreateRequest)
	g.GET("/memorials/:id/collaboration-requests", h.GetRequestsForMemorial)
	g.GET("/memorials/:id/collaboration-requests/mine", h.GetMyRequestForMemorial)
	g.GET("/collaboration-requests/mine", h.GetMyRequests)
	g.PUT("/collaboration-requests/:id", h.UpdateRequest)
}

// CreateRequest asks for contributor access to a memorial. Requesting does not
// require view access: a visitor who was handed a link to a private memorial
// still needs a way in.
func (h *CollaborationHandler) CreateRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial ID")
	}

	var req models.CreateCollaborationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	memorial, err := h.memorialRepository.GetMemorialByID(uint(memorialID))
	if err != nil {
		return domainError(err)
	}
	if memorial.OwnerID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You already own this memorial")
	}

	request := &models.CollaborationRequest{
		MemorialID:  memorial.ID,
		RequesterID: userID,
		Message:     req.Message,
	}
	if err := h.collaborationRepository.CreateRequest(request); err != nil {
		if httpErr := domainError(err); httpErr.Code == http.StatusConflict {
			return echo.NewHTTPError(http.StatusConflict, "You have already requested access to this memorial")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.Notify(&models.Notification{
		Type:        models.NotificationCollabRequest,
		ActorID:     userID,
		RecipientID: memorial.OwnerID,
		TargetID:    strconv.FormatUint(uint64(request.ID), 10),
		TargetType:  "collaboration_request",
		Message:     fmt.Sprintf("Someone requested to contribute to %q", memorial.Title),
	})

	return c.JSON(http.StatusCreated, request)
}

// GetRequestsForMemorial lists a memorial's collaboration requests; owner only
func (h *CollaborationHandler) GetRequestsForMemorial(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial ID")
	}

	memorial, err := h.memorialRepository.GetMemorialByID(uint(memorialID))
	if err != nil {
		return domainError(err)
	}

	tier, err := h.accessEngine.Resolve(userID, memorial)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !h.accessEngine.CanModerate(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the memorial owner may review requests")
	}

	requests, err := h.collaborationRepository.GetRequestsForMemorial(memorial.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, requests)
}

// GetMyRequestForMemorial returns the caller's request for one memorial, or
// null if they never asked. The frontend uses it to pick between the
// "request access" and "request pending" states.
func (h *CollaborationHandler) GetMyRequestForMemorial(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial ID")
	}

	request, err := h.collaborationRepository.GetRequestForUser(uint(memorialID), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"request": request})
}

// GetMyRequests lists the authenticated user's own collaboration requests
func (h *CollaborationHandler) GetMyRequests(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.collaborationRepository.GetRequestsByRequesterID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, requests)
}

// UpdateRequest accepts or rejects a pending request; owner only. The
// store-level compare-and-swap guarantees the transition happens once even
// under concurrent clicks.
func (h *CollaborationHandler) UpdateRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.UpdateCollaborationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	request, err := h.collaborationRepository.GetRequestByID(uint(requestID))
	if err != nil {
		return domainError(err)
	}

	memorial, err := h.memorialRepository.GetMemorialByID(request.MemorialID)
	if err != nil {
		return domainError(err)
	}

	tier, err := h.accessEngine.Resolve(userID, memorial)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !h.accessEngine.CanModerate(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the memorial owner may decide requests")
	}

	if err := h.collaborationRepository.UpdateRequestStatus(request.ID, req.Status); err != nil {
		if httpErr := domainError(err); httpErr.Code == http.StatusConflict {
			return echo.NewHTTPError(http.StatusConflict, "This request has already been decided")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Status == models.CollaborationAccepted {
		h.notifier.Notify(&models.Notification{
			Type:        models.NotificationCollabAccepted,
			ActorID:     userID,
			RecipientID: request.RequesterID,
			TargetID:    strconv.FormatUint(uint64(memorial.ID), 10),
			TargetType:  "memorial",
			Message:     fmt.Sprintf("Your request to contribute to %q was accepted", memorial.Title),
		})
	}

	request.Status = req.Status
	return c.JSON(http.StatusOK, request)
}
