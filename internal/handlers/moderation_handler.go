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

// ModerationHandler handles the owner-only contribution moderation view
type ModerationHandler struct {
	itemRepository     repositories.MemorialItemRepository
	memorialRepository repositories.MemorialRepository
	accessEngine       *access.Engine
	notifier           *Notifier
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(itemRepo repositories.MemorialItemRepository, memorialRepo repositories.MemorialRepository, engine *access.Engine, notifier *Notifier) *ModerationHandler {
	return &ModerationHandler{
		itemRepository:     itemRepo,
		memorialRepository: memorialRepo,
		accessEngine:       engine,
		notifier:           notifier,
	}
}

// RegisterModerationRoutes registers moderation routes
func (h *ModerationHandler) RegisterModerationRoutes(g *echo.Group) {
	g.GET("/memorials/:id/moderation/items", h.GetItems)
	g.GET("/memorials/:id/moderation/counts", h.GetCounts)
	g.PUT("/memorials/:id/moderation/items/:item_id", h.ModerateItem)
}

// requireOwner loads the memorial and verifies the caller may moderate it
func (h *ModerationHandler) requireOwner(c echo.Context) (*models.Memorial, error) {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial ID")
	}

	memorial, err := h.memorialRepository.GetMemorialByID(uint(memorialID))
	if err != nil {
		return nil, domainError(err)
	}

	tier, err := h.accessEngine.Resolve(userID, memorial)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !h.accessEngine.CanModerate(tier) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Only the memorial owner may moderate contributions")
	}
	return memorial, nil
}

// GetItems lists a memorial's items for moderation. An optional ?status=
// query filters to pending/approved/rejected; absent means all.
func (h *ModerationHandler) GetItems(c echo.Context) error {
	memorial, err := h.requireOwner(c)
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	switch status {
	case "", models.ItemStatusPending, models.ItemStatusApproved, models.ItemStatusRejected:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
	}

	items, err := h.itemRepository.GetItemsByStatus(c.Request().Context(), memorial.ID, status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, items)
}

// GetCounts returns per-status item counts for the moderation tabs
func (h *ModerationHandler) GetCounts(c echo.Context) error {
	memorial, err := h.requireOwner(c)
	if err != nil {
		return err
	}

	counts, err := h.itemRepository.GetStatusCounts(c.Request().Context(), memorial.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, counts)
}

// ModerateItem approves or rejects a pending item. The store-level
// compare-and-swap makes the transition terminal: a second attempt conflicts.
func (h *ModerationHandler) ModerateItem(c echo.Context) error {
	memorial, err := h.requireOwner(c)
	if err != nil {
		return err
	}

	itemID := c.Param("item_id")

	var req models.ModerateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.itemRepository.GetItemByID(c.Request().Context(), itemID)
	if err != nil {
		return domainError(err)
	}
	if item.MemorialID != memorial.ID {
		return echo.NewHTTPError(http.StatusNotFound, "Item does not belong to this memorial")
	}

	if err := h.itemRepository.UpdateItemStatus(c.Request().Context(), itemID, req.Status); err != nil {
		return domainError(err)
	}

	if req.Status == models.ItemStatusApproved && item.AuthorID != memorial.OwnerID {
		h.notifier.Notify(&models.Notification{
			Type:        models.NotificationItemApproved,
			ActorID:     memorial.OwnerID,
			RecipientID: item.AuthorID,
			TargetID:    itemID,
			TargetType:  "item",
			Message:     fmt.Sprintf("Your memory on %q was approved", memorial.Title),
		})
	}

	item.Status = req.Status
	return c.JSON(http.StatusOK, item)
}
