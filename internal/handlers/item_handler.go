package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
	"github.com/rhamilton21/rememora-web/pkg/storage"
)

// ItemHandler handles memorial item (contribution) HTTP requests
type ItemHandler struct {
	itemRepository     repositories.MemorialItemRepository
	memorialRepository repositories.MemorialRepository
	commentRepository  repositories.CommentRepository
	accessEngine       *access.Engine
	mediaStore         storage.MediaStore
	notifier           *Notifier
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemRepo repositories.MemorialItemRepository, memorialRepo repositories.MemorialRepository, commentRepo repositories.CommentRepository, engine *access.Engine, media storage.MediaStore, notifier *Notifier) *ItemHandler {
	return &ItemHandler{
		itemRepository:     itemRepo,
		memorialRepository: memorialRepo,
		commentRepository:  commentRepo,
		accessEngine:       engine,
		mediaStore:         media,
		notifier:           notifier,
	}
}

// RegisterItemRoutes registers item-related routes requiring a JWT
func (h *ItemHandler) RegisterItemRoutes(g *echo.Group) {
	g.POST("/memorials/:id/items", h.SubmitItem)
}

// RegisterPublicItemRoutes registers the approved-items listing, readable
// anonymously on public memorials
func (h *ItemHandler) RegisterPublicItemRoutes(g *echo.Group) {
	g.GET("/memorials/:id/items", h.GetApprovedItems)
}

// SubmitItem accepts a new contribution from an accepted collaborator or the
// owner. The request is a multipart form: a "content" text field, an optional
// "media" file. Media goes to the object store and the item stores its public
// URL. Every item starts pending.
func (h *ItemHandler) SubmitItem(c echo.Context) error {
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
	if !h.accessEngine.CanContribute(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "You must be an accepted collaborator to share a memory")
	}

	content := strings.TrimSpace(c.FormValue("content"))

	item := &models.MemorialItem{
		MemorialID: memorial.ID,
		AuthorID:   userID,
		Type:       models.ItemTypeText,
		Content:    content,
	}

	fileHeader, fileErr := c.FormFile("media")
	if fileErr == nil && fileHeader != nil {
		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file")
		}
		defer src.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(contentType, "image/"):
			item.Type = models.ItemTypeImage
		case strings.HasPrefix(contentType, "video/"):
			item.Type = models.ItemTypeVideo
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "Only image and video uploads are supported")
		}

		key := h.mediaStore.ItemKey(memorial.ID, fileHeader.Filename)
		if err := h.mediaStore.Upload(key, src, contentType); err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, "Failed to store uploaded media")
		}
		item.Content = h.mediaStore.PublicURL(key)
	} else if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "A memory needs text or a media file")
	}

	if err := h.itemRepository.CreateItem(c.Request().Context(), item); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The owner moderates their own queue; no self-notification.
	if userID != memorial.OwnerID {
		h.notifier.Notify(&models.Notification{
			Type:        models.NotificationItemSubmitted,
			ActorID:     userID,
			RecipientID: memorial.OwnerID,
			TargetID:    item.ID.Hex(),
			TargetType:  "item",
			Message:     fmt.Sprintf("A new memory was shared on %q and awaits your approval", memorial.Title),
		})
	}

	return c.JSON(http.StatusCreated, item)
}

// EnrichedItem carries an item together with its comment count for the
// memorial page's cards
type EnrichedItem struct {
	models.MemorialItem
	CommentCount int64 `json:"comment_count"`
}

// GetApprovedItems lists the publicly visible items of a memorial with their
// comment counts
func (h *ItemHandler) GetApprovedItems(c echo.Context) error {
	userID := getUserIDFromContext(c)

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
	if !h.accessEngine.CanView(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "This memorial is private")
	}

	items, err := h.itemRepository.GetApprovedItems(c.Request().Context(), memorial.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedItem, len(items))
	for i, item := range items {
		enriched[i] = EnrichedItem{MemorialItem: item}
		count, err := h.commentRepository.GetCommentsCountByItemID(item.ID.Hex())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		enriched[i].CommentCount = count
	}

	return c.JSON(http.StatusOK, enriched)
}
