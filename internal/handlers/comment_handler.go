package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments on memorial items
type CommentHandler struct {
	commentRepository  repositories.CommentRepository
	itemRepository     repositories.MemorialItemRepository
	memorialRepository repositories.MemorialRepository
	userRepository     repositories.UserRepository
	accessEngine       *access.Engine
	notifier           *Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, itemRepo repositories.MemorialItemRepository, memorialRepo repositories.MemorialRepository, userRepo repositories.UserRepository, engine *access.Engine, notifier *Notifier) *CommentHandler {
	return &CommentHandler{
		commentRepository:  commentRepo,
		itemRepository:     itemRepo,
		memorialRepository: memorialRepo,
		userRepository:     userRepo,
		accessEngine:       engine,
		notifier:           notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes requiring a JWT
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/items/:item_id/comments", h.CreateComment)
}

// RegisterPublicCommentRoutes registers the comment listing, readable
// anonymously on public memorials
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/items/:item_id/comments", h.GetComments)
}

// EnrichedComment includes compact author info for rendering
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// CreateComment adds a comment to an approved memorial item. The owner may
// also comment on items still in moderation.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	itemID := c.Param("item_id")

	var req models.CreateCommentRequest
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

	memorial, err := h.memorialRepository.GetMemorialByID(item.MemorialID)
	if err != nil {
		return domainError(err)
	}

	tier, err := h.accessEngine.Resolve(userID, memorial)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !h.accessEngine.CanContribute(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "You must be an accepted collaborator to comment")
	}
	if item.Status != models.ItemStatusApproved && !h.accessEngine.CanModerate(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "This memory has not been approved yet")
	}

	comment := &models.Comment{
		ItemID:  itemID,
		UserID:  userID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if userID != memorial.OwnerID {
		h.notifier.Notify(&models.Notification{
			Type:        models.NotificationComment,
			ActorID:     userID,
			RecipientID: memorial.OwnerID,
			TargetID:    itemID,
			TargetType:  "item",
			Message:     fmt.Sprintf("New comment on a memory of %q", memorial.Title),
		})
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists an item's comments oldest first, enriched with author info
func (h *CommentHandler) GetComments(c echo.Context) error {
	userID := getUserIDFromContext(c)

	itemID := c.Param("item_id")

	item, err := h.itemRepository.GetItemByID(c.Request().Context(), itemID)
	if err != nil {
		return domainError(err)
	}

	memorial, err := h.memorialRepository.GetMemorialByID(item.MemorialID)
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
	if item.Status != models.ItemStatusApproved && !h.accessEngine.CanModerate(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "This memory has not been approved yet")
	}

	comments, err := h.commentRepository.GetCommentsByItemID(itemID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedComment, len(comments))
	userCache := make(map[uint]models.UserCompact)
	for i, comment := range comments {
		enriched[i] = EnrichedComment{Comment: comment}
		if author, ok := userCache[comment.UserID]; ok {
			enriched[i].Author = author
			continue
		}
		user, err := h.userRepository.GetUserByID(comment.UserID)
		if err == nil {
			compact := user.ToCompact()
			userCache[comment.UserID] = compact
			enriched[i].Author = compact
		}
	}

	return c.JSON(http.StatusOK, enriched)
}
