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

// ReactionHandler handles reaction toggling and listing for all three target
// kinds (memorial, item, comment)
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	memorialRepository repositories.MemorialRepository
	itemRepository     repositories.MemorialItemRepository
	commentRepository  repositories.CommentRepository
	accessEngine       *access.Engine
	notifier           *Notifier
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, memorialRepo repositories.MemorialRepository, itemRepo repositories.MemorialItemRepository, commentRepo repositories.CommentRepository, engine *access.Engine, notifier *Notifier) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		memorialRepository: memorialRepo,
		itemRepository:     itemRepo,
		commentRepository:  commentRepo,
		accessEngine:       engine,
		notifier:           notifier,
	}
}

// RegisterReactionRoutes registers reaction-related routes requiring a JWT
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.PUT("/reactions", h.ToggleReaction)
}

// RegisterPublicReactionRoutes registers the reaction listing, readable
// anonymously on public memorials
func (h *ReactionHandler) RegisterPublicReactionRoutes(g *echo.Group) {
	g.GET("/reactions", h.GetReactions)
}

// resolveTargetMemorial walks from a reaction target up to the memorial that
// owns it, so access checks apply uniformly to all target kinds
func (h *ReactionHandler) resolveTargetMemorial(c echo.Context, targetType, targetID string) (*models.Memorial, error) {
	switch targetType {
	case models.ReactionTargetMemorial:
		id, err := strconv.ParseUint(targetID, 10, 32)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial target ID")
		}
		memorial, err := h.memorialRepository.GetMemorialByID(uint(id))
		if err != nil {
			return nil, domainError(err)
		}
		return memorial, nil

	case models.ReactionTargetItem:
		item, err := h.itemRepository.GetItemByID(c.Request().Context(), targetID)
		if err != nil {
			return nil, domainError(err)
		}
		memorial, err := h.memorialRepository.GetMemorialByID(item.MemorialID)
		if err != nil {
			return nil, domainError(err)
		}
		return memorial, nil

	case models.ReactionTargetComment:
		id, err := strconv.ParseUint(targetID, 10, 32)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid comment target ID")
		}
		comment, err := h.commentRepository.GetCommentByID(uint(id))
		if err != nil {
			return nil, domainError(err)
		}
		item, err := h.itemRepository.GetItemByID(c.Request().Context(), comment.ItemID)
		if err != nil {
			return nil, domainError(err)
		}
		memorial, err := h.memorialRepository.GetMemorialByID(item.MemorialID)
		if err != nil {
			return nil, domainError(err)
		}
		return memorial, nil
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid target type")
}

// ToggleReaction applies the uniform toggle: create when absent, remove on a
// same-type repeat, replace in place on a different type
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	memorial, err := h.resolveTargetMemorial(c, req.TargetType, req.TargetID)
	if err != nil {
		return err
	}

	tier, rerr := h.accessEngine.Resolve(userID, memorial)
	if rerr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, rerr.Error())
	}
	if !h.accessEngine.CanContribute(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "You must be an accepted collaborator to react")
	}

	reaction, removed, terr := h.reactionRepository.Toggle(userID, req.TargetType, req.TargetID, req.Type)
	if terr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, terr.Error())
	}

	if !removed && req.TargetType == models.ReactionTargetMemorial && userID != memorial.OwnerID {
		h.notifier.Notify(&models.Notification{
			Type:        models.NotificationReaction,
			ActorID:     userID,
			RecipientID: memorial.OwnerID,
			TargetID:    req.TargetID,
			TargetType:  req.TargetType,
			Message:     fmt.Sprintf("Someone reacted to the memorial %q", memorial.Title),
		})
	}

	counts, cerr := h.reactionRepository.GetCountsForTarget(req.TargetType, req.TargetID)
	if cerr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, cerr.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"removed":  removed,
		"reaction": reaction,
		"counts":   counts,
	})
}

// GetReactions lists the reactions on a target with per-type counts and the
// caller's current reaction
func (h *ReactionHandler) GetReactions(c echo.Context) error {
	userID := getUserIDFromContext(c)

	targetType := c.QueryParam("target_type")
	targetID := c.QueryParam("target_id")
	if targetType == "" || targetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "target_type and target_id are required")
	}

	memorial, err := h.resolveTargetMemorial(c, targetType, targetID)
	if err != nil {
		return err
	}

	tier, rerr := h.accessEngine.Resolve(userID, memorial)
	if rerr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, rerr.Error())
	}
	if !h.accessEngine.CanView(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "This memorial is private")
	}

	reactions, err2 := h.reactionRepository.GetReactionsForTarget(targetType, targetID)
	if err2 != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err2.Error())
	}

	counts, err2 := h.reactionRepository.GetCountsForTarget(targetType, targetID)
	if err2 != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err2.Error())
	}

	var userReaction *models.Reaction
	if userID != 0 {
		userReaction, err2 = h.reactionRepository.GetUserReaction(userID, targetType, targetID)
		if err2 != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err2.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reactions":     reactions,
		"counts":        counts,
		"user_reaction": userReaction,
	})
}
