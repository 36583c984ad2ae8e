package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
	"github.com/rhamilton21/rememora-web/pkg/mailer"
)

// MemorialHandler handles memorial page HTTP requests
type MemorialHandler struct {
	memorialRepository repositories.MemorialRepository
	accessEngine       *access.Engine
	mailer             *mailer.Mailer
	publicBaseURL      string
}

// NewMemorialHandler creates a new MemorialHandler. mail may be nil when the
// share-by-email feature is not configured.
func NewMemorialHandler(memorialRepo repositories.MemorialRepository, engine *access.Engine, mail *mailer.Mailer, publicBaseURL string) *MemorialHandler {
	return &MemorialHandler{
		memorialRepository: memorialRepo,
		accessEngine:       engine,
		mailer:             mail,
		publicBaseURL:      publicBaseURL,
	}
}

// RegisterMemorialRoutes registers memorial-related routes requiring a JWT
func (h *MemorialHandler) RegisterMemorialRoutes(g *echo.Group) {
	g.POST("/memorials", h.CreateMemorial)
	g.GET("/memorials/mine", h.GetMyMemorials)
	g.PUT("/memorials/:id", h.UpdateMemorial)
	g.POST("/memorials/:id/share", h.ShareMemorial)
}

// RegisterPublicMemorialRoutes registers read routes that public memorials
// expose to anonymous visitors; the access engine still gates private ones
func (h *MemorialHandler) RegisterPublicMemorialRoutes(g *echo.Group) {
	g.GET("/memorials/:id", h.GetMemorial)
}

// CreateMemorial creates a memorial owned by the authenticated user
func (h *MemorialHandler) CreateMemorial(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateMemorialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	memorial := &models.Memorial{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Visibility:  req.Visibility,
		CoverURL:    req.CoverURL,
		PortraitURL: req.PortraitURL,
		BirthDate:   req.BirthDate,
		DeathDate:   req.DeathDate,
	}

	if err := h.memorialRepository.CreateMemorial(memorial); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, memorial)
}

// GetMyMemorials lists the memorials owned by the authenticated user
func (h *MemorialHandler) GetMyMemorials(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorials, err := h.memorialRepository.GetMemorialsByOwnerID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, memorials)
}

// GetMemorial retrieves a memorial, enforcing the caller's view tier.
// The response includes the resolved tier so the frontend can decide which
// controls to render without re-deriving permissions.
func (h *MemorialHandler) GetMemorial(c echo.Context) error {
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

	return c.JSON(http.StatusOK, echo.Map{"memorial": memorial, "tier": tier.String()})
}

// UpdateMemorial applies a partial update; owner only
func (h *MemorialHandler) UpdateMemorial(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial ID")
	}

	var req models.UpdateMemorialRequest
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

	tier, err := h.accessEngine.Resolve(userID, memorial)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !h.accessEngine.CanModerate(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the memorial owner may edit it")
	}

	patch := map[string]interface{}{}
	if req.Title != "" {
		patch["title"] = req.Title
	}
	if req.Description != "" {
		patch["description"] = req.Description
	}
	if req.Visibility != "" {
		patch["visibility"] = req.Visibility
	}
	if req.CoverURL != "" {
		patch["cover_url"] = req.CoverURL
	}
	if req.PortraitURL != "" {
		patch["portrait_url"] = req.PortraitURL
	}
	if req.BirthDate != nil {
		patch["birth_date"] = req.BirthDate
	}
	if req.DeathDate != nil {
		patch["death_date"] = req.DeathDate
	}
	if len(patch) == 0 {
		return c.JSON(http.StatusOK, memorial)
	}

	if err := h.memorialRepository.UpdateMemorial(memorial.ID, patch); err != nil {
		return domainError(err)
	}

	updated, err := h.memorialRepository.GetMemorialByID(memorial.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ShareMemorial emails a memorial link to a recipient. Any user who can view
// the memorial may share it.
func (h *MemorialHandler) ShareMemorial(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memorialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid memorial ID")
	}

	var req models.ShareMemorialRequest
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

	tier, err := h.accessEngine.Resolve(userID, memorial)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !h.accessEngine.CanView(tier) {
		return echo.NewHTTPError(http.StatusForbidden, "This memorial is private")
	}

	if h.mailer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Email sharing is not configured")
	}

	senderName := ""
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		senderName = claims.Email
	}
	memorialURL := fmt.Sprintf("%s/memorial/%d", h.publicBaseURL, memorial.ID)
	if err := h.mailer.SendMemorialShare(req.Email, senderName, memorial.Title, memorialURL, req.Message); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to send share email")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
