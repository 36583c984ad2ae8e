package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
	"github.com/rhamilton21/rememora-web/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGetApprovedItemsWithCommentCounts(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Memorial{}, &models.CollaborationRequest{}, &models.Comment{}))

	memorialRepo := repositories.NewPostgresMemorialRepository(db)
	collabRepo := repositories.NewPostgresCollaborationRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	itemRepo := newFakeItemRepository()
	engine := access.NewEngine(collabRepo)

	memorial := &models.Memorial{OwnerID: 10, Title: "Grandma Rose", Visibility: models.VisibilityPublic}
	require.NoError(t, memorialRepo.CreateMemorial(memorial))

	approved := &models.MemorialItem{MemorialID: memorial.ID, AuthorID: 20, Type: models.ItemTypeText, Content: "Her garden"}
	require.NoError(t, itemRepo.CreateItem(context.Background(), approved))
	require.NoError(t, itemRepo.UpdateItemStatus(context.Background(), approved.ID.Hex(), models.ItemStatusApproved))

	// A pending item must never surface in the approved listing.
	pending := &models.MemorialItem{MemorialID: memorial.ID, AuthorID: 21, Type: models.ItemTypeText, Content: "Awaiting review"}
	require.NoError(t, itemRepo.CreateItem(context.Background(), pending))

	require.NoError(t, commentRepo.CreateComment(&models.Comment{ItemID: approved.ID.Hex(), UserID: 20, Content: "Beautiful"}))
	require.NoError(t, commentRepo.CreateComment(&models.Comment{ItemID: approved.ID.Hex(), UserID: 10, Content: "Thank you"}))

	e := echo.New()
	e.Validator = validators.NewValidator()
	handler := NewItemHandler(itemRepo, memorialRepo, commentRepo, engine, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(memorial.ID))

	// Anonymous caller: a public memorial's approved items are readable.
	require.NoError(t, handler.GetApprovedItems(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []EnrichedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, approved.ID, items[0].ID)
	assert.Equal(t, int64(2), items[0].CommentCount)
}
