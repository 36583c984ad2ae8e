package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/access"
	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
	"github.com/rhamilton21/rememora-web/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeItemRepository is an in-memory stand-in for the Mongo-backed item store.
// Its UpdateItemStatus mirrors the production compare-and-swap: only a pending
// item transitions.
type fakeItemRepository struct {
	items map[string]*models.MemorialItem
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[string]*models.MemorialItem)}
}

func (f *fakeItemRepository) CreateItem(_ context.Context, item *models.MemorialItem) error {
	item.ID = primitive.NewObjectID()
	item.Status = models.ItemStatusPending
	f.items[item.ID.Hex()] = item
	return nil
}

func (f *fakeItemRepository) GetItemByID(_ context.Context, id string) (*models.MemorialItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepository) GetApprovedItems(_ context.Context, memorialID uint) ([]models.MemorialItem, error) {
	return f.filter(memorialID, models.ItemStatusApproved), nil
}

func (f *fakeItemRepository) GetItemsByStatus(_ context.Context, memorialID uint, status string) ([]models.MemorialItem, error) {
	return f.filter(memorialID, status), nil
}

func (f *fakeItemRepository) GetStatusCounts(_ context.Context, memorialID uint) (*models.ItemStatusCounts, error) {
	counts := &models.ItemStatusCounts{}
	for _, item := range f.items {
		if item.MemorialID != memorialID {
			continue
		}
		switch item.Status {
		case models.ItemStatusPending:
			counts.Pending++
		case models.ItemStatusApproved:
			counts.Approved++
		case models.ItemStatusRejected:
			counts.Rejected++
		}
		counts.Total++
	}
	return counts, nil
}

func (f *fakeItemRepository) UpdateItemStatus(_ context.Context, id, status string) error {
	item, ok := f.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if item.Status != models.ItemStatusPending {
		return apperrors.ErrConflict
	}
	item.Status = status
	return nil
}

func (f *fakeItemRepository) filter(memorialID uint, status string) []models.MemorialItem {
	var out []models.MemorialItem
	for _, item := range f.items {
		if item.MemorialID != memorialID {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, *item)
	}
	return out
}

type moderationFixture struct {
	echo             *echo.Echo
	handler          *ModerationHandler
	itemRepo         *fakeItemRepository
	memorialRepo     repositories.MemorialRepository
	notificationRepo repositories.NotificationRepository
	memorial         *models.Memorial
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Memorial{}, &models.CollaborationRequest{}, &models.Notification{}))

	memorialRepo := repositories.NewPostgresMemorialRepository(db)
	collabRepo := repositories.NewPostgresCollaborationRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	itemRepo := newFakeItemRepository()
	engine := access.NewEngine(collabRepo)
	notifier := NewNotifier(notificationRepo, nil)

	memorial := &models.Memorial{OwnerID: 10, Title: "Grandma Rose", Visibility: models.VisibilityPublic}
	require.NoError(t, memorialRepo.CreateMemorial(memorial))

	e := echo.New()
	e.Validator = validators.NewValidator()

	return &moderationFixture{
		echo:             e,
		handler:          NewModerationHandler(itemRepo, memorialRepo, engine, notifier),
		itemRepo:         itemRepo,
		memorialRepo:     memorialRepo,
		notificationRepo: notificationRepo,
		memorial:         memorial,
	}
}

func (fx *moderationFixture) seedItem(t *testing.T, authorID uint) *models.MemorialItem {
	t.Helper()
	item := &models.MemorialItem{
		MemorialID: fx.memorial.ID,
		AuthorID:   authorID,
		Type:       models.ItemTypeText,
		Content:    "She always kept the garden blooming",
	}
	require.NoError(t, fx.itemRepo.CreateItem(context.Background(), item))
	return item
}

func (fx *moderationFixture) moderateContext(userID uint, itemID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	c.SetParamNames("id", "item_id")
	c.SetParamValues(fmt.Sprint(fx.memorial.ID), itemID)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func TestModerateItemApprovesAndNotifiesAuthor(t *testing.T) {
	fx := newModerationFixture(t)
	item := fx.seedItem(t, 20)

	c, rec := fx.moderateContext(10, item.ID.Hex(), `{"status":"approved"}`)
	require.NoError(t, fx.handler.ModerateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := fx.itemRepo.GetItemByID(context.Background(), item.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusApproved, stored.Status)

	notifications, total, err := fx.notificationRepo.GetByRecipientID(20, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationItemApproved, notifications[0].Type)
}

func TestModerateItemRejectDoesNotNotify(t *testing.T) {
	fx := newModerationFixture(t)
	item := fx.seedItem(t, 20)

	c, _ := fx.moderateContext(10, item.ID.Hex(), `{"status":"rejected"}`)
	require.NoError(t, fx.handler.ModerateItem(c))

	_, total, err := fx.notificationRepo.GetByRecipientID(20, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestModerateItemTwiceConflicts(t *testing.T) {
	fx := newModerationFixture(t)
	item := fx.seedItem(t, 20)

	c, _ := fx.moderateContext(10, item.ID.Hex(), `{"status":"approved"}`)
	require.NoError(t, fx.handler.ModerateItem(c))

	c, _ = fx.moderateContext(10, item.ID.Hex(), `{"status":"rejected"}`)
	err := fx.handler.ModerateItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)

	stored, err := fx.itemRepo.GetItemByID(context.Background(), item.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusApproved, stored.Status, "the first decision stands")
}

func TestModerateItemRequiresOwner(t *testing.T) {
	fx := newModerationFixture(t)
	item := fx.seedItem(t, 20)

	c, _ := fx.moderateContext(20, item.ID.Hex(), `{"status":"approved"}`)
	err := fx.handler.ModerateItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestGetItemsStatusFilterAndCounts(t *testing.T) {
	fx := newModerationFixture(t)
	first := fx.seedItem(t, 20)
	fx.seedItem(t, 21)
	fx.seedItem(t, 22)

	c, _ := fx.moderateContext(10, first.ID.Hex(), `{"status":"approved"}`)
	require.NoError(t, fx.handler.ModerateItem(c))

	req := httptest.NewRequest(http.MethodGet, "/?status=pending", nil)
	rec := httptest.NewRecorder()
	c = fx.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(fx.memorial.ID))
	c.Set("user", &models.JwtCustomClaims{UserID: 10})
	require.NoError(t, fx.handler.GetItems(c))

	var pending []models.MemorialItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Len(t, pending, 2)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = fx.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(fx.memorial.ID))
	c.Set("user", &models.JwtCustomClaims{UserID: 10})
	require.NoError(t, fx.handler.GetCounts(c))

	var counts models.ItemStatusCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, int64(2), counts.Pending)
	assert.Equal(t, int64(1), counts.Approved)
	assert.Equal(t, counts.Pending+counts.Approved+counts.Rejected, counts.Total)
}
