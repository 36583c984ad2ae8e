package access

import (
	"fmt"
	"testing"

	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) (*Engine, repositories.CollaborationRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CollaborationRequest{}))

	collabRepo := repositories.NewPostgresCollaborationRepository(db)
	return NewEngine(collabRepo), collabRepo
}

func TestResolveOwner(t *testing.T) {
	engine, _ := newTestEngine(t)
	memorial := &models.Memorial{ID: 1, OwnerID: 10, Visibility: models.VisibilityPrivate}

	tier, err := engine.Resolve(10, memorial)
	require.NoError(t, err)
	assert.Equal(t, TierOwner, tier)
}

func TestResolveAcceptedCollaborator(t *testing.T) {
	engine, collabRepo := newTestEngine(t)
	memorial := &models.Memorial{ID: 1, OwnerID: 10, Visibility: models.VisibilityPrivate}

	request := &models.CollaborationRequest{MemorialID: 1, RequesterID: 20}
	require.NoError(t, collabRepo.CreateRequest(request))

	// Pending grants nothing on a private memorial.
	tier, err := engine.Resolve(20, memorial)
	require.NoError(t, err)
	assert.Equal(t, TierNone, tier)

	require.NoError(t, collabRepo.UpdateRequestStatus(request.ID, models.CollaborationAccepted))

	tier, err = engine.Resolve(20, memorial)
	require.NoError(t, err)
	assert.Equal(t, TierContributor, tier)
}

func TestResolvePublicVisitor(t *testing.T) {
	engine, _ := newTestEngine(t)
	public := &models.Memorial{ID: 1, OwnerID: 10, Visibility: models.VisibilityPublic}
	private := &models.Memorial{ID: 2, OwnerID: 10, Visibility: models.VisibilityPrivate}

	tier, err := engine.Resolve(20, public)
	require.NoError(t, err)
	assert.Equal(t, TierViewer, tier)

	tier, err = engine.Resolve(0, public)
	require.NoError(t, err)
	assert.Equal(t, TierViewer, tier, "anonymous visitors may view public memorials")

	tier, err = engine.Resolve(0, private)
	require.NoError(t, err)
	assert.Equal(t, TierNone, tier)
}

func TestRejectedRequestGrantsNothing(t *testing.T) {
	engine, collabRepo := newTestEngine(t)
	memorial := &models.Memorial{ID: 1, OwnerID: 10, Visibility: models.VisibilityPrivate}

	request := &models.CollaborationRequest{MemorialID: 1, RequesterID: 20}
	require.NoError(t, collabRepo.CreateRequest(request))
	require.NoError(t, collabRepo.UpdateRequestStatus(request.ID, models.CollaborationRejected))

	tier, err := engine.Resolve(20, memorial)
	require.NoError(t, err)
	assert.Equal(t, TierNone, tier)
}

func TestCapabilitiesAreOrdered(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.False(t, engine.CanView(TierNone))
	assert.True(t, engine.CanView(TierViewer))
	assert.False(t, engine.CanContribute(TierViewer))
	assert.True(t, engine.CanContribute(TierContributor))
	assert.False(t, engine.CanModerate(TierContributor))
	assert.True(t, engine.CanModerate(TierOwner))
}
