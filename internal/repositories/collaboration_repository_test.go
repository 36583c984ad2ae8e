package repositories

import (
	"testing"

	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestStartsPending(t *testing.T) {
	repo := NewPostgresCollaborationRepository(newTestDB(t))

	request := &models.CollaborationRequest{MemorialID: 1, RequesterID: 2, Status: "accepted"}
	require.NoError(t, repo.CreateRequest(request))
	assert.Equal(t, models.CollaborationPending, request.Status, "a new request may not smuggle in a status")
}

func TestCreateRequestDuplicateConflicts(t *testing.T) {
	repo := NewPostgresCollaborationRepository(newTestDB(t))

	require.NoError(t, repo.CreateRequest(&models.CollaborationRequest{MemorialID: 1, RequesterID: 2}))

	err := repo.CreateRequest(&models.CollaborationRequest{MemorialID: 1, RequesterID: 2})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// A different memorial or requester is fine.
	assert.NoError(t, repo.CreateRequest(&models.CollaborationRequest{MemorialID: 1, RequesterID: 3}))
	assert.NoError(t, repo.CreateRequest(&models.CollaborationRequest{MemorialID: 2, RequesterID: 2}))
}

func TestUpdateRequestStatusIsOneWay(t *testing.T) {
	repo := NewPostgresCollaborationRepository(newTestDB(t))

	request := &models.CollaborationRequest{MemorialID: 1, RequesterID: 2}
	require.NoError(t, repo.CreateRequest(request))

	require.NoError(t, repo.UpdateRequestStatus(request.ID, models.CollaborationAccepted))

	// The request is terminal now: neither a repeat nor a flip may land.
	assert.ErrorIs(t, repo.UpdateRequestStatus(request.ID, models.CollaborationAccepted), apperrors.ErrConflict)
	assert.ErrorIs(t, repo.UpdateRequestStatus(request.ID, models.CollaborationRejected), apperrors.ErrConflict)

	stored, err := repo.GetRequestByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationAccepted, stored.Status)
}

func TestUpdateRequestStatusMissingRequest(t *testing.T) {
	repo := NewPostgresCollaborationRepository(newTestDB(t))
	assert.ErrorIs(t, repo.UpdateRequestStatus(999, models.CollaborationAccepted), apperrors.ErrConflict)
}

func TestHasAcceptedRequest(t *testing.T) {
	repo := NewPostgresCollaborationRepository(newTestDB(t))

	request := &models.CollaborationRequest{MemorialID: 1, RequesterID: 2}
	require.NoError(t, repo.CreateRequest(request))

	accepted, err := repo.HasAcceptedRequest(1, 2)
	require.NoError(t, err)
	assert.False(t, accepted, "pending does not grant access")

	require.NoError(t, repo.UpdateRequestStatus(request.ID, models.CollaborationAccepted))

	accepted, err = repo.HasAcceptedRequest(1, 2)
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = repo.HasAcceptedRequest(1, 99)
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestGetRequestForUser(t *testing.T) {
	repo := NewPostgresCollaborationRepository(newTestDB(t))

	request, err := repo.GetRequestForUser(1, 2)
	require.NoError(t, err)
	assert.Nil(t, request)

	require.NoError(t, repo.CreateRequest(&models.CollaborationRequest{MemorialID: 1, RequesterID: 2, Message: "old friend"}))

	request, err = repo.GetRequestForUser(1, 2)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Equal(t, "old friend", request.Message)
}
