package repositories

import (
	"testing"

	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T, repo NotificationRepository, recipientID uint, n int) []models.Notification {
	t.Helper()
	out := make([]models.Notification, n)
	for i := range out {
		out[i] = models.Notification{
			Type:        models.NotificationComment,
			ActorID:     99,
			RecipientID: recipientID,
			Message:     "new comment",
		}
		require.NoError(t, repo.CreateNotification(&out[i]))
	}
	return out
}

func TestGetByRecipientIDPagination(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))
	seedNotifications(t, repo, 1, 5)
	seedNotifications(t, repo, 2, 1)

	notifications, total, err := repo.GetByRecipientID(1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, notifications, 3)

	notifications, total, err = repo.GetByRecipientID(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, notifications, 2)
}

func TestMarkAsReadChecksRecipient(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))
	seeded := seedNotifications(t, repo, 1, 1)

	// Another user cannot mark it.
	assert.ErrorIs(t, repo.MarkAsRead(seeded[0].ID, 2), apperrors.ErrNotFound)

	require.NoError(t, repo.MarkAsRead(seeded[0].ID, 1))

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAllAsReadIsIdempotent(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))
	seedNotifications(t, repo, 1, 3)
	seedNotifications(t, repo, 2, 1)

	require.NoError(t, repo.MarkAllAsRead(1))
	require.NoError(t, repo.MarkAllAsRead(1))

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// The other recipient's notification is untouched.
	count, err = repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
