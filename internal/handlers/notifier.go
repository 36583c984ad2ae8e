package handlers

import (
	"log"

	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/realtime"
	"github.com/rhamilton21/rememora-web/internal/repositories"
)

// Notifier persists notifications and pushes them over the realtime hub.
// Failures are logged, never surfaced: a lost notification must not fail the
// action that produced it.
type Notifier struct {
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewNotifier creates a new Notifier. hub may be nil (e.g. in tests); push
// is then skipped.
func NewNotifier(notifRepo repositories.NotificationRepository, hub *realtime.Hub) *Notifier {
	return &Notifier{notificationRepository: notifRepo, hub: hub}
}

// Notify stores a notification and pushes it to the recipient's connections
func (n *Notifier) Notify(notification *models.Notification) {
	if err := n.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("Failed to create notification: %v", err)
		return
	}
	if n.hub != nil {
		n.hub.PushToUser(notification.RecipientID, realtime.Event{
			Kind:         realtime.EventNotificationCreated,
			Notification: notification,
		})
	}
}
