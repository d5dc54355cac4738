package worker

import (
	"github.com/spec-kit/guild-tickets/internal/service"
)

// StartNotificationWorker registers audit-log notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
