package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/domain"
	"github.com/spec-kit/guild-tickets/internal/events"
	"github.com/spec-kit/guild-tickets/internal/platform"
)

// Audit embed colors.
const (
	colorOpened = 0x22c55e
	colorClosed = 0xef4444
)

// NotificationService emits audit-log embeds for lifecycle events. Delivery
// is best-effort by design: a missing log channel disables it and send
// failures are swallowed, never surfaced to the requesting user.
type NotificationService struct {
	gateway      platform.Gateway
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	logChannelID string
}

// NewNotificationService creates the service. An empty logChannelID disables
// audit logging entirely.
func NewNotificationService(gateway platform.Gateway, dispatcher events.Dispatcher, logger *zap.Logger, logChannelID string) *NotificationService {
	return &NotificationService{
		gateway:      gateway,
		dispatcher:   dispatcher,
		logger:       logger,
		logChannelID: logChannelID,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketOpened, n.handleTicketOpened)
	n.dispatcher.Subscribe(events.EventTicketArchived, n.handleTicketClosed)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleTicketClosed)
}

func (n *NotificationService) handleTicketOpened(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketOpened", zap.String("channel_id", event.ChannelID), zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.TicketOpenedPayload)
	if !ok {
		return nil
	}
	now := time.Now()
	n.sendAuditEmbed(ctx, platform.Embed{
		Title: fmt.Sprintf("Opened #%s — %s", domain.PadID(payload.TicketID), payload.Domain),
		Color: colorOpened,
		Fields: []platform.EmbedField{
			{Name: "user", Value: mention(event.Actor.UserID), Inline: true},
			{Name: "category", Value: payload.Domain, Inline: true},
			{Name: "channel", Value: channelMention(event.ChannelID), Inline: true},
		},
		Timestamp: &now,
	})
	return nil
}

func (n *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketClosed", zap.String("channel_id", event.ChannelID), zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return nil
	}
	now := time.Now()
	n.sendAuditEmbed(ctx, platform.Embed{
		Title: fmt.Sprintf("Closed #%s — %s", domain.PadID(payload.TicketID), payload.Domain),
		Color: colorClosed,
		Fields: []platform.EmbedField{
			{Name: "closed by", Value: mention(event.Actor.UserID), Inline: true},
			{Name: "user", Value: mention(payload.OpenerID), Inline: true},
		},
		Timestamp: &now,
	})
	return nil
}

// sendAuditEmbed delivers to the log channel, outcome ignored.
func (n *NotificationService) sendAuditEmbed(ctx context.Context, embed platform.Embed) {
	if n.logChannelID == "" {
		return
	}
	if err := n.gateway.SendMessage(ctx, n.logChannelID, platform.Message{Embeds: []platform.Embed{embed}}); err != nil {
		n.logger.Debug("audit log delivery failed", zap.Error(err))
	}
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func channelMention(channelID string) string {
	return "<#" + channelID + ">"
}
