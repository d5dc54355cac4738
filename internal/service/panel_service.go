package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/config"
	"github.com/spec-kit/guild-tickets/internal/events"
	"github.com/spec-kit/guild-tickets/internal/interaction"
	"github.com/spec-kit/guild-tickets/internal/platform"
	apperrors "github.com/spec-kit/guild-tickets/pkg/util"
)

// PanelService posts the ticket intake panel into the help channel.
type PanelService struct {
	gateway     platform.Gateway
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	brand       config.BrandConfig
	helpChannel string
}

// NewPanelService constructs the service.
func NewPanelService(gateway platform.Gateway, dispatcher events.Dispatcher, logger *zap.Logger, brand config.BrandConfig, helpChannel string) *PanelService {
	return &PanelService{
		gateway:     gateway,
		dispatcher:  dispatcher,
		logger:      logger,
		brand:       brand,
		helpChannel: helpChannel,
	}
}

// PostPanel posts the branded intake panel into the configured help channel.
// A guild without a text channel of that name is a validation rejection.
func (s *PanelService) PostPanel(ctx context.Context, guildID, actorID string) error {
	channels, err := s.gateway.GuildChannels(ctx, guildID)
	if err != nil {
		return err
	}

	var help *platform.Channel
	for i := range channels {
		if channels[i].Type == platform.ChannelTypeText && strings.ToLower(channels[i].Name) == s.helpChannel {
			help = &channels[i]
			break
		}
	}
	if help == nil {
		return apperrors.NewValidationError(
			fmt.Sprintf("I did not find a channel named #%s. Create it and try again.", s.helpChannel), nil)
	}

	if err := s.gateway.SendMessage(ctx, help.ID, s.panelMessage()); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPanelPosted,
			GuildID:   guildID,
			ChannelID: help.ID,
			Actor:     events.Actor{UserID: actorID},
			Timestamp: time.Now(),
			Payload:   events.PanelPostedPayload{HelpChannel: s.helpChannel},
		})
	}
	return nil
}

// HelpChannelName names the channel the open button is gated to.
func (s *PanelService) HelpChannelName() string {
	return s.helpChannel
}

func (s *PanelService) panelMessage() platform.Message {
	embed := platform.Embed{
		Title:       fmt.Sprintf("%s — Ticket system", s.brand.Name),
		Description: "Click the button below to open a ticket, then choose the category and provide a brief description.",
		Color:       s.brand.ThemeColor,
		Thumbnail:   s.brand.LogoURL,
	}
	openRow := platform.ActionRow{Components: []platform.Component{{
		Kind:     platform.ComponentButton,
		CustomID: interaction.CustomIDOpenTicket,
		Label:    "Open ticket",
		Style:    platform.ButtonStyleSuccess,
	}}}
	return platform.Message{Embeds: []platform.Embed{embed}, Rows: []platform.ActionRow{openRow}}
}
