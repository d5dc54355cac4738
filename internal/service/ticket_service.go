package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/codec"
	"github.com/spec-kit/guild-tickets/internal/config"
	"github.com/spec-kit/guild-tickets/internal/domain"
	"github.com/spec-kit/guild-tickets/internal/events"
	"github.com/spec-kit/guild-tickets/internal/index"
	"github.com/spec-kit/guild-tickets/internal/interaction"
	"github.com/spec-kit/guild-tickets/internal/observability"
	"github.com/spec-kit/guild-tickets/internal/platform"
	"github.com/spec-kit/guild-tickets/internal/sequence"
	apperrors "github.com/spec-kit/guild-tickets/pkg/util"
)

// TicketService coordinates the ticket lifecycle: open, close, archive.
type TicketService struct {
	gateway    platform.Gateway
	sequence   *sequence.Store
	resolver   *RoleResolver
	guard      *DuplicateGuard
	index      *index.OpenTickets
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	brand      config.BrandConfig
	tickets    config.TicketsConfig
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Gateway    platform.Gateway
	Sequence   *sequence.Store
	Resolver   *RoleResolver
	Guard      *DuplicateGuard
	Index      *index.OpenTickets
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Brand      config.BrandConfig
	Tickets    config.TicketsConfig
}

// OpenInput describes a validated domain selection plus description
// submission.
type OpenInput struct {
	GuildID     string
	OpenerID    string
	Username    string
	Domain      string
	Description string
}

// OpenResult reports the created ticket and its backing channel.
type OpenResult struct {
	Ticket  domain.Ticket
	Channel platform.Channel
}

// CloseInput describes a close request made inside a ticket channel.
type CloseInput struct {
	GuildID     string
	RequesterID string
	ChannelID   string
}

// CloseResult reports the outcome of a close.
type CloseResult struct {
	Ticket   domain.Ticket
	Archived bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		gateway:    deps.Gateway,
		sequence:   deps.Sequence,
		resolver:   deps.Resolver,
		guard:      deps.Guard,
		index:      deps.Index,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		brand:      deps.Brand,
		tickets:    deps.Tickets,
	}
}

// Open performs the NONE -> OPEN transition: resolve the handling role,
// check for duplicates, allocate a durable ID, create the channel with its
// metadata topic and permission overwrites, and post the welcome message.
func (s *TicketService) Open(ctx context.Context, input OpenInput) (*OpenResult, error) {
	if !domain.ValidDomain(input.Domain) {
		return nil, apperrors.NewValidationError("Unknown category.", nil)
	}

	roleID, err := s.resolver.ResolveRole(ctx, input.GuildID, input.Domain)
	if err != nil {
		return nil, err
	}
	if roleID == "" {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("There is no role matching the category %s.", input.Domain), nil)
	}

	open, err := s.guard.HasOpenTicket(ctx, input.GuildID, input.OpenerID, input.Domain)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("You already have an open ticket in the category %s.", input.Domain), nil)
	}

	// The ID is committed durably here. If channel creation fails below the
	// value stays consumed; gaps are accepted.
	ticketID, err := s.sequence.NextID(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}

	ticket := domain.Ticket{
		ID:          ticketID,
		OpenerID:    input.OpenerID,
		Domain:      input.Domain,
		RoleID:      roleID,
		Description: input.Description,
	}
	channelName := domain.ChannelName(input.Username, input.Domain, ticketID)

	channel, err := s.gateway.CreateChannel(ctx, input.GuildID, platform.CreateChannelParams{
		Name:       channelName,
		Type:       platform.ChannelTypeText,
		ParentID:   s.tickets.CategoryID,
		Topic:      codec.Encode(ticket),
		Overwrites: s.openOverwrites(input.GuildID, input.OpenerID, roleID),
	})
	if err != nil {
		return nil, err
	}

	s.index.Add(ctx, input.GuildID, ticket, channel.ID)

	if err := s.gateway.SendMessage(ctx, channel.ID, s.welcomeMessage(ticket)); err != nil {
		// The channel exists and the ticket is live; there is no rollback of
		// applied transition steps.
		return nil, err
	}

	s.metrics.RecordTicket("opened", input.Domain)
	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketOpened,
		GuildID:   input.GuildID,
		ChannelID: channel.ID,
		Actor:     events.Actor{UserID: input.OpenerID},
		Payload: events.TicketOpenedPayload{
			TicketID:    ticketID,
			Domain:      input.Domain,
			RoleID:      roleID,
			ChannelName: channel.Name,
			DescPreview: stringPreview(input.Description, 120),
		},
	})
	return &OpenResult{Ticket: ticket, Channel: *channel}, nil
}

// Close performs the OPEN -> {ARCHIVED | DELETED} transition. The requester
// must hold the ticket's frozen role or be the service's own identity; the
// opener has no implicit close authority.
func (s *TicketService) Close(ctx context.Context, input CloseInput) (*CloseResult, error) {
	channel, err := s.gateway.Channel(ctx, input.ChannelID)
	if err != nil {
		return nil, err
	}

	ticket := codec.Decode(channel.Topic)
	if ticket == nil {
		return nil, apperrors.NewValidationError("No ticket data found.", nil)
	}

	isBot := input.RequesterID == s.gateway.BotUserID()
	if !isBot {
		member, err := s.gateway.GuildMember(ctx, input.GuildID, input.RequesterID)
		if err != nil {
			return nil, err
		}
		if !member.HasRole(ticket.RoleID) {
			return nil, apperrors.NewForbidden("You do not have the authority to close this ticket.")
		}
	}

	// Opener notification is best-effort: the outcome is ignored and never
	// blocks or fails the close.
	if err := s.gateway.SendDirectMessage(ctx, ticket.OpenerID,
		fmt.Sprintf("Thank you! Ticket #%s for the category %s has been closed.",
			domain.PadID(ticket.ID), ticket.Domain)); err != nil {
		s.logger.Debug("opener notification failed", zap.Error(err))
	}

	if s.tickets.ArchiveMode {
		if err := s.archive(ctx, channel, *ticket); err != nil {
			return nil, err
		}
	} else {
		if err := s.gateway.DeleteChannel(ctx, channel.ID, "Ticket closed"); err != nil {
			return nil, err
		}
	}

	s.index.Remove(ctx, input.GuildID, ticket.OpenerID, ticket.Domain)

	transition := "deleted"
	eventType := events.EventTicketDeleted
	if s.tickets.ArchiveMode {
		transition = "archived"
		eventType = events.EventTicketArchived
	}
	s.metrics.RecordTicket(transition, ticket.Domain)
	s.publishEvent(ctx, events.Event{
		Type:      eventType,
		GuildID:   input.GuildID,
		ChannelID: channel.ID,
		Actor:     events.Actor{UserID: input.RequesterID, Bot: isBot},
		Payload: events.TicketClosedPayload{
			TicketID: ticket.ID,
			Domain:   ticket.Domain,
			OpenerID: ticket.OpenerID,
			Archived: s.tickets.ArchiveMode,
		},
	})
	return &CloseResult{Ticket: *ticket, Archived: s.tickets.ArchiveMode}, nil
}

// archive reparents the channel, revokes write access for the handling role
// and the opener, and renames the ticket- prefix to archived-. Reparent and
// permission edits are best-effort; the rename is the authoritative state
// transition and its failure fails the close.
func (s *TicketService) archive(ctx context.Context, channel *platform.Channel, ticket domain.Ticket) error {
	if s.tickets.ArchiveCategoryID != "" {
		if err := s.gateway.SetChannelParent(ctx, channel.ID, s.tickets.ArchiveCategoryID); err != nil {
			s.logger.Debug("archive reparent failed", zap.Error(err))
		}
	}

	readOnly := platform.PermissionViewChannel | platform.PermissionReadMessageHistory
	for _, ow := range []platform.Overwrite{
		{TargetID: ticket.RoleID, IsRole: true, Allow: readOnly, Deny: platform.PermissionSendMessages},
		{TargetID: ticket.OpenerID, Allow: readOnly, Deny: platform.PermissionSendMessages},
	} {
		if err := s.gateway.EditOverwrite(ctx, channel.ID, ow); err != nil {
			s.logger.Debug("archive permission edit failed", zap.Error(err))
		}
	}

	return s.gateway.RenameChannel(ctx, channel.ID, domain.ArchivedName(channel.Name))
}

func (s *TicketService) openOverwrites(guildID, openerID, roleID string) []platform.Overwrite {
	participant := platform.PermissionViewChannel | platform.PermissionSendMessages | platform.PermissionReadMessageHistory
	return []platform.Overwrite{
		// the everyone role shares the guild's ID
		{TargetID: guildID, IsRole: true, Deny: platform.PermissionViewChannel},
		{TargetID: openerID, Allow: participant},
		{TargetID: roleID, IsRole: true, Allow: participant},
		{TargetID: s.gateway.BotUserID(), Allow: participant | platform.PermissionManageChannels},
	}
}

func (s *TicketService) welcomeMessage(ticket domain.Ticket) platform.Message {
	desc := ticket.Description
	if len(desc) > domain.DisplayDescriptionLimit {
		desc = desc[:domain.DisplayDescriptionLimit]
	}
	if desc == "" {
		desc = "—"
	}

	embed := platform.Embed{
		Title: fmt.Sprintf("%s | %s | #%s", s.brand.Name, ticket.Domain, domain.PadID(ticket.ID)),
		Description: fmt.Sprintf("👋 **Welcome!**\nA ticket has been opened for the category **%s**.\nPlease wait for a response from a specialist.",
			ticket.Domain),
		Color:     s.brand.ThemeColor,
		Thumbnail: s.brand.LogoURL,
		Fields:    []platform.EmbedField{{Name: "Description", Value: desc}},
	}

	closeRow := platform.ActionRow{Components: []platform.Component{{
		Kind:     platform.ComponentButton,
		CustomID: interaction.CustomIDCloseTicket,
		Label:    "Close ticket",
		Style:    platform.ButtonStyleDanger,
	}}}

	return platform.Message{
		Content: fmt.Sprintf("<@%s> <@&%s>", ticket.OpenerID, ticket.RoleID),
		Embeds:  []platform.Embed{embed},
		Rows:    []platform.ActionRow{closeRow},
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
