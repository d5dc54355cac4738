package service

import (
	"context"
	"strings"

	"github.com/spec-kit/guild-tickets/internal/codec"
	"github.com/spec-kit/guild-tickets/internal/domain"
	"github.com/spec-kit/guild-tickets/internal/index"
	"github.com/spec-kit/guild-tickets/internal/platform"
)

// DuplicateGuard enforces the at-most-one-open-ticket-per-user-per-domain
// policy.
type DuplicateGuard struct {
	gateway       platform.Gateway
	index         *index.OpenTickets
	allowMultiple bool
}

// NewDuplicateGuard constructs the guard. With allowMultiple the restriction
// is disabled entirely.
func NewDuplicateGuard(gateway platform.Gateway, idx *index.OpenTickets, allowMultiple bool) *DuplicateGuard {
	return &DuplicateGuard{gateway: gateway, index: idx, allowMultiple: allowMultiple}
}

// HasOpenTicket reports whether the user already has an open ticket in the
// domain. The open-ticket index answers when it holds a snapshot; otherwise
// the guard scans ticket-prefixed channels and decodes their metadata, then
// seeds the index from that snapshot so later checks skip the scan.
func (g *DuplicateGuard) HasOpenTicket(ctx context.Context, guildID, userID, dom string) (bool, error) {
	if g.allowMultiple {
		return false, nil
	}

	if channelID, found, authoritative := g.index.Lookup(ctx, guildID, userID, dom); authoritative {
		if !found {
			return false, nil
		}
		if g.ticketStillOpen(ctx, channelID, userID, dom) {
			return true, nil
		}
		// stale entry: the channel is gone or no longer this user's open
		// ticket in the domain, so it must not block a new one
		g.index.Remove(ctx, guildID, userID, dom)
		return false, nil
	}

	channels, err := g.gateway.GuildChannels(ctx, guildID)
	if err != nil {
		return false, err
	}
	g.index.Rebuild(ctx, guildID, channels)

	for _, ch := range channels {
		if ch.Type != platform.ChannelTypeText || !strings.HasPrefix(ch.Name, domain.TicketPrefix) {
			continue
		}
		meta := codec.Decode(ch.Topic)
		if meta != nil && meta.OpenerID == userID && meta.Domain == dom {
			return true, nil
		}
	}
	return false, nil
}

// ticketStillOpen re-checks an index hit against the live channel. Index
// entries can outlive their channel when a close is never observed, and a
// phantom entry would reject the user's opens forever.
func (g *DuplicateGuard) ticketStillOpen(ctx context.Context, channelID, userID, dom string) bool {
	ch, err := g.gateway.Channel(ctx, channelID)
	if err != nil {
		return false
	}
	if domain.StateOfChannel(ch.Name) != domain.TicketStateOpen {
		return false
	}
	meta := codec.Decode(ch.Topic)
	return meta != nil && meta.OpenerID == userID && meta.Domain == dom
}
