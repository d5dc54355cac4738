package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/codec"
	"github.com/spec-kit/guild-tickets/internal/domain"
	"github.com/spec-kit/guild-tickets/internal/platform"
)

func ticketChannel(id string, ticket domain.Ticket) platform.Channel {
	return platform.Channel{
		ID:    id,
		Name:  domain.ChannelName("user", ticket.Domain, ticket.ID),
		Topic: codec.Encode(ticket),
		Type:  platform.ChannelTypeText,
	}
}

func TestLookupBeforeSnapshotNotAuthoritative(t *testing.T) {
	ix := New(nil, zap.NewNop())

	_, found, authoritative := ix.Lookup(context.Background(), "g1", "u1", "Web")
	assert.False(t, found)
	assert.False(t, authoritative)
}

func TestRebuildFromSnapshot(t *testing.T) {
	ix := New(nil, zap.NewNop())
	ctx := context.Background()

	ix.Rebuild(ctx, "g1", []platform.Channel{
		ticketChannel("c1", domain.Ticket{ID: 1, OpenerID: "u1", Domain: "Web", RoleID: "r1"}),
		ticketChannel("c2", domain.Ticket{ID: 2, OpenerID: "u2", Domain: "PWN", RoleID: "r2"}),
		{ID: "c3", Name: "general", Topic: "chit chat", Type: platform.ChannelTypeText},
		{ID: "c4", Name: "ticket-0009-x-web", Topic: "no metadata here", Type: platform.ChannelTypeText},
	})

	assert.True(t, ix.Ready("g1"))

	channelID, found, authoritative := ix.Lookup(ctx, "g1", "u1", "Web")
	assert.True(t, authoritative)
	assert.True(t, found)
	assert.Equal(t, "c1", channelID)

	_, found, authoritative = ix.Lookup(ctx, "g1", "u1", "PWN")
	assert.True(t, authoritative)
	assert.False(t, found)
}

func TestSnapshotIsPerGuild(t *testing.T) {
	ix := New(nil, zap.NewNop())
	ctx := context.Background()

	ix.Rebuild(ctx, "g1", nil)

	assert.True(t, ix.Ready("g1"))
	assert.False(t, ix.Ready("g2"), "g1 snapshot must not make g2 lookups authoritative")

	_, found, authoritative := ix.Lookup(ctx, "g2", "u1", "Web")
	assert.False(t, found)
	assert.False(t, authoritative, "g2 lookup without a g2 snapshot must force a scan")
}

func TestAddAndRemove(t *testing.T) {
	ix := New(nil, zap.NewNop())
	ctx := context.Background()
	ix.Rebuild(ctx, "g1", nil)

	ticket := domain.Ticket{ID: 3, OpenerID: "u1", Domain: "OSINT", RoleID: "r1"}
	ix.Add(ctx, "g1", ticket, "c9")

	channelID, found, _ := ix.Lookup(ctx, "g1", "u1", "OSINT")
	assert.True(t, found)
	assert.Equal(t, "c9", channelID)

	ix.Remove(ctx, "g1", "u1", "OSINT")
	_, found, _ = ix.Lookup(ctx, "g1", "u1", "OSINT")
	assert.False(t, found)
}

func TestRebuildReplacesGuildEntries(t *testing.T) {
	ix := New(nil, zap.NewNop())
	ctx := context.Background()

	ix.Rebuild(ctx, "g1", []platform.Channel{
		ticketChannel("c1", domain.Ticket{ID: 1, OpenerID: "u1", Domain: "Web", RoleID: "r1"}),
	})
	ix.Rebuild(ctx, "g1", []platform.Channel{
		ticketChannel("c2", domain.Ticket{ID: 2, OpenerID: "u2", Domain: "Web", RoleID: "r1"}),
	})

	_, found, _ := ix.Lookup(ctx, "g1", "u1", "Web")
	assert.False(t, found, "stale entry survived rebuild")
	_, found, _ = ix.Lookup(ctx, "g1", "u2", "Web")
	assert.True(t, found)
}
