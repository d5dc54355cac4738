package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/config"
	"github.com/spec-kit/guild-tickets/internal/events"
	"github.com/spec-kit/guild-tickets/internal/platform"
	apperrors "github.com/spec-kit/guild-tickets/pkg/util"
)

func newPanelFixture(gateway *fakeGateway) *PanelService {
	return NewPanelService(gateway, events.NewInMemoryDispatcher(), zap.NewNop(),
		config.BrandConfig{Name: "4hats", ThemeColor: 0x111827}, "ticketes")
}

func TestPostPanel(t *testing.T) {
	gateway := newFakeGateway(testBot)
	gateway.addChannel(platform.Channel{ID: "help-1", Name: "ticketes", Type: platform.ChannelTypeText})

	panel := newPanelFixture(gateway)
	require.NoError(t, panel.PostPanel(context.Background(), testGuild, "admin-1"))

	msgs := gateway.messages["help-1"]
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Embeds, 1)
	assert.Equal(t, "4hats — Ticket system", msgs[0].Embeds[0].Title)
	require.Len(t, msgs[0].Rows, 1)
	assert.Equal(t, "open_ticket", msgs[0].Rows[0].Components[0].CustomID)
}

func TestPostPanelMissingHelpChannel(t *testing.T) {
	gateway := newFakeGateway(testBot)
	gateway.addChannel(platform.Channel{ID: "c1", Name: "general", Type: platform.ChannelTypeText})

	panel := newPanelFixture(gateway)
	err := panel.PostPanel(context.Background(), testGuild, "admin-1")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestPostPanelIgnoresCategoryWithSameName(t *testing.T) {
	gateway := newFakeGateway(testBot)
	gateway.addChannel(platform.Channel{ID: "cat-1", Name: "ticketes", Type: platform.ChannelTypeCategory})
	gateway.addChannel(platform.Channel{ID: "help-1", Name: "Ticketes", Type: platform.ChannelTypeText})

	panel := newPanelFixture(gateway)
	require.NoError(t, panel.PostPanel(context.Background(), testGuild, "admin-1"))
	assert.Len(t, gateway.messages["help-1"], 1)
}
