package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/guild-tickets/internal/platform"
)

func TestResolveRoleExplicitMapping(t *testing.T) {
	gateway := newFakeGateway(testBot)
	gateway.roles = []platform.Role{{ID: "by-name", Name: "Web"}}
	resolver := NewRoleResolver(map[string]string{"Web": "by-config"}, gateway)

	roleID, err := resolver.ResolveRole(context.Background(), testGuild, "Web")
	require.NoError(t, err)
	assert.Equal(t, "by-config", roleID, "explicit mapping wins over name lookup")
}

func TestResolveRoleNameFallbackCaseSensitive(t *testing.T) {
	gateway := newFakeGateway(testBot)
	gateway.roles = []platform.Role{
		{ID: "r-lower", Name: "web"},
		{ID: "r-exact", Name: "Web"},
	}
	resolver := NewRoleResolver(map[string]string{}, gateway)

	roleID, err := resolver.ResolveRole(context.Background(), testGuild, "Web")
	require.NoError(t, err)
	assert.Equal(t, "r-exact", roleID)
}

func TestResolveRoleUnconfigured(t *testing.T) {
	gateway := newFakeGateway(testBot)
	resolver := NewRoleResolver(map[string]string{}, gateway)

	roleID, err := resolver.ResolveRole(context.Background(), testGuild, "Forensics")
	require.NoError(t, err)
	assert.Empty(t, roleID)
}
