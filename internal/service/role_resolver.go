package service

import (
	"context"

	"github.com/spec-kit/guild-tickets/internal/platform"
)

// RoleResolver maps a ticket domain to the role authorized to handle it.
type RoleResolver struct {
	roleMap map[string]string
	gateway platform.Gateway
}

// NewRoleResolver constructs the resolver. roleMap holds the explicit
// per-domain overrides from configuration; empty values fall through to
// name lookup.
func NewRoleResolver(roleMap map[string]string, gateway platform.Gateway) *RoleResolver {
	return &RoleResolver{roleMap: roleMap, gateway: gateway}
}

// ResolveRole returns the role ID for a domain: the configured mapping
// first, otherwise the guild role whose display name equals the domain
// exactly (case-sensitive). An empty result with nil error means the
// category is not configured; callers must refuse ticket creation then.
func (r *RoleResolver) ResolveRole(ctx context.Context, guildID, dom string) (string, error) {
	if id := r.roleMap[dom]; id != "" {
		return id, nil
	}
	roles, err := r.gateway.GuildRoles(ctx, guildID)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if role.Name == dom {
			return role.ID, nil
		}
	}
	return "", nil
}
