// Package platform is the boundary to the hosting chat platform. The rest of
// the system only sees the Gateway interface and these value types; transport
// details stay behind it.
package platform

import (
	"context"
	"time"
)

// Permission is a channel permission bit. Values mirror the platform's
// permission flag layout.
type Permission uint64

const (
	PermissionManageChannels     Permission = 1 << 4
	PermissionViewChannel        Permission = 1 << 10
	PermissionSendMessages       Permission = 1 << 11
	PermissionReadMessageHistory Permission = 1 << 16
)

// ChannelType distinguishes the channel kinds the service touches.
type ChannelType int

const (
	ChannelTypeText     ChannelType = 0
	ChannelTypeCategory ChannelType = 4
)

// Channel is a guild channel as seen through the gateway.
type Channel struct {
	ID       string
	Name     string
	Topic    string
	ParentID string
	Type     ChannelType
}

// Role is a guild role.
type Role struct {
	ID   string
	Name string
}

// Member is a guild member with their role memberships.
type Member struct {
	UserID   string
	Username string
	RoleIDs  []string
}

// HasRole reports whether the member holds the given role.
func (m Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Overwrite grants or denies permissions for one user or role on a channel.
type Overwrite struct {
	TargetID string
	IsRole   bool
	Allow    Permission
	Deny     Permission
}

// EmbedField is a titled value inside an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message block. It is passed through to the platform opaque
// to the ticket logic.
type Embed struct {
	Title       string
	Description string
	Color       int
	Thumbnail   string
	Fields      []EmbedField
	Timestamp   *time.Time
}

// ComponentKind enumerates interactive component types.
type ComponentKind int

const (
	ComponentButton ComponentKind = iota
	ComponentSelect
	ComponentTextInput
)

// Button styles understood by the platform.
const (
	ButtonStylePrimary = 1
	ButtonStyleSuccess = 3
	ButtonStyleDanger  = 4
)

// SelectOption is one entry of a select menu.
type SelectOption struct {
	Label string
	Value string
}

// Component is an interactive UI element keyed by its custom ID.
type Component struct {
	Kind        ComponentKind
	CustomID    string
	Label       string
	Style       int
	Placeholder string
	Options     []SelectOption
	MaxLength   int
	Required    bool
}

// ActionRow groups components on one row.
type ActionRow struct {
	Components []Component
}

// Modal is a form dialog shown in response to an interaction.
type Modal struct {
	CustomID string
	Title    string
	Rows     []ActionRow
}

// Message is an outbound channel message.
type Message struct {
	Content string
	Embeds  []Embed
	Rows    []ActionRow
}

// CreateChannelParams describes a channel to create.
type CreateChannelParams struct {
	Name       string
	Type       ChannelType
	ParentID   string
	Topic      string
	Overwrites []Overwrite
}

// Gateway exposes the platform mutations and lookups the ticket system
// needs. Every call is a suspension point that may fail; none are retried
// here.
type Gateway interface {
	// BotUserID is the service's own identity on the platform.
	BotUserID() string

	Channel(ctx context.Context, channelID string) (*Channel, error)
	GuildRoles(ctx context.Context, guildID string) ([]Role, error)
	GuildMember(ctx context.Context, guildID, userID string) (*Member, error)
	GuildChannels(ctx context.Context, guildID string) ([]Channel, error)

	CreateChannel(ctx context.Context, guildID string, params CreateChannelParams) (*Channel, error)
	DeleteChannel(ctx context.Context, channelID, reason string) error
	RenameChannel(ctx context.Context, channelID, name string) error
	SetChannelParent(ctx context.Context, channelID, parentID string) error
	EditOverwrite(ctx context.Context, channelID string, ow Overwrite) error

	SendMessage(ctx context.Context, channelID string, msg Message) error
	SendDirectMessage(ctx context.Context, userID, content string) error
}
