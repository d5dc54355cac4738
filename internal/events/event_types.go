package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened   EventType = "ticket_opened"
	EventTicketArchived EventType = "ticket_archived"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventPanelPosted    EventType = "panel_posted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string `json:"user_id"`
	// Bot is set when the service's own identity performed the action.
	Bot bool `json:"bot,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	ChannelID string      `json:"channel_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	TicketID    int    `json:"ticket_id"`
	Domain      string `json:"domain"`
	RoleID      string `json:"role_id"`
	ChannelName string `json:"channel_name"`
	DescPreview string `json:"desc_preview"`
}

// TicketClosedPayload payload, shared by the archived and deleted events.
type TicketClosedPayload struct {
	TicketID int    `json:"ticket_id"`
	Domain   string `json:"domain"`
	OpenerID string `json:"opener_id"`
	Archived bool   `json:"archived"`
}

// PanelPostedPayload payload.
type PanelPostedPayload struct {
	HelpChannel string `json:"help_channel"`
}
