// Package interaction decodes inbound platform interaction payloads into a
// tagged variant type once, at the boundary. The rest of the system never
// touches the custom-ID wire strings.
package interaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire identifiers for the interaction surface.
const (
	CommandSetupTickets  = "setup_tickets"
	CustomIDOpenTicket   = "open_ticket"
	CustomIDSelectDomain = "select_domain"
	CustomIDCloseTicket  = "close_ticket"
	ModalPrefix          = "ticket_modal:"
	ModalFieldDesc       = "desc"
)

// Kind discriminates decoded interaction events.
type Kind int

const (
	KindUnknown Kind = iota
	KindPing
	KindSetupCommand
	KindOpenButton
	KindDomainSelect
	KindModalSubmit
	KindCloseButton
)

// Event is a decoded inbound interaction.
type Event struct {
	Kind        Kind
	GuildID     string
	ChannelID   string
	ChannelName string
	UserID      string
	Username    string

	// Domain is set for KindDomainSelect and KindModalSubmit.
	Domain string
	// Description is set for KindModalSubmit.
	Description string
}

// Interaction wire types.
const (
	wireTypePing        = 1
	wireTypeCommand     = 2
	wireTypeComponent   = 3
	wireTypeModalSubmit = 5
)

type wireUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type wireModalComponent struct {
	Type       int                  `json:"type"`
	CustomID   string               `json:"custom_id"`
	Value      string               `json:"value"`
	Components []wireModalComponent `json:"components"`
}

type wirePayload struct {
	Type      int    `json:"type"`
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	Channel   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
	Member *struct {
		User wireUser `json:"user"`
	} `json:"member"`
	User *wireUser `json:"user"`
	Data struct {
		Name       string               `json:"name"`
		CustomID   string               `json:"custom_id"`
		Values     []string             `json:"values"`
		Components []wireModalComponent `json:"components"`
	} `json:"data"`
}

// Parse decodes a raw interaction callback body. Unrecognized commands and
// component IDs decode to KindUnknown rather than an error; only a body that
// is not an interaction at all fails.
func Parse(raw []byte) (Event, error) {
	var p wirePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Event{}, fmt.Errorf("decode interaction: %w", err)
	}

	ev := Event{
		GuildID:     p.GuildID,
		ChannelID:   p.ChannelID,
		ChannelName: p.Channel.Name,
	}
	if p.Member != nil {
		ev.UserID = p.Member.User.ID
		ev.Username = p.Member.User.Username
	} else if p.User != nil {
		ev.UserID = p.User.ID
		ev.Username = p.User.Username
	}

	switch p.Type {
	case wireTypePing:
		ev.Kind = KindPing
	case wireTypeCommand:
		if p.Data.Name == CommandSetupTickets {
			ev.Kind = KindSetupCommand
		}
	case wireTypeComponent:
		switch {
		case p.Data.CustomID == CustomIDOpenTicket:
			ev.Kind = KindOpenButton
		case p.Data.CustomID == CustomIDSelectDomain:
			ev.Kind = KindDomainSelect
			if len(p.Data.Values) > 0 {
				ev.Domain = p.Data.Values[0]
			}
		case p.Data.CustomID == CustomIDCloseTicket:
			ev.Kind = KindCloseButton
		}
	case wireTypeModalSubmit:
		if strings.HasPrefix(p.Data.CustomID, ModalPrefix) {
			ev.Kind = KindModalSubmit
			ev.Domain = strings.TrimPrefix(p.Data.CustomID, ModalPrefix)
			ev.Description = modalFieldValue(p.Data.Components, ModalFieldDesc)
		}
	}
	return ev, nil
}

// ModalCustomID builds the modal identifier carrying the chosen domain.
func ModalCustomID(domain string) string {
	return ModalPrefix + domain
}

func modalFieldValue(components []wireModalComponent, fieldID string) string {
	for _, c := range components {
		if c.CustomID == fieldID {
			return c.Value
		}
		if v := modalFieldValue(c.Components, fieldID); v != "" {
			return v
		}
	}
	return ""
}
