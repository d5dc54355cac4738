package domain

import (
	"fmt"
	"strings"
)

// TicketState enumerates lifecycle states for tickets. OPEN and ARCHIVED are
// carried by the backing channel's name prefix; a deleted channel means the
// ticket record is gone with it.
type TicketState string

const (
	TicketStateOpen     TicketState = "OPEN"
	TicketStateArchived TicketState = "ARCHIVED"
	TicketStateNone     TicketState = "NONE"
)

// Channel name prefixes carrying ticket state.
const (
	TicketPrefix   = "ticket-"
	ArchivedPrefix = "archived-"
)

// Field length limits for ticket content.
const (
	// MetaDescriptionLimit bounds the description copy embedded in channel
	// metadata. The full text shown in the channel body is capped separately
	// by DisplayDescriptionLimit; the metadata copy is a summary, not the
	// authoritative content.
	MetaDescriptionLimit    = 180
	DisplayDescriptionLimit = 1000

	usernameLimit    = 16
	channelNameLimit = 100
)

// Ticket is the per-channel support request record. It is materialized only
// by decoding a channel's topic metadata; there is no standalone store.
type Ticket struct {
	ID          int
	OpenerID    string
	Domain      string
	RoleID      string
	Description string
}

// PadID renders a ticket ID in its zero-padded display form.
func PadID(id int) string {
	return fmt.Sprintf("%04d", id)
}

// ChannelName derives the deterministic channel name for a new ticket:
// ticket-<padded id>-<sanitized username>-<lowercased domain>, capped at the
// platform's 100 character channel-name limit.
func ChannelName(username, dom string, ticketID int) string {
	name := TicketPrefix + PadID(ticketID) + "-" + sanitizeUsername(username) + "-" + strings.ToLower(dom)
	if len(name) > channelNameLimit {
		name = name[:channelNameLimit]
	}
	return name
}

// ArchivedName converts an open ticket channel name to its archived form.
func ArchivedName(channelName string) string {
	if strings.HasPrefix(channelName, TicketPrefix) {
		return ArchivedPrefix + strings.TrimPrefix(channelName, TicketPrefix)
	}
	return channelName
}

// StateOfChannel reports the ticket state implied by a channel name.
func StateOfChannel(channelName string) TicketState {
	switch {
	case strings.HasPrefix(channelName, TicketPrefix):
		return TicketStateOpen
	case strings.HasPrefix(channelName, ArchivedPrefix):
		return TicketStateArchived
	default:
		return TicketStateNone
	}
}

func sanitizeUsername(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) > usernameLimit {
		clean = clean[:usernameLimit]
	}
	if clean == "" {
		clean = "user"
	}
	return clean
}
