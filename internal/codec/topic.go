// Package codec serializes ticket state into the bounded channel-topic
// string, the only durable per-ticket storage location. The wire form is a
// fixed marker followed by a JSON payload; the whole string stays under the
// platform's 1024 character topic ceiling.
package codec

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spec-kit/guild-tickets/internal/domain"
)

// Marker prefixes every encoded ticket topic. A topic without it is not a
// ticket channel.
const Marker = "meta::"

type payload struct {
	OpenerID string `json:"openerId"`
	Domain   string `json:"domain"`
	RoleID   string `json:"roleId"`
	TicketID int    `json:"ticketId"`
	Desc     string `json:"desc"`
}

// Encode renders a ticket as its topic metadata string. The description is
// capped at the metadata limit and then JSON-quoted in full, so backslashes
// and newlines from the paragraph input survive a later Decode; the displayed
// channel body keeps the longer copy.
func Encode(t domain.Ticket) string {
	desc := t.Description
	if len(desc) > domain.MetaDescriptionLimit {
		desc = desc[:domain.MetaDescriptionLimit]
	}
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString(`{"openerId":"`)
	b.WriteString(t.OpenerID)
	b.WriteString(`","domain":"`)
	b.WriteString(t.Domain)
	b.WriteString(`","roleId":"`)
	b.WriteString(t.RoleID)
	b.WriteString(`","ticketId":`)
	b.WriteString(strconv.Itoa(t.ID))
	b.WriteString(`,"desc":`)
	b.WriteString(quoteDesc(desc))
	b.WriteString(`}`)
	return b.String()
}

// quoteDesc produces a JSON string literal for the description. Control
// characters other than line breaks and tabs become spaces, which keeps the
// escaped form within twice the raw length and the whole topic under the
// platform ceiling. HTML escaping is off so punctuation stays readable in the
// channel topic.
func quoteDesc(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return ' '
		}
		return r
	}, s)
	var out strings.Builder
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.Encode(s) //nolint:errcheck
	return strings.TrimSuffix(out.String(), "\n")
}

// Decode parses a channel topic back into a ticket. It is tolerant by
// contract: a missing marker, a payload that is not a JSON object, or any
// malformed content yields nil, never an error. Callers must treat nil as
// "not a ticket channel"; foreign topic content is expected, not exceptional.
func Decode(topic string) *domain.Ticket {
	idx := strings.Index(topic, Marker)
	if idx < 0 {
		return nil
	}
	rest := topic[idx+len(Marker):]
	if !strings.HasPrefix(rest, "{") {
		return nil
	}
	end := strings.LastIndex(rest, "}")
	if end < 0 {
		return nil
	}
	var p payload
	if err := json.Unmarshal([]byte(rest[:end+1]), &p); err != nil {
		return nil
	}
	return &domain.Ticket{
		ID:          p.TicketID,
		OpenerID:    p.OpenerID,
		Domain:      p.Domain,
		RoleID:      p.RoleID,
		Description: p.Desc,
	}
}
