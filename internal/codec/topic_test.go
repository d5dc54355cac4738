package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/guild-tickets/internal/domain"
)

func TestEncodeWireFormat(t *testing.T) {
	ticket := domain.Ticket{
		ID:          4,
		OpenerID:    "u1",
		Domain:      "PWN",
		RoleID:      "r1",
		Description: "help",
	}
	got := Encode(ticket)
	assert.Equal(t, `meta::{"openerId":"u1","domain":"PWN","roleId":"r1","ticketId":4,"desc":"help"}`, got)
}

func TestRoundTrip(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: 1, OpenerID: "42", Domain: "Web", RoleID: "99", Description: "SQL injection on login page"},
		{ID: 9999, OpenerID: "user-a", Domain: "Reverse engineering", RoleID: "role-b", Description: ""},
		{ID: 7, OpenerID: "u", Domain: "MISC", RoleID: "r", Description: `it says "access denied" twice`},
		{ID: 8, OpenerID: "u", Domain: "PWN", RoleID: "r", Description: `crash in strcpy at C:\bin\app.exe`},
		{ID: 9, OpenerID: "u", Domain: "Web", RoleID: "r", Description: "step one\nstep two\n\tstep three"},
	}
	for _, ticket := range tickets {
		decoded := Decode(Encode(ticket))
		require.NotNil(t, decoded)
		assert.Equal(t, ticket, *decoded)
	}
}

func TestEncodeTruncatesDescription(t *testing.T) {
	long := strings.Repeat("a", 400)
	encoded := Encode(domain.Ticket{ID: 1, OpenerID: "u", Domain: "Web", RoleID: "r", Description: long})

	decoded := Decode(encoded)
	require.NotNil(t, decoded)
	assert.Len(t, decoded.Description, domain.MetaDescriptionLimit)
	assert.Less(t, len(encoded), 1024)
}

func TestEncodeSurvivesPastedDescriptions(t *testing.T) {
	// paragraph input passes through backslashes, line breaks and stray
	// control characters; the topic must stay decodable or the ticket could
	// never be closed
	for _, desc := range []string{
		`payload was "\x41\x41\x41\x41"`,
		"first line\r\nsecond line",
		"bell\x07and null\x00bytes",
		strings.Repeat("\n", domain.MetaDescriptionLimit),
	} {
		encoded := Encode(domain.Ticket{ID: 1, OpenerID: "u", Domain: "PWN", RoleID: "r", Description: desc})
		decoded := Decode(encoded)
		require.NotNil(t, decoded, "desc %q", desc)
		assert.Less(t, len(encoded), 1024)
	}

	decoded := Decode(Encode(domain.Ticket{ID: 1, OpenerID: "u", Domain: "PWN", RoleID: "r", Description: "bell\x07ring"}))
	require.NotNil(t, decoded)
	assert.Equal(t, "bell ring", decoded.Description, "control characters become spaces")
}

func TestDecodeNotATicket(t *testing.T) {
	for _, topic := range []string{
		"",
		"general chat for the team",
		"meta:: not json",
		"meta::[1,2,3]",
		"meta::{broken",
		"almost meta:{}",
	} {
		assert.Nil(t, Decode(topic), "topic %q", topic)
	}
}

func TestDecodeMarkerMidString(t *testing.T) {
	topic := `Support channel — meta::{"openerId":"u1","domain":"OSINT","roleId":"r2","ticketId":12,"desc":"x"}`
	decoded := Decode(topic)
	require.NotNil(t, decoded)
	assert.Equal(t, 12, decoded.ID)
	assert.Equal(t, "OSINT", decoded.Domain)
}
