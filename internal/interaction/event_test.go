package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePing(t *testing.T) {
	ev, err := Parse([]byte(`{"type":1}`))
	require.NoError(t, err)
	assert.Equal(t, KindPing, ev.Kind)
}

func TestParseSetupCommand(t *testing.T) {
	raw := `{"type":2,"guild_id":"g1","channel_id":"c1",
		"member":{"user":{"id":"u1","username":"alice"}},
		"data":{"name":"setup_tickets"}}`
	ev, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, KindSetupCommand, ev.Kind)
	assert.Equal(t, "g1", ev.GuildID)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, "alice", ev.Username)
}

func TestParseComponents(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		values   string
		want     Kind
	}{
		{"open button", "open_ticket", "", KindOpenButton},
		{"close button", "close_ticket", "", KindCloseButton},
		{"domain select", "select_domain", `,"values":["Web"]`, KindDomainSelect},
		{"foreign component", "some_other_button", "", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"type":3,"guild_id":"g1","channel_id":"c1",
				"channel":{"id":"c1","name":"ticketes"},
				"member":{"user":{"id":"u1","username":"alice"}},
				"data":{"custom_id":"` + tt.customID + `"` + tt.values + `}}`
			ev, err := Parse([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Kind)
			if tt.want == KindDomainSelect {
				assert.Equal(t, "Web", ev.Domain)
			}
			assert.Equal(t, "ticketes", ev.ChannelName)
		})
	}
}

func TestParseModalSubmit(t *testing.T) {
	raw := `{"type":5,"guild_id":"g1","channel_id":"c1",
		"member":{"user":{"id":"u1","username":"alice"}},
		"data":{"custom_id":"ticket_modal:PWN","components":[
			{"type":1,"components":[{"type":4,"custom_id":"desc","value":"rop chain help"}]}
		]}}`
	ev, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, KindModalSubmit, ev.Kind)
	assert.Equal(t, "PWN", ev.Domain)
	assert.Equal(t, "rop chain help", ev.Description)
}

func TestParseNotJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}

func TestModalCustomID(t *testing.T) {
	assert.Equal(t, "ticket_modal:Web", ModalCustomID("Web"))
}
