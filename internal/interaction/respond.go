package interaction

import (
	"github.com/spec-kit/guild-tickets/internal/platform"
)

// Interaction callback response types on the wire.
const (
	responsePong    = 1
	responseMessage = 4
	responseModal   = 9

	flagEphemeral = 1 << 6
)

// Response is an outbound interaction callback payload.
type Response struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData carries the response content.
type ResponseData struct {
	Content    string               `json:"content,omitempty"`
	Flags      int                  `json:"flags,omitempty"`
	Embeds     []platform.WireEmbed `json:"embeds,omitempty"`
	Components []platform.WireRow   `json:"components,omitempty"`
	CustomID   string               `json:"custom_id,omitempty"`
	Title      string               `json:"title,omitempty"`
}

// Pong answers a liveness ping from the platform.
func Pong() Response {
	return Response{Type: responsePong}
}

// EphemeralMessage builds a reply only the requester sees.
func EphemeralMessage(content string, rows ...platform.ActionRow) Response {
	data := &ResponseData{Content: content, Flags: flagEphemeral}
	if len(rows) > 0 {
		data.Components = platform.EncodeRows(rows)
	}
	return Response{Type: responseMessage, Data: data}
}

// ModalResponse asks the platform to show a form dialog.
func ModalResponse(modal platform.Modal) Response {
	return Response{
		Type: responseModal,
		Data: &ResponseData{
			CustomID:   modal.CustomID,
			Title:      modal.Title,
			Components: platform.EncodeRows(modal.Rows),
		},
	}
}
