package platform

import "time"

// Wire representations of UI payloads, shared by the REST client and the
// interaction callback responses.

// Component type discriminators on the wire.
const (
	wireTypeRow       = 1
	wireTypeButton    = 2
	wireTypeSelect    = 3
	wireTypeTextInput = 4
)

// WireComponent is a component in platform wire form.
type WireComponent struct {
	Type        int                `json:"type"`
	Style       int                `json:"style,omitempty"`
	Label       string             `json:"label,omitempty"`
	CustomID    string             `json:"custom_id,omitempty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Options     []WireSelectOption `json:"options,omitempty"`
	MaxLength   int                `json:"max_length,omitempty"`
	Required    bool               `json:"required,omitempty"`
}

// WireSelectOption is a select menu entry in wire form.
type WireSelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// WireRow is an action row in wire form.
type WireRow struct {
	Type       int             `json:"type"`
	Components []WireComponent `json:"components"`
}

// EncodeRows converts action rows to their wire form.
func EncodeRows(rows []ActionRow) []WireRow {
	out := make([]WireRow, 0, len(rows))
	for _, row := range rows {
		wr := WireRow{Type: wireTypeRow}
		for _, comp := range row.Components {
			wc := WireComponent{
				Style:       comp.Style,
				Label:       comp.Label,
				CustomID:    comp.CustomID,
				Placeholder: comp.Placeholder,
				MaxLength:   comp.MaxLength,
				Required:    comp.Required,
			}
			switch comp.Kind {
			case ComponentButton:
				wc.Type = wireTypeButton
			case ComponentSelect:
				wc.Type = wireTypeSelect
				for _, opt := range comp.Options {
					wc.Options = append(wc.Options, WireSelectOption{Label: opt.Label, Value: opt.Value})
				}
			case ComponentTextInput:
				wc.Type = wireTypeTextInput
			}
			wr.Components = append(wr.Components, wc)
		}
		out = append(out, wr)
	}
	return out
}

// WireEmbed is an embed in wire form.
type WireEmbed struct {
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Color       int              `json:"color,omitempty"`
	Thumbnail   *wireThumb       `json:"thumbnail,omitempty"`
	Fields      []WireEmbedField `json:"fields,omitempty"`
	Timestamp   string           `json:"timestamp,omitempty"`
}

type wireThumb struct {
	URL string `json:"url"`
}

// WireEmbedField is an embed field in wire form.
type WireEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EncodeEmbeds converts embeds to their wire form.
func EncodeEmbeds(embeds []Embed) []WireEmbed {
	out := make([]WireEmbed, 0, len(embeds))
	for _, e := range embeds {
		we := WireEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		if e.Thumbnail != "" {
			we.Thumbnail = &wireThumb{URL: e.Thumbnail}
		}
		for _, f := range e.Fields {
			we.Fields = append(we.Fields, WireEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Timestamp != nil {
			we.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
		}
		out = append(out, we)
	}
	return out
}
