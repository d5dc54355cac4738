package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://discord.com/api/v10"

// RESTConfig configures the REST gateway client.
type RESTConfig struct {
	Token     string
	BotUserID string
	BaseURL   string
	Timeout   time.Duration
}

// restGateway implements Gateway over the platform's REST API.
type restGateway struct {
	client    *http.Client
	token     string
	botUserID string
	baseURL   string
	logger    *zap.Logger

	dmMu       sync.Mutex
	dmChannels map[string]string
}

// NewREST builds a Gateway speaking the platform's REST API.
func NewREST(cfg RESTConfig, logger *zap.Logger) Gateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &restGateway{
		client:     &http.Client{Timeout: timeout},
		token:      cfg.Token,
		botUserID:  cfg.BotUserID,
		baseURL:    baseURL,
		logger:     logger,
		dmChannels: map[string]string{},
	}
}

func (g *restGateway) BotUserID() string {
	return g.botUserID
}

type wireRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type wireMember struct {
	User  wireUser `json:"user"`
	Roles []string `json:"roles"`
}

type wireChannel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Topic    string `json:"topic"`
	ParentID string `json:"parent_id"`
	Type     int    `json:"type"`
}

type wireOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
}

func (g *restGateway) Channel(ctx context.Context, channelID string) (*Channel, error) {
	var raw wireChannel
	if err := g.do(ctx, http.MethodGet, "/channels/"+channelID, nil, &raw, ""); err != nil {
		return nil, err
	}
	ch := channelFromWire(raw)
	return &ch, nil
}

func (g *restGateway) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	var raw []wireRole
	if err := g.do(ctx, http.MethodGet, "/guilds/"+guildID+"/roles", nil, &raw, ""); err != nil {
		return nil, err
	}
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, Role{ID: r.ID, Name: r.Name})
	}
	return roles, nil
}

func (g *restGateway) GuildMember(ctx context.Context, guildID, userID string) (*Member, error) {
	var raw wireMember
	if err := g.do(ctx, http.MethodGet, "/guilds/"+guildID+"/members/"+userID, nil, &raw, ""); err != nil {
		return nil, err
	}
	return &Member{UserID: raw.User.ID, Username: raw.User.Username, RoleIDs: raw.Roles}, nil
}

func (g *restGateway) GuildChannels(ctx context.Context, guildID string) ([]Channel, error) {
	var raw []wireChannel
	if err := g.do(ctx, http.MethodGet, "/guilds/"+guildID+"/channels", nil, &raw, ""); err != nil {
		return nil, err
	}
	channels := make([]Channel, 0, len(raw))
	for _, c := range raw {
		channels = append(channels, channelFromWire(c))
	}
	return channels, nil
}

func (g *restGateway) CreateChannel(ctx context.Context, guildID string, params CreateChannelParams) (*Channel, error) {
	body := map[string]any{
		"name":  params.Name,
		"type":  int(params.Type),
		"topic": params.Topic,
	}
	if params.ParentID != "" {
		body["parent_id"] = params.ParentID
	}
	if len(params.Overwrites) > 0 {
		overwrites := make([]wireOverwrite, 0, len(params.Overwrites))
		for _, ow := range params.Overwrites {
			overwrites = append(overwrites, overwriteToWire(ow))
		}
		body["permission_overwrites"] = overwrites
	}
	var raw wireChannel
	if err := g.do(ctx, http.MethodPost, "/guilds/"+guildID+"/channels", body, &raw, ""); err != nil {
		return nil, err
	}
	created := channelFromWire(raw)
	return &created, nil
}

func (g *restGateway) DeleteChannel(ctx context.Context, channelID, reason string) error {
	return g.do(ctx, http.MethodDelete, "/channels/"+channelID, nil, nil, reason)
}

func (g *restGateway) RenameChannel(ctx context.Context, channelID, name string) error {
	return g.do(ctx, http.MethodPatch, "/channels/"+channelID, map[string]any{"name": name}, nil, "")
}

func (g *restGateway) SetChannelParent(ctx context.Context, channelID, parentID string) error {
	return g.do(ctx, http.MethodPatch, "/channels/"+channelID, map[string]any{"parent_id": parentID}, nil, "")
}

func (g *restGateway) EditOverwrite(ctx context.Context, channelID string, ow Overwrite) error {
	wire := overwriteToWire(ow)
	path := "/channels/" + channelID + "/permissions/" + ow.TargetID
	return g.do(ctx, http.MethodPut, path, map[string]any{
		"type":  wire.Type,
		"allow": wire.Allow,
		"deny":  wire.Deny,
	}, nil, "")
}

func (g *restGateway) SendMessage(ctx context.Context, channelID string, msg Message) error {
	body := map[string]any{}
	if msg.Content != "" {
		body["content"] = msg.Content
	}
	if len(msg.Embeds) > 0 {
		body["embeds"] = EncodeEmbeds(msg.Embeds)
	}
	if len(msg.Rows) > 0 {
		body["components"] = EncodeRows(msg.Rows)
	}
	return g.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", body, nil, "")
}

func (g *restGateway) SendDirectMessage(ctx context.Context, userID, content string) error {
	channelID, err := g.dmChannel(ctx, userID)
	if err != nil {
		return err
	}
	return g.SendMessage(ctx, channelID, Message{Content: content})
}

func (g *restGateway) dmChannel(ctx context.Context, userID string) (string, error) {
	g.dmMu.Lock()
	cached := g.dmChannels[userID]
	g.dmMu.Unlock()
	if cached != "" {
		return cached, nil
	}

	var raw wireChannel
	err := g.do(ctx, http.MethodPost, "/users/@me/channels", map[string]any{"recipient_id": userID}, &raw, "")
	if err != nil {
		return "", err
	}
	g.dmMu.Lock()
	g.dmChannels[userID] = raw.ID
	g.dmMu.Unlock()
	return raw.ID, nil
}

func (g *restGateway) do(ctx context.Context, method, path string, body, out any, auditReason string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+g.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auditReason != "" {
		req.Header.Set("X-Audit-Log-Reason", auditReason)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		g.logger.Debug("platform request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("platform: %s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func channelFromWire(c wireChannel) Channel {
	return Channel{
		ID:       c.ID,
		Name:     c.Name,
		Topic:    c.Topic,
		ParentID: c.ParentID,
		Type:     ChannelType(c.Type),
	}
}

func overwriteToWire(ow Overwrite) wireOverwrite {
	targetType := 1 // member
	if ow.IsRole {
		targetType = 0
	}
	return wireOverwrite{
		ID:    ow.TargetID,
		Type:  targetType,
		Allow: strconv.FormatUint(uint64(ow.Allow), 10),
		Deny:  strconv.FormatUint(uint64(ow.Deny), 10),
	}
}
