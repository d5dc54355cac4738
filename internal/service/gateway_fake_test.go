package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/guild-tickets/internal/platform"
)

// fakeGateway is an in-memory platform for service tests.
type fakeGateway struct {
	botID   string
	roles   []platform.Role
	members map[string]*platform.Member

	channels      map[string]*platform.Channel
	nextChannelID int

	messages   map[string][]platform.Message
	dms        map[string][]string
	overwrites map[string][]platform.Overwrite
	parents    map[string]string
	deleted    []string

	failCreate bool
	failDM     bool
	failRename bool
}

func newFakeGateway(botID string) *fakeGateway {
	return &fakeGateway{
		botID:      botID,
		members:    map[string]*platform.Member{},
		channels:   map[string]*platform.Channel{},
		messages:   map[string][]platform.Message{},
		dms:        map[string][]string{},
		overwrites: map[string][]platform.Overwrite{},
		parents:    map[string]string{},
	}
}

func (g *fakeGateway) addChannel(ch platform.Channel) {
	copied := ch
	g.channels[ch.ID] = &copied
}

func (g *fakeGateway) BotUserID() string { return g.botID }

func (g *fakeGateway) Channel(_ context.Context, channelID string) (*platform.Channel, error) {
	ch, ok := g.channels[channelID]
	if !ok {
		return nil, errors.New("channel not found")
	}
	copied := *ch
	return &copied, nil
}

func (g *fakeGateway) GuildRoles(context.Context, string) ([]platform.Role, error) {
	return g.roles, nil
}

func (g *fakeGateway) GuildMember(_ context.Context, _, userID string) (*platform.Member, error) {
	member, ok := g.members[userID]
	if !ok {
		return nil, errors.New("member not found")
	}
	return member, nil
}

func (g *fakeGateway) GuildChannels(context.Context, string) ([]platform.Channel, error) {
	out := make([]platform.Channel, 0, len(g.channels))
	for _, ch := range g.channels {
		out = append(out, *ch)
	}
	return out, nil
}

func (g *fakeGateway) CreateChannel(_ context.Context, _ string, params platform.CreateChannelParams) (*platform.Channel, error) {
	if g.failCreate {
		return nil, errors.New("channel creation rejected")
	}
	g.nextChannelID++
	ch := platform.Channel{
		ID:       fmt.Sprintf("chan-%d", g.nextChannelID),
		Name:     params.Name,
		Topic:    params.Topic,
		ParentID: params.ParentID,
		Type:     params.Type,
	}
	g.channels[ch.ID] = &ch
	g.overwrites[ch.ID] = append([]platform.Overwrite{}, params.Overwrites...)
	copied := ch
	return &copied, nil
}

func (g *fakeGateway) DeleteChannel(_ context.Context, channelID, _ string) error {
	if _, ok := g.channels[channelID]; !ok {
		return errors.New("channel not found")
	}
	delete(g.channels, channelID)
	g.deleted = append(g.deleted, channelID)
	return nil
}

func (g *fakeGateway) RenameChannel(_ context.Context, channelID, name string) error {
	if g.failRename {
		return errors.New("rename rejected")
	}
	ch, ok := g.channels[channelID]
	if !ok {
		return errors.New("channel not found")
	}
	ch.Name = name
	return nil
}

func (g *fakeGateway) SetChannelParent(_ context.Context, channelID, parentID string) error {
	ch, ok := g.channels[channelID]
	if !ok {
		return errors.New("channel not found")
	}
	ch.ParentID = parentID
	g.parents[channelID] = parentID
	return nil
}

func (g *fakeGateway) EditOverwrite(_ context.Context, channelID string, ow platform.Overwrite) error {
	g.overwrites[channelID] = append(g.overwrites[channelID], ow)
	return nil
}

func (g *fakeGateway) SendMessage(_ context.Context, channelID string, msg platform.Message) error {
	g.messages[channelID] = append(g.messages[channelID], msg)
	return nil
}

func (g *fakeGateway) SendDirectMessage(_ context.Context, userID, content string) error {
	if g.failDM {
		return errors.New("cannot message this user")
	}
	g.dms[userID] = append(g.dms[userID], content)
	return nil
}
