// Package index maintains the open-ticket index used by the duplicate
// ticket guard: which (guild, opener, domain) combinations currently have an
// open ticket channel. The channel topics remain the source of truth; the
// index is a rebuildable acceleration structure.
package index

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-tickets/internal/codec"
	"github.com/spec-kit/guild-tickets/internal/domain"
	"github.com/spec-kit/guild-tickets/internal/platform"
)

const (
	redisKeyPrefix = "tickets:open:"
	// redisTTL bounds the life of mirror entries whose close was never
	// observed (manual channel deletion, crash before Remove). A lapsed
	// entry only forces a rescan; Add and Rebuild refresh it.
	redisTTL = 7 * 24 * time.Hour
)

// OpenTickets indexes open tickets by (guild, opener, domain). The local map
// is authoritative for lookups once a snapshot has been loaded; an optional
// Redis mirror lets multiple processes share the index. Redis failures
// degrade silently to the local map.
type OpenTickets struct {
	mu    sync.RWMutex
	byKey map[string]string
	ready map[string]bool

	rdb    *redis.Client
	logger *zap.Logger
}

// New creates the index. rdb may be nil to run without the Redis mirror.
func New(rdb *redis.Client, logger *zap.Logger) *OpenTickets {
	return &OpenTickets{
		byKey:  map[string]string{},
		ready:  map[string]bool{},
		rdb:    rdb,
		logger: logger,
	}
}

// Ready reports whether a channel snapshot has been loaded for the guild,
// making local lookups for that guild authoritative. A snapshot of one guild
// says nothing about any other.
func (ix *OpenTickets) Ready(guildID string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ready[guildID]
}

// Rebuild replaces the guild's entries from a channel snapshot. Channels
// without the open-ticket prefix or without decodable metadata are skipped.
func (ix *OpenTickets) Rebuild(ctx context.Context, guildID string, channels []platform.Channel) {
	fresh := map[string]string{}
	for _, ch := range channels {
		if ch.Type != platform.ChannelTypeText || !strings.HasPrefix(ch.Name, domain.TicketPrefix) {
			continue
		}
		ticket := codec.Decode(ch.Topic)
		if ticket == nil {
			continue
		}
		fresh[key(guildID, ticket.OpenerID, ticket.Domain)] = ch.ID
	}

	ix.mu.Lock()
	for k := range ix.byKey {
		if strings.HasPrefix(k, guildID+"|") {
			delete(ix.byKey, k)
		}
	}
	for k, v := range fresh {
		ix.byKey[k] = v
	}
	ix.ready[guildID] = true
	ix.mu.Unlock()

	if ix.rdb != nil {
		for k, v := range fresh {
			if err := ix.rdb.Set(ctx, redisKeyPrefix+k, v, redisTTL).Err(); err != nil {
				ix.logger.Debug("index mirror set failed", zap.Error(err))
			}
		}
	}
}

// Add records a newly opened ticket.
func (ix *OpenTickets) Add(ctx context.Context, guildID string, ticket domain.Ticket, channelID string) {
	k := key(guildID, ticket.OpenerID, ticket.Domain)
	ix.mu.Lock()
	ix.byKey[k] = channelID
	ix.mu.Unlock()

	if ix.rdb != nil {
		if err := ix.rdb.Set(ctx, redisKeyPrefix+k, channelID, redisTTL).Err(); err != nil {
			ix.logger.Debug("index mirror set failed", zap.Error(err))
		}
	}
}

// Remove clears the entry for a closed ticket.
func (ix *OpenTickets) Remove(ctx context.Context, guildID, openerID, dom string) {
	k := key(guildID, openerID, dom)
	ix.mu.Lock()
	delete(ix.byKey, k)
	ix.mu.Unlock()

	if ix.rdb != nil {
		if err := ix.rdb.Del(ctx, redisKeyPrefix+k).Err(); err != nil {
			ix.logger.Debug("index mirror del failed", zap.Error(err))
		}
	}
}

// Lookup returns the channel ID of the user's open ticket in the domain.
// authoritative is false when no snapshot of the guild has been loaded
// locally and the mirror could not answer; callers should then fall back to
// scanning.
func (ix *OpenTickets) Lookup(ctx context.Context, guildID, openerID, dom string) (channelID string, found, authoritative bool) {
	k := key(guildID, openerID, dom)
	ix.mu.RLock()
	channelID, found = ix.byKey[k]
	ready := ix.ready[guildID]
	ix.mu.RUnlock()
	if ready {
		return channelID, found, true
	}

	if ix.rdb != nil {
		val, err := ix.rdb.Get(ctx, redisKeyPrefix+k).Result()
		switch {
		case err == nil:
			return val, true, true
		case err == redis.Nil:
			// mirror answered: no open ticket recorded there, but without a
			// local snapshot we cannot trust absence
		default:
			ix.logger.Debug("index mirror get failed", zap.Error(err))
		}
	}
	return "", false, false
}

func key(guildID, openerID, dom string) string {
	return guildID + "|" + openerID + "|" + dom
}

// NewRedis connects the optional index mirror. Unreachable Redis is a
// warning, not an error; the index works without it.
func NewRedis(addr, password string, db int, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}
	return client
}
