// Package sequence provides the durable per-guild ticket ID allocator.
package sequence

import (
	"context"
	"encoding/json"
	"os"
	"sync"
)

type guildCounter struct {
	LastID int `json:"lastId"`
}

type fileState struct {
	Guilds map[string]guildCounter `json:"guilds"`
}

// Store allocates strictly increasing ticket IDs per guild, persisting the
// high-water mark to a single JSON file. Every allocation is a full read,
// in-memory increment and full rewrite; the mutex keeps read-modify-write
// cycles from interleaving when handlers overlap.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the given file path. The file is not
// touched until the first allocation.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NextID returns the next ticket ID for the guild, durably persisting the
// incremented value before returning. Values for a guild never repeat, even
// across process restarts. An ID consumed here is never reclaimed if the
// caller's later steps fail.
func (s *Store) NextID(ctx context.Context, guildID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	counter := state.Guilds[guildID]
	counter.LastID++
	state.Guilds[guildID] = counter

	if err := s.save(state); err != nil {
		return 0, err
	}
	return counter.LastID, nil
}

// LastID reports the high-water mark for a guild without allocating. Zero
// means no ticket has ever been issued.
func (s *Store) LastID(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Guilds[guildID].LastID
}

// load reads the whole counter file. A missing or unparsable file is treated
// as a fresh store with all counters at zero; recovery is silent by policy.
func (s *Store) load() fileState {
	state := fileState{Guilds: map[string]guildCounter{}}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(raw, &state); err != nil || state.Guilds == nil {
		return fileState{Guilds: map[string]guildCounter{}}
	}
	return state
}

func (s *Store) save(state fileState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
