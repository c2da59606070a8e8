package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/zhouzirui/calm-companion/backend/internal/model/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

// Key is the storage key the profile record lives under.
const Key = "userContext"

// Store loads and saves the whole profile record as one JSON blob.
type Store struct {
	kv kv.Store
}

// NewStore wraps a key/value backend.
func NewStore(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Load returns the stored profile. A missing, unreadable or corrupt record
// yields the default profile; none of those cases is reported to the caller.
func (s *Store) Load(ctx context.Context) profile.UserProfile {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return profile.Default()
	}
	if err != nil {
		log.Printf("[profile] read failed, using defaults: %v", err)
		return profile.Default()
	}

	var p profile.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("[profile] stored record is corrupt, using defaults: %v", err)
		return profile.Default()
	}
	return p.Normalize()
}

// Save overwrites the stored record.
func (s *Store) Save(ctx context.Context, p profile.UserProfile) error {
	data, err := json.Marshal(p.Normalize())
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := s.kv.Put(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Reset removes the stored record so the next Load returns defaults.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("resetting profile: %w", err)
	}
	return nil
}

// SetNameIfEmpty fills the display name unless the user already has one.
func (s *Store) SetNameIfEmpty(ctx context.Context, name string) error {
	p := s.Load(ctx)
	if p.Name != "" || name == "" {
		return nil
	}
	p.Name = name
	return s.Save(ctx, p)
}
