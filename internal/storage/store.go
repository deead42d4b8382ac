package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrGeneralChannelUnset is returned when enabling restrictions
	// without a configured relocation target.
	ErrGeneralChannelUnset = errors.New("general voice channel is not set")
	// ErrNoGames is returned when restricting a channel to an empty game list.
	ErrNoGames = errors.New("restriction requires at least one game")
)

// Backend persists the serialized settings record.
type Backend interface {
	// Load returns the raw record. ok is false when no record has been
	// persisted yet.
	Load() (data []byte, ok bool, err error)
	Save(data []byte) error
	Close() error
}

// Store is the configuration store. Every mutation is read-latest,
// mutate, persist under a single lock, so no update is ever lost to a
// concurrent writer and no in-memory copy goes stale across operations.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	claimToken string
}

// New opens a store over the given backend. When the installation is
// unclaimed a fresh one-shot claim token is generated for this process.
func New(backend Backend) (*Store, error) {
	st := &Store{backend: backend}

	settings, err := st.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.Claimed() {
		st.claimToken = uuid.NewString()
	}
	return st, nil
}

func (st *Store) Close() error {
	return st.backend.Close()
}

// ClaimToken returns the process-lifetime claim token, or "" when the
// installation is already claimed.
func (st *Store) ClaimToken() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.claimToken
}

// Load returns the current settings.
func (st *Store) Load() (*Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.load()
}

// load reads the latest persisted record, backfilling defaults for any
// absent field. Callers must hold st.mu.
func (st *Store) load() (*Settings, error) {
	settings := defaultSettings()

	data, ok, err := st.backend.Load()
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("settings record is malformed: %w", err)
		}
	}
	settings.normalize()
	return settings, nil
}

// save persists a record. Callers must hold st.mu.
func (st *Store) save(settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return st.backend.Save(data)
}

// update runs a mutation as a read-modify-write transaction.
func (st *Store) update(fn func(*Settings) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	settings, err := st.load()
	if err != nil {
		return err
	}
	if err := fn(settings); err != nil {
		return err
	}
	return st.save(settings)
}

// Claim binds the admin role to an unclaimed installation. It returns
// false without mutating when the installation is already claimed or the
// code does not match the live claim token.
func (st *Store) Claim(code, roleID string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	settings, err := st.load()
	if err != nil {
		return false, err
	}
	if settings.Claimed() {
		return false, nil
	}
	if st.claimToken == "" || code != st.claimToken {
		return false, nil
	}

	settings.AdminRoleID = roleID
	if err := st.save(settings); err != nil {
		return false, err
	}
	st.claimToken = ""
	return true, nil
}

// IsAuthorized reports whether a member holding the given roles may run
// administrative operations. Unclaimed installations authorize nobody.
func (st *Store) IsAuthorized(roleIDs []string) bool {
	settings, err := st.Load()
	if err != nil {
		return false
	}
	if !settings.Claimed() {
		return false
	}
	return slices.Contains(roleIDs, settings.AdminRoleID)
}

// Set updates one of the generic settable fields from its textual value.
// It returns false for unknown fields and for invalid values (negative
// grace period), without mutating.
func (st *Store) Set(field, value string) (bool, error) {
	var apply func(*Settings)

	switch field {
	case "general_voice_channel_id":
		apply = func(s *Settings) { s.GeneralVoiceChannelID = value }
	case "notify_channel_id":
		apply = func(s *Settings) { s.NotifyChannelID = value }
	case "admin_role_id":
		apply = func(s *Settings) { s.AdminRoleID = value }
	case "game_close_grace_period_seconds":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 {
			return false, nil
		}
		apply = func(s *Settings) { s.GracePeriodSeconds = seconds }
	default:
		return false, nil
	}

	err := st.update(func(s *Settings) error {
		apply(s)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetEnabled toggles the master switch. Enabling requires a configured
// general voice channel to relocate offenders into.
func (st *Store) SetEnabled(enabled bool) error {
	return st.update(func(s *Settings) error {
		if enabled && s.GeneralVoiceChannelID == "" {
			return ErrGeneralChannelUnset
		}
		s.Enabled = enabled
		return nil
	})
}

// SetKickMode toggles between relocating offenders (true) and muting
// them in place (false).
func (st *Store) SetKickMode(kick bool) error {
	return st.update(func(s *Settings) error {
		s.KickMode = kick
		return nil
	})
}

// Whitelist adds or removes a user or role exemption. It returns false
// when the requested state already holds.
func (st *Store) Whitelist(id string, kind Kind, remove bool) (bool, error) {
	changed := false
	err := st.update(func(s *Settings) error {
		list := &s.WhitelistedUserIDs
		if kind == KindRole {
			list = &s.WhitelistedRoleIDs
		}

		present := slices.Contains(*list, id)
		switch {
		case !remove && !present:
			*list = append(*list, id)
			changed = true
		case remove && present:
			*list = slices.DeleteFunc(*list, func(v string) bool { return v == id })
			changed = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// RestrictChannel replaces the game allow-list for a voice channel.
func (st *Store) RestrictChannel(channelID string, games []string) error {
	if len(games) == 0 {
		return ErrNoGames
	}
	return st.update(func(s *Settings) error {
		s.RestrictedChannels[channelID] = slices.Clone(games)
		return nil
	})
}

// ReleaseChannel lifts all restrictions from a voice channel. It returns
// false when the channel was not restricted.
func (st *Store) ReleaseChannel(channelID string) (bool, error) {
	released := false
	err := st.update(func(s *Settings) error {
		if _, ok := s.RestrictedChannels[channelID]; ok {
			delete(s.RestrictedChannels, channelID)
			released = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return released, nil
}
