package storage

import "slices"

// Kind distinguishes whitelist targets.
type Kind string

const (
	KindUser Kind = "user"
	KindRole Kind = "role"
)

const defaultGracePeriodSeconds = 30

// Settings is the single persisted configuration record. New fields must
// carry a default in defaultSettings so that older records load cleanly.
type Settings struct {
	Enabled               bool                `json:"enabled"`
	KickMode              bool                `json:"kick_mode"`
	AdminRoleID           string              `json:"admin_role_id"`
	GeneralVoiceChannelID string              `json:"general_voice_channel_id"`
	NotifyChannelID       string              `json:"notify_channel_id"`
	GracePeriodSeconds    int                 `json:"game_close_grace_period_seconds"`
	WhitelistedRoleIDs    []string            `json:"whitelisted_role_ids"`
	WhitelistedUserIDs    []string            `json:"whitelisted_user_ids"`
	RestrictedChannels    map[string][]string `json:"restricted_channels"`
}

func defaultSettings() *Settings {
	return &Settings{
		Enabled:            false,
		KickMode:           true,
		GracePeriodSeconds: defaultGracePeriodSeconds,
		WhitelistedRoleIDs: []string{},
		WhitelistedUserIDs: []string{},
		RestrictedChannels: map[string][]string{},
	}
}

// normalize repairs a record loaded from an older or hand-edited file:
// nil collections are materialized and empty restriction lists dropped
// (a restricted channel always maps to at least one game).
func (s *Settings) normalize() {
	if s.WhitelistedRoleIDs == nil {
		s.WhitelistedRoleIDs = []string{}
	}
	if s.WhitelistedUserIDs == nil {
		s.WhitelistedUserIDs = []string{}
	}
	if s.RestrictedChannels == nil {
		s.RestrictedChannels = map[string][]string{}
	}
	for channelID, games := range s.RestrictedChannels {
		if len(games) == 0 {
			delete(s.RestrictedChannels, channelID)
		}
	}
	if s.GracePeriodSeconds < 0 {
		s.GracePeriodSeconds = defaultGracePeriodSeconds
	}
}

// Claimed reports whether an admin role has been bound to this installation.
func (s *Settings) Claimed() bool {
	return s.AdminRoleID != ""
}

// GamesFor returns the allow-list for a voice channel, if it is restricted.
func (s *Settings) GamesFor(channelID string) ([]string, bool) {
	games, ok := s.RestrictedChannels[channelID]
	return games, ok
}

// IsWhitelisted reports whether a member is exempt from all restriction
// checks, either by user ID or by holding any whitelisted role.
func (s *Settings) IsWhitelisted(userID string, roleIDs []string) bool {
	if slices.Contains(s.WhitelistedUserIDs, userID) {
		return true
	}
	for _, roleID := range roleIDs {
		if slices.Contains(s.WhitelistedRoleIDs, roleID) {
			return true
		}
	}
	return false
}
