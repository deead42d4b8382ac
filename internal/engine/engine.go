// Package engine decides, for a member's present voice and activity
// state, whether they may remain unrestricted in their channel, and
// applies the configured enforcement when they may not.
package engine

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"voice-warden/internal/activity"
	"voice-warden/internal/storage"
)

// Directory is the chat-platform surface the engine acts through.
type Directory interface {
	ChannelName(channelID string) string
	MoveToChannel(ctx context.Context, guildID, userID, channelID string) error
	SetServerMute(ctx context.Context, guildID, userID string, mute bool) error
	Notify(ctx context.Context, channelID, message string) error
}

// GameValidator resolves an ambiguous broadcast to an actual game.
type GameValidator interface {
	Validate(ctx context.Context, login, channelID string) (bool, error)
}

// MemberState is a member's state at evaluation time. Evaluations are
// stateless; every trigger carries a fresh snapshot.
type MemberState struct {
	GuildID        string
	UserID         string
	Username       string
	RoleIDs        []string
	VoiceChannelID string // empty when not connected to voice
	Muted          bool   // server-mute flag
	Activity       activity.Activity
}

type Engine struct {
	store     *storage.Store
	directory Directory
	validator GameValidator
}

func New(store *storage.Store, directory Directory, validator GameValidator) *Engine {
	return &Engine{
		store:     store,
		directory: directory,
		validator: validator,
	}
}

// CheckMember runs the access decision for one member. Compliant and
// exempt members produce no side effects beyond undoing a stale mute;
// everyone else is relocated or muted per the configured mode.
func (e *Engine) CheckMember(ctx context.Context, m MemberState) error {
	settings, err := e.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.Enabled {
		return nil
	}

	if settings.IsWhitelisted(m.UserID, m.RoleIDs) {
		log.Printf("[INFO] %s(%s) is whitelisted, ignoring", m.Username, m.UserID)
		return e.liftStaleMute(ctx, settings, m)
	}

	if m.VoiceChannelID == "" {
		return nil
	}

	games, restricted := settings.GamesFor(m.VoiceChannelID)
	if !restricted {
		return e.liftStaleMute(ctx, settings, m)
	}
	if m.Activity.Kind != activity.None && slices.Contains(games, m.Activity.Game) {
		return e.liftStaleMute(ctx, settings, m)
	}

	if m.Activity.IsTwitch() {
		log.Printf("[INFO] %s(%s) is streaming, validating via Twitch...", m.Username, m.UserID)
		ok, err := e.validator.Validate(ctx, m.Activity.TwitchLogin(), m.VoiceChannelID)
		if err != nil {
			// Could not determine what they are streaming; treat as
			// non-matching and fall through to enforcement.
			log.Printf("[ERR] Twitch validation for %s(%s) failed: %v", m.Username, m.UserID, err)
		} else if ok {
			log.Printf("[INFO] %s(%s) validated via Twitch, ignoring", m.Username, m.UserID)
			return e.liftStaleMute(ctx, settings, m)
		}
	}

	return e.enforce(ctx, settings, m, games)
}

// liftStaleMute undoes a previous mute for a member who is now exempt or
// compliant. Only meaningful in mute mode.
func (e *Engine) liftStaleMute(ctx context.Context, settings *storage.Settings, m MemberState) error {
	if settings.KickMode || !m.Muted || m.VoiceChannelID == "" {
		return nil
	}
	if err := e.directory.SetServerMute(ctx, m.GuildID, m.UserID, false); err != nil {
		return fmt.Errorf("failed to unmute %s: %w", m.UserID, err)
	}
	log.Printf("[INFO] Unmuted %s(%s)", m.Username, m.UserID)
	return nil
}

func (e *Engine) enforce(ctx context.Context, settings *storage.Settings, m MemberState, games []string) error {
	channelName := e.directory.ChannelName(m.VoiceChannelID)
	gameList := strings.Join(games, ", ")
	log.Printf("[INFO] %s(%s) has failed the check for %s(%s). Acceptable games: %s",
		m.Username, m.UserID, channelName, m.VoiceChannelID, gameList)

	if settings.KickMode {
		if settings.GeneralVoiceChannelID == "" {
			return fmt.Errorf("cannot relocate %s: general voice channel is not set", m.UserID)
		}
		if err := e.directory.MoveToChannel(ctx, m.GuildID, m.UserID, settings.GeneralVoiceChannelID); err != nil {
			return fmt.Errorf("failed to move %s out of %s: %w", m.UserID, m.VoiceChannelID, err)
		}
		log.Printf("[INFO] Moved %s(%s) out of %s(%s)", m.Username, m.UserID, channelName, m.VoiceChannelID)
		e.notify(ctx, settings, fmt.Sprintf(
			"<@%s> You must be playing the following to join %s: %s. "+
				"If you are streaming, I can only check Twitch for now and cannot "+
				"tell what game you are playing on other platforms.",
			m.UserID, channelName, gameList))
		return nil
	}

	if m.Muted {
		log.Printf("[INFO] %s(%s) is already server muted, ignoring", m.Username, m.UserID)
		return nil
	}
	if err := e.directory.SetServerMute(ctx, m.GuildID, m.UserID, true); err != nil {
		return fmt.Errorf("failed to mute %s in %s: %w", m.UserID, m.VoiceChannelID, err)
	}
	log.Printf("[INFO] Muted %s(%s) in %s", m.Username, m.UserID, channelName)
	e.notify(ctx, settings, fmt.Sprintf(
		"<@%s> You must be playing the following to not be muted in %s: %s. "+
			"If you are streaming, I can only check Twitch for now and cannot "+
			"tell what game you are playing on other platforms.",
		m.UserID, channelName, gameList))
	return nil
}

func (e *Engine) notify(ctx context.Context, settings *storage.Settings, message string) {
	if settings.NotifyChannelID == "" {
		return
	}
	if err := e.directory.Notify(ctx, settings.NotifyChannelID, message); err != nil {
		log.Printf("[WARN] Failed to post notification: %v", err)
	}
}
