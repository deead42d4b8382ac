package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"voice-warden/internal/activity"
	"voice-warden/internal/engine"
)

// sessionState builds member snapshots from the session's state cache,
// falling back to the REST API for members the cache has not seen.
type sessionState struct {
	session *discordgo.Session
}

func (st *sessionState) MemberState(guildID, userID string) (engine.MemberState, error) {
	member, err := st.session.State.Member(guildID, userID)
	if err != nil {
		member, err = st.session.GuildMember(guildID, userID)
		if err != nil {
			return engine.MemberState{}, fmt.Errorf("failed to fetch member %s: %w", userID, err)
		}
	}

	m := engine.MemberState{
		GuildID:  guildID,
		UserID:   userID,
		Username: displayName(member),
		RoleIDs:  member.Roles,
	}

	if vs, err := st.session.State.VoiceState(guildID, userID); err == nil && vs != nil {
		m.VoiceChannelID = vs.ChannelID
		m.Muted = vs.Mute
	}
	if presence, err := st.session.State.Presence(guildID, userID); err == nil {
		m.Activity = activity.FromPresence(presence)
	}
	return m, nil
}

func displayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return ""
}
