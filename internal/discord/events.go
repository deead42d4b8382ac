package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"voice-warden/internal/activity"
	"voice-warden/pkg/util"
)

// sweepWorkers bounds concurrent member checks during a guild sweep.
const sweepWorkers = 4

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] Logged in as %s, watching %d guild(s)", r.User.Username, len(r.Guilds))
}

// onGuildCreate sweeps everyone already connected to voice. Members who
// joined a restricted channel while the process was down produce no
// events, so without the sweep they would sit unchecked until they next
// move or change activity.
func (b *Bot) onGuildCreate(s *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Unavailable {
		return
	}

	var occupants []*discordgo.VoiceState
	for _, vs := range e.VoiceStates {
		if vs == nil || vs.UserID == s.State.User.ID {
			continue
		}
		occupants = append(occupants, vs)
	}
	if len(occupants) == 0 {
		return
	}
	log.Printf("[INFO] Sweeping %d voice member(s) in guild %s", len(occupants), e.ID)

	state := &sessionState{session: s}
	err := b.jobs.StartAsync("sweep:"+e.ID, func(ctx context.Context) error {
		return util.Parallel(ctx, occupants, sweepWorkers, func(ctx context.Context, vs *discordgo.VoiceState) error {
			m, err := state.MemberState(e.ID, vs.UserID)
			if err != nil {
				log.Printf("[WARN] Sweep skipped %s: %v", vs.UserID, err)
				return nil
			}
			m.VoiceChannelID = vs.ChannelID
			m.Muted = vs.Mute
			b.watcher.OnVoiceState(ctx, m)
			return nil
		})
	})
	if err != nil {
		log.Printf("[WARN] Sweep for guild %s not started: %v", e.ID, err)
	}
}

// onVoiceStateUpdate re-checks a member immediately against their
// post-change state.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if e.UserID == s.State.User.ID {
		return
	}

	state := &sessionState{session: s}
	m, err := state.MemberState(e.GuildID, e.UserID)
	if err != nil {
		log.Printf("[ERR] Voice state update for %s: %v", e.UserID, err)
		return
	}
	// The cache may lag the event; the event payload is authoritative.
	m.VoiceChannelID = e.ChannelID
	m.Muted = e.Mute

	b.watcher.OnVoiceState(b.runCtx, m)
}

// onPresenceUpdate re-checks a member on activity changes, with the
// grace-period handling for apparent game quits.
func (b *Bot) onPresenceUpdate(s *discordgo.Session, e *discordgo.PresenceUpdate) {
	if e.User == nil || e.User.ID == s.State.User.ID {
		return
	}

	state := &sessionState{session: s}
	m, err := state.MemberState(e.GuildID, e.User.ID)
	if err != nil {
		log.Printf("[ERR] Presence update for %s: %v", e.User.ID, err)
		return
	}
	m.Activity = activity.FromPresence(&e.Presence)

	b.watcher.OnActivity(b.runCtx, m)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	b.router.Dispatch(b.runCtx, s, m)
}
