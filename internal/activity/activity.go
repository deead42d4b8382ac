// Package activity models what a member is currently doing, decoupled
// from Discord's presence payload shape.
package activity

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

type Kind int

const (
	None Kind = iota
	Playing
	Streaming
)

const twitchURLPrefix = "https://www.twitch.tv/"

// Activity is a member's currently-reported activity. Game may be set
// for Streaming when the platform relays the declared game name.
type Activity struct {
	Kind Kind
	Game string
	URL  string
}

// FromPresence maps a Discord presence to an Activity. A live stream
// takes precedence over plain game entries because it is the ambiguous
// case the validator has to resolve.
func FromPresence(p *discordgo.Presence) Activity {
	if p == nil {
		return Activity{}
	}
	return fromActivities(p.Activities)
}

func fromActivities(activities []*discordgo.Activity) Activity {
	var playing *discordgo.Activity
	for _, a := range activities {
		if a == nil {
			continue
		}
		switch a.Type {
		case discordgo.ActivityTypeStreaming:
			return Activity{Kind: Streaming, Game: a.State, URL: a.URL}
		case discordgo.ActivityTypeGame:
			if playing == nil {
				playing = a
			}
		}
	}
	if playing != nil {
		return Activity{Kind: Playing, Game: playing.Name}
	}
	return Activity{}
}

// IsTwitch reports whether a streaming activity points at Twitch, the
// only platform the validator can resolve.
func (a Activity) IsTwitch() bool {
	return a.Kind == Streaming && strings.HasPrefix(a.URL, twitchURLPrefix)
}

// TwitchLogin extracts the broadcaster login from a Twitch stream URL.
// Empty for non-Twitch activities.
func (a Activity) TwitchLogin() string {
	if !a.IsTwitch() {
		return ""
	}
	login := strings.TrimPrefix(a.URL, twitchURLPrefix)
	if i := strings.IndexByte(login, '/'); i >= 0 {
		login = login[:i]
	}
	return login
}
