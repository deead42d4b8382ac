package activity

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFromPresence(t *testing.T) {
	t.Run("nil presence", func(t *testing.T) {
		assert.Equal(t, Activity{}, FromPresence(nil))
	})

	t.Run("no activities", func(t *testing.T) {
		assert.Equal(t, Activity{}, FromPresence(&discordgo.Presence{}))
	})

	t.Run("playing a game", func(t *testing.T) {
		p := &discordgo.Presence{Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeGame, Name: "ARK"},
		}}
		assert.Equal(t, Activity{Kind: Playing, Game: "ARK"}, FromPresence(p))
	})

	t.Run("first game wins when several are reported", func(t *testing.T) {
		p := &discordgo.Presence{Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeGame, Name: "ARK"},
			{Type: discordgo.ActivityTypeGame, Name: "Fortnite"},
		}}
		assert.Equal(t, Activity{Kind: Playing, Game: "ARK"}, FromPresence(p))
	})

	t.Run("streaming wins over a game entry", func(t *testing.T) {
		p := &discordgo.Presence{Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeGame, Name: "ARK"},
			{Type: discordgo.ActivityTypeStreaming, State: "Fortnite", URL: "https://www.twitch.tv/someone"},
		}}
		got := FromPresence(p)
		assert.Equal(t, Streaming, got.Kind)
		assert.Equal(t, "Fortnite", got.Game)
		assert.Equal(t, "https://www.twitch.tv/someone", got.URL)
	})

	t.Run("custom statuses are ignored", func(t *testing.T) {
		p := &discordgo.Presence{Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeCustom, Name: "vibing"},
		}}
		assert.Equal(t, Activity{}, FromPresence(p))
	})
}

func TestIsTwitch(t *testing.T) {
	assert.True(t, Activity{Kind: Streaming, URL: "https://www.twitch.tv/someone"}.IsTwitch())
	assert.False(t, Activity{Kind: Streaming, URL: "https://youtube.com/live/xyz"}.IsTwitch())
	assert.False(t, Activity{Kind: Playing, URL: "https://www.twitch.tv/someone"}.IsTwitch())
}

func TestTwitchLogin(t *testing.T) {
	assert.Equal(t, "someone", Activity{Kind: Streaming, URL: "https://www.twitch.tv/someone"}.TwitchLogin())
	assert.Equal(t, "someone", Activity{Kind: Streaming, URL: "https://www.twitch.tv/someone/videos"}.TwitchLogin())
	assert.Equal(t, "", Activity{Kind: Playing, Game: "ARK"}.TwitchLogin())
}
