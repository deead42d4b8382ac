package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// sessionDirectory adapts a gateway session to the engine's Directory.
type sessionDirectory struct {
	session *discordgo.Session
}

func (d *sessionDirectory) ChannelName(channelID string) string {
	if channel, err := d.session.State.Channel(channelID); err == nil {
		return channel.Name
	}
	if channel, err := d.session.Channel(channelID); err == nil {
		return channel.Name
	}
	return channelID
}

func (d *sessionDirectory) MoveToChannel(ctx context.Context, guildID, userID, channelID string) error {
	return d.session.GuildMemberMove(guildID, userID, &channelID, discordgo.WithContext(ctx))
}

func (d *sessionDirectory) SetServerMute(ctx context.Context, guildID, userID string, mute bool) error {
	return d.session.GuildMemberMute(guildID, userID, mute, discordgo.WithContext(ctx))
}

func (d *sessionDirectory) Notify(ctx context.Context, channelID, message string) error {
	_, err := d.session.ChannelMessageSend(channelID, message, discordgo.WithContext(ctx))
	return err
}
