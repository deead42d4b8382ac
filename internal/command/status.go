package command

import (
	"fmt"
	"strings"
)

type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Show all settings" }
func (c *StatusCommand) Usage() string       { return "status" }
func (c *StatusCommand) RequireAdmin() bool  { return true }

func (c *StatusCommand) Run(ctx *Context) error {
	settings, err := ctx.Store.Load()
	if err != nil {
		return err
	}

	channelName := func(id string) string {
		if id == "" {
			return "(unset)"
		}
		if channel, err := ctx.Session.Channel(id); err == nil {
			return fmt.Sprintf("%s (%s)", channel.Name, id)
		}
		return id
	}

	var restricted strings.Builder
	for channelID, games := range settings.RestrictedChannels {
		fmt.Fprintf(&restricted, "%s -- %s\n", channelName(channelID), strings.Join(games, ", "))
	}

	return ctx.Reply(fmt.Sprintf(
		"**Status:**\n```"+
			"Enabled: %t\n"+
			"Kick Mode Enabled: %t\n"+
			"Admin Role ID: %s\n"+
			"General Voice Channel: %s\n"+
			"Notify Channel: %s\n"+
			"Whitelisted User IDs: %s\n"+
			"Whitelisted Role IDs: %s\n"+
			"Game Close Grace Period: %ds\n"+
			"Restricted Voice Channels:\n\n%s"+
			"```",
		settings.Enabled,
		settings.KickMode,
		settings.AdminRoleID,
		channelName(settings.GeneralVoiceChannelID),
		channelName(settings.NotifyChannelID),
		strings.Join(settings.WhitelistedUserIDs, ", "),
		strings.Join(settings.WhitelistedRoleIDs, ", "),
		settings.GracePeriodSeconds,
		restricted.String()))
}
