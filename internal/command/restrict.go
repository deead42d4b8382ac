package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-warden/internal/storage"
)

const confirmTimeout = 30 * time.Second

type RestrictCommand struct{}

func (c *RestrictCommand) Name() string { return "restrict" }
func (c *RestrictCommand) Description() string {
	return "Restrict a voice channel to the given games; add the Twitch game name too when it differs"
}
func (c *RestrictCommand) Usage() string      { return `restrict <channel> <game> ["game with spaces" ...]` }
func (c *RestrictCommand) RequireAdmin() bool { return true }

func (c *RestrictCommand) Run(ctx *Context) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply("Usage: " + c.Usage())
	}
	if strings.ToLower(ctx.Args[0]) == "list" {
		return c.list(ctx)
	}

	channelID, ok := parseChannel(ctx.Args[0])
	if !ok {
		return ctx.Reply("Invalid channel: " + ctx.Args[0])
	}
	games := ctx.Args[1:]
	if len(games) == 0 {
		return ctx.Reply("You must provide a list of games to restrict the channel to.")
	}

	channelName := channelID
	if channel, err := ctx.Session.Channel(channelID); err == nil {
		channelName = channel.Name
	}

	if err := ctx.Reply(fmt.Sprintf(
		"Are you sure you want to restrict %s to people playing %s?\n\n1. Yes    2. No",
		channelName, strings.Join(games, ", "))); err != nil {
		return err
	}
	reply, ok := ctx.Await(confirmTimeout)
	if !ok || strings.TrimSpace(reply) != "1" {
		return ctx.Reply("Aborted")
	}

	if err := ctx.Store.RestrictChannel(channelID, games); err != nil {
		if errors.Is(err, storage.ErrNoGames) {
			return ctx.Reply("You must provide a list of games to restrict the channel to.")
		}
		return err
	}
	return ctx.Reply("Restricted")
}

func (c *RestrictCommand) list(ctx *Context) error {
	settings, err := ctx.Store.Load()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("**Restricted Channels**\n\n")
	for channelID, games := range settings.RestrictedChannels {
		name := channelID
		if channel, err := ctx.Session.Channel(channelID); err == nil {
			name = channel.Name
		}
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(games, ", "))
	}
	return ctx.Reply(b.String())
}

type ReleaseCommand struct{}

func (c *ReleaseCommand) Name() string        { return "release" }
func (c *ReleaseCommand) Description() string { return "Lift all restrictions from a voice channel" }
func (c *ReleaseCommand) Usage() string       { return "release <channel>" }
func (c *ReleaseCommand) RequireAdmin() bool  { return true }

func (c *ReleaseCommand) Run(ctx *Context) error {
	if len(ctx.Args) != 1 {
		return ctx.Reply("Usage: " + c.Usage())
	}
	channelID, ok := parseChannel(ctx.Args[0])
	if !ok {
		return ctx.Reply("Invalid channel: " + ctx.Args[0])
	}

	released, err := ctx.Store.ReleaseChannel(channelID)
	if err != nil {
		return err
	}
	if !released {
		return ctx.Reply("That channel is not restricted.")
	}
	return ctx.Reply("Channel released!")
}
