package command

import (
	"errors"

	"voice-warden/internal/storage"
)

type EnableCommand struct{}

func (c *EnableCommand) Name() string        { return "enable" }
func (c *EnableCommand) Description() string { return "Enable voice channel restrictions" }
func (c *EnableCommand) Usage() string       { return "enable" }
func (c *EnableCommand) RequireAdmin() bool  { return true }

func (c *EnableCommand) Run(ctx *Context) error {
	if err := ctx.Store.SetEnabled(true); err != nil {
		if errors.Is(err, storage.ErrGeneralChannelUnset) {
			return ctx.Reply("Set general_voice_channel_id before enabling.")
		}
		return err
	}
	return ctx.Reply("Restrictions enabled!")
}

type DisableCommand struct{}

func (c *DisableCommand) Name() string        { return "disable" }
func (c *DisableCommand) Description() string { return "Disable voice channel restrictions" }
func (c *DisableCommand) Usage() string       { return "disable" }
func (c *DisableCommand) RequireAdmin() bool  { return true }

func (c *DisableCommand) Run(ctx *Context) error {
	if err := ctx.Store.SetEnabled(false); err != nil {
		return err
	}
	return ctx.Reply("Restrictions disabled!")
}

type KickModeCommand struct{}

func (c *KickModeCommand) Name() string { return "kick" }
func (c *KickModeCommand) Description() string {
	return "Toggle kick mode; when disabled, offenders are muted instead"
}
func (c *KickModeCommand) Usage() string      { return "kick enable|disable" }
func (c *KickModeCommand) RequireAdmin() bool { return true }

func (c *KickModeCommand) Run(ctx *Context) error {
	if len(ctx.Args) != 1 {
		return ctx.Reply("Usage: " + c.Usage())
	}
	switch ctx.Args[0] {
	case "enable":
		if err := ctx.Store.SetKickMode(true); err != nil {
			return err
		}
		return ctx.Reply("Kick mode enabled!")
	case "disable":
		if err := ctx.Store.SetKickMode(false); err != nil {
			return err
		}
		return ctx.Reply("Kick mode disabled!")
	default:
		return ctx.Reply("Invalid mode: " + ctx.Args[0])
	}
}
