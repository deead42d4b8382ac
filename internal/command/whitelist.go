package command

import (
	"fmt"
	"strings"

	"voice-warden/internal/storage"
)

type WhitelistCommand struct{}

func (c *WhitelistCommand) Name() string { return "whitelist" }
func (c *WhitelistCommand) Description() string {
	return "Exempt users or roles from all restriction checks"
}
func (c *WhitelistCommand) Usage() string      { return "whitelist add|remove|list [@user|@role ...]" }
func (c *WhitelistCommand) RequireAdmin() bool { return true }

func (c *WhitelistCommand) Run(ctx *Context) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply("Usage: " + c.Usage())
	}

	var remove bool
	switch strings.ToLower(ctx.Args[0]) {
	case "add":
		remove = false
	case "remove":
		remove = true
	case "list":
		return c.list(ctx)
	default:
		return ctx.Reply("Invalid whitelist mode. `add`, `remove`, or `list` only.")
	}

	targets := ctx.Args[1:]
	if len(targets) == 0 {
		return ctx.Reply("Mention at least one user or role.")
	}

	for _, target := range targets {
		var (
			id   string
			kind storage.Kind
			ok   bool
		)
		if id, ok = parseUserMention(target); ok {
			kind = storage.KindUser
		} else if id, ok = parseRoleMention(target); ok {
			kind = storage.KindRole
		} else {
			if err := ctx.Reply("Invalid mention: " + target); err != nil {
				return err
			}
			continue
		}

		changed, err := ctx.Store.Whitelist(id, kind, remove)
		if err != nil {
			return err
		}
		if !changed {
			if err := ctx.Reply(fmt.Sprintf("No change for %s.", target)); err != nil {
				return err
			}
			continue
		}
		verb := "Whitelisted"
		if remove {
			verb = "Removed from whitelist:"
		}
		if err := ctx.Reply(verb + " " + target); err != nil {
			return err
		}
	}
	return nil
}

func (c *WhitelistCommand) list(ctx *Context) error {
	settings, err := ctx.Store.Load()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("**Whitelist**\n**Users:**\n")
	for _, id := range settings.WhitelistedUserIDs {
		fmt.Fprintf(&b, "<@%s>\n", id)
	}
	b.WriteString("\n**Roles:**\n")
	for _, id := range settings.WhitelistedRoleIDs {
		fmt.Fprintf(&b, "<@&%s>\n", id)
	}
	return ctx.Reply(b.String())
}
