package command

import (
	"fmt"
	"strings"
)

type HelpCommand struct {
	Router *Router
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }
func (c *HelpCommand) Usage() string       { return "help" }
func (c *HelpCommand) RequireAdmin() bool  { return false }

func (c *HelpCommand) Run(ctx *Context) error {
	var b strings.Builder
	b.WriteString("Restrict voice channels to members playing specific games. " +
		"Whitelisted users and roles are exempt. With kick mode disabled, " +
		"offenders are muted instead of moved.\n\n**Available Commands**\n```")
	for _, cmd := range c.Router.Commands() {
		fmt.Fprintf(&b, "%s %-50s %s\n", c.Router.Prefix(), cmd.Usage(), cmd.Description())
	}
	b.WriteString("```")
	return ctx.Reply(b.String())
}
