// Package command implements the administrator console: textual
// commands that drive the configuration store.
package command

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"voice-warden/internal/storage"
)

type Command interface {
	Name() string
	Description() string
	Usage() string
	RequireAdmin() bool
	Run(ctx *Context) error
}

// Context carries everything a command invocation needs.
type Context struct {
	Ctx     context.Context
	Session *discordgo.Session
	Message *discordgo.MessageCreate
	Store   *storage.Store
	Args    []string

	// Await blocks for the author's next message in the same channel,
	// for interactive confirmation steps. ok is false on timeout.
	Await func(timeout time.Duration) (reply string, ok bool)
}

// Reply posts a plain message back to the invoking channel.
func (c *Context) Reply(content string) error {
	_, err := c.Session.ChannelMessageSend(c.Message.ChannelID, content)
	return err
}

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx *Context) error
}

func (w *wrappedCommand) Run(ctx *Context) error {
	return w.wrap(ctx)
}

// WithAuthCheck refuses commands from members who do not hold the admin
// role. Refusal is silent: unauthorized callers learn nothing.
func WithAuthCheck() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				if !cmd.RequireAdmin() {
					return cmd.Run(ctx)
				}
				if ctx.Message.Member == nil {
					return nil
				}
				if !ctx.Store.IsAuthorized(ctx.Message.Member.Roles) {
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithGuildOnly drops commands sent outside a guild (DMs).
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				if ctx.Message.GuildID == "" {
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

func ApplyMiddlewares(cmd Command, middlewares ...Middleware) Command {
	for i := len(middlewares) - 1; i >= 0; i-- {
		cmd = middlewares[i](cmd)
	}
	return cmd
}
