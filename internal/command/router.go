package command

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/kballard/go-shellquote"

	"voice-warden/internal/storage"
)

// Router parses prefixed admin messages and dispatches them to
// registered commands. It also brokers the await-reply mechanism used
// by interactive confirmations.
type Router struct {
	prefix   string
	store    *storage.Store
	commands map[string]Command
	order    []string

	mu      sync.Mutex
	waiters map[string]chan string // authorID|channelID
}

func NewRouter(prefix string, store *storage.Store) *Router {
	return &Router{
		prefix:   prefix,
		store:    store,
		commands: make(map[string]Command),
		waiters:  make(map[string]chan string),
	}
}

func (r *Router) Register(cmd Command, middlewares ...Middleware) {
	r.order = append(r.order, cmd.Name())
	r.commands[cmd.Name()] = ApplyMiddlewares(cmd, middlewares...)
}

// Commands returns registered commands in registration order.
func (r *Router) Commands() []Command {
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

func (r *Router) Prefix() string { return r.prefix }

// Dispatch handles one incoming message. A message from an author with
// a pending confirmation is delivered to the waiting command instead of
// being parsed.
func (r *Router) Dispatch(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if r.deliverReply(m) {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, r.prefix) {
		return
	}
	rest := strings.TrimSpace(strings.TrimPrefix(content, r.prefix))
	if rest == "" {
		return
	}

	args, err := shellquote.Split(rest)
	if err != nil || len(args) == 0 {
		return
	}

	cmd, ok := r.commands[strings.ToLower(args[0])]
	if !ok {
		return
	}

	cmdCtx := &Context{
		Ctx:     ctx,
		Session: s,
		Message: m,
		Store:   r.store,
		Args:    args[1:],
		Await: func(timeout time.Duration) (string, bool) {
			return r.await(m.Author.ID, m.ChannelID, timeout)
		},
	}

	if err := cmd.Run(cmdCtx); err != nil {
		log.Printf("[ERR] Command %s failed: %v", cmd.Name(), err)
		_ = cmdCtx.Reply("Something went wrong: " + err.Error())
	}
}

// deliverReply routes a message to a command blocked in Await, if any.
func (r *Router) deliverReply(m *discordgo.MessageCreate) bool {
	r.mu.Lock()
	ch, ok := r.waiters[m.Author.ID+"|"+m.ChannelID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- m.Content:
		return true
	default:
		return false
	}
}

func (r *Router) await(authorID, channelID string, timeout time.Duration) (string, bool) {
	key := authorID + "|" + channelID
	ch := make(chan string, 1)

	r.mu.Lock()
	if _, busy := r.waiters[key]; busy {
		r.mu.Unlock()
		return "", false
	}
	r.waiters[key] = ch
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.waiters, key)
		r.mu.Unlock()
	}()

	select {
	case reply := <-ch:
		return reply, true
	case <-time.After(timeout):
		return "", false
	}
}
