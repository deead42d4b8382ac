// Package discord wires the engine, watcher, and admin console to a
// Discord gateway session.
package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"voice-warden/internal/command"
	"voice-warden/internal/config"
	"voice-warden/internal/engine"
	"voice-warden/internal/storage"
	"voice-warden/internal/twitch"
	"voice-warden/internal/watcher"
	"voice-warden/pkg/jobmgr"
)

// Bot is the Discord front end of the voice channel gatekeeper.
type Bot struct {
	cfg     *config.Config
	store   *storage.Store
	router  *command.Router
	jobs    *jobmgr.Manager
	session *discordgo.Session
	watcher *watcher.Watcher

	// runCtx is the lifetime handed to event-triggered work.
	runCtx context.Context
}

func NewBot(cfg *config.Config, store *storage.Store) *Bot {
	b := &Bot{
		cfg:   cfg,
		store: store,
		jobs: jobmgr.NewManager(func(msg string) {
			log.Println("[INFO] Job:", msg)
		}),
	}
	b.router = command.NewRouter(cfg.CommandPrefix, store)
	b.registerCommands()
	return b
}

func (b *Bot) registerCommands() {
	guarded := []command.Middleware{command.WithGuildOnly(), command.WithAuthCheck()}

	b.router.Register(&command.ClaimCommand{}, command.WithGuildOnly())
	b.router.Register(&command.EnableCommand{}, guarded...)
	b.router.Register(&command.DisableCommand{}, guarded...)
	b.router.Register(&command.SetCommand{}, guarded...)
	b.router.Register(&command.KickModeCommand{}, guarded...)
	b.router.Register(&command.WhitelistCommand{}, guarded...)
	b.router.Register(&command.RestrictCommand{}, guarded...)
	b.router.Register(&command.ReleaseCommand{}, guarded...)
	b.router.Register(&command.StatusCommand{}, guarded...)
	b.router.Register(&command.HelpCommand{Router: b.router})
}

// Run connects to Discord and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.session = dg
	b.runCtx = ctx

	directory := &sessionDirectory{session: dg}
	state := &sessionState{session: dg}
	validator := twitch.NewValidator(b.cfg.TwitchClientID, b.cfg.TwitchToken, b.store)
	eng := engine.New(b.store, directory, validator)
	b.watcher = watcher.New(b.store, eng, state, b.jobs)

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onVoiceStateUpdate)
	dg.AddHandler(b.onPresenceUpdate)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	b.jobs.Shutdown()
	return nil
}

func (b *Bot) configureIntents() {
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent
}
