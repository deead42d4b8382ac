// Package watcher reacts to voice-state and activity changes and
// re-runs the access decision, including the grace-period re-check for
// members whose game session appears to have just ended.
package watcher

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"voice-warden/internal/activity"
	"voice-warden/internal/engine"
	"voice-warden/internal/storage"
	"voice-warden/pkg/jobmgr"
)

// Checker runs the access decision for one member.
type Checker interface {
	CheckMember(ctx context.Context, m engine.MemberState) error
}

// StateProvider fetches a member's live state. Used when a deferred
// re-check wakes up, so the decision runs against what the member is
// doing now rather than what they were doing when the check was queued.
type StateProvider interface {
	MemberState(guildID, userID string) (engine.MemberState, error)
}

type lastSeen struct {
	channelID string
	activity  activity.Activity
}

type Watcher struct {
	store  *storage.Store
	engine Checker
	state  StateProvider
	jobs   *jobmgr.Manager

	mu   sync.Mutex
	seen map[string]lastSeen // userID -> state at previous trigger
	seq  atomic.Uint64
}

func New(store *storage.Store, checker Checker, state StateProvider, jobs *jobmgr.Manager) *Watcher {
	return &Watcher{
		store:  store,
		engine: checker,
		state:  state,
		jobs:   jobs,
		seen:   make(map[string]lastSeen),
	}
}

// OnVoiceState handles a join, move, or mute-state change: run the
// decision immediately against the post-change state.
func (w *Watcher) OnVoiceState(ctx context.Context, m engine.MemberState) {
	w.remember(m)
	w.check(ctx, m)
}

// OnActivity handles an activity change. When a member in a restricted
// channel was playing a qualifying game and now reports nothing, with
// their channel unchanged, the game session is treated as ended rather
// than an immediate violation: a re-check is scheduled after the grace
// period and runs against the member's state at wake-up. Everything
// else re-runs the decision immediately.
func (w *Watcher) OnActivity(ctx context.Context, m engine.MemberState) {
	prev := w.remember(m)

	if w.shouldDelay(prev, m) {
		settings, err := w.store.Load()
		if err != nil {
			log.Printf("[ERR] Failed to load settings for grace period: %v", err)
			w.check(ctx, m)
			return
		}
		grace := time.Duration(settings.GracePeriodSeconds) * time.Second
		log.Printf("[INFO] %s(%s) appears to have quit their game, re-checking in %v",
			m.Username, m.UserID, grace)
		w.scheduleRecheck(m, grace)
		return
	}

	w.check(ctx, m)
}

// shouldDelay reports whether this activity change looks like "game
// session ended": previously compliant in a restricted channel, now
// reporting no activity, channel unchanged.
func (w *Watcher) shouldDelay(prev lastSeen, m engine.MemberState) bool {
	if m.Activity.Kind != activity.None {
		return false
	}
	if m.VoiceChannelID == "" || m.VoiceChannelID != prev.channelID {
		return false
	}
	settings, err := w.store.Load()
	if err != nil {
		return false
	}
	games, restricted := settings.GamesFor(m.VoiceChannelID)
	if !restricted {
		return false
	}
	return prev.activity.Kind != activity.None && slices.Contains(games, prev.activity.Game)
}

// scheduleRecheck queues a non-cancellable deferred re-check. Names
// carry a sequence number: rapid quit/rejoin may queue several pending
// re-checks for the same member, and each runs against live state.
func (w *Watcher) scheduleRecheck(m engine.MemberState, grace time.Duration) {
	name := fmt.Sprintf("recheck:%s:%d", m.UserID, w.seq.Add(1))
	err := w.jobs.Defer(name, grace, func(ctx context.Context) error {
		fresh, err := w.state.MemberState(m.GuildID, m.UserID)
		if err != nil {
			return fmt.Errorf("failed to refresh state for %s: %w", m.UserID, err)
		}
		return w.engine.CheckMember(ctx, fresh)
	})
	if err != nil {
		log.Printf("[ERR] Failed to schedule re-check for %s: %v", m.UserID, err)
	}
}

// remember records the member's channel and activity for the next
// trigger and returns what was seen before. Discord activity events
// carry no "before" state, so the watcher keeps its own.
func (w *Watcher) remember(m engine.MemberState) lastSeen {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.seen[m.UserID]
	w.seen[m.UserID] = lastSeen{channelID: m.VoiceChannelID, activity: m.Activity}
	return prev
}

// check runs the decision, never letting one member's failure take down
// the event loop.
func (w *Watcher) check(ctx context.Context, m engine.MemberState) {
	if err := w.engine.CheckMember(ctx, m); err != nil {
		log.Printf("[ERR] Check for %s(%s) failed: %v", m.Username, m.UserID, err)
	}
}
