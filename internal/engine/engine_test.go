package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-warden/internal/activity"
	"voice-warden/internal/storage"
)

type moveCall struct {
	userID    string
	channelID string
}

type muteCall struct {
	userID string
	mute   bool
}

type fakeDirectory struct {
	moves    []moveCall
	mutes    []muteCall
	messages []string
}

func (d *fakeDirectory) ChannelName(channelID string) string { return "channel-" + channelID }

func (d *fakeDirectory) MoveToChannel(_ context.Context, _, userID, channelID string) error {
	d.moves = append(d.moves, moveCall{userID, channelID})
	return nil
}

func (d *fakeDirectory) SetServerMute(_ context.Context, _, userID string, mute bool) error {
	d.mutes = append(d.mutes, muteCall{userID, mute})
	return nil
}

func (d *fakeDirectory) Notify(_ context.Context, _, message string) error {
	d.messages = append(d.messages, message)
	return nil
}

func (d *fakeDirectory) quiet() bool {
	return len(d.moves) == 0 && len(d.mutes) == 0 && len(d.messages) == 0
}

type fakeValidator struct {
	ok    bool
	err   error
	calls int
}

func (v *fakeValidator) Validate(_ context.Context, _, _ string) (bool, error) {
	v.calls++
	return v.ok, v.err
}

// newTestStore returns a store with channel 7 restricted to ARK,
// general channel 99, notifications to channel 50, enabled.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	backend, err := storage.NewFileBackend(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	store, err := storage.New(backend)
	require.NoError(t, err)

	_, err = store.Set("general_voice_channel_id", "99")
	require.NoError(t, err)
	_, err = store.Set("notify_channel_id", "50")
	require.NoError(t, err)
	require.NoError(t, store.RestrictChannel("7", []string{"ARK"}))
	require.NoError(t, store.SetEnabled(true))
	return store
}

func member(opts ...func(*MemberState)) MemberState {
	m := MemberState{
		GuildID:        "guild",
		UserID:         "user-1",
		Username:       "someone",
		VoiceChannelID: "7",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func playing(game string) func(*MemberState) {
	return func(m *MemberState) {
		m.Activity = activity.Activity{Kind: activity.Playing, Game: game}
	}
}

func streamingOnTwitch() func(*MemberState) {
	return func(m *MemberState) {
		m.Activity = activity.Activity{Kind: activity.Streaming, URL: "https://www.twitch.tv/someone"}
	}
}

func TestDisabledEngineDoesNothing(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetEnabled(false))
	dir := &fakeDirectory{}
	e := New(store, dir, &fakeValidator{})

	require.NoError(t, e.CheckMember(context.Background(), member(playing("Fortnite"))))
	assert.True(t, dir.quiet())
}

func TestWhitelistedMembersAreExempt(t *testing.T) {
	t.Run("by user id", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Whitelist("user-1", storage.KindUser, false)
		require.NoError(t, err)
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{})

		require.NoError(t, e.CheckMember(context.Background(), member(playing("Fortnite"))))
		assert.True(t, dir.quiet())
	})

	t.Run("by role", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.Whitelist("role-7", storage.KindRole, false)
		require.NoError(t, err)
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{})

		m := member(playing("Fortnite"))
		m.RoleIDs = []string{"role-7"}
		require.NoError(t, e.CheckMember(context.Background(), m))
		assert.True(t, dir.quiet())
	})

	t.Run("a muted whitelisted member is unmuted in mute mode", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetKickMode(false))
		_, err := store.Whitelist("user-1", storage.KindUser, false)
		require.NoError(t, err)
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{})

		m := member()
		m.Muted = true
		require.NoError(t, e.CheckMember(context.Background(), m))
		assert.Equal(t, []muteCall{{"user-1", false}}, dir.mutes)
		assert.Empty(t, dir.moves)
	})
}

func TestUnrestrictedChannelIsAlwaysCompliant(t *testing.T) {
	store := newTestStore(t)
	dir := &fakeDirectory{}
	e := New(store, dir, &fakeValidator{})

	m := member(playing("Fortnite"))
	m.VoiceChannelID = "8"
	require.NoError(t, e.CheckMember(context.Background(), m))
	assert.True(t, dir.quiet())
}

func TestMatchingGameIsCompliant(t *testing.T) {
	store := newTestStore(t)
	dir := &fakeDirectory{}
	e := New(store, dir, &fakeValidator{})

	require.NoError(t, e.CheckMember(context.Background(), member(playing("ARK"))))
	assert.True(t, dir.quiet(), "compliant unmuted member must trigger no side effects")
}

func TestKickModeRelocates(t *testing.T) {
	// Scenario: channel 7 restricted to ARK, kick mode, member playing
	// Fortnite: moved to the general channel, notification names ARK.
	store := newTestStore(t)
	dir := &fakeDirectory{}
	e := New(store, dir, &fakeValidator{})

	require.NoError(t, e.CheckMember(context.Background(), member(playing("Fortnite"))))

	require.Equal(t, []moveCall{{"user-1", "99"}}, dir.moves)
	require.Len(t, dir.messages, 1)
	assert.Contains(t, dir.messages[0], "ARK")
	assert.Contains(t, dir.messages[0], "<@user-1>")
	assert.Empty(t, dir.mutes)
}

func TestNoActivityFallsIntoEnforcement(t *testing.T) {
	store := newTestStore(t)
	dir := &fakeDirectory{}
	e := New(store, dir, &fakeValidator{})

	require.NoError(t, e.CheckMember(context.Background(), member()))
	assert.Equal(t, []moveCall{{"user-1", "99"}}, dir.moves)
}

func TestMuteMode(t *testing.T) {
	t.Run("offender is muted and notified", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetKickMode(false))
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{})

		require.NoError(t, e.CheckMember(context.Background(), member(playing("Fortnite"))))
		assert.Equal(t, []muteCall{{"user-1", true}}, dir.mutes)
		assert.Empty(t, dir.moves)
		require.Len(t, dir.messages, 1)
		assert.Contains(t, dir.messages[0], "muted")
	})

	t.Run("already muted offender is left alone", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetKickMode(false))
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{})

		m := member(playing("Fortnite"))
		m.Muted = true
		require.NoError(t, e.CheckMember(context.Background(), m))
		assert.True(t, dir.quiet(), "no duplicate mutes or notifications")
	})

	t.Run("compliant member is unmuted", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.SetKickMode(false))
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{})

		m := member(playing("ARK"))
		m.Muted = true
		require.NoError(t, e.CheckMember(context.Background(), m))
		assert.Equal(t, []muteCall{{"user-1", false}}, dir.mutes)
	})
}

func TestStreamingValidation(t *testing.T) {
	t.Run("validated broadcast is compliant", func(t *testing.T) {
		store := newTestStore(t)
		dir := &fakeDirectory{}
		validator := &fakeValidator{ok: true}
		e := New(store, dir, validator)

		require.NoError(t, e.CheckMember(context.Background(), member(streamingOnTwitch())))
		assert.True(t, dir.quiet())
		assert.Equal(t, 1, validator.calls)
	})

	t.Run("negative validation enforces", func(t *testing.T) {
		store := newTestStore(t)
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{ok: false})

		require.NoError(t, e.CheckMember(context.Background(), member(streamingOnTwitch())))
		assert.Equal(t, []moveCall{{"user-1", "99"}}, dir.moves)
	})

	t.Run("validation error fails closed", func(t *testing.T) {
		store := newTestStore(t)
		dir := &fakeDirectory{}
		e := New(store, dir, &fakeValidator{err: errors.New("api down")})

		require.NoError(t, e.CheckMember(context.Background(), member(streamingOnTwitch())))
		assert.Equal(t, []moveCall{{"user-1", "99"}}, dir.moves)
	})

	t.Run("non-twitch broadcast skips validation and enforces", func(t *testing.T) {
		store := newTestStore(t)
		dir := &fakeDirectory{}
		validator := &fakeValidator{ok: true}
		e := New(store, dir, validator)

		m := member()
		m.Activity = activity.Activity{Kind: activity.Streaming, URL: "https://youtube.com/live/xyz"}
		require.NoError(t, e.CheckMember(context.Background(), m))
		assert.Zero(t, validator.calls)
		assert.Equal(t, []moveCall{{"user-1", "99"}}, dir.moves)
	})
}

func TestNoNotificationWithoutNotifyChannel(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Set("notify_channel_id", "")
	require.NoError(t, err)

	dir := &fakeDirectory{}
	e := New(store, dir, &fakeValidator{})

	require.NoError(t, e.CheckMember(context.Background(), member(playing("Fortnite"))))
	assert.Len(t, dir.moves, 1)
	assert.Empty(t, dir.messages)
}
