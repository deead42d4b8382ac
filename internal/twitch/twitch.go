// Package twitch resolves what game a broadcaster is currently playing,
// used when a member's local activity only says "streaming".
package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"voice-warden/internal/storage"
)

const (
	defaultBaseURL = "https://api.twitch.tv/helix"
	// Minimum spacing between external lookups, process-wide. Calls
	// inside the window fail closed without touching the API.
	lookupSpacing  = 5 * time.Second
	requestTimeout = 10 * time.Second
)

// SettingsLoader supplies the current restriction configuration.
type SettingsLoader interface {
	Load() (*storage.Settings, error)
}

// Validator is a rate-limited client for the Twitch Helix API.
type Validator struct {
	clientID string
	token    string
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	now      func() time.Time
	settings SettingsLoader
}

func NewValidator(clientID, token string, settings SettingsLoader) *Validator {
	return &Validator{
		clientID: clientID,
		token:    token,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: requestTimeout},
		limiter:  rate.NewLimiter(rate.Every(lookupSpacing), 1),
		now:      time.Now,
		settings: settings,
	}
}

// Validate reports whether the broadcaster behind login is currently
// playing a game allowed in the given voice channel. A call landing
// inside the rate-limit window returns false without an external lookup.
// Errors mean "could not determine", which is distinct from false.
func (v *Validator) Validate(ctx context.Context, login, channelID string) (bool, error) {
	if !v.limiter.AllowN(v.now(), 1) {
		log.Printf("[WARN] Twitch lookup for %s skipped: internal rate limit reached", login)
		return false, nil
	}

	broadcasterID, err := v.resolveBroadcaster(ctx, login)
	if err != nil {
		return false, fmt.Errorf("failed to resolve broadcaster %s: %w", login, err)
	}

	game, err := v.currentGame(ctx, broadcasterID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch current game for %s: %w", login, err)
	}

	settings, err := v.settings.Load()
	if err != nil {
		return false, err
	}
	games, ok := settings.GamesFor(channelID)
	if !ok {
		return false, nil
	}

	if slices.Contains(games, game) {
		log.Printf("[INFO] Twitch user %s validated channel %s with %q", login, channelID, game)
		return true, nil
	}
	log.Printf("[INFO] Twitch user %s playing %q, not allowed in channel %s", login, game, channelID)
	return false, nil
}

func (v *Validator) resolveBroadcaster(ctx context.Context, login string) (string, error) {
	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := v.getJSON(ctx, "/users?login="+url.QueryEscape(login), &parsed); err != nil {
		return "", err
	}
	if len(parsed.Data) == 0 || parsed.Data[0].ID == "" {
		return "", fmt.Errorf("no such broadcaster")
	}
	return parsed.Data[0].ID, nil
}

func (v *Validator) currentGame(ctx context.Context, broadcasterID string) (string, error) {
	var parsed struct {
		Data []struct {
			GameName string `json:"game_name"`
		} `json:"data"`
	}
	if err := v.getJSON(ctx, "/channels?broadcaster_id="+url.QueryEscape(broadcasterID), &parsed); err != nil {
		return "", err
	}
	if len(parsed.Data) == 0 {
		return "", fmt.Errorf("no channel information")
	}
	return parsed.Data[0].GameName, nil
}

func (v *Validator) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Client-Id", v.clientID)
	req.Header.Set("Authorization", "Bearer "+v.token)

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twitch http %d: %s", resp.StatusCode, truncate(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed twitch response: %w", err)
	}
	return nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
