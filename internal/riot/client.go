// Package riot provides a minimal client for the match and timeline
// endpoints of the Riot match-v5 API.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/riftlab/riftgrade/internal/model"
)

// maxAttempts bounds retries on rate-limit responses.
const maxAttempts = 3

// Client is a minimal match-v5 API client for one regional routing host.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client against the given regional host (e.g.
// "https://americas.api.riotgames.com") authenticated with the API key.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// matchEnvelope is the wire shape of /lol/match/v5/matches/{id}: the match
// ID lives in metadata, everything else in info.
type matchEnvelope struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info model.MatchDetail `json:"info"`
}

type timelineEnvelope struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info model.MatchTimeline `json:"info"`
}

// get performs an authenticated GET and JSON-decodes the body into out.
// Rate-limit responses are retried after the server's Retry-After hint.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxAttempts {
			wait := time.Second
			if s := resp.Header.Get("Retry-After"); s != "" {
				if secs, err := strconv.Atoi(s); err == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			resp.Body.Close()
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		return err
	}
}

// GetMatch fetches the end-of-game record for a match.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*model.MatchDetail, error) {
	var env matchEnvelope
	if err := c.get(ctx, "/lol/match/v5/matches/"+matchID, &env); err != nil {
		return nil, err
	}
	env.Info.MatchID = env.Metadata.MatchID
	return &env.Info, nil
}

// GetTimeline fetches the frame-by-frame timeline for a match. A 404 is an
// error here; callers that tolerate a missing timeline pass nil downstream.
func (c *Client) GetTimeline(ctx context.Context, matchID string) (*model.MatchTimeline, error) {
	var env timelineEnvelope
	if err := c.get(ctx, "/lol/match/v5/matches/"+matchID+"/timeline", &env); err != nil {
		return nil, err
	}
	env.Info.MatchID = env.Metadata.MatchID
	return &env.Info, nil
}

// GetMatchIDs returns up to count recent ranked match IDs for a player.
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	var ids []string
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?queue=420&count=%d", puuid, count)
	if err := c.get(ctx, path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
