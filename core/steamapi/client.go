package steamapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/leighmacdonald/steamid/v4/steamid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production Steam Web API endpoint.
const DefaultBaseURL = "https://api.steampowered.com"

// tf2AppID is the Steam application ID playtime is reported for.
const tf2AppID = 440

// Client issues Steam Web API requests. The HTTP client is injected so the
// embedder owns transport policy (timeouts, proxies).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// NewClient creates a Steam Web API client.
func NewClient(apiKey string, httpClient *http.Client, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    httpClient,
		logger:  logger.Named("steamapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has an API key to authenticate
// with. An unconfigured client can be constructed but never queried.
func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) get(path string, query url.Values, out any) error {
	query.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	resp, err := c.http.Get(reqURL)
	if err != nil {
		return fmt.Errorf("steam api: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, URL: c.baseURL + path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("steam api: decode %s: %w", path, err)
	}
	return nil
}

func joinIDs(ids []steamid.SteamID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

// PlayerSummaries fetches profile summaries for up to 100 accounts in one call.
func (c *Client) PlayerSummaries(ids []steamid.SteamID) *Future[[]PlayerSummary] {
	return Go(func() ([]PlayerSummary, error) {
		var payload struct {
			Response struct {
				Players []struct {
					SteamID     string `json:"steamid"`
					PersonaName string `json:"personaname"`
					ProfileURL  string `json:"profileurl"`
					AvatarHash  string `json:"avatarhash"`
					Visibility  int    `json:"communityvisibilitystate"`
					TimeCreated int64  `json:"timecreated"`
					CountryCode string `json:"loccountrycode"`
				} `json:"players"`
			} `json:"response"`
		}

		query := url.Values{"steamids": {joinIDs(ids)}}
		if err := c.get("/ISteamUser/GetPlayerSummaries/v0002/", query, &payload); err != nil {
			return nil, err
		}

		summaries := make([]PlayerSummary, 0, len(payload.Response.Players))
		for _, p := range payload.Response.Players {
			sid := steamid.New(p.SteamID)
			if !sid.Valid() {
				continue
			}
			summary := PlayerSummary{
				SteamID:     sid,
				PersonaName: p.PersonaName,
				ProfileURL:  p.ProfileURL,
				AvatarHash:  p.AvatarHash,
				Visibility:  p.Visibility,
				CountryCode: p.CountryCode,
			}
			if p.TimeCreated > 0 {
				summary.TimeCreated = time.Unix(p.TimeCreated, 0).UTC()
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	})
}

// PlayerBans fetches ban records for up to 100 accounts in one call.
func (c *Client) PlayerBans(ids []steamid.SteamID) *Future[[]PlayerBans] {
	return Go(func() ([]PlayerBans, error) {
		var payload struct {
			Players []struct {
				SteamID          string `json:"SteamId"`
				CommunityBanned  bool   `json:"CommunityBanned"`
				VACBanned        bool   `json:"VACBanned"`
				NumberOfVACBans  int    `json:"NumberOfVACBans"`
				NumberOfGameBans int    `json:"NumberOfGameBans"`
				DaysSinceLastBan int    `json:"DaysSinceLastBan"`
				EconomyBan       string `json:"EconomyBan"`
			} `json:"players"`
		}

		query := url.Values{"steamids": {joinIDs(ids)}}
		if err := c.get("/ISteamUser/GetPlayerBans/v1/", query, &payload); err != nil {
			return nil, err
		}

		bans := make([]PlayerBans, 0, len(payload.Players))
		for _, p := range payload.Players {
			sid := steamid.New(p.SteamID)
			if !sid.Valid() {
				continue
			}
			bans = append(bans, PlayerBans{
				SteamID:          sid,
				CommunityBanned:  p.CommunityBanned,
				VACBanned:        p.VACBanned,
				VACBanCount:      p.NumberOfVACBans,
				GameBanCount:     p.NumberOfGameBans,
				DaysSinceLastBan: p.DaysSinceLastBan,
				EconomyBan:       p.EconomyBan,
			})
		}
		return bans, nil
	})
}

// Playtimes fetches TF2 playtime for each account. The public endpoint has
// no multi-ID form, so the batch fans out one request per account inside a
// single future; accounts whose requests fail are omitted from the result
// and naturally retried by the caller's queue.
func (c *Client) Playtimes(ids []steamid.SteamID) *Future[[]Playtime] {
	return Go(func() ([]Playtime, error) {
		var (
			mu      sync.Mutex
			results []Playtime
			wg      sync.WaitGroup
		)

		for _, id := range ids {
			wg.Add(1)
			go func(id steamid.SteamID) {
				defer wg.Done()
				playtime, err := c.playtime(id)
				if err != nil {
					c.logger.Warn("playtime fetch failed",
						zap.String("steamid", id.String()), zap.Error(err))
					return
				}
				mu.Lock()
				results = append(results, playtime)
				mu.Unlock()
			}(id)
		}
		wg.Wait()

		return results, nil
	})
}

func (c *Client) playtime(id steamid.SteamID) (Playtime, error) {
	var payload struct {
		Response struct {
			GameCount *int `json:"game_count"`
			Games     []struct {
				AppID           int `json:"appid"`
				PlaytimeForever int `json:"playtime_forever"`
			} `json:"games"`
		} `json:"response"`
	}

	query := url.Values{
		"steamid":                   {id.String()},
		"include_played_free_games": {"1"},
	}
	if err := c.get("/IPlayerService/GetOwnedGames/v0001/", query, &payload); err != nil {
		return Playtime{}, err
	}

	playtime := Playtime{SteamID: id}
	if payload.Response.GameCount == nil {
		// Empty response object: game details are private.
		return playtime, nil
	}

	playtime.Known = true
	for _, game := range payload.Response.Games {
		if game.AppID == tf2AppID {
			playtime.Total = time.Duration(game.PlaytimeForever) * time.Minute
			break
		}
	}
	return playtime, nil
}

// FriendList fetches the friends list of the given account. A 401 response
// means the list is private; callers check for it with IsStatus.
func (c *Client) FriendList(id steamid.SteamID) *Future[FriendSet] {
	return Go(func() (FriendSet, error) {
		var payload struct {
			FriendsList struct {
				Friends []struct {
					SteamID string `json:"steamid"`
				} `json:"friends"`
			} `json:"friendslist"`
		}

		query := url.Values{
			"steamid":      {id.String()},
			"relationship": {"friend"},
		}
		if err := c.get("/ISteamUser/GetFriendList/v0001/", query, &payload); err != nil {
			return nil, err
		}

		friends := make(FriendSet, len(payload.FriendsList.Friends))
		for _, f := range payload.FriendsList.Friends {
			sid := steamid.New(f.SteamID)
			if !sid.Valid() {
				continue
			}
			friends[sid] = struct{}{}
		}
		return friends, nil
	})
}
