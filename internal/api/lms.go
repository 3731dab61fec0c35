package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lms-tracker/internal/config"
	"lms-tracker/internal/constants"
	"lms-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

// TokenSource supplies the persisted bearer token for outbound requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client is a thin typed client for the LMS backend. One request per call,
// no retries, no caching; timeouts are bounded here and surface as plain
// transport errors.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *fasthttp.Client
}

func NewClient(cfg *config.Config, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		tokens:  tokens,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) FetchHistory(ctx context.Context, username string) ([]domain.Match, error) {
	url := fmt.Sprintf("%s/history/%s", c.baseURL, username)
	matches, err := doRequest[[]domain.Match](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return *matches, nil
}

func (c *Client) FetchReplay(ctx context.Context, matchID int64) ([]domain.Round, error) {
	url := fmt.Sprintf("%s/replay/%d", c.baseURL, matchID)
	rounds, err := doRequest[[]domain.Round](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return *rounds, nil
}

// FetchRankings returns all players sorted by score descending. The order
// is the provider's contract; callers must not re-sort.
func (c *Client) FetchRankings(ctx context.Context) ([]domain.Player, error) {
	url := fmt.Sprintf("%s/users/rankings", c.baseURL)
	players, err := doRequest[[]domain.Player](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return *players, nil
}

func (c *Client) FetchOverallStats(ctx context.Context, username string) (*domain.OverallStats, error) {
	url := fmt.Sprintf("%s/stats/%s/overall", c.baseURL, username)
	return doRequest[domain.OverallStats](ctx, c, fasthttp.MethodGet, url, nil)
}

type cardStatsResponse struct {
	Username  string `json:"username"`
	CardStats []struct {
		CardName  string  `json:"cardName"`
		Wins      int     `json:"wins"`
		Losses    int     `json:"losses"`
		TimesUsed int     `json:"timesUsed"`
		WinRate   float64 `json:"winRate"`
	} `json:"cardStats"`
}

type characterStatsResponse struct {
	Username       string `json:"username"`
	CharacterStats []struct {
		Character   string  `json:"character"`
		Wins        int     `json:"wins"`
		Losses      int     `json:"losses"`
		GamesPlayed int     `json:"gamesPlayed"`
		WinRate     float64 `json:"winRate"`
	} `json:"characterStats"`
}

type factionStatsResponse struct {
	Username     string `json:"username"`
	FactionStats []struct {
		Faction     string  `json:"faction"`
		Wins        int     `json:"wins"`
		Losses      int     `json:"losses"`
		GamesPlayed int     `json:"gamesPlayed"`
		WinRate     float64 `json:"winRate"`
	} `json:"factionStats"`
}

func (c *Client) FetchCardStats(ctx context.Context, username string) ([]domain.CategoryStat, error) {
	url := fmt.Sprintf("%s/stats/%s/cards", c.baseURL, username)
	resp, err := doRequest[cardStatsResponse](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	stats := make([]domain.CategoryStat, 0, len(resp.CardStats))
	for _, s := range resp.CardStats {
		stats = append(stats, domain.CategoryStat{
			Name:    s.CardName,
			Wins:    s.Wins,
			Losses:  s.Losses,
			Uses:    s.TimesUsed,
			WinRate: s.WinRate,
		})
	}
	return stats, nil
}

func (c *Client) FetchCharacterStats(ctx context.Context, username string) ([]domain.CategoryStat, error) {
	url := fmt.Sprintf("%s/stats/%s/characters", c.baseURL, username)
	resp, err := doRequest[characterStatsResponse](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	stats := make([]domain.CategoryStat, 0, len(resp.CharacterStats))
	for _, s := range resp.CharacterStats {
		stats = append(stats, domain.CategoryStat{
			Name:    s.Character,
			Wins:    s.Wins,
			Losses:  s.Losses,
			Uses:    s.GamesPlayed,
			WinRate: s.WinRate,
		})
	}
	return stats, nil
}

func (c *Client) FetchFactionStats(ctx context.Context, username string) ([]domain.CategoryStat, error) {
	url := fmt.Sprintf("%s/stats/%s/factions", c.baseURL, username)
	resp, err := doRequest[factionStatsResponse](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	stats := make([]domain.CategoryStat, 0, len(resp.FactionStats))
	for _, s := range resp.FactionStats {
		stats = append(stats, domain.CategoryStat{
			Name:    s.Faction,
			Wins:    s.Wins,
			Losses:  s.Losses,
			Uses:    s.GamesPlayed,
			WinRate: s.WinRate,
		})
	}
	return stats, nil
}

func (c *Client) FetchCards(ctx context.Context) ([]domain.Card, error) {
	url := fmt.Sprintf("%s/card", c.baseURL)
	cards, err := doRequest[[]domain.Card](ctx, c, fasthttp.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return *cards, nil
}

func (c *Client) CreateGame(ctx context.Context, player1, player2 string) (*domain.Match, error) {
	url := fmt.Sprintf("%s/game", c.baseURL)
	body := map[string]string{"player1": player1, "player2": player2}
	return doRequest[domain.Match](ctx, c, fasthttp.MethodPost, url, body)
}

// RoundRecord is the payload for recording a played round.
type RoundRecord struct {
	GameID         int64    `json:"gameId"`
	RoundNo        int      `json:"roundNo"`
	WinnerUsername string   `json:"winnerUsername"`
	P1Faction      string   `json:"p1Faction"`
	P2Faction      string   `json:"p2Faction"`
	P1Character    string   `json:"p1Character"`
	P2Character    string   `json:"p2Character"`
	P1CardIDs      []int64  `json:"p1CardIds"`
	P2CardIDs      []int64  `json:"p2CardIds"`
}

func (c *Client) AddRound(ctx context.Context, record RoundRecord) (*domain.Round, error) {
	url := fmt.Sprintf("%s/round", c.baseURL)
	return doRequest[domain.Round](ctx, c, fasthttp.MethodPost, url, record)
}

func (c *Client) FinishGame(ctx context.Context, gameID int64, winnerUsername string) (*domain.Match, error) {
	url := fmt.Sprintf("%s/finish", c.baseURL)
	body := map[string]any{"gameId": gameID, "winnerUsername": winnerUsername}
	return doRequest[domain.Match](ctx, c, fasthttp.MethodPost, url, body)
}

func (c *Client) CreateCard(ctx context.Context, name string) (*domain.Card, error) {
	url := fmt.Sprintf("%s/card", c.baseURL)
	body := map[string]string{"name": name}
	return doRequest[domain.Card](ctx, c, fasthttp.MethodPost, url, body)
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	url := fmt.Sprintf("%s/auth/login", c.baseURL)
	body := map[string]string{"username": username, "password": password}
	return doRequest[LoginResponse](ctx, c, fasthttp.MethodPost, url, body)
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	url := fmt.Sprintf("%s/auth/register", c.baseURL)
	body := map[string]string{"username": username, "password": password}
	_, err := doRequest[json.RawMessage](ctx, c, fasthttp.MethodPost, url, body)
	return err
}

func doRequest[T any](ctx context.Context, client *Client, method, url string, body any) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if client.tokens != nil {
		if token := client.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.SetBody(payload)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("backend API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
