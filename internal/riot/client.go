package riot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/OPGLOL/opgl-profile-service/internal/models"
)

// DefaultHostTemplate is the Riot API host with a {region} placeholder
const DefaultHostTemplate = "https://{region}.api.riotgames.com"

// Client talks to the regional Riot web API shards
type Client struct {
	hostTemplate string
	transport    *transport
}

// NewClient creates a new Client instance
func NewClient(apiKey string, hostTemplate string, requestTimeout time.Duration, maxRetries uint64) *Client {
	if hostTemplate == "" {
		hostTemplate = DefaultHostTemplate
	}

	return &Client{
		hostTemplate: hostTemplate,
		transport:    newTransport(apiKey, requestTimeout, maxRetries),
	}
}

// buildURL places region into the host template and appends the escaped path segments
func (client *Client) buildURL(region string, pathTemplate string, segments ...string) string {
	host := strings.ReplaceAll(client.hostTemplate, "{region}", region)

	escaped := make([]any, len(segments))
	for index, segment := range segments {
		escaped[index] = url.PathEscape(segment)
	}

	return host + fmt.Sprintf(pathTemplate, escaped...)
}

// GetAccountByRiotID resolves a Riot ID on one routing region
func (client *Client) GetAccountByRiotID(ctx context.Context, routing string, gameName string, tagLine string) (*models.Account, error) {
	requestURL := client.buildURL(routing, "/riot/account/v1/accounts/by-riot-id/%s/%s", gameName, tagLine)
	return doRequest[models.Account](ctx, client.transport, requestURL)
}

// GetSummonerByPUUID retrieves the summoner of a player on one platform
func (client *Client) GetSummonerByPUUID(ctx context.Context, platform string, puuid string) (*models.Summoner, error) {
	requestURL := client.buildURL(platform, "/lol/summoner/v4/summoners/by-puuid/%s", puuid)
	return doRequest[models.Summoner](ctx, client.transport, requestURL)
}

// GetRankedEntries retrieves the ranked standings of a summoner
func (client *Client) GetRankedEntries(ctx context.Context, platform string, summonerID string) ([]models.RankedEntry, error) {
	requestURL := client.buildURL(platform, "/lol/league/v4/entries/by-summoner/%s", summonerID)

	entries, err := doRequest[[]models.RankedEntry](ctx, client.transport, requestURL)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// GetMatchIDs retrieves the most recent match ids of a player, newest first
func (client *Client) GetMatchIDs(ctx context.Context, routing string, puuid string, count int) ([]string, error) {
	requestURL := client.buildURL(routing, "/lol/match/v5/matches/by-puuid/%s/ids", puuid) + fmt.Sprintf("?count=%d", count)

	matchIDs, err := doRequest[[]string](ctx, client.transport, requestURL)
	if err != nil {
		return nil, err
	}
	return *matchIDs, nil
}

// GetMatch retrieves the full record of one match
func (client *Client) GetMatch(ctx context.Context, routing string, matchID string) (*models.MatchDetail, error) {
	requestURL := client.buildURL(routing, "/lol/match/v5/matches/%s", matchID)
	return doRequest[models.MatchDetail](ctx, client.transport, requestURL)
}

// GetChampionMasteries retrieves the champion masteries of a player
func (client *Client) GetChampionMasteries(ctx context.Context, platform string, puuid string) ([]models.ChampionMastery, error) {
	requestURL := client.buildURL(platform, "/lol/champion-mastery/v4/champion-masteries/by-puuid/%s", puuid)

	masteries, err := doRequest[[]models.ChampionMastery](ctx, client.transport, requestURL)
	if err != nil {
		return nil, err
	}
	return *masteries, nil
}
