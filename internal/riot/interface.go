package riot

import (
	"context"

	"github.com/OPGLOL/opgl-profile-service/internal/models"
)

// ClientInterface defines the Riot web API operations used by the profile pipeline.
// This interface enables mocking in tests
type ClientInterface interface {
	// GetAccountByRiotID resolves a Riot ID on one routing region
	GetAccountByRiotID(ctx context.Context, routing string, gameName string, tagLine string) (*models.Account, error)

	// GetSummonerByPUUID retrieves the summoner of a player on one platform
	GetSummonerByPUUID(ctx context.Context, platform string, puuid string) (*models.Summoner, error)

	// GetRankedEntries retrieves the ranked standings of a summoner
	GetRankedEntries(ctx context.Context, platform string, summonerID string) ([]models.RankedEntry, error)

	// GetMatchIDs retrieves the most recent match ids of a player, newest first
	GetMatchIDs(ctx context.Context, routing string, puuid string, count int) ([]string, error)

	// GetMatch retrieves the full record of one match
	GetMatch(ctx context.Context, routing string, matchID string) (*models.MatchDetail, error)

	// GetChampionMasteries retrieves the champion masteries of a player
	GetChampionMasteries(ctx context.Context, platform string, puuid string) ([]models.ChampionMastery, error)
}

// StaticDataInterface defines the Data Dragon lookups used by the profile pipeline
type StaticDataInterface interface {
	// LatestVersion returns the current game version, or the built-in fallback on any failure
	LatestVersion(ctx context.Context) models.GameVersion

	// ChampionNames maps numeric champion ids to display names for a version
	ChampionNames(ctx context.Context, version string) (map[int]string, error)

	// ProfileIconURL returns the CDN address of a profile icon
	ProfileIconURL(version string, iconID int) string

	// PatchNotesURL returns the patch notes page for a version
	PatchNotesURL(version models.GameVersion, locale string) string
}
