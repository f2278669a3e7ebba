// Package profile assembles a player's profile from the Riot web API.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/identity"
	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/OPGLOL/opgl-profile-service/internal/region"
	"github.com/OPGLOL/opgl-profile-service/internal/riot"
	"github.com/OPGLOL/opgl-profile-service/internal/stats"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config holds the tunables of the profile pipeline
type Config struct {
	DefaultTagLine        string
	DefaultPlatform       string
	MatchCount            int
	MatchFetchConcurrency int
}

// Service builds PlayerProfiles. Only account resolution is fail-fast;
// every later fetch degrades to an empty value.
type Service struct {
	client riot.ClientInterface
	static riot.StaticDataInterface
	config Config
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new Service instance
func NewService(client riot.ClientInterface, static riot.StaticDataInterface, config Config, logger zerolog.Logger) *Service {
	if config.MatchCount <= 0 {
		config.MatchCount = 20
	}
	if config.MatchFetchConcurrency <= 0 {
		config.MatchFetchConcurrency = 5
	}

	return &Service{
		client: client,
		static: static,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// FetchProfile resolves riotID and assembles its profile. Every returned error is an *apierrors.APIError.
func (service *Service) FetchProfile(ctx context.Context, riotID string) (playerProfile *models.PlayerProfile, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			service.logger.Error().Interface("panic", recovered).Str("riot_id", riotID).Msg("Recovered from panic while assembling profile")
			playerProfile = nil
			err = apierrors.InternalError("Failed to fetch player profile")
		}
	}()

	playerIdentity, err := identity.Parse(riotID, service.config.DefaultTagLine)
	if err != nil {
		return nil, apierrors.FromError(err)
	}

	logger := service.logger.With().Str("riot_id", playerIdentity.String()).Logger()

	account, routing, err := service.resolveAccount(ctx, playerIdentity)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierrors.FromError(ctx.Err())
		}
		logger.Info().Err(err).Msg("Account not found")
		return nil, apierrors.PlayerNotFound(playerIdentity.GameName, playerIdentity.TagLine)
	}

	summoner, platform, err := service.resolveSummoner(ctx, account.PUUID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierrors.FromError(ctx.Err())
		}
		logger.Warn().Err(err).Str("puuid", account.PUUID).Msg("Summoner not found, continuing without ranked data")
		summoner = nil
		platform = service.config.DefaultPlatform
	}

	matchRouting := routing
	if summoner != nil {
		if platformRouting, ok := region.RoutingForPlatform(platform); ok {
			matchRouting = platformRouting
		}
	}

	var (
		matches       []models.MatchDetail
		rankedEntries []models.RankedEntry
		masteries     []models.ChampionMastery
		version       models.GameVersion
		championNames map[int]string
	)

	var group errgroup.Group
	goSafely(&group, "matches", func() {
		matches = service.fetchMatches(ctx, logger, matchRouting, account.PUUID)
	})
	goSafely(&group, "ranked", func() {
		if summoner == nil {
			return
		}
		entries, err := service.client.GetRankedEntries(ctx, platform, summoner.ID)
		if err != nil {
			logger.Warn().Err(err).Msg("Ranked entries unavailable")
			return
		}
		rankedEntries = entries
	})
	goSafely(&group, "mastery", func() {
		entries, err := service.client.GetChampionMasteries(ctx, platform, account.PUUID)
		if err != nil {
			logger.Warn().Err(err).Msg("Champion masteries unavailable")
			return
		}
		masteries = entries
	})
	goSafely(&group, "static", func() {
		version = service.static.LatestVersion(ctx)
		names, err := service.static.ChampionNames(ctx, version.Full)
		if err != nil {
			logger.Warn().Err(err).Msg("Champion names unavailable")
			return
		}
		championNames = names
	})

	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("Profile assembly failed")
		return nil, apierrors.InternalError("Failed to fetch player profile")
	}

	if ctx.Err() != nil {
		return nil, apierrors.FromError(ctx.Err())
	}

	return service.assemble(account, summoner, platform, matchRouting, matches, rankedEntries, masteries, championNames, version), nil
}

// resolveAccount probes the routing regions for the account of a Riot ID
func (service *Service) resolveAccount(ctx context.Context, playerIdentity models.Identity) (*models.Account, string, error) {
	return region.Resolve(ctx, region.RoutingRegions, func(ctx context.Context, routing string) (*models.Account, error) {
		account, err := service.client.GetAccountByRiotID(ctx, routing, playerIdentity.GameName, playerIdentity.TagLine)
		if err != nil {
			return nil, err
		}
		if account == nil || account.PUUID == "" {
			return nil, fmt.Errorf("account on %s has no puuid: %w", routing, apierrors.ErrNotFound)
		}
		return account, nil
	})
}

// resolveSummoner probes the platform shards for the summoner of a puuid
func (service *Service) resolveSummoner(ctx context.Context, puuid string) (*models.Summoner, string, error) {
	return region.Resolve(ctx, region.PlatformRegions, func(ctx context.Context, platform string) (*models.Summoner, error) {
		summoner, err := service.client.GetSummonerByPUUID(ctx, platform, puuid)
		if err != nil {
			return nil, err
		}
		if summoner == nil {
			return nil, fmt.Errorf("empty summoner on %s: %w", platform, apierrors.ErrNotFound)
		}
		return summoner, nil
	})
}

// fetchMatches loads the recent match ids and their details with bounded concurrency.
// Failed details are dropped; the result keeps match-id order.
func (service *Service) fetchMatches(ctx context.Context, logger zerolog.Logger, routing string, puuid string) []models.MatchDetail {
	matchIDs, err := service.client.GetMatchIDs(ctx, routing, puuid, service.config.MatchCount)
	if err != nil {
		logger.Warn().Err(err).Str("routing", routing).Msg("Match history unavailable")
		return nil
	}

	details := make([]*models.MatchDetail, len(matchIDs))

	var group errgroup.Group
	group.SetLimit(service.config.MatchFetchConcurrency)

	for index, matchID := range matchIDs {
		goSafely(&group, "match "+matchID, func() {
			if ctx.Err() != nil {
				return
			}
			detail, err := service.client.GetMatch(ctx, routing, matchID)
			if err != nil {
				logger.Debug().Err(err).Str("match_id", matchID).Msg("Dropping match detail")
				return
			}
			details[index] = detail
		})
	}

	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("Match detail fetch failed")
	}

	matches := make([]models.MatchDetail, 0, len(details))
	for _, detail := range details {
		if detail != nil {
			matches = append(matches, *detail)
		}
	}

	return matches
}

func (service *Service) assemble(
	account *models.Account,
	summoner *models.Summoner,
	platform string,
	routing string,
	matches []models.MatchDetail,
	rankedEntries []models.RankedEntry,
	masteries []models.ChampionMastery,
	championNames map[int]string,
	version models.GameVersion,
) *models.PlayerProfile {
	if matches == nil {
		matches = []models.MatchDetail{}
	}
	if rankedEntries == nil {
		rankedEntries = []models.RankedEntry{}
	}
	if masteries == nil {
		masteries = []models.ChampionMastery{}
	}

	for index := range masteries {
		if name, ok := championNames[masteries[index].ChampionID]; ok {
			masteries[index].ChampionName = name
		}
	}

	history := stats.Summarize(matches, account.PUUID)

	playerProfile := &models.PlayerProfile{
		Account:        *account,
		PlatformRegion: platform,
		RoutingRegion:  routing,
		Stats:          history.Stats,
		TopChampions:   history.TopChampions,
		RankedEntries:  rankedEntries,
		SoloQueue:      stats.SummarizeSoloQueue(rankedEntries),
		Masteries:      masteries,
		Matches:        matches,
		RecentMatches:  history.RecentMatches,
		GameVersion:    version,
		FetchedAt:      service.now().UTC(),
	}

	if summoner != nil {
		enriched := *summoner
		enriched.GameName = account.GameName
		enriched.TagLine = account.TagLine
		playerProfile.Summoner = &enriched
		playerProfile.ProfileIconURL = service.static.ProfileIconURL(version.Full, enriched.ProfileIconID)
	}

	return playerProfile
}

// errPanic marks a recovered panic inside a pipeline goroutine
var errPanic = errors.New("panic in profile pipeline")

// goSafely runs task on group, turning a panic into a group error
func goSafely(group *errgroup.Group, name string, task func()) {
	group.Go(func() (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = fmt.Errorf("%w (%s): %v", errPanic, name, recovered)
			}
		}()
		task()
		return nil
	})
}
