// Package stats derives summary statistics from raw match records.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/rs/zerolog/log"
)

// TopChampionLimit is the number of champions kept on the leaderboard
const TopChampionLimit = 5

// UnrankedTier is reported when a player has no solo queue entry
const UnrankedTier = "UNRANKED"

// EmptyKDA is the average KDA of a player without valid matches
const EmptyKDA = "0.0/0.0/0.0"

// validGame is the subject's participation in a well-formed match
type validGame struct {
	match       *models.MatchDetail
	participant *models.Participant
	minutes     float64
}

// validGames keeps the matches in which the subject took part and whose duration is positive.
// Anything else is a malformed record and is skipped.
func validGames(matches []models.MatchDetail, puuid string) []validGame {
	games := make([]validGame, 0, len(matches))

	if puuid == "" {
		return games
	}

	for index := range matches {
		match := &matches[index]

		participant := match.FindParticipant(puuid)
		if participant == nil {
			log.Warn().Str("match_id", match.Metadata.MatchID).Msg("Skipping match without subject participant")
			continue
		}

		if match.Info.GameDuration <= 0 {
			log.Warn().
				Str("match_id", match.Metadata.MatchID).
				Int64("game_duration", match.Info.GameDuration).
				Msg("Skipping match with non-positive duration")
			continue
		}

		games = append(games, validGame{
			match:       match,
			participant: participant,
			minutes:     float64(match.Info.GameDuration) / 60,
		})
	}

	return games
}

// Summary is everything derived from one player's match history
type Summary struct {
	Stats         models.AggregateStats
	TopChampions  []models.ChampionStats
	RecentMatches []models.MatchSummary
}

// Summarize filters the matches once and derives the aggregate stats,
// the champion leaderboard and the recent match rows from the valid ones
func Summarize(matches []models.MatchDetail, puuid string) Summary {
	games := validGames(matches, puuid)
	return Summary{
		Stats:         averageStats(games),
		TopChampions:  championLeaderboard(games),
		RecentMatches: recentMatches(games),
	}
}

// round1 rounds to one decimal place
func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// AverageStats averages the subject's performance over every valid match
func AverageStats(matches []models.MatchDetail, puuid string) models.AggregateStats {
	return averageStats(validGames(matches, puuid))
}

func averageStats(games []validGame) models.AggregateStats {
	if len(games) == 0 {
		return models.AggregateStats{KDA: EmptyKDA}
	}

	var kills, deaths, assists, creepScore, damage, vision, wins int
	var minutes float64

	for _, game := range games {
		kills += game.participant.Kills
		deaths += game.participant.Deaths
		assists += game.participant.Assists
		creepScore += game.participant.CreepScore()
		damage += game.participant.TotalDamageDealtToChampions
		vision += game.participant.VisionScore
		minutes += game.minutes
		if game.participant.Win {
			wins++
		}
	}

	totalGames := float64(len(games))
	avgKills := float64(kills) / totalGames
	avgDeaths := float64(deaths) / totalGames
	avgAssists := float64(assists) / totalGames

	return models.AggregateStats{
		KDA:          fmt.Sprintf("%.1f/%.1f/%.1f", avgKills, avgDeaths, avgAssists),
		AvgKills:     round1(avgKills),
		AvgDeaths:    round1(avgDeaths),
		AvgAssists:   round1(avgAssists),
		CSPerMin:     round1(float64(creepScore) / minutes),
		DamagePerMin: round1(float64(damage) / minutes),
		VisionScore:  round1(float64(vision) / totalGames),
		TotalGames:   len(games),
		Wins:         wins,
		Losses:       len(games) - wins,
		Winrate:      round1(float64(wins) / totalGames * 100),
	}
}

// ChampionLeaderboard groups valid matches by champion and returns the most played ones.
// Ties on games are broken by winrate, then by name.
func ChampionLeaderboard(matches []models.MatchDetail, puuid string) []models.ChampionStats {
	return championLeaderboard(validGames(matches, puuid))
}

func championLeaderboard(games []validGame) []models.ChampionStats {
	byChampion := make(map[string]*models.ChampionStats)

	for _, game := range games {
		name := game.participant.ChampionName

		entry, ok := byChampion[name]
		if !ok {
			entry = &models.ChampionStats{Name: name, ChampionID: game.participant.ChampionID}
			byChampion[name] = entry
		}

		entry.Games++
		entry.Kills += game.participant.Kills
		entry.Deaths += game.participant.Deaths
		entry.Assists += game.participant.Assists
		if game.participant.Win {
			entry.Wins++
		}
	}

	leaderboard := make([]models.ChampionStats, 0, len(byChampion))
	for _, entry := range byChampion {
		entry.Winrate = float64(entry.Wins) / float64(entry.Games) * 100
		if entry.Deaths == 0 {
			entry.AvgKDA = float64(entry.Kills + entry.Assists)
		} else {
			entry.AvgKDA = float64(entry.Kills+entry.Assists) / float64(entry.Deaths)
		}
		leaderboard = append(leaderboard, *entry)
	}

	sort.Slice(leaderboard, func(i, j int) bool {
		if leaderboard[i].Games != leaderboard[j].Games {
			return leaderboard[i].Games > leaderboard[j].Games
		}
		if leaderboard[i].Winrate != leaderboard[j].Winrate {
			return leaderboard[i].Winrate > leaderboard[j].Winrate
		}
		return leaderboard[i].Name < leaderboard[j].Name
	})

	if len(leaderboard) > TopChampionLimit {
		leaderboard = leaderboard[:TopChampionLimit]
	}

	return leaderboard
}

// SummarizeSoloQueue picks the solo queue entry, or reports the player as unranked
func SummarizeSoloQueue(entries []models.RankedEntry) models.RankedSummary {
	for _, entry := range entries {
		if entry.QueueType != models.QueueRankedSolo {
			continue
		}

		summary := models.RankedSummary{
			QueueType:    entry.QueueType,
			Tier:         entry.Tier,
			Rank:         entry.Rank,
			LeaguePoints: entry.LeaguePoints,
			Wins:         entry.Wins,
			Losses:       entry.Losses,
		}
		if games := entry.Wins + entry.Losses; games > 0 {
			summary.Winrate = round1(float64(entry.Wins) / float64(games) * 100)
		}
		return summary
	}

	return models.RankedSummary{QueueType: models.QueueRankedSolo, Tier: UnrankedTier}
}

// RecentMatches builds one display row per valid match, keeping input order
func RecentMatches(matches []models.MatchDetail, puuid string) []models.MatchSummary {
	return recentMatches(validGames(matches, puuid))
}

func recentMatches(games []validGame) []models.MatchSummary {
	summaries := make([]models.MatchSummary, 0, len(games))

	for _, game := range games {
		participant := game.participant
		summaries = append(summaries, models.MatchSummary{
			MatchID:         game.match.Metadata.MatchID,
			ChampionName:    participant.ChampionName,
			ChampionID:      participant.ChampionID,
			QueueID:         game.match.Info.QueueID,
			QueueName:       QueueName(game.match.Info.QueueID),
			Win:             participant.Win,
			Kills:           participant.Kills,
			Deaths:          participant.Deaths,
			Assists:         participant.Assists,
			KDA:             fmt.Sprintf("%d/%d/%d", participant.Kills, participant.Deaths, participant.Assists),
			CreepScore:      participant.CreepScore(),
			DurationMinutes: round1(game.minutes),
			Items:           participant.Items(),
			GameCreation:    game.match.Info.GameCreation,
		})
	}

	return summaries
}
