package stats

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const subjectPUUID = "subject-puuid"

// buildMatch creates a match in which the subject played champion with the given line
func buildMatch(matchID string, champion string, win bool, kills, deaths, assists int, durationSeconds int64) models.MatchDetail {
	return models.MatchDetail{
		Metadata: models.MatchMetadata{MatchID: matchID, Participants: []string{"other-puuid", subjectPUUID}},
		Info: models.MatchInfo{
			GameDuration: durationSeconds,
			QueueID:      420,
			Participants: []models.Participant{
				{PUUID: "other-puuid", ChampionName: "Teemo", Kills: 99},
				{
					PUUID:                       subjectPUUID,
					ChampionName:                champion,
					Win:                         win,
					Kills:                       kills,
					Deaths:                      deaths,
					Assists:                     assists,
					TotalMinionsKilled:          180,
					NeutralMinionsKilled:        30,
					TotalDamageDealtToChampions: 21000,
					VisionScore:                 25,
				},
			},
		},
	}
}

func TestAverageStatsEmpty(t *testing.T) {
	result := AverageStats(nil, subjectPUUID)

	if result.KDA != "0.0/0.0/0.0" {
		t.Errorf("Expected KDA '0.0/0.0/0.0', got '%s'", result.KDA)
	}

	if result != (models.AggregateStats{KDA: "0.0/0.0/0.0"}) {
		t.Errorf("Expected all counters to be zero, got %+v", result)
	}
}

// TestAverageStatsSubjectAbsent tests that matches without the subject contribute nothing
func TestAverageStatsSubjectAbsent(t *testing.T) {
	matches := []models.MatchDetail{
		buildMatch("EUW1_1", "Ahri", true, 5, 2, 3, 1800),
	}

	result := AverageStats(matches, "someone-else")
	if result.TotalGames != 0 || result.KDA != EmptyKDA {
		t.Errorf("Expected zero stats, got %+v", result)
	}

	result = AverageStats(matches, "")
	if result.TotalGames != 0 {
		t.Errorf("Expected zero stats for empty puuid, got %+v", result)
	}
}

// TestAverageStatsUniform tests per-game and per-minute averages over identical games
func TestAverageStatsUniform(t *testing.T) {
	matches := []models.MatchDetail{
		buildMatch("EUW1_1", "Ahri", true, 5, 2, 3, 1800),
		buildMatch("EUW1_2", "Ahri", true, 5, 2, 3, 1800),
		buildMatch("EUW1_3", "Lux", false, 5, 2, 3, 1800),
	}

	result := AverageStats(matches, subjectPUUID)

	expected := models.AggregateStats{
		KDA:          "5.0/2.0/3.0",
		AvgKills:     5,
		AvgDeaths:    2,
		AvgAssists:   3,
		CSPerMin:     7,
		DamagePerMin: 700,
		VisionScore:  25,
		TotalGames:   3,
		Wins:         2,
		Losses:       1,
		Winrate:      66.7,
	}

	if result != expected {
		t.Errorf("Expected %+v, got %+v", expected, result)
	}
}

// TestAverageStatsSkipsMalformed tests that non-positive durations are skipped
func TestAverageStatsSkipsMalformed(t *testing.T) {
	matches := []models.MatchDetail{
		buildMatch("EUW1_1", "Ahri", true, 10, 0, 10, 0),
		buildMatch("EUW1_2", "Ahri", false, 2, 4, 6, 1200),
	}

	result := AverageStats(matches, subjectPUUID)

	if result.TotalGames != 1 {
		t.Fatalf("Expected 1 game, got %d", result.TotalGames)
	}

	if result.KDA != "2.0/4.0/6.0" {
		t.Errorf("Expected KDA '2.0/4.0/6.0', got '%s'", result.KDA)
	}

	if result.CSPerMin != 10.5 {
		t.Errorf("Expected csPerMin 10.5, got %v", result.CSPerMin)
	}
}

// TestChampionLeaderboardTopFive tests ordering by games and truncation
func TestChampionLeaderboardTopFive(t *testing.T) {
	var matches []models.MatchDetail
	champions := []string{"Ahri", "Lux", "Zed", "Yasuo", "Jinx", "Thresh", "Ezreal"}

	for index, champion := range champions {
		for game := 0; game <= index; game++ {
			matches = append(matches, buildMatch(fmt.Sprintf("%s_%d", champion, game), champion, true, 1, 1, 1, 1500))
		}
	}

	leaderboard := ChampionLeaderboard(matches, subjectPUUID)

	if len(leaderboard) != TopChampionLimit {
		t.Fatalf("Expected %d champions, got %d", TopChampionLimit, len(leaderboard))
	}

	expectedOrder := []string{"Ezreal", "Thresh", "Jinx", "Yasuo", "Zed"}
	for index, name := range expectedOrder {
		if leaderboard[index].Name != name {
			t.Errorf("Expected position %d to be '%s', got '%s'", index, name, leaderboard[index].Name)
		}
	}

	for index := 1; index < len(leaderboard); index++ {
		if leaderboard[index-1].Games < leaderboard[index].Games {
			t.Errorf("Leaderboard not sorted by games at position %d", index)
		}
	}
}

// TestChampionLeaderboardWinrateTiebreak tests that equal games are ordered by winrate
func TestChampionLeaderboardWinrateTiebreak(t *testing.T) {
	matches := []models.MatchDetail{
		buildMatch("1", "Ahri", true, 1, 1, 1, 1500),
		buildMatch("2", "Ahri", false, 1, 1, 1, 1500),
		buildMatch("3", "Lux", true, 1, 1, 1, 1500),
		buildMatch("4", "Lux", true, 1, 1, 1, 1500),
	}

	leaderboard := ChampionLeaderboard(matches, subjectPUUID)

	if len(leaderboard) != 2 {
		t.Fatalf("Expected 2 champions, got %d", len(leaderboard))
	}

	if leaderboard[0].Name != "Lux" || leaderboard[0].Winrate != 100 {
		t.Errorf("Expected Lux with 100%% first, got %+v", leaderboard[0])
	}

	if leaderboard[1].Name != "Ahri" || leaderboard[1].Winrate != 50 {
		t.Errorf("Expected Ahri with 50%% second, got %+v", leaderboard[1])
	}
}

// TestChampionLeaderboardZeroDeaths tests the deathless KDA rule
func TestChampionLeaderboardZeroDeaths(t *testing.T) {
	matches := []models.MatchDetail{
		buildMatch("1", "Ahri", true, 4, 0, 6, 1500),
		buildMatch("2", "Lux", true, 4, 2, 6, 1500),
	}

	leaderboard := ChampionLeaderboard(matches, subjectPUUID)

	for _, entry := range leaderboard {
		switch entry.Name {
		case "Ahri":
			if entry.AvgKDA != 10 {
				t.Errorf("Expected deathless avgKda 10, got %v", entry.AvgKDA)
			}
		case "Lux":
			if entry.AvgKDA != 5 {
				t.Errorf("Expected avgKda 5, got %v", entry.AvgKDA)
			}
		}
	}
}

func TestSummarizeSoloQueue(t *testing.T) {
	entries := []models.RankedEntry{
		{QueueType: models.QueueRankedFlex, Tier: "GOLD", Rank: "II", Wins: 1, Losses: 1},
		{QueueType: models.QueueRankedSolo, Tier: "DIAMOND", Rank: "IV", LeaguePoints: 42, Wins: 2, Losses: 1},
	}

	summary := SummarizeSoloQueue(entries)

	if summary.Tier != "DIAMOND" || summary.Rank != "IV" || summary.LeaguePoints != 42 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	if summary.Winrate != 66.7 {
		t.Errorf("Expected winrate 66.7, got %v", summary.Winrate)
	}

	unranked := SummarizeSoloQueue(entries[:1])
	if unranked.Tier != UnrankedTier || unranked.Winrate != 0 {
		t.Errorf("Expected unranked summary, got %+v", unranked)
	}
}

func TestRecentMatches(t *testing.T) {
	matches := []models.MatchDetail{
		buildMatch("EUW1_2", "Ahri", true, 7, 1, 9, 1500),
		buildMatch("EUW1_1", "Lux", false, 1, 5, 2, 0),
		buildMatch("EUW1_0", "Zed", false, 3, 3, 3, 1200),
	}

	summaries := RecentMatches(matches, subjectPUUID)

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	if summaries[0].MatchID != "EUW1_2" || summaries[1].MatchID != "EUW1_0" {
		t.Errorf("Expected input order to be kept, got %s, %s", summaries[0].MatchID, summaries[1].MatchID)
	}

	first := summaries[0]
	if first.KDA != "7/1/9" || first.CreepScore != 210 || first.DurationMinutes != 25 {
		t.Errorf("Unexpected summary %+v", first)
	}

	if first.QueueName != "Ranked Solo" {
		t.Errorf("Expected queue 'Ranked Solo', got '%s'", first.QueueName)
	}

	if len(first.Items) != 7 {
		t.Errorf("Expected 7 item slots, got %d", len(first.Items))
	}
}

func TestQueueName(t *testing.T) {
	testCases := map[int]string{
		420:  "Ranked Solo",
		440:  "Ranked Flex",
		450:  "ARAM",
		1700: "Arena",
		0:    "Other",
		9999: "Other",
	}

	for queueID, expected := range testCases {
		if name := QueueName(queueID); name != expected {
			t.Errorf("Queue %d: expected '%s', got '%s'", queueID, expected, name)
		}
	}
}

// TestSummarizeLogsMalformedOnce tests that one history pass reports each skipped match a single time
func TestSummarizeLogsMalformedOnce(t *testing.T) {
	var output bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&output)
	t.Cleanup(func() { log.Logger = previous })

	matches := []models.MatchDetail{
		buildMatch("EUW1_1", "Ahri", true, 10, 0, 10, 0),
		buildMatch("EUW1_2", "Ahri", false, 2, 4, 6, 1200),
	}

	summary := Summarize(matches, subjectPUUID)

	if count := strings.Count(output.String(), "EUW1_1"); count != 1 {
		t.Errorf("Expected the malformed match to be logged once, got %d times", count)
	}

	if summary.Stats.TotalGames != 1 || summary.Stats.KDA != "2.0/4.0/6.0" {
		t.Errorf("Expected stats over one game, got %+v", summary.Stats)
	}

	if len(summary.TopChampions) != 1 || summary.TopChampions[0].Games != 1 {
		t.Errorf("Expected one champion with one game, got %+v", summary.TopChampions)
	}

	if len(summary.RecentMatches) != 1 || summary.RecentMatches[0].MatchID != "EUW1_2" {
		t.Errorf("Expected only EUW1_2 in recent matches, got %+v", summary.RecentMatches)
	}
}
