package models

import "time"

// AggregateStats contains averaged performance over the valid matches of a player
type AggregateStats struct {
	KDA          string  `json:"kda"`
	AvgKills     float64 `json:"avgKills"`
	AvgDeaths    float64 `json:"avgDeaths"`
	AvgAssists   float64 `json:"avgAssists"`
	CSPerMin     float64 `json:"csPerMin"`
	DamagePerMin float64 `json:"damagePerMin"`
	VisionScore  float64 `json:"visionScore"`
	TotalGames   int     `json:"totalGames"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Winrate      float64 `json:"winrate"`
}

// ChampionStats contains per-champion totals for the leaderboard
type ChampionStats struct {
	Name       string  `json:"name"`
	ChampionID int     `json:"championId"`
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	Winrate    float64 `json:"winrate"`
	AvgKDA     float64 `json:"avgKda"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	Assists    int     `json:"assists"`
}

// RankedSummary is the solo queue standing shown on a profile
type RankedSummary struct {
	QueueType    string  `json:"queueType"`
	Tier         string  `json:"tier"`
	Rank         string  `json:"rank"`
	LeaguePoints int     `json:"leaguePoints"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Winrate      float64 `json:"winrate"`
}

// MatchSummary is one row of the recent match history
type MatchSummary struct {
	MatchID         string  `json:"matchId"`
	ChampionName    string  `json:"championName"`
	ChampionID      int     `json:"championId"`
	QueueID         int     `json:"queueId"`
	QueueName       string  `json:"queueName"`
	Win             bool    `json:"win"`
	Kills           int     `json:"kills"`
	Deaths          int     `json:"deaths"`
	Assists         int     `json:"assists"`
	KDA             string  `json:"kda"`
	CreepScore      int     `json:"creepScore"`
	DurationMinutes float64 `json:"durationMinutes"`
	Items           []int   `json:"items"`
	GameCreation    int64   `json:"gameCreation"`
}

// GameVersion is a Data Dragon version split into its display parts
type GameVersion struct {
	Full  string `json:"version"`
	Major string `json:"major"`
	Minor string `json:"minor"`
}

// PlayerProfile is the consolidated result of one profile search.
// Summoner is nil when no platform shard knew the player.
type PlayerProfile struct {
	Account        Account           `json:"account"`
	Summoner       *Summoner         `json:"summoner"`
	PlatformRegion string            `json:"platformRegion"`
	RoutingRegion  string            `json:"routingRegion"`
	Stats          AggregateStats    `json:"stats"`
	TopChampions   []ChampionStats   `json:"topChampions"`
	RankedEntries  []RankedEntry     `json:"rankedEntries"`
	SoloQueue      RankedSummary     `json:"soloQueue"`
	Masteries      []ChampionMastery `json:"masteries"`
	Matches        []MatchDetail     `json:"matches"`
	RecentMatches  []MatchSummary    `json:"recentMatches"`
	ProfileIconURL string            `json:"profileIconUrl,omitempty"`
	GameVersion    GameVersion       `json:"gameVersion"`
	FetchedAt      time.Time         `json:"fetchedAt"`
}
