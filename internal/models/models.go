package models

// Ranked queue types returned by the league endpoint
const (
	QueueRankedSolo = "RANKED_SOLO_5x5"
	QueueRankedFlex = "RANKED_FLEX_SR"
)

// Identity is a parsed Riot ID (gameName#tagLine)
type Identity struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// String returns the Riot ID in its display form
func (identity Identity) String() string {
	return identity.GameName + "#" + identity.TagLine
}

// Account represents a Riot account resolved from a Riot ID
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner represents a League of Legends summoner on one platform shard.
// GameName and TagLine are display fields merged in from the Account.
type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId,omitempty"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int64  `json:"summonerLevel"`
	RevisionDate  int64  `json:"revisionDate,omitempty"`
	GameName      string `json:"gameName,omitempty"`
	TagLine       string `json:"tagLine,omitempty"`
}

// RankedEntry represents one ranked queue standing of a summoner
type RankedEntry struct {
	LeagueID     string `json:"leagueId,omitempty"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HotStreak    bool   `json:"hotStreak,omitempty"`
}

// ChampionMastery represents a player's mastery of a single champion
type ChampionMastery struct {
	PUUID          string `json:"puuid"`
	ChampionID     int    `json:"championId"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int    `json:"championPoints"`
	LastPlayTime   int64  `json:"lastPlayTime"`
	ChampionName   string `json:"championName,omitempty"`
}

// MatchDetail represents a single match as returned by match-v5
type MatchDetail struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// MatchMetadata holds the match id and the puuids of all participants
type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

// MatchInfo holds the game-level data of a match
type MatchInfo struct {
	GameCreation int64         `json:"gameCreation"`
	GameDuration int64         `json:"gameDuration"` // seconds
	GameMode     string        `json:"gameMode"`
	QueueID      int           `json:"queueId"`
	Participants []Participant `json:"participants"`
}

// Participant represents a player's performance in a specific match
type Participant struct {
	PUUID                       string `json:"puuid"`
	RiotIDGameName              string `json:"riotIdGameName,omitempty"`
	RiotIDTagline               string `json:"riotIdTagline,omitempty"`
	ChampionID                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	TeamID                      int    `json:"teamId"`
	TeamPosition                string `json:"teamPosition"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	VisionScore                 int    `json:"visionScore"`
	GoldEarned                  int    `json:"goldEarned"`
	ChampLevel                  int    `json:"champLevel"`
	Summoner1ID                 int    `json:"summoner1Id"`
	Summoner2ID                 int    `json:"summoner2Id"`
	Item0                       int    `json:"item0"`
	Item1                       int    `json:"item1"`
	Item2                       int    `json:"item2"`
	Item3                       int    `json:"item3"`
	Item4                       int    `json:"item4"`
	Item5                       int    `json:"item5"`
	Item6                       int    `json:"item6"`
}

// CreepScore returns minion plus neutral monster kills
func (participant *Participant) CreepScore() int {
	return participant.TotalMinionsKilled + participant.NeutralMinionsKilled
}

// Items returns the six item slots followed by the trinket
func (participant *Participant) Items() []int {
	return []int{
		participant.Item0, participant.Item1, participant.Item2,
		participant.Item3, participant.Item4, participant.Item5,
		participant.Item6,
	}
}

// FindParticipant returns the participant whose puuid matches, or nil
func (match *MatchDetail) FindParticipant(puuid string) *Participant {
	if match == nil || puuid == "" {
		return nil
	}
	for index := range match.Info.Participants {
		if match.Info.Participants[index].PUUID == puuid {
			return &match.Info.Participants[index]
		}
	}
	return nil
}
