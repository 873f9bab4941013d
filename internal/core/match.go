package core

import "time"

// MatchRecord summarizes a finished match. It is what gets persisted and
// exported; field names follow the JSON export format.
type MatchRecord struct {
	MatchID           string    `json:"matchId"`
	GameMode          string    `json:"gameMode"`
	Difficulty        string    `json:"difficulty"`
	Player1Score      int       `json:"player1Score"`
	Player2Score      int       `json:"player2Score"`
	Winner            string    `json:"winner"`
	GameDuration      float64   `json:"gameDuration"` // Seconds of simulated play
	TotalHits         int       `json:"totalHits"`
	LongestRally      int       `json:"longestRally"`
	PowerUpsCollected int       `json:"powerUpsCollected"`
	PlayedAt          time.Time `json:"playedAt"`
}
