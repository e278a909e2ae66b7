// Package match holds the normalized match-history record and the pure helpers
// that turn raw cell text into its fields.
package match

import (
	"fmt"
	"strings"
)

// Outcome is the normalized result of a match.
type Outcome string

const (
	Won  Outcome = "Won"
	Lost Outcome = "Lost"
)

// WonLiteral is the exact cell text the source site uses for a victory.
const WonLiteral = "Won Match"

// NormalizeResult maps raw result text to an Outcome. Only an exact match of
// WonLiteral is a win; everything else, empty text included, is a loss.
func NormalizeResult(raw string) Outcome {
	if raw == WonLiteral {
		return Won
	}
	return Lost
}

// FirstLine returns text up to the first line break. Carriage returns before
// the break are dropped, so "Ranked\r\nSolo" also yields "Ranked".
func FirstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimRight(line, "\r")
}

// AccountLabel returns the display label for the player at the 1-based position.
func AccountLabel(position int) string {
	return fmt.Sprintf("Account %d", position)
}

// Record is one match row of one player.
type Record struct {
	AccountLabel string  `json:"account_label"`
	PlayerID     string  `json:"player_id"`
	Hero         string  `json:"hero"`
	Result       Outcome `json:"result"`
	GameMode     string  `json:"game_mode"`
	Duration     string  `json:"duration"`
	StartTime    string  `json:"start_time"`
}

// Header lists the output column titles in output order.
var Header = []string{"Account", "Player ID", "Hero", "Result", "Game Mode", "Duration", "Start Time"}

// Row flattens the record into output column order, matching Header.
func (r Record) Row() []string {
	return []string{r.AccountLabel, r.PlayerID, r.Hero, string(r.Result), r.GameMode, r.Duration, r.StartTime}
}

// Player is one configured account to scrape.
type Player struct {
	ID    string
	Label string
}

// PlayersFromIDs assigns account labels by list position.
func PlayersFromIDs(ids []string) []Player {
	players := make([]Player, len(ids))
	for i, id := range ids {
		players[i] = Player{ID: id, Label: AccountLabel(i + 1)}
	}
	return players
}
