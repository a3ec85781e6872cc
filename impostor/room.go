/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"math/rand/v2"
	"slices"
	"strings"
	"time"
)

const (
	// MinPlayers is the smallest roster a game can start with.
	MinPlayers = 3

	// DefaultMaxPlayers caps the roster unless configured otherwise.
	DefaultMaxPlayers = 10

	// MaxImpostors bounds the impostor count a room can be created with.
	MaxImpostors = 5

	// RoomCodeLength is the length of a room code.
	RoomCodeLength = 4

	// RoomCodeChars excludes I and O so codes read unambiguously.
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// Palette is handed out to players in join order.
var Palette = []string{
	"#3B82F6",
	"#10B981",
	"#F59E0B",
	"#8B5CF6",
	"#EC4899",
	"#14B8A6",
	"#F97316",
	"#6366F1",
	"#84CC16",
	"#06B6D4",
}

type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseClues   Phase = "clues"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
)

// Player is a room member. Role and Word are only set while a game is
// running and Word is only ever sent to its owner until the results.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	IsAdmin bool   `json:"isAdmin"`
	Role    Role   `json:"role,omitempty"`
	Word    string `json:"word,omitempty"`
}

// PublicPlayer is the part of a Player everyone in the room may see.
type PublicPlayer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	IsAdmin bool   `json:"isAdmin"`
}

func (p Player) Public() PublicPlayer {
	return PublicPlayer{
		ID:      p.ID,
		Name:    p.Name,
		Color:   p.Color,
		IsAdmin: p.IsAdmin,
	}
}

type Clue struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Clue       string `json:"clue"`
}

type Vote struct {
	VoterID    string `json:"voterId"`
	VoterName  string `json:"voterName"`
	VotedForID string `json:"votedForId"`
}

// Room is one game session. Players is ordered; the order is the turn
// order and decides who inherits the admin role.
type Room struct {
	Code           string
	Players        []Player
	Category       string
	ImpostorCount  int
	AdminID        string
	Started        bool
	Phase          Phase
	TurnIndex      int
	StartingPlayer string
	Clues          []Clue
	Votes          []Vote
	Round          int
	Eliminated     []string

	createdAt  time.Time
	lastActive time.Time
}

func (r *Room) indexOf(playerID string) int {
	return slices.IndexFunc(r.Players, func(p Player) bool {
		return p.ID == playerID
	})
}

func (r *Room) player(playerID string) (*Player, bool) {
	i := r.indexOf(playerID)
	if i < 0 {
		return nil, false
	}

	return &r.Players[i], true
}

func (r *Room) isAdmin(playerID string) bool {
	return playerID != "" && playerID == r.AdminID
}

// TurnsComplete reports whether every player has had their turn. The turn
// index is allowed to run one past the roster to mean exactly this.
func (r *Room) TurnsComplete() bool {
	return r.TurnIndex >= len(r.Players)
}

func (r *Room) currentPlayerName() string {
	if r.TurnIndex < 0 || r.TurnsComplete() {
		return ""
	}

	return r.Players[r.TurnIndex].Name
}

func (r *Room) publicPlayers() []PublicPlayer {
	out := make([]PublicPlayer, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.Public())
	}

	return out
}

func (r *Room) isEliminated(playerID string) bool {
	return slices.Contains(r.Eliminated, playerID)
}

// active returns the players still in the current game.
func (r *Room) active() []Player {
	out := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !r.isEliminated(p.ID) {
			out = append(out, p)
		}
	}

	return out
}

func (r *Room) hasClue(playerID string) bool {
	return slices.ContainsFunc(r.Clues, func(c Clue) bool {
		return c.PlayerID == playerID
	})
}

func (r *Room) hasVoted(playerID string) bool {
	return slices.ContainsFunc(r.Votes, func(v Vote) bool {
		return v.VoterID == playerID
	})
}

func (r *Room) votedIDs() []string {
	ids := make([]string, 0, len(r.Votes))
	for _, v := range r.Votes {
		ids = append(ids, v.VoterID)
	}

	return ids
}

// removePlayer drops a member along with anything they submitted this
// round and any vote naming them, so those voters can vote again. It hands
// the admin role to the first remaining player if needed and returns the
// position the player held.
func (r *Room) removePlayer(playerID string) (int, bool) {
	i := r.indexOf(playerID)
	if i < 0 {
		return -1, false
	}

	r.Players = slices.Delete(r.Players, i, i+1)

	r.Clues = slices.DeleteFunc(r.Clues, func(c Clue) bool {
		return c.PlayerID == playerID
	})
	r.Votes = slices.DeleteFunc(r.Votes, func(v Vote) bool {
		return v.VoterID == playerID || v.VotedForID == playerID
	})
	r.Eliminated = slices.DeleteFunc(r.Eliminated, func(id string) bool {
		return id == playerID
	})

	if r.AdminID == playerID && len(r.Players) > 0 {
		r.AdminID = r.Players[0].ID
		r.Players[0].IsAdmin = true
	}

	return i, true
}

// newGame deals fresh roles and resets everything a game accumulates.
func (r *Room) newGame(pairs []WordPair, rng *rand.Rand) {
	for i := range r.Players {
		r.Players[i].Role = ""
		r.Players[i].Word = ""
	}

	r.Players = Assign(r.Players, pairs, r.ImpostorCount, rng)
	r.Started = true
	r.Phase = PhasePlaying
	r.TurnIndex = 0
	r.Clues = nil
	r.Votes = nil
	r.Round = 1
	r.Eliminated = nil
	r.StartingPlayer = r.Players[rng.IntN(len(r.Players))].Name
}

// NewRoomCode draws a code from RoomCodeChars. Codes are not checked for
// collisions here; the registry refuses duplicates.
func NewRoomCode(rng *rand.Rand) string {
	var b strings.Builder
	for range RoomCodeLength {
		b.WriteByte(RoomCodeChars[rng.IntN(len(RoomCodeChars))])
	}

	return b.String()
}

// NormalizeRoomCode upper-cases and trims user input.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidRoomCode reports whether code has the shape NewRoomCode produces.
func ValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(RoomCodeChars, rune(code[i])) {
			return false
		}
	}

	return true
}
