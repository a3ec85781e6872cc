/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"math/rand/v2"
	"slices"
)

// Screen is what a client should be showing.
type Screen string

const (
	ScreenMenu    Screen = "menu"
	ScreenLobby   Screen = "lobby"
	ScreenPlaying Screen = "playing"
	ScreenClues   Screen = "clues"
	ScreenVoting  Screen = "voting"
	ScreenResults Screen = "results"
)

// View is a client's picture of its room, rebuilt from server events.
// Apply mirrors the coordinator's transitions so a client renders the same
// state the server holds.
type View struct {
	Screen Screen

	RoomCode      string
	Category      string
	ImpostorCount int
	PlayerID      string

	Players []Player
	Me      *Player

	TurnIndex      int
	TurnsComplete  bool
	StartingPlayer string

	Round      int
	Eliminated []string

	Clues             []Clue
	AllCluesSubmitted bool

	Votes          []Vote
	VotesCount     int
	VotedPlayerIDs []string
	HasVoted       bool

	// Err holds the last error notice, for display.
	Err string
}

// NewView returns a view sitting at the menu.
func NewView() *View {
	return &View{Screen: ScreenMenu}
}

// InRoom reports whether the client is in a room.
func (v *View) InRoom() bool {
	return v.Screen != ScreenMenu
}

// IsAdmin reports whether this client holds the admin role.
func (v *View) IsAdmin() bool {
	i := slices.IndexFunc(v.Players, func(p Player) bool {
		return p.ID == v.PlayerID
	})

	return i >= 0 && v.Players[i].IsAdmin
}

// Apply folds one server event into the view. Room events that arrive
// while the client is not in a room are ignored.
func (v *View) Apply(ev Event) {
	switch e := ev.(type) {
	case Error:
		v.Err = e.Message

		return
	case Kicked:
		*v = View{Screen: ScreenMenu, Err: e.Message}

		return
	case RoomState:
		*v = View{
			Screen:        ScreenLobby,
			RoomCode:      e.RoomCode,
			Category:      e.Category,
			ImpostorCount: e.ImpostorCount,
			PlayerID:      e.PlayerID,
			Players:       fromPublic(e.Players),
			Round:         1,
		}

		return
	}

	if !v.InRoom() {
		return
	}

	switch e := ev.(type) {
	case PlayerJoined:
		v.Players = v.mergePlayers(e.Players)
		v.syncMe()
	case PlayerLeft:
		v.Players = v.mergePlayers(e.Players)
		v.syncMe()
	case PlayerKicked:
		v.Players = v.mergePlayers(e.Players)
		v.syncMe()
		v.TurnIndex = e.CurrentTurnIndex
		v.TurnsComplete = e.TurnsComplete
	case GameStarted:
		me := e.Player
		v.Me = &me
		v.Players = fromPublic(e.PublicPlayers)
		if i := slices.IndexFunc(v.Players, func(p Player) bool { return p.ID == me.ID }); i >= 0 {
			v.Players[i] = me
		}
		v.Screen = ScreenPlaying
		v.TurnIndex = e.CurrentTurnIndex
		v.TurnsComplete = e.TurnsComplete
		v.StartingPlayer = e.StartingPlayer
		v.Round = 1
		v.Eliminated = nil
		v.resetRound()
	case TurnUpdate:
		v.TurnIndex = e.CurrentTurnIndex
		v.TurnsComplete = e.TurnsComplete
	case CluesStarted:
		v.Screen = ScreenClues
		v.resetRound()
		v.Clues = e.Clues
		v.Votes = e.Votes
		if e.Round > 0 {
			v.Round = e.Round
		}
		v.Eliminated = e.EliminatedIDs
		if e.StartingPlayer != "" {
			v.StartingPlayer = e.StartingPlayer
		}
	case ClueSubmitted:
		v.Clues = e.Clues
		v.AllCluesSubmitted = e.AllSubmitted
	case VotingStarted:
		v.Screen = ScreenVoting
		v.Players = v.mergePlayers(e.Players)
		v.syncMe()
		v.Clues = e.Clues
		v.Votes = e.Votes
		v.VotesCount = 0
		v.VotedPlayerIDs = nil
		v.HasVoted = false
	case VoteSubmitted:
		v.Votes = e.Votes
		v.VotesCount = e.VotesCount
		v.VotedPlayerIDs = e.VotedPlayerIDs
		v.HasVoted = slices.Contains(e.VotedPlayerIDs, v.PlayerID)
	case VotingResults:
		v.Screen = ScreenResults
		v.Votes = e.Votes
		v.Players = e.Players
		v.syncMe()
		v.VotesCount = len(e.Votes)
		v.VotedPlayerIDs = nil
		for _, vote := range e.Votes {
			v.VotedPlayerIDs = append(v.VotedPlayerIDs, vote.VoterID)
		}
		v.HasVoted = slices.Contains(v.VotedPlayerIDs, v.PlayerID)
	}
}

// Outcome resolves the vote shown on the results screen.
func (v *View) Outcome(rng *rand.Rand) (Outcome, bool) {
	if v.Screen != ScreenResults {
		return Outcome{}, false
	}

	return Resolve(v.Players, v.Votes, v.Eliminated, rng)
}

// mergePlayers takes a public roster and keeps whatever the view already
// knows privately about each player (its own role and word).
func (v *View) mergePlayers(public []PublicPlayer) []Player {
	out := fromPublic(public)
	for i := range out {
		j := slices.IndexFunc(v.Players, func(p Player) bool { return p.ID == out[i].ID })
		if j >= 0 {
			out[i].Role = v.Players[j].Role
			out[i].Word = v.Players[j].Word
		}
	}

	return out
}

// syncMe points Me at this client's entry in the current roster.
func (v *View) syncMe() {
	if v.Me == nil {
		return
	}

	i := slices.IndexFunc(v.Players, func(p Player) bool { return p.ID == v.PlayerID })
	if i < 0 {
		return
	}

	me := v.Players[i]
	v.Me = &me
}

func (v *View) resetRound() {
	v.Clues = nil
	v.AllCluesSubmitted = false
	v.Votes = nil
	v.VotesCount = 0
	v.VotedPlayerIDs = nil
	v.HasVoted = false
}

func fromPublic(public []PublicPlayer) []Player {
	out := make([]Player, 0, len(public))
	for _, p := range public {
		out = append(out, Player{
			ID:      p.ID,
			Name:    p.Name,
			Color:   p.Color,
			IsAdmin: p.IsAdmin,
		})
	}

	return out
}
