/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"math/rand/v2"
	"slices"
)

// Outcome is what a finished vote means for the game.
type Outcome struct {
	// Eliminated is the player the room voted out.
	Eliminated Player

	// Tally counts votes per voted-for player ID.
	Tally map[string]int

	ImpostorCaught bool
	ImpostorsWin   bool
	GameOver       bool

	// StartingPlayer opens the next round, or the discussion after a
	// caught impostor. Empty when the impostors win.
	StartingPlayer string
}

// Resolve tallies votes among the players still in the game (players not
// listed in eliminated) and applies the elimination rules. Ties go to the
// candidate who comes first in roster order. It returns false when there
// is nothing to resolve: no votes, or no vote naming an active player.
func Resolve(players []Player, votes []Vote, eliminated []string, rng *rand.Rand) (Outcome, bool) {
	active := make([]Player, 0, len(players))
	for _, p := range players {
		if !slices.Contains(eliminated, p.ID) {
			active = append(active, p)
		}
	}

	tally := make(map[string]int, len(votes))
	for _, v := range votes {
		tally[v.VotedForID]++
	}

	target := -1
	for i, p := range active {
		if tally[p.ID] > 0 && (target < 0 || tally[p.ID] > tally[active[target].ID]) {
			target = i
		}
	}

	if target < 0 {
		return Outcome{}, false
	}

	out := Outcome{
		Eliminated: active[target],
		Tally:      tally,
	}

	remaining := slices.Delete(slices.Clone(active), target, target+1)

	impostors, civils := 0, 0
	for _, p := range remaining {
		switch p.Role {
		case RoleImpostor:
			impostors++
		case RoleCivil:
			civils++
		}
	}

	switch {
	case out.Eliminated.Role == RoleImpostor:
		out.ImpostorCaught = true
		out.GameOver = true
	case len(remaining) <= 2 && impostors > 0, civils <= impostors:
		out.ImpostorsWin = true
		out.GameOver = true

		return out, true
	}

	if len(remaining) > 0 {
		out.StartingPlayer = remaining[rng.IntN(len(remaining))].Name
	}

	return out, true
}
