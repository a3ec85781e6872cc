/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	crand "crypto/rand"
	"math/rand/v2"
)

type Role string

const (
	RoleImpostor Role = "impostor"
	RoleCivil    Role = "civil"
)

// NewRand returns a generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	return rand.New(rand.NewChaCha8(seed))
}

// EffectiveImpostors clamps a configured impostor count so that a round
// with n players always has at least one impostor and one civilian.
func EffectiveImpostors(count, n int) int {
	if n < 2 {
		return 0
	}

	k := min(count, n-1)
	if k < 1 {
		k = 1
	}

	return k
}

// Assign shuffles players (the shuffle doubles as the new turn order),
// picks impostors among them and hands out the secret words from one
// randomly chosen pair. The input slice is not modified.
func Assign(players []Player, pairs []WordPair, impostorCount int, rng *rand.Rand) []Player {
	out := make([]Player, len(players))
	copy(out, players)

	if len(out) == 0 || len(pairs) == 0 {
		return out
	}

	pair := pairs[rng.IntN(len(pairs))]

	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	k := EffectiveImpostors(impostorCount, len(out))

	impostors := make(map[int]struct{}, k)
	for len(impostors) < k {
		impostors[rng.IntN(len(out))] = struct{}{}
	}

	for i := range out {
		if _, ok := impostors[i]; ok {
			out[i].Role = RoleImpostor
			out[i].Word = pair.Hint
		} else {
			out[i].Role = RoleCivil
			out[i].Word = pair.Word
		}
	}

	return out
}
