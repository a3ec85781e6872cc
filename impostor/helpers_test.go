/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

const testWords = `
categories:
  - name: General
    pairs:
      - {word: Beach, hint: Sand}
      - {word: Library, hint: Silence}
  - name: Food
    pairs:
      - {word: Pizza, hint: Oven}
`

// fakePeer records every event the coordinator sends it, decoded from the
// wire form so tests see exactly what a client would.
type fakePeer struct {
	id     string
	closed bool
	events []Event
	errs   []error
}

func newPeer(id string) *fakePeer {
	return &fakePeer{id: id}
}

func (f *fakePeer) ID() string {
	return f.id
}

func (f *fakePeer) Send(msg []byte) bool {
	if f.closed {
		return false
	}

	ev, err := DecodeEvent(msg)
	if err != nil {
		f.errs = append(f.errs, err)

		return true
	}

	f.events = append(f.events, ev)

	return true
}

func (f *fakePeer) Close() {
	f.closed = true
}

func (f *fakePeer) reset() {
	f.events = nil
}

func eventsOf[T Event](f *fakePeer) []T {
	var out []T
	for _, ev := range f.events {
		if t, ok := ev.(T); ok {
			out = append(out, t)
		}
	}

	return out
}

func lastOf[T Event](t *testing.T, f *fakePeer) T {
	t.Helper()

	evs := eventsOf[T](f)
	if len(evs) == 0 {
		var zero T
		t.Fatalf("peer %s: no %T received (got %d events)", f.id, zero, len(f.events))
	}

	return evs[len(evs)-1]
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := ParseCatalog(strings.NewReader(testWords))
	if err != nil {
		t.Fatalf("parse test catalogue: %v", err)
	}

	return c
}

type rig struct {
	t     *testing.T
	c     *Coordinator
	now   time.Time
	peers []*fakePeer
}

func newRig(t *testing.T, maxPlayers int) *rig {
	t.Helper()

	r := &rig{
		t:   t,
		now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	r.c = NewCoordinator(Options{
		Catalog:    testCatalog(t),
		MaxPlayers: maxPlayers,
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Now:        func() time.Time { return r.now },
	})

	return r
}

func (r *rig) room(code string) *Room {
	r.t.Helper()

	room, ok := r.c.rooms.Get(code)
	if !ok {
		r.t.Fatalf("room %s does not exist", code)
	}

	return room
}

// lobby creates room code with n players p1..pn, p1 being the admin.
func (r *rig) lobby(code string, n int) []*fakePeer {
	r.t.Helper()

	peers := make([]*fakePeer, n)
	for i := range n {
		peers[i] = newPeer(fmt.Sprintf("conn-%d", i+1))
		id := fmt.Sprintf("p%d", i+1)
		name := fmt.Sprintf("P%d", i+1)

		if i == 0 {
			r.c.Handle(peers[i], CreateRoom{
				RoomCode:      code,
				PlayerName:    name,
				PlayerID:      id,
				Category:      "General",
				ImpostorCount: 1,
			})
		} else {
			r.c.Handle(peers[i], JoinRoom{RoomCode: code, PlayerName: name, PlayerID: id})
		}

		r.c.Connect(peers[i])
	}

	if got := len(r.room(code).Players); got != n {
		r.t.Fatalf("lobby %s: %d players, want %d", code, got, n)
	}

	r.peers = peers

	return peers
}

// started builds a lobby and starts the game.
func (r *rig) started(code string, n int) []*fakePeer {
	r.t.Helper()

	peers := r.lobby(code, n)
	r.c.Handle(peers[0], StartGame{RoomCode: code})

	if !r.room(code).Started {
		r.t.Fatalf("room %s did not start", code)
	}

	return peers
}

// peerFor returns the connection speaking for playerID.
func (r *rig) peerFor(playerID string) *fakePeer {
	r.t.Helper()

	for _, p := range r.peers {
		if a, ok := r.c.conns.Lookup(p); ok && a.PlayerID == playerID {
			return p
		}
	}

	r.t.Fatalf("no connection for %s", playerID)

	return nil
}

func countAdmins(players []PublicPlayer) int {
	n := 0
	for _, p := range players {
		if p.IsAdmin {
			n++
		}
	}

	return n
}
