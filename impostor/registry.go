/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"slices"
	"time"
)

var ErrRoomExists = errors.New("room code already in use")

// RoomRegistry maps room codes to rooms. It is not safe for concurrent
// use; the Hub owns it and touches it from a single goroutine.
type RoomRegistry struct {
	rooms map[string]*Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*Room),
	}
}

// Create registers room under its code, stamping its activity times.
func (r *RoomRegistry) Create(room *Room, now time.Time) error {
	if _, exists := r.rooms[room.Code]; exists {
		return ErrRoomExists
	}

	room.createdAt = now
	room.lastActive = now
	r.rooms[room.Code] = room

	return nil
}

func (r *RoomRegistry) Get(code string) (*Room, bool) {
	room, ok := r.rooms[code]

	return room, ok
}

func (r *RoomRegistry) Delete(code string) {
	delete(r.rooms, code)
}

func (r *RoomRegistry) Len() int {
	return len(r.rooms)
}

// Idle returns the codes of rooms with no activity since cutoff.
func (r *RoomRegistry) Idle(cutoff time.Time) []string {
	var codes []string
	for code, room := range r.rooms {
		if room.lastActive.Before(cutoff) {
			codes = append(codes, code)
		}
	}

	slices.Sort(codes)

	return codes
}

// Peer is one live client connection as the coordinator sees it.
type Peer interface {
	// ID identifies the connection in logs.
	ID() string

	// Send queues an encoded message and reports whether the peer took it.
	// A closed or saturated peer returns false.
	Send(msg []byte) bool

	// Close releases the connection's outbound side.
	Close()
}

// Association ties a connection to the player it speaks for and, once
// they have created or joined one, to a room.
type Association struct {
	PlayerID string
	RoomCode string
}

// ConnRegistry maps live connections to their association. Like
// RoomRegistry it is owned by a single goroutine.
type ConnRegistry struct {
	order []Peer
	conns map[Peer]*Association
}

func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		conns: make(map[Peer]*Association),
	}
}

// Associate records that p speaks for playerID in room code.
func (c *ConnRegistry) Associate(p Peer, playerID, code string) {
	if a, ok := c.conns[p]; ok {
		a.PlayerID = playerID
		a.RoomCode = code

		return
	}

	c.order = append(c.order, p)
	c.conns[p] = &Association{PlayerID: playerID, RoomCode: code}
}

func (c *ConnRegistry) Lookup(p Peer) (Association, bool) {
	a, ok := c.conns[p]
	if !ok {
		return Association{}, false
	}

	return *a, true
}

// Disassociate detaches p from its room while keeping the connection known.
func (c *ConnRegistry) Disassociate(p Peer) {
	if a, ok := c.conns[p]; ok {
		a.RoomCode = ""
	}
}

// Remove forgets p entirely.
func (c *ConnRegistry) Remove(p Peer) {
	if _, ok := c.conns[p]; !ok {
		return
	}

	delete(c.conns, p)
	c.order = slices.DeleteFunc(c.order, func(q Peer) bool {
		return q == p
	})
}

// InRoom lists the connections associated with code, oldest first.
func (c *ConnRegistry) InRoom(code string) []Peer {
	var peers []Peer
	for _, p := range c.order {
		if c.conns[p].RoomCode == code {
			peers = append(peers, p)
		}
	}

	return peers
}

func (c *ConnRegistry) Len() int {
	return len(c.conns)
}
