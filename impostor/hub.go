/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"context"
	"time"
)

type inbound struct {
	peer Peer
	data []byte
}

// Hub serialises everything that touches game state onto one goroutine:
// connections opening and closing, client messages and the idle sweep all
// arrive on channels and are handled to completion one at a time.
type Hub struct {
	coord       *Coordinator
	idleTimeout time.Duration

	register chan Peer
	unreg    chan Peer
	messages chan inbound
	done     chan struct{}
}

// NewHub wraps coord. A positive idleTimeout enables closing rooms that
// have seen no activity for that long.
func NewHub(coord *Coordinator, idleTimeout time.Duration) *Hub {
	return &Hub{
		coord:       coord,
		idleTimeout: idleTimeout,
		register:    make(chan Peer),
		unreg:       make(chan Peer),
		messages:    make(chan inbound),
		done:        make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var sweep <-chan time.Time
	if h.idleTimeout > 0 {
		ticker := time.NewTicker(max(h.idleTimeout/2, time.Millisecond))
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case p := <-h.register:
			h.coord.Connect(p)

		case p := <-h.unreg:
			h.coord.Disconnect(p)
			p.Close()

		case in := <-h.messages:
			h.coord.HandleMessage(in.peer, in.data)

		case <-sweep:
			h.coord.Sweep(h.idleTimeout)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register hands a new connection to the hub. It reports false if the hub
// has stopped.
func (h *Hub) Register(p Peer) bool {
	select {
	case h.register <- p:
		return true
	case <-h.done:
		return false
	}
}

// Unregister tells the hub a connection has gone away.
func (h *Hub) Unregister(p Peer) {
	select {
	case h.unreg <- p:
	case <-h.done:
		p.Close()
	}
}

// Deliver queues a raw client frame for processing.
func (h *Hub) Deliver(p Peer, data []byte) bool {
	select {
	case h.messages <- inbound{peer: p, data: data}:
		return true
	case <-h.done:
		return false
	}
}
