/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

// Dispatcher delivers events to connections. Delivery is best effort:
// nothing is queued for or retried against a peer that refuses a message.
type Dispatcher struct {
	conns *ConnRegistry
	logf  func(format string, args ...any)
}

func NewDispatcher(conns *ConnRegistry, logf func(format string, args ...any)) *Dispatcher {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Dispatcher{
		conns: conns,
		logf:  logf,
	}
}

// SendTo delivers ev to a single peer.
func (d *Dispatcher) SendTo(p Peer, ev Event) bool {
	msg, err := EncodeEvent(ev)
	if err != nil {
		d.logf("ERROR: %v", err)

		return false
	}

	return d.deliver(p, ev, msg)
}

// Broadcast delivers ev to every peer in room code except exclude, and
// returns how many took it.
func (d *Dispatcher) Broadcast(code string, ev Event, exclude Peer) int {
	msg, err := EncodeEvent(ev)
	if err != nil {
		d.logf("ERROR: %v", err)

		return 0
	}

	sent := 0
	for _, p := range d.conns.InRoom(code) {
		if exclude != nil && p == exclude {
			continue
		}

		if d.deliver(p, ev, msg) {
			sent++
		}
	}

	return sent
}

func (d *Dispatcher) deliver(p Peer, ev Event, msg []byte) bool {
	if p.Send(msg) {
		return true
	}

	d.logf("GAMES: Dropped %s for connection %s", ev.Type(), p.ID())

	return false
}
