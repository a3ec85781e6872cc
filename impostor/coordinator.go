/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"math/rand/v2"
	"time"
	"unicode/utf8"
)

// User-facing error notices.
const (
	msgInvalidFormat    = "Invalid message format"
	msgRoomNotFound     = "Room not found"
	msgRoomExists       = "That room code is already in use"
	msgGameStarted      = "The game has already started"
	msgRoomFull         = "The room is full"
	msgAlreadyInRoom    = "That player is already in this room"
	msgAdminOnly        = "Only the admin can start the game"
	msgNotEnoughPlayers = "At least 3 players are needed to start"
	msgKicked           = "You have been removed from the room"
	msgRoomExpired      = "The room was closed after a period of inactivity"
)

// MaxClueLength bounds a clue, in runes.
const MaxClueLength = 120

// Options configures a Coordinator. Zero values pick sensible defaults.
type Options struct {
	Catalog    *Catalog
	MaxPlayers int
	Rand       *rand.Rand
	Now        func() time.Time
	Logf       func(format string, args ...any)
}

// Coordinator validates client commands against room state, applies them
// and decides who hears about it. It is not safe for concurrent use: a Hub
// feeds it one message at a time.
type Coordinator struct {
	rooms *RoomRegistry
	conns *ConnRegistry
	out   *Dispatcher

	catalog    *Catalog
	maxPlayers int
	rng        *rand.Rand
	now        func() time.Time
	logf       func(format string, args ...any)
}

func NewCoordinator(opts Options) *Coordinator {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.MaxPlayers < MinPlayers {
		opts.MaxPlayers = DefaultMaxPlayers
	}
	if opts.Rand == nil {
		opts.Rand = NewRand()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}

	conns := NewConnRegistry()

	return &Coordinator{
		rooms:      NewRoomRegistry(),
		conns:      conns,
		out:        NewDispatcher(conns, opts.Logf),
		catalog:    opts.Catalog,
		maxPlayers: opts.MaxPlayers,
		rng:        opts.Rand,
		now:        opts.Now,
		logf:       opts.Logf,
	}
}

// Rooms reports how many rooms are open.
func (c *Coordinator) Rooms() int {
	return c.rooms.Len()
}

// Connect notes a new connection. It is not tied to any room until it
// creates or joins one.
func (c *Coordinator) Connect(p Peer) {
	c.logf("GAMES: Connection %s opened", p.ID())
}

// Disconnect removes p, taking its player out of whatever room it was in.
func (c *Coordinator) Disconnect(p Peer) {
	c.leave(p)
	c.conns.Remove(p)

	c.logf("GAMES: Connection %s closed", p.ID())
}

// HandleMessage decodes and applies one raw client frame.
func (c *Coordinator) HandleMessage(p Peer, data []byte) {
	cmd, err := DecodeCommand(data)
	switch {
	case errors.Is(err, ErrUnknownMessage):
		c.logf("GAMES: Ignoring message from %s: %v", p.ID(), err)

		return
	case err != nil:
		c.out.SendTo(p, Error{Message: msgInvalidFormat})

		return
	}

	c.Handle(p, cmd)
}

// Handle applies one decoded command.
func (c *Coordinator) Handle(p Peer, cmd Command) {
	if room, ok := c.rooms.Get(cmd.room()); ok {
		room.lastActive = c.now()
	}

	switch m := cmd.(type) {
	case CreateRoom:
		c.createRoom(p, m)
	case JoinRoom:
		c.joinRoom(p, m)
	case StartGame:
		c.startGame(p, m)
	case NextTurn:
		c.nextTurn(p, m)
	case SkipTurn:
		c.skipTurn(p, m)
	case KickPlayer:
		c.kickPlayer(p, m)
	case PlayAgain:
		c.playAgain(p, m)
	case StartClues:
		c.startClues(p, m)
	case SubmitClue:
		c.submitClue(p, m)
	case StartVoting:
		c.startVoting(p, m)
	case SubmitVote:
		c.submitVote(p, m)
	case ContinueRound:
		c.continueRound(p, m)
	}
}

// Sweep closes rooms idle for longer than idle, telling their members.
func (c *Coordinator) Sweep(idle time.Duration) int {
	codes := c.rooms.Idle(c.now().Add(-idle))

	for _, code := range codes {
		for _, p := range c.conns.InRoom(code) {
			c.out.SendTo(p, Kicked{Message: msgRoomExpired})
			c.conns.Disassociate(p)
		}

		c.rooms.Delete(code)

		c.logf("GAMES: Closed idle room %s", code)
	}

	return len(codes)
}

// member resolves the room a command names and the player p speaks for in
// it. It fails unless p is associated with that room and still on its roster.
func (c *Coordinator) member(p Peer, code string) (*Room, *Player, bool) {
	a, ok := c.conns.Lookup(p)
	if !ok || a.RoomCode == "" || a.RoomCode != code {
		return nil, nil, false
	}

	room, ok := c.rooms.Get(code)
	if !ok {
		return nil, nil, false
	}

	player, ok := room.player(a.PlayerID)
	if !ok {
		return nil, nil, false
	}

	return room, player, true
}

// admin is member restricted to the room's admin.
func (c *Coordinator) admin(p Peer, code string) (*Room, bool) {
	room, player, ok := c.member(p, code)
	if !ok || !room.isAdmin(player.ID) {
		return nil, false
	}

	return room, true
}

// leave takes p's player out of its room, if any.
func (c *Coordinator) leave(p Peer) {
	a, ok := c.conns.Lookup(p)
	if !ok || a.RoomCode == "" {
		return
	}

	c.conns.Disassociate(p)

	room, ok := c.rooms.Get(a.RoomCode)
	if !ok {
		return
	}

	i, ok := room.removePlayer(a.PlayerID)
	if !ok {
		return
	}

	c.logf("GAMES: Player %s left %s", a.PlayerID, room.Code)

	if len(room.Players) == 0 {
		c.rooms.Delete(room.Code)

		c.logf("GAMES: Closed empty room %s", room.Code)

		return
	}

	if i < room.TurnIndex {
		room.TurnIndex--
	}

	c.out.Broadcast(room.Code, PlayerLeft{Players: room.publicPlayers()}, nil)

	c.recountVotes(room)
}

func (c *Coordinator) createRoom(p Peer, m CreateRoom) {
	if _, exists := c.rooms.Get(m.RoomCode); exists {
		c.out.SendTo(p, Error{Message: msgRoomExists})

		return
	}

	c.leave(p)

	room := &Room{
		Code: m.RoomCode,
		Players: []Player{{
			ID:      m.PlayerID,
			Name:    m.PlayerName,
			Color:   Palette[0],
			IsAdmin: true,
		}},
		Category:      c.catalog.Resolve(m.Category),
		ImpostorCount: max(1, min(m.ImpostorCount, MaxImpostors)),
		AdminID:       m.PlayerID,
		Phase:         PhasePlaying,
		Round:         1,
	}

	if err := c.rooms.Create(room, c.now()); err != nil {
		c.out.SendTo(p, Error{Message: msgRoomExists})

		return
	}

	c.conns.Associate(p, m.PlayerID, room.Code)

	c.logf("GAMES: Player %q created %s (%s, %d impostor(s))", m.PlayerName, room.Code, room.Category, room.ImpostorCount)

	c.out.SendTo(p, RoomState{
		RoomCode:      room.Code,
		Players:       room.publicPlayers(),
		Category:      room.Category,
		ImpostorCount: room.ImpostorCount,
		IsAdmin:       true,
		PlayerID:      m.PlayerID,
	})
}

func (c *Coordinator) joinRoom(p Peer, m JoinRoom) {
	room, ok := c.rooms.Get(m.RoomCode)
	if !ok {
		c.out.SendTo(p, Error{Message: msgRoomNotFound})

		return
	}

	if room.Started {
		c.out.SendTo(p, Error{Message: msgGameStarted})

		return
	}

	if len(room.Players) >= c.maxPlayers {
		c.out.SendTo(p, Error{Message: msgRoomFull})

		return
	}

	if a, _ := c.conns.Lookup(p); a.RoomCode == room.Code || room.indexOf(m.PlayerID) >= 0 {
		c.out.SendTo(p, Error{Message: msgAlreadyInRoom})

		return
	}

	c.leave(p)

	room.Players = append(room.Players, Player{
		ID:    m.PlayerID,
		Name:  m.PlayerName,
		Color: Palette[len(room.Players)%len(Palette)],
	})

	c.conns.Associate(p, m.PlayerID, room.Code)

	c.logf("GAMES: Player %q joined %s", m.PlayerName, room.Code)

	c.out.SendTo(p, RoomState{
		RoomCode:      room.Code,
		Players:       room.publicPlayers(),
		Category:      room.Category,
		ImpostorCount: room.ImpostorCount,
		IsAdmin:       false,
		PlayerID:      m.PlayerID,
	})

	c.out.Broadcast(room.Code, PlayerJoined{Players: room.publicPlayers()}, p)
}

func (c *Coordinator) startGame(p Peer, m StartGame) {
	room, ok := c.rooms.Get(m.RoomCode)
	if !ok {
		c.out.SendTo(p, Error{Message: msgRoomNotFound})

		return
	}

	if _, ok := c.admin(p, room.Code); !ok {
		c.out.SendTo(p, Error{Message: msgAdminOnly})

		return
	}

	if len(room.Players) < MinPlayers {
		c.out.SendTo(p, Error{Message: msgNotEnoughPlayers})

		return
	}

	c.deal(room)

	c.logf("GAMES: Started game in %s with %d players", room.Code, len(room.Players))
}

func (c *Coordinator) playAgain(p Peer, m PlayAgain) {
	room, ok := c.admin(p, m.RoomCode)
	if !ok {
		return
	}

	c.deal(room)

	c.logf("GAMES: Restarted game in %s", room.Code)
}

// deal starts a fresh game in room and tells each connection its own role.
func (c *Coordinator) deal(room *Room) {
	pairs, _ := c.catalog.Pairs(room.Category)

	room.newGame(pairs, c.rng)

	public := room.publicPlayers()

	for _, peer := range c.conns.InRoom(room.Code) {
		a, _ := c.conns.Lookup(peer)

		player, ok := room.player(a.PlayerID)
		if !ok {
			continue
		}

		c.out.SendTo(peer, GameStarted{
			Player:           *player,
			CurrentTurnIndex: room.TurnIndex,
			TotalPlayers:     len(room.Players),
			StartingPlayer:   room.StartingPlayer,
			PublicPlayers:    public,
			GamePhase:        room.Phase,
			TurnsComplete:    room.TurnsComplete(),
		})
	}
}

func (c *Coordinator) nextTurn(p Peer, m NextTurn) {
	room, _, ok := c.member(p, m.RoomCode)
	if !ok {
		return
	}

	c.advanceTurn(room)
}

func (c *Coordinator) skipTurn(p Peer, m SkipTurn) {
	room, ok := c.admin(p, m.RoomCode)
	if !ok {
		return
	}

	c.advanceTurn(room)
}

// advanceTurn moves to the next player. Running past the last player is
// how a room signals that every turn has been played.
func (c *Coordinator) advanceTurn(room *Room) {
	if room.TurnsComplete() {
		return
	}

	room.TurnIndex++

	c.out.Broadcast(room.Code, TurnUpdate{
		CurrentTurnIndex:  room.TurnIndex,
		CurrentPlayerName: room.currentPlayerName(),
		TurnsComplete:     room.TurnsComplete(),
	}, nil)
}

func (c *Coordinator) kickPlayer(p Peer, m KickPlayer) {
	room, ok := c.admin(p, m.RoomCode)
	if !ok || m.PlayerID == room.AdminID {
		return
	}

	i, ok := room.removePlayer(m.PlayerID)
	if !ok {
		return
	}

	if i < room.TurnIndex {
		room.TurnIndex--
	}
	room.TurnIndex = min(room.TurnIndex, len(room.Players))

	for _, peer := range c.conns.InRoom(room.Code) {
		if a, _ := c.conns.Lookup(peer); a.PlayerID == m.PlayerID {
			c.out.SendTo(peer, Kicked{Message: msgKicked})
			c.conns.Disassociate(peer)
		}
	}

	c.logf("GAMES: Player %s kicked from %s", m.PlayerID, room.Code)

	c.out.Broadcast(room.Code, PlayerKicked{
		Players:          room.publicPlayers(),
		CurrentTurnIndex: room.TurnIndex,
		TurnsComplete:    room.TurnsComplete(),
	}, nil)

	c.recountVotes(room)
}

func (c *Coordinator) startClues(p Peer, m StartClues) {
	room, ok := c.admin(p, m.RoomCode)
	if !ok {
		return
	}

	room.Phase = PhaseClues
	room.Clues = nil
	room.Votes = nil

	c.broadcastCluesStarted(room)
}

func (c *Coordinator) broadcastCluesStarted(room *Room) {
	c.out.Broadcast(room.Code, CluesStarted{
		GamePhase:      room.Phase,
		Clues:          []Clue{},
		Votes:          []Vote{},
		Round:          room.Round,
		EliminatedIDs:  nonNil(room.Eliminated),
		StartingPlayer: room.StartingPlayer,
	}, nil)
}

func (c *Coordinator) submitClue(p Peer, m SubmitClue) {
	room, player, ok := c.member(p, m.RoomCode)
	if !ok || room.isEliminated(player.ID) || room.hasClue(player.ID) {
		return
	}

	if m.Clue == "" || utf8.RuneCountInString(m.Clue) > MaxClueLength {
		return
	}

	room.Clues = append(room.Clues, Clue{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Clue:       m.Clue,
	})

	c.out.Broadcast(room.Code, ClueSubmitted{
		Clues:        nonNil(room.Clues),
		AllSubmitted: len(room.Clues) == len(room.active()),
	}, nil)
}

func (c *Coordinator) startVoting(p Peer, m StartVoting) {
	room, ok := c.admin(p, m.RoomCode)
	if !ok {
		return
	}

	room.Phase = PhaseVoting
	room.Votes = nil

	c.out.Broadcast(room.Code, VotingStarted{
		GamePhase: room.Phase,
		Players:   room.publicPlayers(),
		Votes:     []Vote{},
		Clues:     nonNil(room.Clues),
	}, nil)
}

func (c *Coordinator) submitVote(p Peer, m SubmitVote) {
	room, voter, ok := c.member(p, m.RoomCode)
	if !ok || room.Phase != PhaseVoting {
		return
	}

	if room.isEliminated(voter.ID) || room.hasVoted(voter.ID) {
		return
	}

	if room.indexOf(m.VotedForID) < 0 || room.isEliminated(m.VotedForID) {
		return
	}

	room.Votes = append(room.Votes, Vote{
		VoterID:    voter.ID,
		VoterName:  voter.Name,
		VotedForID: m.VotedForID,
	})

	c.recountVotes(room)
}

// recountVotes settles a voting room or, when votes are still missing,
// tells the room where the vote stands.
func (c *Coordinator) recountVotes(room *Room) {
	if room.Phase != PhaseVoting || c.settleVotes(room) {
		return
	}

	c.out.Broadcast(room.Code, VoteSubmitted{
		VotesCount:     len(room.Votes),
		TotalPlayers:   len(room.active()),
		VotedPlayerIDs: room.votedIDs(),
		Votes:          nonNil(room.Votes),
	}, nil)
}

// settleVotes moves a voting room to results once every active player has
// voted, revealing all roles and words. It reports whether it did.
func (c *Coordinator) settleVotes(room *Room) bool {
	if room.Phase != PhaseVoting || len(room.Votes) == 0 || len(room.Votes) < len(room.active()) {
		return false
	}

	room.Phase = PhaseResults

	c.logf("GAMES: Voting finished in %s", room.Code)

	c.out.Broadcast(room.Code, VotingResults{
		GamePhase: room.Phase,
		Votes:     nonNil(room.Votes),
		Players:   nonNil(room.Players),
	}, nil)

	return true
}

func (c *Coordinator) continueRound(p Peer, m ContinueRound) {
	room, ok := c.admin(p, m.RoomCode)
	if !ok || room.Phase != PhaseResults {
		return
	}

	outcome, ok := Resolve(room.Players, room.Votes, room.Eliminated, c.rng)
	if !ok || outcome.GameOver {
		return
	}

	room.Eliminated = append(room.Eliminated, outcome.Eliminated.ID)
	room.StartingPlayer = outcome.StartingPlayer
	room.Round++
	room.Phase = PhaseClues
	room.Clues = nil
	room.Votes = nil

	c.logf("GAMES: Round %d in %s, %q eliminated", room.Round, room.Code, outcome.Eliminated.Name)

	c.broadcastCluesStarted(room)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
