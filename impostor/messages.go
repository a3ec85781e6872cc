/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFormat  = errors.New("invalid message format")
	ErrUnknownMessage = errors.New("unknown message type")
)

// Envelope is the frame every message travels in, in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Command is a message sent by a client. The set of commands is closed:
// only the types in this file implement it.
type Command interface {
	Type() string
	room() string
}

type CreateRoom struct {
	RoomCode      string `json:"roomCode"`
	PlayerName    string `json:"playerName"`
	PlayerID      string `json:"playerId"`
	Category      string `json:"category"`
	ImpostorCount int    `json:"impostorCount"`
}

type JoinRoom struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
}

type StartGame struct {
	RoomCode string `json:"roomCode"`
}

type NextTurn struct {
	RoomCode string `json:"roomCode"`
}

type SkipTurn struct {
	RoomCode string `json:"roomCode"`
}

type KickPlayer struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

type PlayAgain struct {
	RoomCode string `json:"roomCode"`
}

type StartClues struct {
	RoomCode string `json:"roomCode"`
}

type SubmitClue struct {
	RoomCode string `json:"roomCode"`
	Clue     string `json:"clue"`
}

type StartVoting struct {
	RoomCode string `json:"roomCode"`
}

type SubmitVote struct {
	RoomCode   string `json:"roomCode"`
	VotedForID string `json:"votedForId"`
}

// ContinueRound moves a room whose vote eliminated a civilian (without
// ending the game) into another clue round.
type ContinueRound struct {
	RoomCode string `json:"roomCode"`
}

func (CreateRoom) Type() string    { return "createRoom" }
func (JoinRoom) Type() string      { return "joinRoom" }
func (StartGame) Type() string     { return "startGame" }
func (NextTurn) Type() string      { return "nextTurn" }
func (SkipTurn) Type() string      { return "skipTurn" }
func (KickPlayer) Type() string    { return "kickPlayer" }
func (PlayAgain) Type() string     { return "playAgain" }
func (StartClues) Type() string    { return "startClues" }
func (SubmitClue) Type() string    { return "submitClue" }
func (StartVoting) Type() string   { return "startVoting" }
func (SubmitVote) Type() string    { return "submitVote" }
func (ContinueRound) Type() string { return "continueRound" }

func (m CreateRoom) room() string    { return m.RoomCode }
func (m JoinRoom) room() string      { return m.RoomCode }
func (m StartGame) room() string     { return m.RoomCode }
func (m NextTurn) room() string      { return m.RoomCode }
func (m SkipTurn) room() string      { return m.RoomCode }
func (m KickPlayer) room() string    { return m.RoomCode }
func (m PlayAgain) room() string     { return m.RoomCode }
func (m StartClues) room() string    { return m.RoomCode }
func (m SubmitClue) room() string    { return m.RoomCode }
func (m StartVoting) room() string   { return m.RoomCode }
func (m SubmitVote) room() string    { return m.RoomCode }
func (m ContinueRound) room() string { return m.RoomCode }

// DecodeCommand parses one client frame. Malformed frames, and frames
// missing the fields a command cannot do without, yield ErrInvalidFormat;
// well-formed frames of an unrecognised type yield ErrUnknownMessage.
func DecodeCommand(data []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var cmd Command
	var err error

	switch env.Type {
	case "createRoom":
		var m CreateRoom
		if err = decodePayload(env.Payload, &m); err == nil {
			m.RoomCode = NormalizeRoomCode(m.RoomCode)
			m.PlayerName = strings.TrimSpace(m.PlayerName)
			m.PlayerID = strings.TrimSpace(m.PlayerID)
			m.Category = strings.TrimSpace(m.Category)
			if !ValidRoomCode(m.RoomCode) || m.PlayerName == "" || m.PlayerID == "" {
				err = ErrInvalidFormat
			}
		}
		cmd = m
	case "joinRoom":
		var m JoinRoom
		if err = decodePayload(env.Payload, &m); err == nil {
			m.RoomCode = NormalizeRoomCode(m.RoomCode)
			m.PlayerName = strings.TrimSpace(m.PlayerName)
			m.PlayerID = strings.TrimSpace(m.PlayerID)
			if m.RoomCode == "" || m.PlayerName == "" || m.PlayerID == "" {
				err = ErrInvalidFormat
			}
		}
		cmd = m
	case "startGame":
		var m StartGame
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "nextTurn":
		var m NextTurn
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "skipTurn":
		var m SkipTurn
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "kickPlayer":
		var m KickPlayer
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "playAgain":
		var m PlayAgain
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "startClues":
		var m StartClues
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "submitClue":
		var m SubmitClue
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		m.Clue = strings.TrimSpace(m.Clue)
		cmd = m
	case "startVoting":
		var m StartVoting
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "submitVote":
		var m SubmitVote
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	case "continueRound":
		var m ContinueRound
		err = decodePayload(env.Payload, &m)
		m.RoomCode = NormalizeRoomCode(m.RoomCode)
		cmd = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}

	if err != nil {
		return nil, err
	}

	return cmd, nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return ErrInvalidFormat
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return nil
}

// EncodeCommand frames a command for the wire.
func EncodeCommand(cmd Command) ([]byte, error) {
	return encode(cmd.Type(), cmd)
}

// Event is a message sent by the server.
type Event interface {
	Type() string
}

type RoomState struct {
	RoomCode      string         `json:"roomCode"`
	Players       []PublicPlayer `json:"players"`
	Category      string         `json:"category"`
	ImpostorCount int            `json:"impostorCount"`
	IsAdmin       bool           `json:"isAdmin"`
	PlayerID      string         `json:"playerId"`
}

type PlayerJoined struct {
	Players []PublicPlayer `json:"players"`
}

type PlayerLeft struct {
	Players []PublicPlayer `json:"players"`
}

type PlayerKicked struct {
	Players          []PublicPlayer `json:"players"`
	CurrentTurnIndex int            `json:"currentTurnIndex"`
	TurnsComplete    bool           `json:"turnsComplete"`
}

// GameStarted is built per connection: Player is the recipient's own
// record, secret word included.
type GameStarted struct {
	Player           Player         `json:"player"`
	CurrentTurnIndex int            `json:"currentTurnIndex"`
	TotalPlayers     int            `json:"totalPlayers"`
	StartingPlayer   string         `json:"startingPlayer"`
	PublicPlayers    []PublicPlayer `json:"publicPlayers"`
	GamePhase        Phase          `json:"gamePhase"`
	TurnsComplete    bool           `json:"turnsComplete"`
}

type TurnUpdate struct {
	CurrentTurnIndex  int    `json:"currentTurnIndex"`
	CurrentPlayerName string `json:"currentPlayerName"`
	TurnsComplete     bool   `json:"turnsComplete"`
}

type CluesStarted struct {
	GamePhase      Phase    `json:"gamePhase"`
	Clues          []Clue   `json:"clues"`
	Votes          []Vote   `json:"votes"`
	Round          int      `json:"round"`
	EliminatedIDs  []string `json:"eliminatedIds"`
	StartingPlayer string   `json:"startingPlayer,omitempty"`
}

type ClueSubmitted struct {
	Clues        []Clue `json:"clues"`
	AllSubmitted bool   `json:"allSubmitted"`
}

type VotingStarted struct {
	GamePhase Phase          `json:"gamePhase"`
	Players   []PublicPlayer `json:"players"`
	Votes     []Vote         `json:"votes"`
	Clues     []Clue         `json:"clues"`
}

type VoteSubmitted struct {
	VotesCount     int      `json:"votesCount"`
	TotalPlayers   int      `json:"totalPlayers"`
	VotedPlayerIDs []string `json:"votedPlayerIds"`
	Votes          []Vote   `json:"votes"`
}

// VotingResults reveals every role and word.
type VotingResults struct {
	GamePhase Phase    `json:"gamePhase"`
	Votes     []Vote   `json:"votes"`
	Players   []Player `json:"players"`
}

type Kicked struct {
	Message string `json:"message"`
}

type Error struct {
	Message string `json:"message"`
}

func (RoomState) Type() string     { return "roomState" }
func (PlayerJoined) Type() string  { return "playerJoined" }
func (PlayerLeft) Type() string    { return "playerLeft" }
func (PlayerKicked) Type() string  { return "playerKicked" }
func (GameStarted) Type() string   { return "gameStarted" }
func (TurnUpdate) Type() string    { return "turnUpdate" }
func (CluesStarted) Type() string  { return "cluesStarted" }
func (ClueSubmitted) Type() string { return "clueSubmitted" }
func (VotingStarted) Type() string { return "votingStarted" }
func (VoteSubmitted) Type() string { return "voteSubmitted" }
func (VotingResults) Type() string { return "votingResults" }
func (Kicked) Type() string        { return "kicked" }
func (Error) Type() string         { return "error" }

// EncodeEvent frames an event for the wire.
func EncodeEvent(ev Event) ([]byte, error) {
	return encode(ev.Type(), ev)
}

// DecodeEvent parses one server frame.
func DecodeEvent(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	switch env.Type {
	case "roomState":
		return decodeEvent[RoomState](env.Payload)
	case "playerJoined":
		return decodeEvent[PlayerJoined](env.Payload)
	case "playerLeft":
		return decodeEvent[PlayerLeft](env.Payload)
	case "playerKicked":
		return decodeEvent[PlayerKicked](env.Payload)
	case "gameStarted":
		return decodeEvent[GameStarted](env.Payload)
	case "turnUpdate":
		return decodeEvent[TurnUpdate](env.Payload)
	case "cluesStarted":
		return decodeEvent[CluesStarted](env.Payload)
	case "clueSubmitted":
		return decodeEvent[ClueSubmitted](env.Payload)
	case "votingStarted":
		return decodeEvent[VotingStarted](env.Payload)
	case "voteSubmitted":
		return decodeEvent[VoteSubmitted](env.Payload)
	case "votingResults":
		return decodeEvent[VotingResults](env.Payload)
	case "kicked":
		return decodeEvent[Kicked](env.Payload)
	case "error":
		return decodeEvent[Error](env.Payload)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
}

func decodeEvent[T Event](raw json.RawMessage) (Event, error) {
	var ev T
	if err := decodePayload(raw, &ev); err != nil {
		return nil, err
	}

	return ev, nil
}

func encode(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", kind, err)
	}

	return json.Marshal(Envelope{Type: kind, Payload: raw})
}
