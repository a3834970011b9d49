// Package slippi decodes .slp replay files into games the move pipeline can read.
//
// Only the events the classifier needs are interpreted: game start, leader
// pre-frame and post-frame updates. Every other command listed in the event
// payload table is skipped by its declared size.
package slippi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/slipstat/internal/contract"
	"github.com/huangsam/slipstat/schema"
)

// ErrMalformedReplay is returned when a replay cannot be decoded as a whole.
var ErrMalformedReplay = errors.New("malformed replay")

// Event commands.
const (
	cmdEventPayloads byte = 0x35
	cmdGameStart     byte = 0x36
	cmdPreFrame      byte = 0x37
	cmdPostFrame     byte = 0x38
	cmdGameEnd       byte = 0x39
)

// Payload offsets, counted from the command byte.
const (
	startIsTeams     = 0x0D
	startStage       = 0x13
	startCharacter   = 0x65
	startPlayerType  = 0x66
	startStocks      = 0x67
	startCostume     = 0x68
	startTeam        = 0x6E
	startPlayerBlock = 0x24

	frameNumber   = 0x01
	frameIndex    = 0x05
	frameFollower = 0x06

	preActionState = 0x0B
	preButtons     = 0x2D

	postAirborne = 0x2F
)

const (
	maxPorts        = 4
	playerTypeEmpty = 3
	minStartSize    = startTeam + startPlayerBlock*(maxPorts-1) + 1
	minPreSize      = preButtons + 4
	minFrameSize    = frameFollower + 1

	// maxFrames bounds the frame list at eight hours of play at 60 fps.
	maxFrames = 8 * 60 * 60 * 60
)

// rawHeader opens the UBJSON "raw" byte array of a .slp file. A big-endian
// uint32 length follows it.
var rawHeader = []byte("{U\x03raw[$U#l")

// Decoder reads .slp replays.
type Decoder struct{}

var _ contract.ReplayDecoder = &Decoder{} // Compile-time check

// NewDecoder returns a replay decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reads a whole replay. It accepts either a complete .slp file or a
// bare event stream starting with the event payloads command.
func (d *Decoder) Decode(r io.Reader) (*schema.Game, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	raw, err := rawEvents(data)
	if err != nil {
		return nil, err
	}
	return parseEvents(raw)
}

// rawEvents strips the UBJSON wrapper and returns the event stream.
func rawEvents(data []byte) ([]byte, error) {
	if len(data) > 0 && data[0] == cmdEventPayloads {
		return data, nil
	}
	if !bytes.HasPrefix(data, rawHeader) || len(data) < len(rawHeader)+4 {
		return nil, fmt.Errorf("%w: missing raw header", ErrMalformedReplay)
	}
	n := int(binary.BigEndian.Uint32(data[len(rawHeader):]))
	body := data[len(rawHeader)+4:]
	if n == 0 {
		return nil, fmt.Errorf("%w: replay is still being written", ErrMalformedReplay)
	}
	if n > len(body) {
		return nil, fmt.Errorf("%w: raw length %d exceeds %d available bytes", ErrMalformedReplay, n, len(body))
	}
	return body[:n], nil
}

// slot holds one port's data for one frame.
type slot struct {
	present bool
	snap    schema.FrameSnapshot
}

// gameBuilder accumulates events into a schema.Game.
type gameBuilder struct {
	start      *schema.GameStart
	firstFrame int32
	started    bool
	frames     [][maxPorts]slot
}

// slotFor returns the slot for a frame number, growing the frame list.
// Rollback replays resend frames; later events overwrite earlier ones.
func (b *gameBuilder) slotFor(frame int32, index uint8) (*slot, error) {
	if index >= maxPorts {
		return nil, fmt.Errorf("%w: player index %d out of range", ErrMalformedReplay, index)
	}
	if !b.started {
		b.firstFrame = frame
		b.started = true
	}
	i := int(frame) - int(b.firstFrame)
	if i < 0 {
		return nil, fmt.Errorf("%w: frame %d precedes first frame %d", ErrMalformedReplay, frame, b.firstFrame)
	}
	if i >= maxFrames {
		return nil, fmt.Errorf("%w: frame %d is %d frames past the first, limit is %d", ErrMalformedReplay, frame, i, maxFrames)
	}
	for len(b.frames) <= i {
		b.frames = append(b.frames, [maxPorts]slot{})
	}
	return &b.frames[i][index], nil
}

func parseEvents(raw []byte) (*schema.Game, error) {
	sizes, pos, err := parsePayloadSizes(raw)
	if err != nil {
		return nil, err
	}

	b := &gameBuilder{}
events:
	for pos < len(raw) {
		cmd := raw[pos]
		size, ok := sizes[cmd]
		if !ok {
			return nil, fmt.Errorf("%w: unknown command 0x%02x at offset %d", ErrMalformedReplay, cmd, pos)
		}
		end := pos + 1 + size
		if end > len(raw) {
			return nil, fmt.Errorf("%w: command 0x%02x truncated at offset %d", ErrMalformedReplay, cmd, pos)
		}
		payload := raw[pos:end]
		pos = end

		switch cmd {
		case cmdGameStart:
			start, err := parseGameStart(payload)
			if err != nil {
				return nil, err
			}
			b.start = start
		case cmdPreFrame:
			if err := b.addPreFrame(payload); err != nil {
				return nil, err
			}
		case cmdPostFrame:
			if err := b.addPostFrame(payload); err != nil {
				return nil, err
			}
		case cmdGameEnd:
			break events
		}
	}

	if b.start == nil {
		return nil, fmt.Errorf("%w: no game start event", ErrMalformedReplay)
	}
	return b.build(), nil
}

// parsePayloadSizes reads the leading event payloads command and returns the
// payload size of every command plus the offset of the next event.
func parsePayloadSizes(raw []byte) (map[byte]int, int, error) {
	if len(raw) < 2 || raw[0] != cmdEventPayloads {
		return nil, 0, fmt.Errorf("%w: event stream must start with event payloads", ErrMalformedReplay)
	}
	size := int(raw[1])
	if size < 1 || (size-1)%3 != 0 || 1+size > len(raw) {
		return nil, 0, fmt.Errorf("%w: bad event payloads size %d", ErrMalformedReplay, size)
	}
	sizes := map[byte]int{cmdEventPayloads: size}
	for i := 2; i < 1+size; i += 3 {
		sizes[raw[i]] = int(binary.BigEndian.Uint16(raw[i+1:]))
	}
	return sizes, 1 + size, nil
}

func parseGameStart(p []byte) (*schema.GameStart, error) {
	if len(p) < minStartSize {
		return nil, fmt.Errorf("%w: game start payload too short (%d bytes)", ErrMalformedReplay, len(p))
	}
	start := &schema.GameStart{
		StageID: binary.BigEndian.Uint16(p[startStage:]),
		IsTeams: p[startIsTeams] != 0,
	}
	start.Stage = StageName(start.StageID)
	for i := range maxPorts {
		off := startPlayerBlock * i
		if p[startPlayerType+off] == playerTypeEmpty {
			continue
		}
		player := schema.PlayerInfo{
			Port:      uint8(i + 1),
			Character: CharacterName(p[startCharacter+off]),
			Stocks:    p[startStocks+off],
			Costume:   p[startCostume+off],
		}
		if start.IsTeams {
			team := TeamName(p[startTeam+off])
			player.Team = &team
		}
		start.Players = append(start.Players, player)
	}
	return start, nil
}

func (b *gameBuilder) addPreFrame(p []byte) error {
	if b.start == nil {
		return fmt.Errorf("%w: frame data before game start", ErrMalformedReplay)
	}
	if len(p) < minPreSize {
		return fmt.Errorf("%w: pre-frame payload too short (%d bytes)", ErrMalformedReplay, len(p))
	}
	if p[frameFollower] != 0 {
		return nil
	}
	s, err := b.slotFor(int32(binary.BigEndian.Uint32(p[frameNumber:])), p[frameIndex])
	if err != nil {
		return err
	}
	airborne := s.snap.Airborne
	s.present = true
	s.snap = schema.FrameSnapshot{
		Port:        p[frameIndex] + 1,
		ActionState: binary.BigEndian.Uint16(p[preActionState:]),
		Buttons:     binary.BigEndian.Uint32(p[preButtons:]),
		Airborne:    airborne,
	}
	return nil
}

func (b *gameBuilder) addPostFrame(p []byte) error {
	if b.start == nil {
		return fmt.Errorf("%w: frame data before game start", ErrMalformedReplay)
	}
	if len(p) < minFrameSize {
		return fmt.Errorf("%w: post-frame payload too short (%d bytes)", ErrMalformedReplay, len(p))
	}
	if p[frameFollower] != 0 {
		return nil
	}
	s, err := b.slotFor(int32(binary.BigEndian.Uint32(p[frameNumber:])), p[frameIndex])
	if err != nil {
		return err
	}
	// Older replays end the post-frame payload before the airborne flag
	if len(p) > postAirborne {
		airborne := p[postAirborne]
		s.snap.Airborne = &airborne
	}
	return nil
}

func (b *gameBuilder) build() *schema.Game {
	game := &schema.Game{
		Start:  *b.start,
		Frames: make([]schema.Frame, len(b.frames)),
	}
	for i, slots := range b.frames {
		frame := schema.Frame{Index: i}
		for _, s := range slots {
			if s.present {
				frame.Ports = append(frame.Ports, s.snap)
			}
		}
		game.Frames[i] = frame
	}
	return game
}
