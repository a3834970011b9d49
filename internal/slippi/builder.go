package slippi

import (
	"bytes"
	"encoding/binary"
)

// Payload sizes written by ReplayBuilder, excluding the command byte.
const (
	builderStartSize      = 0x1A0
	builderPreSize        = 0x40
	builderPostSize       = 0x34
	builderEndSize        = 0x02
	builderFrameStartSize = 0x08

	// CmdFrameStart is a command the decoder skips by size.
	CmdFrameStart byte = 0x3A
)

// BuilderPlayer describes one occupied port for ReplayBuilder.GameStart.
type BuilderPlayer struct {
	Index     uint8 // zero-based; port is Index+1
	Character uint8 // external character ID
	Stocks    uint8
	Costume   uint8
	Team      uint8
}

// ReplayBuilder writes synthetic .slp replays. It backs the decoder tests and
// fixtures for packages that read replays.
type ReplayBuilder struct {
	events bytes.Buffer
}

// NewReplayBuilder returns a builder with the event payloads table written.
func NewReplayBuilder() *ReplayBuilder {
	b := &ReplayBuilder{}
	entries := []struct {
		cmd  byte
		size uint16
	}{
		{cmdGameStart, builderStartSize},
		{cmdPreFrame, builderPreSize},
		{cmdPostFrame, builderPostSize},
		{cmdGameEnd, builderEndSize},
		{CmdFrameStart, builderFrameStartSize},
	}
	b.events.WriteByte(cmdEventPayloads)
	b.events.WriteByte(byte(1 + 3*len(entries)))
	for _, e := range entries {
		b.events.WriteByte(e.cmd)
		_ = binary.Write(&b.events, binary.BigEndian, e.size)
	}
	return b
}

// GameStart writes a game start event.
func (b *ReplayBuilder) GameStart(stage uint16, teams bool, players ...BuilderPlayer) *ReplayBuilder {
	p := make([]byte, 1+builderStartSize)
	p[0] = cmdGameStart
	if teams {
		p[startIsTeams] = 1
	}
	binary.BigEndian.PutUint16(p[startStage:], stage)
	for i := range maxPorts {
		p[startPlayerType+startPlayerBlock*i] = playerTypeEmpty
	}
	for _, pl := range players {
		off := startPlayerBlock * int(pl.Index)
		p[startCharacter+off] = pl.Character
		p[startPlayerType+off] = 0
		p[startStocks+off] = pl.Stocks
		p[startCostume+off] = pl.Costume
		p[startTeam+off] = pl.Team
	}
	b.events.Write(p)
	return b
}

// Pre writes a pre-frame update.
func (b *ReplayBuilder) Pre(frame int32, index uint8, follower bool, actionState uint16, buttons uint32) *ReplayBuilder {
	p := frameHeader(cmdPreFrame, builderPreSize, frame, index, follower)
	binary.BigEndian.PutUint16(p[preActionState:], actionState)
	binary.BigEndian.PutUint32(p[preButtons:], buttons)
	b.events.Write(p)
	return b
}

// Post writes a post-frame update.
func (b *ReplayBuilder) Post(frame int32, index uint8, follower bool, airborne uint8) *ReplayBuilder {
	p := frameHeader(cmdPostFrame, builderPostSize, frame, index, follower)
	p[postAirborne] = airborne
	b.events.Write(p)
	return b
}

// Frame writes a leader pre-frame and post-frame pair.
func (b *ReplayBuilder) Frame(frame int32, index uint8, actionState uint16, buttons uint32, airborne uint8) *ReplayBuilder {
	return b.Pre(frame, index, false, actionState, buttons).Post(frame, index, false, airborne)
}

// FrameStart writes an event the decoder does not interpret.
func (b *ReplayBuilder) FrameStart(frame int32) *ReplayBuilder {
	p := make([]byte, 1+builderFrameStartSize)
	p[0] = CmdFrameStart
	binary.BigEndian.PutUint32(p[frameNumber:], uint32(frame))
	b.events.Write(p)
	return b
}

// GameEnd writes a game end event.
func (b *ReplayBuilder) GameEnd() *ReplayBuilder {
	p := make([]byte, 1+builderEndSize)
	p[0] = cmdGameEnd
	b.events.Write(p)
	return b
}

// Events returns the bare event stream.
func (b *ReplayBuilder) Events() []byte {
	return bytes.Clone(b.events.Bytes())
}

// Bytes returns a complete .slp file with an empty metadata block.
func (b *ReplayBuilder) Bytes() []byte {
	var out bytes.Buffer
	out.Write(rawHeader)
	_ = binary.Write(&out, binary.BigEndian, uint32(b.events.Len()))
	out.Write(b.events.Bytes())
	out.WriteString("U\x08metadata{}}")
	return out.Bytes()
}

func frameHeader(cmd byte, size int, frame int32, index uint8, follower bool) []byte {
	p := make([]byte, 1+size)
	p[0] = cmd
	binary.BigEndian.PutUint32(p[frameNumber:], uint32(frame))
	p[frameIndex] = index
	if follower {
		p[frameFollower] = 1
	}
	return p
}
