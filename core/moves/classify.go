package moves

import "github.com/huangsam/slipstat/schema"

// Classify folds one frame snapshot into record. It increments the base move
// for the action state, if any, and every technique the frame satisfies.
func Classify(snap schema.FrameSnapshot, record *schema.PlayerMoveRecord) {
	if record.Moves == nil {
		record.Moves = schema.MoveCount{}
	}
	if name, ok := Lookup(snap.ActionState); ok {
		record.Moves.Inc(name)
	}
	for _, name := range DetectTechniques(snap, record.Character) {
		record.Moves.Inc(name)
	}
}
